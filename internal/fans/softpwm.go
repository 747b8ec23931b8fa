package fans

import (
	"github.com/markusressel/pwmfan/internal/util"
	"sync"
	"time"
)

// outputLine is a single digital output, e.g. a GPIO line
type outputLine interface {
	SetValue(value int) error
	Close() error
}

// softPwm generates a PWM signal on a digital output line by toggling it
// from a dedicated goroutine. 0% and 100% hold the line steady.
type softPwm struct {
	line   outputLine
	period time.Duration

	mu        sync.Mutex
	dutyCycle float64
	lastErr   error

	update chan struct{}
	stop   chan struct{}
	done   chan struct{}
}

func newSoftPwm(line outputLine, frequency int) *softPwm {
	return &softPwm{
		line:   line,
		period: time.Second / time.Duration(frequency),
		update: make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (p *softPwm) start() {
	go p.run()
}

// setDutyCycle changes the duty cycle starting with the next period.
// Returns the last error the generator ran into while driving the line, if any.
func (p *softPwm) setDutyCycle(percent float64) error {
	p.mu.Lock()
	p.dutyCycle = percent
	err := p.lastErr
	p.lastErr = nil
	p.mu.Unlock()

	select {
	case p.update <- struct{}{}:
	default:
	}
	return err
}

// close stops the generator and leaves the line low
func (p *softPwm) close() error {
	close(p.stop)
	<-p.done
	return p.line.SetValue(0)
}

func (p *softPwm) getDutyCycle() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dutyCycle
}

func (p *softPwm) setValue(value int) {
	if err := p.line.SetValue(value); err != nil {
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
	}
}

func (p *softPwm) run() {
	defer close(p.done)

	timer := time.NewTimer(0)
	<-timer.C
	defer timer.Stop()

	// wait returns false if the generator should stop
	wait := func(d time.Duration) bool {
		timer.Reset(d)
		select {
		case <-timer.C:
			return true
		case <-p.update:
			timer.Stop()
			return true
		case <-p.stop:
			return false
		}
	}

	idle := func() bool {
		select {
		case <-p.update:
			return true
		case <-p.stop:
			return false
		}
	}

	for {
		dutyCycle := p.getDutyCycle()
		switch {
		case dutyCycle <= 0:
			p.setValue(0)
			if !idle() {
				return
			}
		case dutyCycle >= 100:
			p.setValue(1)
			if !idle() {
				return
			}
		default:
			high := time.Duration(float64(p.period) * util.Ratio(dutyCycle, util.MinDutyCycle, util.MaxDutyCycle))
			p.setValue(1)
			if !wait(high) {
				return
			}
			p.setValue(0)
			if !wait(p.period - high) {
				return
			}
		}
	}
}

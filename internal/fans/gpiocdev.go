package fans

import (
	"fmt"
	"github.com/markusressel/pwmfan/internal/util"
	"sync"
)

const gpioConsumer = "pwmfan"

// GpiocdevFan drives a fan via a software PWM signal on a GPIO line
// of the Linux GPIO character device.
type GpiocdevFan struct {
	Chip      string `json:"chip"`
	Line      int    `json:"line"`
	Frequency int    `json:"frequency"`

	mu        sync.Mutex
	pwm       *softPwm
	released  bool
	dutyCycle float64
}

var openLineFn = openLine

func NewGpiocdevFan(chip string, line int, frequency int) *GpiocdevFan {
	return &GpiocdevFan{
		Chip:      chip,
		Line:      line,
		Frequency: frequency,
	}
}

func (fan *GpiocdevFan) GetId() string {
	return fmt.Sprintf("%s:%d", fan.Chip, fan.Line)
}

func (fan *GpiocdevFan) Open() error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.pwm != nil {
		return nil
	}
	if fan.Frequency <= 0 {
		return fmt.Errorf("fan %s: invalid frequency %d", fan.GetId(), fan.Frequency)
	}

	line, err := openLineFn(fan.Chip, fan.Line)
	if err != nil {
		return fmt.Errorf("fan %s: %w", fan.GetId(), err)
	}
	fan.pwm = newSoftPwm(line, fan.Frequency)
	fan.pwm.start()
	return nil
}

func (fan *GpiocdevFan) SetDutyCycle(percent float64) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.released {
		return ErrReleased
	}
	if fan.pwm == nil {
		return ErrNotOpen
	}

	percent = util.ClampDutyCycle(percent)
	if err := fan.pwm.setDutyCycle(percent); err != nil {
		return fmt.Errorf("fan %s: %w", fan.GetId(), err)
	}
	fan.dutyCycle = percent
	return nil
}

func (fan *GpiocdevFan) GetDutyCycle() float64 {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return fan.dutyCycle
}

func (fan *GpiocdevFan) Release() error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.released || fan.pwm == nil {
		fan.released = true
		return nil
	}
	fan.released = true

	pwm := fan.pwm
	fan.pwm = nil
	err := pwm.close()
	if closeErr := pwm.line.Close(); err == nil {
		err = closeErr
	}
	fan.dutyCycle = 0
	return err
}

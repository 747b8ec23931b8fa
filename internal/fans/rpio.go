package fans

import (
	"fmt"
	"github.com/markusressel/pwmfan/internal/util"
	"github.com/stianeikeland/go-rpio"
	"golang.org/x/exp/slices"
	"math"
	"sync"
)

// rpioCycleLength is the number of PWM clock ticks per period,
// which gives a duty cycle resolution of 1%
const rpioCycleLength = 100

// pins with a hardware PWM channel on the Raspberry Pi header (BCM numbering)
var rpioPwmPins = []int{12, 13, 18, 19}

// RpioFan drives a fan using the hardware PWM of a Raspberry Pi.
// The PWM and clock registers are mapped from /dev/mem, which requires root.
type RpioFan struct {
	Pin       int `json:"pin"`
	Frequency int `json:"frequency"`

	mu        sync.Mutex
	open      bool
	released  bool
	dutyCycle float64
}

func NewRpioFan(pin int, frequency int) *RpioFan {
	return &RpioFan{
		Pin:       pin,
		Frequency: frequency,
	}
}

func (fan *RpioFan) GetId() string {
	return fmt.Sprintf("rpio:%d", fan.Pin)
}

func (fan *RpioFan) Open() error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.open {
		return nil
	}
	if !slices.Contains(rpioPwmPins, fan.Pin) {
		return fmt.Errorf("fan %s: GPIO %d has no hardware PWM, use one of %v", fan.GetId(), fan.Pin, rpioPwmPins)
	}
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("fan %s: %w", fan.GetId(), err)
	}

	pin := rpio.Pin(fan.Pin)
	pin.Mode(rpio.Pwm)
	pin.Freq(fan.Frequency * rpioCycleLength)
	pin.DutyCycle(0, rpioCycleLength)

	fan.open = true
	return nil
}

func (fan *RpioFan) SetDutyCycle(percent float64) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.released {
		return ErrReleased
	}
	if !fan.open {
		return ErrNotOpen
	}

	percent = util.ClampDutyCycle(percent)
	rpio.Pin(fan.Pin).DutyCycle(rpioDutyLength(percent), rpioCycleLength)
	fan.dutyCycle = percent
	return nil
}

func (fan *RpioFan) GetDutyCycle() float64 {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return fan.dutyCycle
}

func (fan *RpioFan) Release() error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.released || !fan.open {
		fan.released = true
		return nil
	}
	fan.released = true
	fan.open = false

	pin := rpio.Pin(fan.Pin)
	pin.DutyCycle(0, rpioCycleLength)
	pin.Output()
	pin.Low()
	fan.dutyCycle = 0
	return rpio.Close()
}

// rpioDutyLength converts a duty cycle percentage to clock ticks within one period
func rpioDutyLength(percent float64) uint32 {
	ticks := math.Round(util.Ratio(util.ClampDutyCycle(percent), util.MinDutyCycle, util.MaxDutyCycle) * rpioCycleLength)
	return uint32(ticks)
}

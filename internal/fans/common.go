package fans

import (
	"errors"
	"fmt"
	"github.com/markusressel/pwmfan/internal/configuration"
)

var (
	ErrNotOpen  = errors.New("fan is not open")
	ErrReleased = errors.New("fan has already been released")
)

// Fan is the PWM output a fan is connected to.
// Open must succeed before SetDutyCycle is used, Release hands the
// hardware back and is safe to call more than once.
type Fan interface {
	GetId() string

	// Open acquires the underlying hardware resource
	Open() error

	// SetDutyCycle applies the given duty cycle in percent [0..100]
	SetDutyCycle(percent float64) error

	// GetDutyCycle returns the last duty cycle that was applied successfully
	GetDutyCycle() float64

	// Release gives the hardware resource back
	Release() error
}

func NewFan(config configuration.Configuration) (Fan, error) {
	switch config.PwmBackend {
	case configuration.PwmBackendGpiocdev:
		return NewGpiocdevFan(config.GpioChip, config.PwmGpio, config.PwmFrequency), nil
	case configuration.PwmBackendRpio:
		return NewRpioFan(config.PwmGpio, config.PwmFrequency), nil
	case configuration.PwmBackendFile:
		return NewFileFan(config.PwmFile), nil
	}

	return nil, &configuration.ConfigurationError{
		Key:    "pwm_backend",
		Reason: fmt.Sprintf("no matching fan type for backend: %s", config.PwmBackend),
	}
}

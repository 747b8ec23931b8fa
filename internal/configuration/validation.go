package configuration

import (
	"fmt"
	"github.com/markusressel/pwmfan/internal/ui"
	"github.com/markusressel/pwmfan/internal/util"
	"golang.org/x/exp/slices"
	"strings"
)

// ConfigurationError is returned for invalid settings.
// It is always fatal and is reported before any hardware is touched.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Key, e.Reason)
}

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	err := validateDutyCycles(config)
	if err != nil {
		return err
	}
	err = validateThresholds(config)
	if err != nil {
		return err
	}
	err = validateFan(config)
	if err != nil {
		return err
	}
	validateTemperatureSource(config)

	return nil
}

func validateDutyCycles(config *Configuration) error {
	dutyCycles := []struct {
		key   string
		value float64
	}{
		{"idle_duty_cycle", config.IdleDutyCycle},
		{"threshold_on_duty_cycle", config.ThresholdOnDutyCycle},
		{"threshold_off_duty_cycle", config.ThresholdOffDutyCycle.Get()},
	}
	if config.StaticDutyCycle.Present {
		dutyCycles = append(dutyCycles, struct {
			key   string
			value float64
		}{"static_duty_cycle", config.StaticDutyCycle.Get()})
	}

	for _, dutyCycle := range dutyCycles {
		if !util.IsValidDutyCycle(dutyCycle.value) {
			return &ConfigurationError{
				Key:    dutyCycle.key,
				Reason: fmt.Sprintf("must be between 0 and 100, was %v", dutyCycle.value),
			}
		}
	}

	return nil
}

func validateThresholds(config *Configuration) error {
	if config.UpdateInterval <= 0 {
		return &ConfigurationError{
			Key:    "update_interval",
			Reason: fmt.Sprintf("must be > 0, was %d", config.UpdateInterval),
		}
	}

	if config.TempOffThreshold > config.TempOnThreshold {
		ui.Warning("temp_off_threshold (%.1f°C) is above temp_on_threshold (%.1f°C), the fan may switch on and off on every update",
			config.TempOffThreshold, config.TempOnThreshold)
	}

	return nil
}

func validateFan(config *Configuration) error {
	supportedBackends := []string{PwmBackendGpiocdev, PwmBackendRpio, PwmBackendFile}
	if !slices.Contains(supportedBackends, config.PwmBackend) {
		return &ConfigurationError{
			Key:    "pwm_backend",
			Reason: fmt.Sprintf("unsupported backend '%s', use one of: %s", config.PwmBackend, strings.Join(supportedBackends, " | ")),
		}
	}

	if config.PwmGpio < 0 {
		return &ConfigurationError{
			Key:    "pwm_gpio",
			Reason: fmt.Sprintf("must be >= 0, was %d", config.PwmGpio),
		}
	}

	if config.PwmFrequency <= 0 {
		return &ConfigurationError{
			Key:    "pwm_frequency",
			Reason: fmt.Sprintf("must be > 0, was %d", config.PwmFrequency),
		}
	}

	if config.PwmBackend == PwmBackendFile && len(config.PwmFile) <= 0 {
		return &ConfigurationError{
			Key:    "pwm_file",
			Reason: "required when using the file backend",
		}
	}

	if config.PwmBackend == PwmBackendGpiocdev && len(config.GpioChip) <= 0 {
		return &ConfigurationError{
			Key:    "gpio_chip",
			Reason: "required when using the gpiocdev backend",
		}
	}

	return nil
}

func validateTemperatureSource(config *Configuration) {
	hasEndpoint := len(config.PrometheusEndpoint) > 0
	hasMetric := len(config.PrometheusMetricName) > 0
	if hasEndpoint != hasMetric {
		ui.Warning("prometheus_endpoint and prometheus_metric_name must both be set to use a remote temperature, using %s only", config.TempFile)
	}
}

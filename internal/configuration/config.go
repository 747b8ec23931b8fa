package configuration

import (
	"errors"
	"github.com/markusressel/pwmfan/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"strings"
	"time"
)

const (
	PwmBackendGpiocdev = "gpiocdev"
	PwmBackendRpio     = "rpio"
	PwmBackendFile     = "file"

	DefaultTempFile = "/sys/class/thermal/thermal_zone0/temp"
)

type Configuration struct {
	// PwmGpio is the GPIO line (BCM numbering) the fan PWM input is connected to
	PwmGpio      int    `json:"pwmGpio" mapstructure:"pwm_gpio"`
	PwmFrequency int    `json:"pwmFrequency" mapstructure:"pwm_frequency"`
	PwmBackend   string `json:"pwmBackend" mapstructure:"pwm_backend"`
	GpioChip     string `json:"gpioChip" mapstructure:"gpio_chip"`
	PwmFile      string `json:"pwmFile" mapstructure:"pwm_file"`

	// StaticDutyCycle disables threshold control when present
	StaticDutyCycle Optional[float64] `json:"staticDutyCycle" mapstructure:"static_duty_cycle"`

	TempOnThreshold  float64 `json:"tempOnThreshold" mapstructure:"temp_on_threshold"`
	TempOffThreshold float64 `json:"tempOffThreshold" mapstructure:"temp_off_threshold"`

	IdleDutyCycle         float64           `json:"idleDutyCycle" mapstructure:"idle_duty_cycle"`
	ThresholdOnDutyCycle  float64           `json:"thresholdOnDutyCycle" mapstructure:"threshold_on_duty_cycle"`
	ThresholdOffDutyCycle Optional[float64] `json:"thresholdOffDutyCycle" mapstructure:"threshold_off_duty_cycle"`

	TempFile string `json:"tempFile" mapstructure:"temp_file"`
	// UpdateInterval is the poll interval in seconds
	UpdateInterval int `json:"updateInterval" mapstructure:"update_interval"`

	PrometheusEndpoint   string        `json:"prometheusEndpoint" mapstructure:"prometheus_endpoint"`
	PrometheusMetricName string        `json:"prometheusMetricName" mapstructure:"prometheus_metric_name"`
	PrometheusTimeout    time.Duration `json:"prometheusTimeout" mapstructure:"prometheus_timeout"`

	Statistics StatisticsConfig `json:"statistics" mapstructure:"statistics"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("pwmfan")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		home, err := homedir.Dir()
		if err != nil {
			ui.Warning("Couldn't detect home directory: %v", err)
		} else {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath("/etc/pwmfan/")
	}

	// PWM_GPIO -> pwm_gpio, STATISTICS_PORT -> statistics.port
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaultValues()

	// keys without a default are only picked up from the environment when bound explicitly
	_ = viper.BindEnv("static_duty_cycle")
	_ = viper.BindEnv("threshold_off_duty_cycle")
}

func setDefaultValues() {
	viper.SetDefault("pwm_gpio", 18)
	viper.SetDefault("pwm_frequency", 100)
	viper.SetDefault("pwm_backend", PwmBackendGpiocdev)
	viper.SetDefault("gpio_chip", "gpiochip0")
	viper.SetDefault("pwm_file", "")

	viper.SetDefault("temp_on_threshold", 60.0)
	viper.SetDefault("temp_off_threshold", 50.0)
	viper.SetDefault("idle_duty_cycle", 0.0)
	viper.SetDefault("threshold_on_duty_cycle", 100.0)

	viper.SetDefault("temp_file", DefaultTempFile)
	viper.SetDefault("update_interval", 5)

	viper.SetDefault("prometheus_endpoint", "")
	viper.SetDefault("prometheus_metric_name", "")
	viper.SetDefault("prometheus_timeout", 5*time.Second)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)
}

// DetectAndReadConfigFile reads the config file, if one exists.
// Since every setting can also be given via environment variables, a missing file is not an error.
// Returns the path of the file that was used, or an empty string.
func DetectAndReadConfigFile() (string, error) {
	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", &ConfigurationError{Key: "config", Reason: err.Error()}
	}
	return viper.ConfigFileUsed(), nil
}

// LoadConfig decodes the current viper state into CurrentConfig
func LoadConfig() error {
	config, err := decodeConfig()
	if err != nil {
		return err
	}
	CurrentConfig = config
	return nil
}

func decodeConfig() (Configuration, error) {
	var config Configuration
	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			OptionalFloatHookFunc(),
			SecondsToDurationHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	))
	if err != nil {
		return config, &ConfigurationError{Key: "config", Reason: err.Error()}
	}

	// the off duty cycle follows the idle duty cycle unless it is given explicitly
	if !config.ThresholdOffDutyCycle.Present {
		config.ThresholdOffDutyCycle.Value = config.IdleDutyCycle
	}

	return config, nil
}

// IsStaticMode reports whether a fixed duty cycle replaces threshold control
func (c Configuration) IsStaticMode() bool {
	return c.StaticDutyCycle.Present
}

// IsPrometheusEnabled reports whether the remote metrics endpoint should be queried first
func (c Configuration) IsPrometheusEnabled() bool {
	return len(c.PrometheusEndpoint) > 0 && len(c.PrometheusMetricName) > 0
}

// PollInterval returns UpdateInterval as a duration
func (c Configuration) PollInterval() time.Duration {
	return time.Duration(c.UpdateInterval) * time.Second
}

// ReadAndValidate reads the config file (if any), decodes it into CurrentConfig and validates the result.
// Returns the path of the config file that was used, or an empty string.
func ReadAndValidate() (string, error) {
	configPath, err := DetectAndReadConfigFile()
	if err != nil {
		return configPath, err
	}
	if err = LoadConfig(); err != nil {
		return configPath, err
	}
	return configPath, Validate()
}

package config

import (
	"bytes"
	"fmt"
	"github.com/markusressel/pwmfan/cmd/global"
	"github.com/markusressel/pwmfan/internal/configuration"
	"github.com/markusressel/pwmfan/internal/ui"
	"github.com/markusressel/pwmfan/internal/util"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
	"os"
	"strconv"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Prints the effective configuration",
	Long:  `Prints all settings after defaults, config file and environment variables have been applied.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := configuration.ReadAndValidate()
		if err != nil {
			ui.Error("Validation failed: %v", err)
			os.Exit(1)
		}
		if len(configPath) > 0 {
			ui.Info("Using configuration file at: %s", configPath)
		}

		return printConfig(configuration.CurrentConfig, !global.NoColor)
	},
}

func init() {
	Command.AddCommand(printCmd)
}

// printConfig renders the effective settings as a table
func printConfig(config configuration.Configuration, color bool) error {
	tab := table.Table{
		Headers: []string{"Key", "Value"},
		Rows:    configRows(config),
	}
	var buf bytes.Buffer
	err := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           color,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if err != nil {
		return err
	}
	// the rendered table contains '%' signs, so it must not be used as format
	ui.Printfln("%s", buf.String())
	return nil
}

func configRows(config configuration.Configuration) [][]string {
	static := "unset"
	if config.IsStaticMode() {
		static = util.FormatDutyCycle(config.StaticDutyCycle.Get()) + "%"
	}
	remote := "disabled"
	if config.IsPrometheusEnabled() {
		remote = fmt.Sprintf("%s (%s)", config.PrometheusEndpoint, config.PrometheusMetricName)
	}

	return [][]string{
		{"pwm_backend", config.PwmBackend},
		{"pwm_gpio", strconv.Itoa(config.PwmGpio)},
		{"pwm_frequency", strconv.Itoa(config.PwmFrequency) + " Hz"},
		{"gpio_chip", config.GpioChip},
		{"pwm_file", config.PwmFile},
		{"static_duty_cycle", static},
		{"temp_on_threshold", util.FormatDutyCycle(config.TempOnThreshold) + " °C"},
		{"temp_off_threshold", util.FormatDutyCycle(config.TempOffThreshold) + " °C"},
		{"idle_duty_cycle", util.FormatDutyCycle(config.IdleDutyCycle) + "%"},
		{"threshold_on_duty_cycle", util.FormatDutyCycle(config.ThresholdOnDutyCycle) + "%"},
		{"threshold_off_duty_cycle", util.FormatDutyCycle(config.ThresholdOffDutyCycle.Get()) + "%"},
		{"temp_file", config.TempFile},
		{"update_interval", config.PollInterval().String()},
		{"prometheus", remote},
		{"prometheus_timeout", config.PrometheusTimeout.String()},
		{"statistics.enabled", strconv.FormatBool(config.Statistics.Enabled)},
		{"statistics.port", strconv.Itoa(config.Statistics.Port)},
	}
}

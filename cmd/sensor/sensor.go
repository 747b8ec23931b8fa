package sensor

import (
	"context"
	"errors"
	"fmt"
	"github.com/markusressel/pwmfan/internal/configuration"
	"github.com/markusressel/pwmfan/internal/sensors"
	"github.com/markusressel/pwmfan/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"os"
)

const (
	sourceAuto = "auto"
)

var source string

var Command = &cobra.Command{
	Use:   "sensor",
	Short: "Print the current temperature",
	Long: `Reads the temperature once and prints it in °C.
By default the remote endpoint is tried first and the local file is used as fallback.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		_, err := configuration.ReadAndValidate()
		if err != nil {
			pterm.EnableOutput()
			ui.Error("Validation failed: %v", err)
			os.Exit(1)
		}

		value, err := readTemperature(cmd.Context(), sensors.NewTemperatureSource(configuration.CurrentConfig), source)
		if err != nil {
			return err
		}
		fmt.Printf("%.2f\n", value)
		return nil
	},
}

func init() {
	Command.PersistentFlags().StringVarP(
		&source,
		"source", "s",
		sourceAuto,
		fmt.Sprintf("Temperature source, one of: %s | %s | %s", sourceAuto, sensors.SourcePrometheus, sensors.SourceFile),
	)
}

func readTemperature(ctx context.Context, temperatureSource *sensors.TemperatureSource, source string) (float64, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	switch source {
	case sourceAuto:
		temp := temperatureSource.Read(ctx)
		if !temp.Valid {
			return 0, errors.New("no temperature available")
		}
		return temp.Celsius, nil
	case sensors.SourcePrometheus:
		return temperatureSource.ReadRemote(ctx)
	case sensors.SourceFile:
		return temperatureSource.ReadLocal()
	}
	return 0, fmt.Errorf("unknown source '%s', use one of: %s | %s | %s", source, sourceAuto, sensors.SourcePrometheus, sensors.SourceFile)
}

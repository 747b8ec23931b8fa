package curve

import (
	"bytes"
	"fmt"
	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/pwmfan/cmd/global"
	"github.com/markusressel/pwmfan/internal/configuration"
	"github.com/markusressel/pwmfan/internal/controller"
	"github.com/markusressel/pwmfan/internal/ui"
	"github.com/markusressel/pwmfan/internal/util"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
	"golang.org/x/exp/slices"
	"math"
	"os"
)

const (
	margin = 10.0
	step   = 0.5
)

var Command = &cobra.Command{
	Use:   "curve",
	Short: "Print the hysteresis curve to console",
	Long: `Plots the duty cycle over temperature, once for rising (idle start)
and once for falling (high speed start) temperatures.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := configuration.ReadAndValidate()
		if err != nil {
			ui.Error("Validation failed: %v", err)
			os.Exit(1)
		}
		config := configuration.CurrentConfig

		if config.IsStaticMode() {
			ui.Printfln("Static mode, duty cycle is fixed at %s%%", util.FormatDutyCycle(config.StaticDutyCycle.Get()))
			return nil
		}

		return printCurve(controller.NewThresholds(config), !global.NoColor)
	},
}

// printCurve prints the thresholds and a plot of the duty cycle for rising and falling temperatures
func printCurve(thresholds controller.Thresholds, color bool) error {
	if err := printThresholds(thresholds, color); err != nil {
		return err
	}

	rising := temperatureRange(thresholds)
	falling := slices.Clone(rising)
	slices.Reverse(falling)

	risingPath := controller.SimulatePath(rising, controller.State{}, thresholds)
	fallingPath := controller.SimulatePath(falling, controller.State{HighSpeedMode: true}, thresholds)
	// plot both over ascending temperatures
	slices.Reverse(fallingPath)

	caption := fmt.Sprintf("Duty cycle %% / Temperature %.1f..%.1f °C (red: rising, blue: falling)", rising[0], rising[len(rising)-1])
	options := []asciigraph.Option{
		asciigraph.Height(15),
		asciigraph.Width(100),
		asciigraph.Caption(caption),
	}
	if color {
		options = append(options, asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue))
	}
	graph := asciigraph.PlotMany([][]float64{risingPath, fallingPath}, options...)
	ui.Printfln("%s", graph)
	return nil
}

func temperatureRange(thresholds controller.Thresholds) []float64 {
	start := math.Floor(math.Min(thresholds.TempOn, thresholds.TempOff) - margin)
	stop := math.Ceil(math.Max(thresholds.TempOn, thresholds.TempOff) + margin)

	var result []float64
	for temp := start; temp <= stop; temp += step {
		result = append(result, temp)
	}
	return result
}

func printThresholds(thresholds controller.Thresholds, color bool) error {
	tab := table.Table{
		Headers: []string{"", ""},
		Rows: [][]string{
			{"ON threshold", fmt.Sprintf("%.1f °C", thresholds.TempOn)},
			{"OFF threshold", fmt.Sprintf("%.1f °C", thresholds.TempOff)},
			{"ON duty cycle", util.FormatDutyCycle(thresholds.OnDutyCycle) + "%"},
			{"OFF duty cycle", util.FormatDutyCycle(thresholds.OffDutyCycle) + "%"},
		},
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
	ui.Printfln("%s", buf.String())
	return nil
}

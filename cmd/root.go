package cmd

import (
	"fmt"
	"github.com/markusressel/pwmfan/cmd/config"
	"github.com/markusressel/pwmfan/cmd/curve"
	"github.com/markusressel/pwmfan/cmd/global"
	"github.com/markusressel/pwmfan/cmd/sensor"
	"github.com/markusressel/pwmfan/internal"
	"github.com/markusressel/pwmfan/internal/configuration"
	"github.com/markusressel/pwmfan/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"os"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pwmfan",
	Short: "A daemon to control a PWM fan based on temperature.",
	Long: `pwmfan drives a single PWM fan using a two threshold hysteresis
on the CPU temperature, optionally taken from a prometheus endpoint.`,
	// this is the default command to run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		printHeader()

		configPath, err := configuration.ReadAndValidate()
		if err != nil {
			ui.Error("Config Validation Error: %v", err)
			os.Exit(1)
		}
		if len(configPath) > 0 {
			ui.Info("Using configuration file at: %s", configPath)
		}

		os.Exit(internal.RunDaemon(configuration.CurrentConfig))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is pwmfan.yaml in ., $HOME or /etc/pwmfan/)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(curve.Command)
	rootCmd.AddCommand(sensor.Command)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("pwm", pterm.NewStyle(pterm.FgLightBlue)),
		pterm.NewLettersFromStringWithStyle("fan", pterm.NewStyle(pterm.FgWhite)),
	).Render()
	if err != nil {
		fmt.Println("pwmfan")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		setupUi()
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

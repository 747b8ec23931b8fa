package internal

import (
	"context"
	"errors"
	"fmt"
	"github.com/markusressel/pwmfan/internal/api"
	"github.com/markusressel/pwmfan/internal/configuration"
	"github.com/markusressel/pwmfan/internal/controller"
	"github.com/markusressel/pwmfan/internal/fans"
	"github.com/markusressel/pwmfan/internal/sensors"
	"github.com/markusressel/pwmfan/internal/statistics"
	"github.com/markusressel/pwmfan/internal/ui"
	"github.com/oklog/run"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const defaultStatisticsPort = 9000

// RunDaemon controls the configured fan until SIGINT or SIGTERM is received.
// The returned value is the exit code of the process.
func RunDaemon(config configuration.Configuration) int {
	fan, err := fans.NewFan(config)
	if err != nil {
		ui.Error("Unable to create fan: %v", err)
		return 1
	}
	source := sensors.NewTemperatureSource(config)
	if source.HasRemote() {
		ui.Info("Reading temperature from %s, falling back to %s", config.PrometheusEndpoint, config.TempFile)
	} else {
		ui.Info("Reading temperature from %s", config.TempFile)
	}

	return runDaemon(context.Background(), config, fan, source)
}

func runDaemon(parent context.Context, config configuration.Configuration, fan fans.Fan, source controller.TemperatureReader) int {
	ui.Debug("Opening fan %s...", fan.GetId())
	if err := fan.Open(); err != nil {
		ui.Error("Error setting up GPIO: %v", err)
		return 1
	}
	ui.Info("GPIO setup complete.")
	defer shutdown(fan)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	fanController := controller.NewFanController(fan, source, config)

	var g run.Group
	{
		if config.Statistics.Enabled {
			port := config.Statistics.Port
			if port < 0 || port >= 65535 {
				port = defaultStatisticsPort
			}
			addr := fmt.Sprintf(":%d", port)
			registry := statistics.NewRegistry(fanController)
			restServer := api.CreateRestService(fanController, registry)

			g.Add(func() error {
				ui.Info("Starting statistics server on %s", addr)
				if err := restServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start statistics server: %v", err)
					<-ctx.Done()
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := restServer.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				}
				cancel()
			})
		}
	}
	{
		g.Add(func() error {
			err := fanController.Run(ctx)
			ui.Debug("Fan controller for fan %s stopped.", fan.GetId())
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Something went wrong: %v", err)
			}
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case s := <-sig:
				ui.Info("Received %s signal, exiting...", s)
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		ui.Error("%v", err)
		return 1
	}
	ui.Info("Done.")
	return 0
}

// shutdown stops the fan and hands the hardware back, it must only run after a successful Open
func shutdown(fan fans.Fan) {
	ui.Info("Shutting down gracefully...")
	ui.Debug("Stopping fan %s, last duty cycle was %.1f%%", fan.GetId(), fan.GetDutyCycle())
	if err := fan.SetDutyCycle(0); err != nil {
		ui.Warning("Error stopping fan %s: %v", fan.GetId(), err)
	}
	if err := fan.Release(); err != nil {
		ui.Warning("Error releasing fan %s: %v", fan.GetId(), err)
	}
}

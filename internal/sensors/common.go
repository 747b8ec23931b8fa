package sensors

import (
	"context"
	"github.com/asecurityteam/rolling"
	"github.com/markusressel/pwmfan/internal/configuration"
	"github.com/markusressel/pwmfan/internal/ui"
	"github.com/markusressel/pwmfan/internal/util"
)

const (
	SourcePrometheus = "prometheus"
	SourceFile       = "file"

	movingAvgWindowSize = 12
)

// Temperature is a single reading in degrees Celsius.
// A Temperature with Valid == false means no source yielded a value.
type Temperature struct {
	Celsius float64 `json:"celsius"`
	Source  string  `json:"source"`
	Valid   bool    `json:"valid"`
}

// Absent returns the Temperature used when no source yielded a value
func Absent() Temperature {
	return Temperature{}
}

// TemperatureSource prefers the remote metrics endpoint, if configured,
// and falls back to the local sensor file.
// Not safe for concurrent use.
type TemperatureSource struct {
	remote *PrometheusSensor
	local  FileSensor

	window *rolling.PointPolicy
}

func NewTemperatureSource(config configuration.Configuration) *TemperatureSource {
	source := &TemperatureSource{
		local:  FileSensor{Path: config.TempFile},
		window: util.CreateRollingWindow(movingAvgWindowSize),
	}
	if config.IsPrometheusEnabled() {
		source.remote = NewPrometheusSensor(config.PrometheusEndpoint, config.PrometheusMetricName, config.PrometheusTimeout)
	}
	return source
}

// HasRemote reports whether the remote metrics endpoint is queried before the local file
func (s *TemperatureSource) HasRemote() bool {
	return s.remote != nil
}

// Read returns the current temperature. It never fails: errors are logged,
// a remote failure falls back to the local file and a local failure yields Absent().
func (s *TemperatureSource) Read(ctx context.Context) Temperature {
	if s.remote != nil {
		value, err := s.remote.GetValue(ctx)
		if err == nil {
			return s.record(value, SourcePrometheus)
		}
		ui.Warning("Error getting temperature from Prometheus: %v", err)
		ui.Info("Falling back to CPU temperature.")
	}

	value, err := s.local.GetValue()
	if err != nil {
		ui.Error("Error reading CPU temperature: %v", err)
		return Absent()
	}
	return s.record(value, SourceFile)
}

func (s *TemperatureSource) record(value float64, source string) Temperature {
	s.window.Append(value)
	return Temperature{
		Celsius: value,
		Source:  source,
		Valid:   true,
	}
}

// GetMovingAvg returns the average of the most recent valid readings
func (s *TemperatureSource) GetMovingAvg() float64 {
	return util.GetWindowAvg(s.window)
}

// ReadRemote queries only the remote metrics endpoint
func (s *TemperatureSource) ReadRemote(ctx context.Context) (float64, error) {
	if s.remote == nil {
		return 0, ErrRemoteDisabled
	}
	return s.remote.GetValue(ctx)
}

// ReadLocal reads only the local sensor file
func (s *TemperatureSource) ReadLocal() (float64, error) {
	return s.local.GetValue()
}

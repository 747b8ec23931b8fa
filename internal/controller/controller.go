package controller

import (
	"context"
	"github.com/markusressel/pwmfan/internal/configuration"
	"github.com/markusressel/pwmfan/internal/fans"
	"github.com/markusressel/pwmfan/internal/sensors"
	"github.com/markusressel/pwmfan/internal/ui"
	"github.com/markusressel/pwmfan/internal/util"
	"sync"
	"time"
)

const (
	ModeStatic    = "static"
	ModeThreshold = "threshold"
)

// TemperatureReader provides the temperature the controller acts on
type TemperatureReader interface {
	// Read returns the current temperature, or sensors.Absent() if there is none
	Read(ctx context.Context) sensors.Temperature
	// GetMovingAvg returns the average of the most recent valid readings
	GetMovingAvg() float64
}

type FanController interface {
	// Run drives the fan until ctx is cancelled
	Run(ctx context.Context) error
	// Snapshot returns a copy of the current controller status, safe for concurrent use
	Snapshot() Snapshot
}

type Statistics struct {
	ReadErrors      int `json:"readErrors"`
	Fallbacks       int `json:"fallbacks"`
	Transitions     int `json:"transitions"`
	ActuationErrors int `json:"actuationErrors"`
}

type Snapshot struct {
	FanId string `json:"fanId"`
	Mode  string `json:"mode"`

	Temperature    sensors.Temperature `json:"temperature"`
	TemperatureAvg float64             `json:"temperatureAvg"`

	// DutyCycle is the last duty cycle that was requested
	DutyCycle float64 `json:"dutyCycle"`
	State     State   `json:"state"`

	Thresholds Thresholds `json:"thresholds"`
	Statistics Statistics `json:"statistics"`

	LastUpdate time.Time `json:"lastUpdate,omitempty"`
}

type fanController struct {
	fan    fans.Fan
	source TemperatureReader

	thresholds      Thresholds
	staticDutyCycle configuration.Optional[float64]
	remoteEnabled   bool
	updateRate      time.Duration

	// only accessed by the goroutine executing Run
	state State

	mu       sync.RWMutex
	snapshot Snapshot
}

func NewFanController(fan fans.Fan, source TemperatureReader, config configuration.Configuration) FanController {
	mode := ModeThreshold
	if config.IsStaticMode() {
		mode = ModeStatic
	}
	thresholds := NewThresholds(config)

	return &fanController{
		fan:             fan,
		source:          source,
		thresholds:      thresholds,
		staticDutyCycle: config.StaticDutyCycle,
		remoteEnabled:   config.IsPrometheusEnabled(),
		updateRate:      config.PollInterval(),
		snapshot: Snapshot{
			FanId:      fan.GetId(),
			Mode:       mode,
			Thresholds: thresholds,
		},
	}
}

func (f *fanController) Run(ctx context.Context) error {
	if f.staticDutyCycle.Present {
		return f.runStatic(ctx)
	}
	return f.runThreshold(ctx)
}

func (f *fanController) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshot
}

// runStatic applies the static duty cycle once and then only waits for cancellation
func (f *fanController) runStatic(ctx context.Context) error {
	dutyCycle := f.staticDutyCycle.Get()
	ui.Info("Setting static duty cycle to %.1f%%", dutyCycle)
	f.applyDutyCycle(dutyCycle)

	<-ctx.Done()
	return nil
}

func (f *fanController) runThreshold(ctx context.Context) error {
	ui.Info("Starting temperature-based fan control.")

	temp := f.readTemperature(ctx)
	state, dutyCycle := Initialize(temp, f.thresholds)
	if state.HighSpeedMode {
		ui.Info("Initial temperature is high, starting fan at %.1f%%.", dutyCycle)
	} else {
		ui.Info("Setting fan to %.1f%%.", dutyCycle)
	}
	f.state = state
	f.setSnapshot(func(s *Snapshot) { s.State = state })
	f.applyDutyCycle(dutyCycle)

	// the first decision happens one full interval after the initial reading
	ticker := time.NewTicker(f.updateRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			f.UpdateFanSpeed(ctx)
		}
	}
}

// UpdateFanSpeed runs a single poll-decide-actuate step
func (f *fanController) UpdateFanSpeed(ctx context.Context) {
	temp := f.readTemperature(ctx)
	if !temp.Valid {
		ui.Warning("No temperature available, keeping fan at %.1f%%", f.Snapshot().DutyCycle)
		return
	}
	ui.Info("Current temperature: %.2f°C", temp.Celsius)

	next, dutyCycle, apply := Decide(temp, f.state, f.thresholds)
	if !apply {
		return
	}

	if next.HighSpeedMode {
		ui.Info("Temperature (%.2f°C) exceeded ON threshold (%.1f°C). Setting fan to %.1f%%.",
			temp.Celsius, f.thresholds.TempOn, dutyCycle)
	} else {
		ui.Info("Temperature (%.2f°C) below OFF threshold (%.1f°C). Setting fan to %.1f%%.",
			temp.Celsius, f.thresholds.TempOff, dutyCycle)
	}

	f.state = next
	f.setSnapshot(func(s *Snapshot) {
		s.State = next
		s.Statistics.Transitions++
	})
	f.applyDutyCycle(dutyCycle)
}

func (f *fanController) readTemperature(ctx context.Context) sensors.Temperature {
	temp := f.source.Read(ctx)
	avg := f.source.GetMovingAvg()
	fallback := f.remoteEnabled && temp.Valid && temp.Source != sensors.SourcePrometheus

	f.setSnapshot(func(s *Snapshot) {
		s.Temperature = temp
		s.TemperatureAvg = avg
		if !temp.Valid {
			s.Statistics.ReadErrors++
		}
		if fallback {
			s.Statistics.Fallbacks++
		}
	})
	return temp
}

// applyDutyCycle sets the given duty cycle, clamped to [0..100].
// Errors are only logged, the next transition will try again.
func (f *fanController) applyDutyCycle(dutyCycle float64) {
	dutyCycle = util.ClampDutyCycle(dutyCycle)
	err := f.fan.SetDutyCycle(dutyCycle)

	f.setSnapshot(func(s *Snapshot) {
		s.DutyCycle = dutyCycle
		if err != nil {
			s.Statistics.ActuationErrors++
		}
	})

	if err != nil {
		ui.Error("Error setting fan speed: %v", err)
	}
}

func (f *fanController) setSnapshot(update func(s *Snapshot)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	update(&f.snapshot)
	f.snapshot.LastUpdate = time.Now().UTC()
}

package controller

import (
	"github.com/markusressel/pwmfan/internal/configuration"
	"github.com/markusressel/pwmfan/internal/sensors"
)

// State is the mutable part of threshold control.
// It is owned by a single FanController and only changed by Decide.
type State struct {
	HighSpeedMode bool `json:"highSpeedMode"`
}

// Thresholds holds the hysteresis setpoints
type Thresholds struct {
	// TempOn must be exceeded to switch to high speed mode
	TempOn float64 `json:"tempOn"`
	// TempOff must be undercut to switch back to idle
	TempOff float64 `json:"tempOff"`

	OnDutyCycle  float64 `json:"onDutyCycle"`
	OffDutyCycle float64 `json:"offDutyCycle"`
}

func NewThresholds(config configuration.Configuration) Thresholds {
	return Thresholds{
		TempOn:       config.TempOnThreshold,
		TempOff:      config.TempOffThreshold,
		OnDutyCycle:  config.ThresholdOnDutyCycle,
		OffDutyCycle: config.ThresholdOffDutyCycle.Get(),
	}
}

// Initialize determines the mode and duty cycle to start with.
// A duty cycle is always returned, an absent reading starts in idle mode.
func Initialize(temp sensors.Temperature, thresholds Thresholds) (State, float64) {
	if temp.Valid && temp.Celsius > thresholds.TempOn {
		return State{HighSpeedMode: true}, thresholds.OnDutyCycle
	}
	return State{HighSpeedMode: false}, thresholds.OffDutyCycle
}

// Decide returns the next state and, if apply is true, the duty cycle that has to be applied.
// The mode only changes when the temperature is strictly above TempOn (while idle)
// or strictly below TempOff (while in high speed mode). An absent reading never
// changes anything.
func Decide(temp sensors.Temperature, state State, thresholds Thresholds) (next State, dutyCycle float64, apply bool) {
	if !temp.Valid {
		return state, 0, false
	}

	switch {
	case temp.Celsius > thresholds.TempOn && !state.HighSpeedMode:
		return State{HighSpeedMode: true}, thresholds.OnDutyCycle, true
	case temp.Celsius < thresholds.TempOff && state.HighSpeedMode:
		return State{HighSpeedMode: false}, thresholds.OffDutyCycle, true
	default:
		return state, 0, false
	}
}

// SimulatePath feeds the given temperatures through Decide, starting in the given state,
// and returns the duty cycle that would be active after each of them.
func SimulatePath(temps []float64, initial State, thresholds Thresholds) []float64 {
	state := initial
	dutyCycle := thresholds.OffDutyCycle
	if state.HighSpeedMode {
		dutyCycle = thresholds.OnDutyCycle
	}

	result := make([]float64, 0, len(temps))
	for _, celsius := range temps {
		temp := sensors.Temperature{Celsius: celsius, Valid: true}
		next, nextDutyCycle, apply := Decide(temp, state, thresholds)
		if apply {
			dutyCycle = nextDutyCycle
		}
		state = next
		result = append(result, dutyCycle)
	}
	return result
}

package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/markusressel/pwmfan/internal/configuration"
	"github.com/markusressel/pwmfan/internal/sensors"
	"github.com/markusressel/pwmfan/internal/util"
	"github.com/stretchr/testify/assert"
)

type MockSensor struct {
	mu       sync.Mutex
	readings []sensors.Temperature
	window   []float64
}

// Read returns the queued readings in order and repeats the last one forever
func (sensor *MockSensor) Read(ctx context.Context) sensors.Temperature {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	if len(sensor.readings) == 0 {
		return sensors.Absent()
	}
	temp := sensor.readings[0]
	if len(sensor.readings) > 1 {
		sensor.readings = sensor.readings[1:]
	}
	if temp.Valid {
		sensor.window = append(sensor.window, temp.Celsius)
	}
	return temp
}

func (sensor *MockSensor) GetMovingAvg() float64 {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	if len(sensor.window) == 0 {
		return 0
	}
	sum := 0.0
	for _, value := range sensor.window {
		sum += value
	}
	return sum / float64(len(sensor.window))
}

type MockFan struct {
	ID string

	mu      sync.Mutex
	history []float64
	err     error
}

func (fan *MockFan) GetId() string {
	return fan.ID
}

func (fan *MockFan) Open() error {
	return nil
}

func (fan *MockFan) SetDutyCycle(percent float64) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	if fan.err != nil {
		return fan.err
	}
	fan.history = append(fan.history, percent)
	return nil
}

func (fan *MockFan) GetDutyCycle() float64 {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	if len(fan.history) == 0 {
		return 0
	}
	return fan.history[len(fan.history)-1]
}

func (fan *MockFan) Release() error {
	return nil
}

func (fan *MockFan) History() []float64 {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return append([]float64{}, fan.history...)
}

func (fan *MockFan) SetError(err error) {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.err = err
}

func thresholdConfig() configuration.Configuration {
	return configuration.Configuration{
		TempOnThreshold:       60,
		TempOffThreshold:      50,
		IdleDutyCycle:         0,
		ThresholdOnDutyCycle:  100,
		ThresholdOffDutyCycle: configuration.Some(0.0),
		UpdateInterval:        5,
	}
}

func readings(values ...float64) []sensors.Temperature {
	var result []sensors.Temperature
	for _, value := range values {
		result = append(result, reading(value))
	}
	return result
}

func newTestController(fan *MockFan, sensor *MockSensor, config configuration.Configuration) *fanController {
	c := NewFanController(fan, sensor, config).(*fanController)
	c.updateRate = 10 * time.Millisecond
	return c
}

func TestNewFanController_Modes(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	staticConfig := thresholdConfig()
	staticConfig.StaticDutyCycle = configuration.Some(40.0)

	// WHEN
	threshold := NewFanController(fan, &MockSensor{}, thresholdConfig())
	static := NewFanController(fan, &MockSensor{}, staticConfig)

	// THEN
	assert.Equal(t, ModeThreshold, threshold.Snapshot().Mode)
	assert.Equal(t, ModeStatic, static.Snapshot().Mode)
	assert.Equal(t, "fan", static.Snapshot().FanId)
	assert.Equal(t, 60.0, threshold.Snapshot().Thresholds.TempOn)
}

func TestFanController_StaticMode(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{readings: readings(90)}
	config := thresholdConfig()
	config.StaticDutyCycle = configuration.Some(40.0)
	c := newTestController(fan, sensor, config)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// WHEN
	go func() { done <- c.Run(ctx) }()
	assert.Eventually(t, func() bool { return len(fan.History()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	cancel()

	// THEN
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Equal(t, []float64{40}, fan.History())
	assert.Equal(t, 40.0, c.Snapshot().DutyCycle)
	assert.False(t, c.Snapshot().Temperature.Valid)
}

func TestFanController_StaticZero(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	config := thresholdConfig()
	config.StaticDutyCycle = configuration.Some(0.0)
	c := newTestController(fan, &MockSensor{}, config)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	err := c.Run(ctx)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []float64{0}, fan.History())
}

func TestFanController_InitialHighTemperature(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{readings: readings(65, 62)}
	c := newTestController(fan, sensor, thresholdConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// WHEN
	go func() { done <- c.Run(ctx) }()
	assert.Eventually(t, func() bool { return c.Snapshot().Temperature.Celsius == 62 }, time.Second, 5*time.Millisecond)
	cancel()

	// THEN
	assert.NoError(t, <-done)
	assert.Equal(t, []float64{100}, fan.History())
	assert.True(t, c.Snapshot().State.HighSpeedMode)
}

func TestFanController_InitialAbsentStartsIdle(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{readings: []sensors.Temperature{sensors.Absent()}}
	c := newTestController(fan, sensor, thresholdConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// WHEN
	go func() { done <- c.Run(ctx) }()
	assert.Eventually(t, func() bool { return c.Snapshot().Statistics.ReadErrors >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	// THEN
	assert.NoError(t, <-done)
	assert.Equal(t, []float64{0}, fan.History())
	assert.False(t, c.Snapshot().State.HighSpeedMode)
}

func TestFanController_RunFollowsHysteresis(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{readings: readings(45, 55, 61, 70, 55, 49, 55, 42)}
	c := newTestController(fan, sensor, thresholdConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// WHEN
	go func() { done <- c.Run(ctx) }()
	assert.Eventually(t, func() bool { return c.Snapshot().Temperature.Celsius == 42 }, time.Second, 5*time.Millisecond)
	cancel()

	// THEN
	assert.NoError(t, <-done)
	assert.Equal(t, []float64{0, 100, 0}, fan.History())
	assert.Equal(t, 2, c.Snapshot().Statistics.Transitions)
}

func TestFanController_UpdateFanSpeed_DeadZone(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{readings: readings(50, 52, 55, 58, 60)}
	c := newTestController(fan, sensor, thresholdConfig())

	// WHEN
	for i := 0; i < 5; i++ {
		c.UpdateFanSpeed(context.Background())
	}

	// THEN
	assert.Empty(t, fan.History())
	assert.False(t, c.state.HighSpeedMode)
	assert.Equal(t, 0, c.Snapshot().Statistics.Transitions)
}

func TestFanController_UpdateFanSpeed_AbsentKeepsState(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{readings: []sensors.Temperature{sensors.Absent()}}
	c := newTestController(fan, sensor, thresholdConfig())
	c.state = State{HighSpeedMode: true}

	// WHEN
	c.UpdateFanSpeed(context.Background())

	// THEN
	assert.Empty(t, fan.History())
	assert.True(t, c.state.HighSpeedMode)
	assert.Equal(t, 1, c.Snapshot().Statistics.ReadErrors)
}

func TestFanController_ActuationErrorDoesNotStopControl(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	fan.SetError(errors.New("line busy"))
	sensor := &MockSensor{readings: readings(61, 49)}
	c := newTestController(fan, sensor, thresholdConfig())

	// WHEN
	c.UpdateFanSpeed(context.Background())
	fan.SetError(nil)
	c.UpdateFanSpeed(context.Background())

	// THEN
	assert.Equal(t, []float64{0}, fan.History())
	assert.Equal(t, 1, c.Snapshot().Statistics.ActuationErrors)
	assert.Equal(t, 2, c.Snapshot().Statistics.Transitions)
	assert.False(t, c.state.HighSpeedMode)
}

func TestFanController_DutyCycleIsClamped(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	c := newTestController(fan, &MockSensor{}, thresholdConfig())

	// WHEN
	c.applyDutyCycle(150)
	c.applyDutyCycle(-5)

	// THEN
	assert.Equal(t, []float64{util.MaxDutyCycle, util.MinDutyCycle}, fan.History())
}

func TestFanController_CountsFallbacks(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{readings: []sensors.Temperature{
		{Celsius: 40, Source: sensors.SourcePrometheus, Valid: true},
		{Celsius: 42, Source: sensors.SourceFile, Valid: true},
	}}
	config := thresholdConfig()
	config.PrometheusEndpoint = "http://localhost:9100/metrics"
	config.PrometheusMetricName = "node_hwmon_temp_celsius"
	c := newTestController(fan, sensor, config)

	// WHEN
	c.UpdateFanSpeed(context.Background())
	c.UpdateFanSpeed(context.Background())

	// THEN
	snapshot := c.Snapshot()
	assert.Equal(t, 1, snapshot.Statistics.Fallbacks)
	assert.Equal(t, 42.0, snapshot.Temperature.Celsius)
	assert.Equal(t, sensors.SourceFile, snapshot.Temperature.Source)
	assert.Equal(t, 41.0, snapshot.TemperatureAvg)
	assert.False(t, snapshot.LastUpdate.IsZero())
}

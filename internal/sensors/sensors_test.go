package sensors

import (
	"context"
	"errors"
	"github.com/markusressel/pwmfan/internal/configuration"
	"github.com/stretchr/testify/assert"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTempFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "temp")
	err := os.WriteFile(path, []byte(content), 0o644)
	assert.NoError(t, err)
	return path
}

func createConfig(tempFile string, endpoint string, metricName string) configuration.Configuration {
	return configuration.Configuration{
		TempFile:             tempFile,
		PrometheusEndpoint:   endpoint,
		PrometheusMetricName: metricName,
		PrometheusTimeout:    5 * time.Second,
	}
}

func TestFileSensor_GetValue(t *testing.T) {
	// GIVEN
	sensor := FileSensor{Path: createTempFile(t, "45000\n")}

	// WHEN
	value, err := sensor.GetValue()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 45.0, value)
}

func TestTemperatureSource_Read_Remote(t *testing.T) {
	// GIVEN
	server := createMetricsServer(t, http.StatusOK, "cpu_temp 42.5\n")
	source := NewTemperatureSource(createConfig(createTempFile(t, "45000"), server.URL, "cpu_temp"))

	// WHEN
	result := source.Read(context.Background())

	// THEN
	assert.Equal(t, Temperature{Celsius: 42.5, Source: SourcePrometheus, Valid: true}, result)
}

func TestTemperatureSource_Read_RemoteUnreachableFallsBackToFile(t *testing.T) {
	// GIVEN
	server := createMetricsServer(t, http.StatusOK, "cpu_temp 42.5\n")
	endpoint := server.URL
	server.Close()
	source := NewTemperatureSource(createConfig(createTempFile(t, "45000"), endpoint, "cpu_temp"))

	// WHEN
	result := source.Read(context.Background())

	// THEN
	assert.Equal(t, Temperature{Celsius: 45.0, Source: SourceFile, Valid: true}, result)
}

func TestTemperatureSource_Read_RemoteTimeoutFallsBackToFile(t *testing.T) {
	// GIVEN
	server := createBlockingServer(t, make(chan struct{}))
	config := createConfig(createTempFile(t, "45000"), server.URL, "cpu_temp")
	config.PrometheusTimeout = 50 * time.Millisecond
	source := NewTemperatureSource(config)

	// WHEN
	result := source.Read(context.Background())

	// THEN
	assert.Equal(t, Temperature{Celsius: 45.0, Source: SourceFile, Valid: true}, result)
}

func TestTemperatureSource_Read_MetricMissingFallsBackToFile(t *testing.T) {
	// GIVEN
	server := createMetricsServer(t, http.StatusOK, exposition)
	source := NewTemperatureSource(createConfig(createTempFile(t, "51500"), server.URL, "gpu_temp"))

	// WHEN
	result := source.Read(context.Background())

	// THEN
	assert.Equal(t, Temperature{Celsius: 51.5, Source: SourceFile, Valid: true}, result)
}

func TestTemperatureSource_Read_ServerErrorFallsBackToFile(t *testing.T) {
	// GIVEN
	server := createMetricsServer(t, http.StatusInternalServerError, "cpu_temp 42.5\n")
	source := NewTemperatureSource(createConfig(createTempFile(t, "45000"), server.URL, "cpu_temp"))

	// WHEN
	result := source.Read(context.Background())

	// THEN
	assert.Equal(t, SourceFile, result.Source)
	assert.Equal(t, 45.0, result.Celsius)
}

func TestTemperatureSource_Read_OnlyEndpointConfiguredUsesFile(t *testing.T) {
	// GIVEN
	server := createMetricsServer(t, http.StatusOK, "cpu_temp 42.5\n")
	source := NewTemperatureSource(createConfig(createTempFile(t, "45000"), server.URL, ""))

	// WHEN
	result := source.Read(context.Background())

	// THEN
	assert.False(t, source.HasRemote())
	assert.Equal(t, SourceFile, result.Source)
}

func TestTemperatureSource_Read_BothFailIsAbsent(t *testing.T) {
	// GIVEN
	server := createMetricsServer(t, http.StatusInternalServerError, "")
	source := NewTemperatureSource(createConfig(filepath.Join(t.TempDir(), "missing"), server.URL, "cpu_temp"))

	// WHEN
	result := source.Read(context.Background())

	// THEN
	assert.False(t, result.Valid)
	assert.Equal(t, Absent(), result)
}

func TestTemperatureSource_Read_UnparsableFileIsAbsent(t *testing.T) {
	// GIVEN
	source := NewTemperatureSource(createConfig(createTempFile(t, "not a number"), "", ""))

	// WHEN
	result := source.Read(context.Background())

	// THEN
	assert.False(t, result.Valid)
}

func TestTemperatureSource_GetMovingAvg(t *testing.T) {
	// GIVEN
	path := createTempFile(t, "40000")
	source := NewTemperatureSource(createConfig(path, "", ""))

	// WHEN
	source.Read(context.Background())
	assert.NoError(t, os.WriteFile(path, []byte("50000"), 0o644))
	source.Read(context.Background())

	// THEN
	assert.Equal(t, 45.0, source.GetMovingAvg())
}

func TestTemperatureSource_ReadRemote_Disabled(t *testing.T) {
	// GIVEN
	source := NewTemperatureSource(createConfig(createTempFile(t, "40000"), "", ""))

	// WHEN
	_, err := source.ReadRemote(context.Background())

	// THEN
	assert.True(t, errors.Is(err, ErrRemoteDisabled))
}

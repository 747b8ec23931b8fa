package sensors

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMetricNotFound = errors.New("metric not found")
	ErrRemoteDisabled = errors.New("remote temperature source is not configured")
)

// PrometheusSensor scrapes a plaintext metrics endpoint and
// reads the value of the first line starting with MetricName.
type PrometheusSensor struct {
	Endpoint   string        `json:"endpoint"`
	MetricName string        `json:"metricName"`
	Timeout    time.Duration `json:"timeout"`

	client *http.Client
}

func NewPrometheusSensor(endpoint string, metricName string, timeout time.Duration) *PrometheusSensor {
	return &PrometheusSensor{
		Endpoint:   endpoint,
		MetricName: metricName,
		Timeout:    timeout,
		client:     &http.Client{},
	}
}

func (sensor *PrometheusSensor) GetId() string {
	return SourcePrometheus
}

// GetValue returns the current value of the metric.
// The request is bounded by Timeout, in addition to any deadline of ctx.
func (sensor *PrometheusSensor) GetValue(ctx context.Context) (float64, error) {
	if sensor.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sensor.Timeout)
		defer cancel()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, sensor.Endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}

	response, err := sensor.client.Do(request)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return 0, fmt.Errorf("sensor %s: unexpected status %s from %s", sensor.GetId(), response.Status, sensor.Endpoint)
	}

	value, err := parseMetricValue(response.Body, sensor.MetricName)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	return value, nil
}

// parseMetricValue scans the exposition text line by line and parses the second
// whitespace separated token of the first line that starts with metricName.
// Matching is a plain prefix match, so "cpu_temp" also matches "cpu_temp{zone=\"0\"} 42".
func parseMetricValue(body io.Reader, metricName string) (float64, error) {
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, metricName) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, fmt.Errorf("metric '%s' has no value", metricName)
		}
		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0, fmt.Errorf("unable to parse value of metric '%s': %w", metricName, err)
		}
		return value, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%w: '%s'", ErrMetricNotFound, metricName)
}

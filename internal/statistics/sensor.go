package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	provider SnapshotProvider

	temperature    *prometheus.Desc
	temperatureAvg *prometheus.Desc
	readErrors     *prometheus.Desc
	fallbacks      *prometheus.Desc
}

func NewSensorCollector(provider SnapshotProvider) *SensorCollector {
	return &SensorCollector{
		provider: provider,
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature"),
			"Last valid temperature reading in degrees Celsius",
			[]string{"source"}, nil,
		),
		temperatureAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature_avg"),
			"Moving average of the recent temperature readings in degrees Celsius",
			nil, nil,
		),
		readErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "read_errors_total"),
			"Number of polls without any temperature reading",
			nil, nil,
		),
		fallbacks: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "fallbacks_total"),
			"Number of readings taken from the local file because the remote endpoint failed",
			nil, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temperature
	ch <- collector.temperatureAvg
	ch <- collector.readErrors
	ch <- collector.fallbacks
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot := collector.provider.Snapshot()
	if snapshot.Temperature.Valid {
		ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, snapshot.Temperature.Celsius, snapshot.Temperature.Source)
	}
	ch <- prometheus.MustNewConstMetric(collector.temperatureAvg, prometheus.GaugeValue, snapshot.TemperatureAvg)
	ch <- prometheus.MustNewConstMetric(collector.readErrors, prometheus.CounterValue, float64(snapshot.Statistics.ReadErrors))
	ch <- prometheus.MustNewConstMetric(collector.fallbacks, prometheus.CounterValue, float64(snapshot.Statistics.Fallbacks))
}

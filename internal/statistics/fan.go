package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const fanSubsystem = "fan"

type FanCollector struct {
	provider        SnapshotProvider
	dutyCycle       *prometheus.Desc
	actuationErrors *prometheus.Desc
}

func NewFanCollector(provider SnapshotProvider) *FanCollector {
	return &FanCollector{
		provider: provider,
		dutyCycle: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "duty_cycle"),
			"Last requested duty cycle of the fan in percent",
			[]string{"id"}, nil,
		),
		actuationErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "actuation_errors_total"),
			"Number of failed attempts to set the duty cycle",
			[]string{"id"}, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.dutyCycle
	ch <- collector.actuationErrors
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot := collector.provider.Snapshot()
	ch <- prometheus.MustNewConstMetric(collector.dutyCycle, prometheus.GaugeValue, snapshot.DutyCycle, snapshot.FanId)
	ch <- prometheus.MustNewConstMetric(collector.actuationErrors, prometheus.CounterValue, float64(snapshot.Statistics.ActuationErrors), snapshot.FanId)
}

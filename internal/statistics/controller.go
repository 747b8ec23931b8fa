package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

type ControllerCollector struct {
	provider SnapshotProvider

	highSpeedMode *prometheus.Desc
	transitions   *prometheus.Desc
}

func NewControllerCollector(provider SnapshotProvider) *ControllerCollector {
	return &ControllerCollector{
		provider: provider,
		highSpeedMode: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "high_speed_mode"),
			"1 if the controller is in high speed mode, 0 otherwise",
			[]string{"id", "mode"}, nil,
		),
		transitions: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "transitions_total"),
			"Number of switches between idle and high speed mode",
			[]string{"id", "mode"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.highSpeedMode
	ch <- collector.transitions
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot := collector.provider.Snapshot()
	highSpeedMode := 0.0
	if snapshot.State.HighSpeedMode {
		highSpeedMode = 1
	}
	ch <- prometheus.MustNewConstMetric(collector.highSpeedMode, prometheus.GaugeValue, highSpeedMode, snapshot.FanId, snapshot.Mode)
	ch <- prometheus.MustNewConstMetric(collector.transitions, prometheus.CounterValue, float64(snapshot.Statistics.Transitions), snapshot.FanId, snapshot.Mode)
}

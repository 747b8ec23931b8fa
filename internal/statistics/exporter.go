package statistics

import (
	"github.com/markusressel/pwmfan/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	namespace = "pwmfan"
)

// SnapshotProvider is read by all collectors, they never touch sensors or fans directly
type SnapshotProvider interface {
	Snapshot() controller.Snapshot
}

// NewRegistry creates a registry containing the runtime collectors
// and all collectors of the given controller
func NewRegistry(provider SnapshotProvider) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	Register(registry, collectors.NewGoCollector())
	Register(registry, collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Register(registry, NewSensorCollector(provider))
	Register(registry, NewFanCollector(provider))
	Register(registry, NewControllerCollector(provider))
	return registry
}

func Register(registerer prometheus.Registerer, collector prometheus.Collector) {
	registerer.MustRegister(collector)
}

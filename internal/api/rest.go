package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "pwmfan"
	metricsSubsystem = "http"
)

// CreateRestService creates the read-only statistics server.
// HTTP metrics of the server itself are registered on the given registry as well.
func CreateRestService(provider SnapshotProvider, registry *prometheus.Registry) *echo.Echo {
	echoRest := CreateWebserver()
	echoRest.Use(middleware.Logger())
	echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Subsystem:  metricsSubsystem,
		Registerer: registry,
	}))

	echoRest.GET("/alive/", isAlive)
	registerStatusEndpoint(echoRest, provider)
	echoRest.GET("/metrics/", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: registry,
	}))

	return echoRest
}

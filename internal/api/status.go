package api

import (
	"github.com/labstack/echo/v4"
	"github.com/markusressel/pwmfan/internal/controller"
	"github.com/qdm12/reprint"
	"net/http"
)

type SnapshotProvider interface {
	Snapshot() controller.Snapshot
}

func registerStatusEndpoint(rest *echo.Echo, provider SnapshotProvider) {
	rest.GET("/status/", func(c echo.Context) error {
		return getStatus(c, provider)
	})
}

func getStatus(c echo.Context, provider SnapshotProvider) error {
	snapshot := provider.Snapshot()
	data, ok := reprint.This(snapshot).(controller.Snapshot)
	if !ok {
		return returnError(c, echo.NewHTTPError(http.StatusInternalServerError, "unable to copy status"))
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

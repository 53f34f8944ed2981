package api

import (
	"net/http"

	"github.com/labstack/echo"

	"github.com/brunosprotte/messenger-server-api/pkg/api/resource"
)

func (h *Handler) handleFetchSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, resource.NewSessionList(h.ctrl.Registry().Snapshot()))
}

package api

import (
	"net/http"

	"github.com/labstack/echo"

	"github.com/brunosprotte/messenger-server-api/pkg/api/resource"
)

func (h *Handler) handleGetPresence(c echo.Context) error {
	identity := c.Param("identity")

	online, err := h.presence.IsOnline(c.Request().Context(), identity)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, resource.NewPresence(identity, online))
}

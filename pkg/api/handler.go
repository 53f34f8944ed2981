package api

import (
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"

	"github.com/brunosprotte/messenger-server-api/pkg/chat"
	"github.com/brunosprotte/messenger-server-api/pkg/presence"
	"github.com/brunosprotte/messenger-server-api/pkg/storage"
)

// Handler contains all properties to serve the API
type Handler struct {
	ctrl     *chat.Controller
	presence presence.Store
	store    storage.Interface
}

// NewHandler create a new API handler
func NewHandler(ctrl *chat.Controller, pres presence.Store, store storage.Interface) *Handler {
	return &Handler{
		ctrl:     ctrl,
		presence: pres,
		store:    store,
	}
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register API routes")
	api := e.Group("/api/v1")

	api.GET("/sessions", h.handleFetchSessions)
	api.GET("/presence/:identity", h.handleGetPresence)
	api.GET("/contacts/:identity", h.handleFetchContacts)
}

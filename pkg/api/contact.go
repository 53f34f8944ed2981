package api

import (
	"net/http"

	"github.com/labstack/echo"

	"github.com/brunosprotte/messenger-server-api/pkg/api/resource"
)

func (h *Handler) handleFetchContacts(c echo.Context) error {
	contacts, err := h.store.Contacts().ListContactsOf(c.Param("identity"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, resource.NewContactList(contacts))
}

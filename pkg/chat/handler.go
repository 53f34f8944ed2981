package chat

import (
	"github.com/gobwas/ws"
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"

	"github.com/brunosprotte/messenger-server-api/pkg/auth"
	"github.com/brunosprotte/messenger-server-api/pkg/chat/websocket"
	"github.com/brunosprotte/messenger-server-api/pkg/chat/wire"
)

// Handler contains all properties to serve the chat endpoint
type Handler struct {
	ctrl     *Controller
	verifier auth.Verifier
}

// NewHandler create a new chat handler
func NewHandler(ctrl *Controller, verifier auth.Verifier) *Handler {
	return &Handler{
		ctrl:     ctrl,
		verifier: verifier,
	}
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register chat routes")
	api := e.Group("/chat")
	api.Any("/v1", h.chatChannelHandler())
}

func (h *Handler) chatChannelHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, _, _, err := ws.UpgradeHTTP(c.Request(), c.Response())
		if err != nil {
			return err
		}

		terminateCh := make(chan struct{})
		driver := websocket.NewDriver(conn, terminateCh)
		driver.Start()

		// The socket must be closed before waiting for the driver
		// goroutines: the reader only unblocks once the connection is
		// gone.
		defer driver.Close()
		defer conn.Close()

		// The identity is verified before any state is created anywhere.
		// A failed handshake closes the connection with a rejection and
		// leaves no registry entry and no presence increment behind.
		identity, err := h.verifier.Verify(c.QueryParam("token"))
		if err != nil {
			log.Warn("chat handler rejected connection: missing or invalid token")
			out, _ := wire.MarshalErrorEvent(ErrReasonInvalidToken)
			driver.Push(websocket.NewOutboxMessage(websocket.FlagCloseGracefully, out))
			<-terminateCh
			return nil
		}

		sess := h.ctrl.NewSession(identity, driver)
		go sess.Serve(driver.Inbox)
		defer driver.Stop()
		defer sess.Close()

		<-terminateCh

		log.Debugf("chat handler exits for session %s", sess.ID())
		return nil
	}
}

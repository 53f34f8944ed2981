package chat

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/brunosprotte/messenger-server-api/pkg/chat/websocket"
	"github.com/brunosprotte/messenger-server-api/pkg/chat/wire"
)

type Status int

const (
	StatusConnecting Status = iota
	StatusAuthenticated
	StatusActive
	StatusClosed
)

// Transport is the outbound half of a client connection. Pushes must not
// block; the websocket driver satisfies this with its buffered
// single-writer outbox.
type Transport interface {
	Push(m *websocket.OutboxMessage) bool
}

// Session is the per-connection state machine: Connecting on handshake,
// Authenticated once the token is verified, Active while it routes
// messages, Closed after cleanup. Closed is terminal.
type Session struct {
	sync.RWMutex
	ctrl        *Controller
	id          string
	identity    string
	transport   Transport
	status      Status
	connectedAt time.Time

	closedCh  chan struct{}
	closeOnce sync.Once
}

// ID returns the session's unique id, used for logging and the sessions
// API.
func (s *Session) ID() string {
	return s.id
}

// Identity returns the authenticated identity owning this connection.
func (s *Session) Identity() string {
	return s.identity
}

func (s *Session) ConnectedAt() time.Time {
	return s.connectedAt
}

func (s *Session) Status() Status {
	s.RLock()
	defer s.RUnlock()
	return s.status
}

func (s *Session) setStatus(status Status) {
	s.Lock()
	s.status = status
	s.Unlock()
}

// Serve consumes the connection's inbound frames until the session is
// closed. It is run on its own goroutine by the connection handler.
func (s *Session) Serve(inbox <-chan *websocket.InboxMessage) {
	for {
		select {
		case msg := <-inbox:
			s.HandleMessage(msg.Data)
		case <-s.closedCh:
			return
		}
	}
}

// HandleMessage processes one inbound client payload: resolve the
// recipient, consult the authorization gate, publish on the bus and spool
// when the recipient is offline everywhere. A rejected message leaves the
// session Active.
func (s *Session) HandleMessage(data []byte) {
	if s.Status() != StatusActive {
		log.Warnf("session %s: dropping message, session is not active", s.id)
		return
	}

	env, err := wire.ParseEnvelope(data)
	if err != nil {
		log.Warnf("session %s: invalid payload: %v", s.id, err)
		s.reject(ErrReasonInvalidPayload)
		return
	}

	// A connection may only send as the identity it authenticated with.
	env.From = s.identity

	if err := s.ctrl.RouteMessage(s, env); err != nil {
		if IsAuthorizationError(err) {
			log.Warnf("session %s: %v", s.id, err)
			s.reject(ErrReasonNotAuthorized)
			return
		}

		log.Errorf("session %s: failed to route message: %v", s.id, err)
	}
}

// Deliver writes a payload to the client. It reports false when the
// connection cannot take the frame; the caller treats that as a transport
// problem of this one connection only.
func (s *Session) Deliver(payload []byte) bool {
	return s.transport.Push(websocket.NewOutboxMessage(websocket.FlagContinue, payload))
}

// Close runs the terminal transition. It is idempotent because the
// explicit-close and transport-error paths may both reach it.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.setStatus(StatusClosed)
		close(s.closedCh)
		s.ctrl.closeSession(s)
	})
}

func (s *Session) reject(reason string) {
	out, err := wire.MarshalErrorEvent(reason)
	if err != nil {
		log.Errorf("session %s: could not marshal rejection: %v", s.id, err)
		return
	}

	s.transport.Push(websocket.NewOutboxMessage(websocket.FlagContinue, out))
}

package websocket

import (
	"io"
	"net"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	log "github.com/sirupsen/logrus"
)

type Flag int

const (
	FlagContinue Flag = iota
	FlagCloseGracefully
	FlagTerminate
)

type OutboxMessage struct {
	Flag Flag
	Data []byte
}

type InboxMessage struct {
	Data []byte
}

// Driver owns a single websocket connection. It runs one reader and one
// writer goroutine; the writer goroutine is the only place frames are
// written, which serializes concurrent senders (bus delivery, mailbox
// replay, rejection replies) onto the socket.
type Driver struct {
	conn   net.Conn
	Inbox  chan *InboxMessage
	Outbox chan *OutboxMessage

	terminateCh    chan<- struct{}
	terminatedOnce sync.Once

	stopCh   chan struct{}
	stopOnce sync.Once

	wg sync.WaitGroup
}

// NewDriver wraps an upgraded websocket connection. The terminate channel
// is closed when either goroutine exits, signalling the HTTP handler that
// the connection is done.
func NewDriver(conn net.Conn, terminateCh chan<- struct{}) *Driver {
	return &Driver{
		conn:        conn,
		Inbox:       make(chan *InboxMessage, 100),
		Outbox:      make(chan *OutboxMessage, 100),
		terminateCh: terminateCh,
		stopCh:      make(chan struct{}),
	}
}

func (driver *Driver) Start() {
	driver.wg.Add(1)
	go driver.inboxHandler()
	driver.wg.Add(1)
	go driver.outboxHandler()
}

// Close waits for both handler goroutines to exit.
func (driver *Driver) Close() {
	driver.wg.Wait()
	log.Debug("websocket driver closed")
}

// Stop makes the writer goroutine exit and unblocks any pending write.
func (driver *Driver) Stop() {
	driver.safeCloseStopChannel()
}

// Push queues an outbound frame without blocking. It reports false when
// the outbox buffer is full or the driver is shutting down.
func (driver *Driver) Push(m *OutboxMessage) bool {
	select {
	case driver.Outbox <- m:
		return true
	case <-driver.stopCh:
		return false
	default:
		return false // Buffer is full
	}
}

func (driver *Driver) closeHandler() {
	defer driver.wg.Done()
	driver.safeCloseTerminateChannel()
	driver.safeCloseStopChannel()
}

func (driver *Driver) safeCloseTerminateChannel() {
	driver.terminatedOnce.Do(func() {
		close(driver.terminateCh)
	})
}

func (driver *Driver) safeCloseStopChannel() {
	driver.stopOnce.Do(func() {
		close(driver.stopCh)
	})
}

func (driver *Driver) inboxHandler() {
	defer driver.closeHandler()

	state := ws.StateServerSide
	ch := wsutil.ControlFrameHandler(driver.conn, state)

	r := &wsutil.Reader{
		Source:         driver.conn,
		State:          state,
		CheckUTF8:      true,
		OnIntermediate: ch,
	}

	for {
		h, err := r.NextFrame()
		if err != nil {
			log.Errorf("websocket read frame error: %v", err)
			return
		}

		// We received an operation control frame and handle it before
		// continuation.
		if h.OpCode.IsControl() {
			// Check for OpClose before handling the control frame. On
			// OpClose the socket was closed by the client. We can exit our
			// handler now.
			if h.OpCode == ws.OpClose {
				log.Info("websocket connection closed gracefully")
				return
			}

			if err = ch(h, r); err != nil {
				log.Errorf("websocket handles control frame error: %v", err)
				return
			}
			continue
		}

		req, err := io.ReadAll(r)
		if err != nil {
			log.Errorf("websocket read error: %v", err)
			return
		}

		select {
		case driver.Inbox <- NewInboxMessage(req):
		case <-driver.stopCh:
			return
		}
	}
}

func (driver *Driver) outboxHandler() {
	defer driver.closeHandler()

	state := ws.StateServerSide
	w := wsutil.NewWriter(driver.conn, state, 0)

	for {
		select {
		case res := <-driver.Outbox:
			if res.Data != nil {
				if err := webSocketWriteText(driver.conn, w, state, res.Data); err != nil {
					log.Errorf("websocket terminates because of write error: %s", err.Error())
					return
				}
			}

			switch res.Flag {
			case FlagCloseGracefully:
				webSocketCloseGraceful(driver.conn, w, state)
				return
			case FlagTerminate:
				return
			}
		case <-driver.stopCh:
			return
		}
	}
}

func webSocketWriteText(conn net.Conn, w *wsutil.Writer, state ws.State, data []byte) error {
	var err error

	w.Reset(conn, state, ws.OpText)
	if _, err = w.Write(data); err == nil {
		err = w.Flush()
	}
	if err != nil {
		return err
	}

	return nil
}

func webSocketCloseGraceful(conn net.Conn, w *wsutil.Writer, state ws.State) error {
	log.Debug("websocket graceful close initiated")

	w.Reset(conn, state, ws.OpClose)

	var err error
	if _, err = w.Write([]byte("")); err == nil {
		err = w.Flush()
	}
	if err != nil {
		return err
	}

	return nil
}

func NewOutboxMessage(flag Flag, data []byte) *OutboxMessage {
	m := &OutboxMessage{
		Flag: flag,
	}
	if data != nil {
		m.Data = make([]byte, len(data))
		copy(m.Data, data)
	}
	return m
}

func NewInboxMessage(data []byte) *InboxMessage {
	m := &InboxMessage{}
	if data != nil {
		m.Data = make([]byte, len(data))
		copy(m.Data, data)
	}
	return m
}

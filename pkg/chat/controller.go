package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/brunosprotte/messenger-server-api/pkg/bus"
	"github.com/brunosprotte/messenger-server-api/pkg/chat/wire"
	"github.com/brunosprotte/messenger-server-api/pkg/model"
	"github.com/brunosprotte/messenger-server-api/pkg/presence"
	"github.com/brunosprotte/messenger-server-api/pkg/storage"
	"github.com/brunosprotte/messenger-server-api/pkg/task"
)

// Controller ties the connection registry, the presence store, the
// offline mailbox and the fanout bus together. It owns the connect,
// message-send and disconnect transitions of every session on this
// process.
type Controller struct {
	registry *Registry
	presence presence.Store
	store    storage.Interface
	bus      bus.Bus
	tasks    *task.Runner
}

func NewController(store storage.Interface, pres presence.Store, b bus.Bus, tasks *task.Runner) *Controller {
	return &Controller{
		registry: NewRegistry(),
		presence: pres,
		store:    store,
		bus:      b,
		tasks:    tasks,
	}
}

// Registry exposes the process-local session table, read by the
// operational API.
func (ctrl *Controller) Registry() *Registry {
	return ctrl.registry
}

// Subscribe attaches the controller to the bus. Every publish on the bus,
// from any process, ends up in handleDelivery.
func (ctrl *Controller) Subscribe() error {
	return ctrl.bus.Subscribe(ctrl.handleDelivery)
}

// NewSession registers an authenticated connection. The caller has already
// verified the identity; a failed handshake never reaches this point, so
// no state exists for it anywhere. The contact notification and the
// mailbox drain run as independent tasks so the handshake completes
// promptly.
func (ctrl *Controller) NewSession(identity string, transport Transport) *Session {
	sess := &Session{
		ctrl:        ctrl,
		id:          uuid.NewString(),
		identity:    identity,
		transport:   transport,
		status:      StatusAuthenticated,
		connectedAt: time.Now().Round(time.Second).UTC(),
		closedCh:    make(chan struct{}),
	}

	ctrl.registry.Register(identity, sess)

	if _, err := ctrl.presence.Connected(context.Background(), identity); err != nil {
		log.Errorf("controller failed to increment presence for '%s': %v", identity, err)
	}

	sess.setStatus(StatusActive)
	log.Infof("controller opened session %s for '%s'", sess.id, identity)

	ctrl.tasks.Submit(func() error {
		return ctrl.notifyContacts(identity, wire.StatusOnline)
	})
	ctrl.tasks.Submit(func() error {
		return ctrl.drainMailbox(sess)
	})

	return sess
}

// RouteMessage authorizes and publishes one message. The gate is consulted
// synchronously; a denial short-circuits with no publish and no spool.
func (ctrl *Controller) RouteMessage(sess *Session, env *wire.Envelope) error {
	if !ctrl.mayRoute(env.From, env.To) {
		return NewAuthorizationError(env.From, env.To)
	}

	payload, err := wire.MarshalEnvelope(env)
	if err != nil {
		return err
	}

	if err := ctrl.bus.Publish(context.Background(), env.To, payload); err != nil {
		return err
	}

	// Spool only when the recipient is online nowhere. Absence from the
	// local registry is not enough: the recipient may be connected to a
	// different process.
	online, err := ctrl.presence.IsOnline(context.Background(), env.To)
	if err != nil {
		log.Errorf("controller failed to check presence of '%s': %v", env.To, err)
		return nil
	}
	if !online {
		m := &model.PendingMessage{
			Recipient: env.To,
			Sender:    env.From,
			Content:   env.Content,
			Timestamp: time.Now().UTC(),
		}
		ctrl.tasks.Submit(func() error {
			return ctrl.store.Mailbox().Append(m)
		})
	}

	return nil
}

// closeSession is the terminal transition. Deregistration is idempotent;
// the presence decrement happens once per session, and the offline
// broadcast fires only when the identity has no connection left anywhere.
func (ctrl *Controller) closeSession(sess *Session) {
	identity := sess.identity
	remaining := ctrl.registry.Deregister(identity, sess)

	count, err := ctrl.presence.Disconnected(context.Background(), identity)
	if err != nil {
		log.Errorf("controller failed to decrement presence for '%s': %v", identity, err)
	}

	log.Infof("controller closed session %s for '%s', local sessions left: %d", sess.id, identity, remaining)

	if remaining == 0 && count <= 0 {
		ctrl.tasks.Submit(func() error {
			return ctrl.notifyContacts(identity, wire.StatusOffline)
		})
	}
}

// handleDelivery runs on every process for every publish. It resolves the
// recipient to local sessions and writes to each open one; a connection
// that cannot take the frame is skipped, it does not delay or abort
// delivery to the others.
func (ctrl *Controller) handleDelivery(recipient string, payload []byte) {
	for _, sess := range ctrl.registry.ListFor(recipient) {
		if !sess.Deliver(payload) {
			log.Warnf("controller could not deliver to session %s of '%s'", sess.ID(), recipient)
		}
	}
}

// mayRoute is the authorization gate: a contact record must exist for the
// pair, be accepted and not blocked. A missing record or a store failure
// denies.
func (ctrl *Controller) mayRoute(sender, recipient string) bool {
	contact, err := ctrl.store.Contacts().FindByUserAndContact(sender, recipient)
	if err == storage.ErrNotFound {
		log.Infof("controller found no contact between '%s' and '%s'", sender, recipient)
		return false
	}
	if err != nil {
		log.Errorf("controller failed to look up contact between '%s' and '%s': %v", sender, recipient, err)
		return false
	}

	return contact.Accepted && !contact.Blocked
}

// notifyContacts broadcasts a status event of this identity to every
// contact that is itself currently online.
func (ctrl *Controller) notifyContacts(identity, status string) error {
	contacts, err := ctrl.store.Contacts().ListContactsOf(identity)
	if err != nil {
		return err
	}

	payload, err := wire.MarshalStatusEvent(identity, status)
	if err != nil {
		return err
	}

	for _, contact := range contacts {
		online, err := ctrl.presence.IsOnline(context.Background(), contact)
		if err != nil {
			log.Errorf("controller failed to check presence of '%s': %v", contact, err)
			continue
		}
		if !online {
			continue
		}

		if err := ctrl.bus.Publish(context.Background(), contact, payload); err != nil {
			log.Errorf("controller failed to publish status event to '%s': %v", contact, err)
		}
	}

	return nil
}

// drainMailbox replays all spooled messages to a freshly opened session,
// oldest first, then clears the mailbox. Replay is best-effort: a message
// that was drained but could not be written is dropped, not re-spooled,
// to avoid redelivery loops.
func (ctrl *Controller) drainMailbox(sess *Session) error {
	pending, err := ctrl.store.Mailbox().FetchAllForRecipient(sess.identity)
	if err != nil {
		return err
	}

	for _, m := range pending {
		payload, err := wire.MarshalEnvelope(&wire.Envelope{
			To:      m.Recipient,
			From:    m.Sender,
			Content: m.Content,
		})
		if err != nil {
			log.Errorf("controller could not marshal pending message for '%s': %v", sess.identity, err)
			continue
		}

		if !sess.Deliver(payload) {
			log.Warnf("controller could not replay pending message to session %s", sess.ID())
		}
	}

	if len(pending) > 0 {
		if err := ctrl.store.Mailbox().DeleteAllForRecipient(sess.identity); err != nil {
			return err
		}
		log.Infof("controller replayed %d pending messages to '%s'", len(pending), sess.identity)
	}

	return nil
}

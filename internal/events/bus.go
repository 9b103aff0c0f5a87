// Package events carries catalog mutation events between the write paths
// and the consistency engine. Dispatch is in-process and synchronous: every
// subscriber runs on the caller's goroutine, inside the caller's
// transaction, before the mutation commits. There is no hidden hook
// registry; main wires every subscription explicitly.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Event kinds.
const (
	KindVariantChanged = "variant.changed"
	KindReviewChanged  = "review.changed"
)

// Event is a typed catalog mutation notification.
type Event interface {
	Kind() string
	Product() uuid.UUID
}

// VariantChanged signals that a variant of the product was created, updated
// with a price or active-flag change, or deleted.
type VariantChanged struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	Deleted   bool
}

func (VariantChanged) Kind() string { return KindVariantChanged }
func (e VariantChanged) Product() uuid.UUID { return e.ProductID }

// ReviewChanged signals that a review of the product was created, updated,
// deleted, or had its published flag toggled.
type ReviewChanged struct {
	ProductID uuid.UUID
	ReviewID  uuid.UUID
	Deleted   bool
}

func (ReviewChanged) Kind() string { return KindReviewChanged }
func (e ReviewChanged) Product() uuid.UUID { return e.ProductID }

// Handler consumes an event within the publishing transaction. Returning an
// error aborts the publish and, through it, the transaction.
type Handler func(tx *gorm.DB, ev Event) error

// Bus is a synchronous in-process dispatcher. Subscribe during startup only;
// the handler table is not guarded for concurrent mutation.
type Bus struct {
	handlers map[string][]Handler
	logger   *logrus.Entry
}

func NewBus(logger *logrus.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger.WithField("component", "events.bus"),
	}
}

// Subscribe registers a handler for an event kind.
func (b *Bus) Subscribe(kind string, h Handler) {
	b.handlers[kind] = append(b.handlers[kind], h)
}

// Publish dispatches ev to every subscriber of its kind, in registration
// order, on the caller's transaction. The first handler error stops
// dispatch and is returned to the publisher.
func (b *Bus) Publish(tx *gorm.DB, ev Event) error {
	start := time.Now()
	for _, h := range b.handlers[ev.Kind()] {
		if err := h(tx, ev); err != nil {
			b.logger.WithError(err).WithFields(logrus.Fields{
				"event":     ev.Kind(),
				"productId": ev.Product(),
			}).Error("event handler failed")
			return err
		}
	}
	b.logger.WithFields(logrus.Fields{
		"event":     ev.Kind(),
		"productId": ev.Product(),
		"elapsed":   time.Since(start),
	}).Debug("event dispatched")
	return nil
}

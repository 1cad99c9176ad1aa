// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/domain/order"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

var (
	// ErrNotIdle is returned when an order is placed from any state but Idle
	ErrNotIdle = errors.New("checkout is not idle")
)

// CartClearer empties the local cart mirror after a successful checkout
type CartClearer interface {
	Clear(ctx context.Context, id identity.Identity) error
}

// Service builds submitters sharing the store client, cart and journal
type Service struct {
	client  *apiclient.Client
	cart    CartClearer
	journal Journal
	logger  *logrus.Logger
	now     func() time.Time
}

// NewService creates a new checkout service. journal may be nil.
func NewService(client *apiclient.Client, cart CartClearer, journal Journal, logger *logrus.Logger) *Service {
	return &Service{
		client:  client,
		cart:    cart,
		journal: journal,
		logger:  logger,
		now:     time.Now,
	}
}

// Submitter drives one checkout page through
// Idle -> Validating -> Submitting -> Succeeded | Failed.
// A failed submission is never retried; the shopper edits and submits again.
type Submitter struct {
	svc *Service
	id  identity.Identity

	mu    sync.Mutex
	state State
	err   error
	order *order.Order
}

// NewSubmitter starts an Idle checkout for id
func (s *Service) NewSubmitter(id identity.Identity) *Submitter {
	return &Submitter{svc: s, id: id, state: StateIdle}
}

// Journal returns the attempt journal, nil when none is configured
func (s *Service) Journal() Journal {
	return s.journal
}

// State returns the current state
func (sub *Submitter) State() State {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.state
}

// Err returns the error that moved the submitter to Failed
func (sub *Submitter) Err() error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.err
}

// Order returns the order created by a successful submission
func (sub *Submitter) Order() *order.Order {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.order
}

// Edit records a change to the form. A Failed submitter returns to Idle.
func (sub *Submitter) Edit() {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.state == StateFailed {
		sub.state = StateIdle
		sub.err = nil
	}
}

// PlaceOrder validates the form and submits it once. On success the local
// cart mirror is cleared; on failure it is left untouched.
func (sub *Submitter) PlaceOrder(ctx context.Context, form CardForm) (*order.Order, error) {
	if err := sub.transition(StateIdle, StateValidating); err != nil {
		return nil, err
	}

	attempt := &Attempt{
		SessionID:   sub.id.SessionID,
		Username:    sub.id.Username,
		SavedCard:   form.UsesSavedCard(),
		SavedCardID: form.SavedCardID,
		StartedAt:   sub.svc.now().UTC(),
	}
	if !form.UsesSavedCard() {
		attempt.CardLast4 = form.Last4()
	}

	if err := ValidateCard(form); err != nil {
		return nil, sub.fail(ctx, attempt, err)
	}
	if !sub.id.IsUser() {
		return nil, sub.fail(ctx, attempt, &apiclient.AuthError{Message: "login required to check out"})
	}

	if err := sub.transition(StateValidating, StateSubmitting); err != nil {
		return nil, err
	}

	var placed order.Order
	err := sub.svc.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/checkout/",
		Body:   BuildPayload(form),
		Header: identity.AuthHeaders(sub.id),
	}, &placed)
	if err != nil {
		return nil, sub.fail(ctx, attempt, err)
	}

	if err := sub.svc.cart.Clear(ctx, sub.id); err != nil {
		sub.svc.logger.WithField("session_id", sub.id.SessionID).WithError(err).Warn("Failed to clear cart mirror after checkout")
	}

	sub.mu.Lock()
	sub.state = StateSucceeded
	sub.order = &placed
	sub.mu.Unlock()

	attempt.State = StateSucceeded
	attempt.OrderID = &placed.ID
	sub.record(ctx, attempt)

	sub.svc.logger.WithFields(logrus.Fields{
		"session_id": sub.id.SessionID,
		"username":   sub.id.Username,
		"order_id":   placed.ID,
		"saved_card": form.UsesSavedCard(),
	}).Info("Checkout succeeded")

	return &placed, nil
}

func (sub *Submitter) transition(from, to State) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.state != from {
		return fmt.Errorf("%w: state is %s", ErrNotIdle, sub.state)
	}
	sub.state = to
	return nil
}

func (sub *Submitter) fail(ctx context.Context, attempt *Attempt, err error) error {
	sub.mu.Lock()
	sub.state = StateFailed
	sub.err = err
	sub.mu.Unlock()

	attempt.State = StateFailed
	attempt.ErrorMessage = apiclient.UserMessage(err)
	if rejection, ok := apiclient.AsRejection(err); ok {
		attempt.HTTPStatus = rejection.Status
	} else if apiclient.IsAuth(err) {
		attempt.HTTPStatus = http.StatusUnauthorized
	}

	entry := sub.svc.logger.WithFields(logrus.Fields{
		"session_id": sub.id.SessionID,
		"username":   sub.id.Username,
	}).WithError(err)
	if apiclient.IsValidation(err) {
		entry.Debug("Checkout form rejected")
	} else {
		entry.Warn("Checkout failed")
	}
	sub.record(ctx, attempt)

	return err
}

func (sub *Submitter) record(ctx context.Context, attempt *Attempt) {
	if sub.svc.journal == nil {
		return
	}
	finished := sub.svc.now().UTC()
	attempt.FinishedAt = &finished
	if err := sub.svc.journal.Record(ctx, attempt); err != nil {
		sub.svc.logger.WithField("session_id", sub.id.SessionID).WithError(err).Error("Failed to journal checkout attempt")
	}
}

// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// Service keeps the local cart mirror in step with the store's cart.
// The store is authoritative: every mutation is followed by a re-fetch.
type Service struct {
	client *apiclient.Client
	mirror MirrorStore
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new cart service
func NewService(client *apiclient.Client, mirror MirrorStore, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		mirror: mirror,
		logger: logger,
		now:    time.Now,
	}
}

// Mirror returns the last-known cart without contacting the store
func (s *Service) Mirror(ctx context.Context, id identity.Identity) (Cart, error) {
	return s.mirror.Load(ctx, id.SessionID)
}

// FetchCart loads the cart from the store and replaces the mirror with it.
// On failure the last-known mirror is returned together with the error.
func (s *Service) FetchCart(ctx context.Context, id identity.Identity) (Cart, error) {
	result := apiclient.Fetch[serverCart](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/cart/",
		Header: identity.AuthHeaders(id),
	})
	if !result.IsOk() {
		return s.lastKnown(ctx, id), result.Err
	}

	fetched, err := result.Value.toCart(s.now().UTC())
	if err != nil {
		return s.lastKnown(ctx, id), err
	}

	c := Reduce(Cart{FetchedAt: fetched.FetchedAt}, ReplaceAll{Lines: fetched.Lines})
	s.store(ctx, id, c)
	return c, nil
}

// AddLine adds quantity units of productID. knownStock, when set, clamps the
// quantity to a previously fetched stock figure; the store still enforces stock.
func (s *Service) AddLine(ctx context.Context, id identity.Identity, productID int64, quantity int, knownStock *int) (Cart, error) {
	if quantity < 1 {
		return s.lastKnown(ctx, id), &apiclient.ValidationError{
			Field:   "quantity",
			Message: "Quantity must be at least 1.",
		}
	}
	if knownStock != nil {
		if *knownStock < 1 {
			return s.lastKnown(ctx, id), &apiclient.ValidationError{
				Field:   "quantity",
				Message: "This product is out of stock.",
			}
		}
		if quantity > *knownStock {
			quantity = *knownStock
		}
	}

	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/cart/add_item/",
		Body:   AddItemRequest{ProductID: productID, Quantity: quantity},
		Header: identity.AuthHeaders(id),
	}, nil)
	if err != nil {
		return s.lastKnown(ctx, id), err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": id.SessionID,
		"product_id": productID,
		"quantity":   quantity,
	}).Debug("Added cart line")

	return s.FetchCart(ctx, id)
}

// SetLineQuantity changes a line's quantity. Zero removes the line. The mirror
// is updated optimistically and then replaced by the store's answer.
func (s *Service) SetLineQuantity(ctx context.Context, id identity.Identity, lineID int64, quantity int) (Cart, error) {
	if quantity < 0 {
		return s.lastKnown(ctx, id), &apiclient.ValidationError{
			Field:   "quantity",
			Message: "Quantity cannot be negative.",
		}
	}
	if quantity == 0 {
		return s.RemoveLine(ctx, id, lineID)
	}

	previous := s.lastKnown(ctx, id)
	s.store(ctx, id, Reduce(previous, SetQuantity{LineID: lineID, Quantity: quantity}))

	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/cart/%d/update_item/", lineID),
		Body:   UpdateItemRequest{Quantity: quantity},
		Header: identity.AuthHeaders(id),
	}, nil)
	if err != nil {
		return s.rollback(ctx, id, previous), err
	}

	return s.FetchCart(ctx, id)
}

// RemoveLine removes a line. Removing a line that is already gone, locally or
// at the store, is not an error.
func (s *Service) RemoveLine(ctx context.Context, id identity.Identity, lineID int64) (Cart, error) {
	previous := s.lastKnown(ctx, id)
	s.store(ctx, id, Reduce(previous, RemoveLine{LineID: lineID}))

	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/cart/%d/remove_item/", lineID),
		Header: identity.AuthHeaders(id),
	}, nil)
	if err != nil && !apiclient.IsNotFound(err) {
		return s.rollback(ctx, id, previous), err
	}

	return s.FetchCart(ctx, id)
}

// Clear empties the local mirror only; the store clears its own cart on checkout
func (s *Service) Clear(ctx context.Context, id identity.Identity) error {
	return s.mirror.Clear(ctx, id.SessionID)
}

// rollback re-fetches after a failed mutation and falls back to the
// pre-mutation mirror when the store cannot be reached either
func (s *Service) rollback(ctx context.Context, id identity.Identity, previous Cart) Cart {
	c, err := s.FetchCart(ctx, id)
	if err == nil {
		return c
	}
	s.store(ctx, id, previous)
	return previous
}

func (s *Service) lastKnown(ctx context.Context, id identity.Identity) Cart {
	c, err := s.mirror.Load(ctx, id.SessionID)
	if err != nil {
		s.logger.WithField("session_id", id.SessionID).WithError(err).Warn("Failed to load cart mirror")
		return Cart{Lines: []CartLine{}}
	}
	return c
}

func (s *Service) store(ctx context.Context, id identity.Identity, c Cart) {
	if c.Lines == nil {
		c.Lines = []CartLine{}
	}
	if err := s.mirror.Store(ctx, id.SessionID, c); err != nil {
		s.logger.WithField("session_id", id.SessionID).WithError(err).Warn("Failed to store cart mirror")
	}
}

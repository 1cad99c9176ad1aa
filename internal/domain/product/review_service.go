// internal/domain/product/review_service.go
package product

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// ListReviews returns the approved reviews of a product
func (s *Service) ListReviews(ctx context.Context, productID int64) ([]Review, error) {
	reviews, err := apiclient.Fetch[[]Review](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/api/reviews/",
		Query:  url.Values{"product": []string{strconv.FormatInt(productID, 10)}},
	}).Unwrap()
	if err != nil {
		return nil, err
	}

	// The store may ignore the product parameter and list every approved review
	want := strconv.FormatInt(productID, 10)
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if r.Product.String() == want {
			out = append(out, r)
		}
	}
	return out, nil
}

// SubmitReview posts a review. The store holds it until a product manager approves it.
func (s *Service) SubmitReview(ctx context.Context, id identity.Identity, req CreateReviewRequest) (*Review, error) {
	if !id.IsUser() {
		return nil, &apiclient.AuthError{Message: "login required to review"}
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &apiclient.ValidationError{
			Field:   "rating",
			Message: "Please choose a rating between 1 and 5.",
		}
	}

	var created Review
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/api/reviews/",
		Body:   req,
		Header: identity.AuthHeaders(id),
	}, &created)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": id.SessionID,
		"product_id": req.Product,
		"rating":     req.Rating,
	}).Info("Review submitted")

	return &created, nil
}

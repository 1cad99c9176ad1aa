// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

const dateLayout = "2006-01-02"

// Service fetches and acts on orders, refunds, deliveries and invoices.
// Every view fetches on its own; nothing is cached between calls.
type Service struct {
	client *apiclient.Client
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(client *apiclient.Client, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// InvoicePDF is a store-rendered invoice document
type InvoicePDF struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ListOrders returns the shopper's orders, newest first as the store sends them
func (s *Service) ListOrders(ctx context.Context, id identity.Identity) ([]Order, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	orders, err := apiclient.Fetch[[]Order](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/orders/",
		Header: identity.AuthHeaders(id),
	}).Unwrap()
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// LatestOrder returns the most recent order, shown on the confirmation view
func (s *Service) LatestOrder(ctx context.Context, id identity.Identity) (*Order, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	result := apiclient.Fetch[Order](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/orders/latest/",
		Header: identity.AuthHeaders(id),
	})
	if !result.IsOk() {
		return nil, result.Err
	}
	return &result.Value, nil
}

// CancelOrder asks the store to cancel an order and returns the re-fetched list.
// Orders past PROCESSING are refused before the store is asked.
func (s *Service) CancelOrder(ctx context.Context, id identity.Identity, orderID int64) ([]Order, error) {
	orders, err := s.ListOrders(ctx, id)
	if err != nil {
		return nil, err
	}
	target, ok := findOrder(orders, orderID)
	if !ok {
		return nil, &apiclient.ServerRejection{Status: http.StatusNotFound, Message: "Order not found."}
	}
	if !target.Status.IsCancelable() {
		return nil, &apiclient.ValidationError{
			Field:   "status",
			Message: "Order cannot be canceled as it is not in the PROCESSING state.",
		}
	}

	err = s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/cart/cancel-order/%d/", orderID),
		Header: identity.AuthHeaders(id),
	}, nil)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": id.SessionID,
		"order_id":   orderID,
	}).Info("Order cancel requested")

	return s.ListOrders(ctx, id)
}

// RequestRefund files a refund for part of an order line. The store checks the
// refundable quantity and its message is returned unchanged on rejection.
func (s *Service) RequestRefund(ctx context.Context, id identity.Identity, orderItemID int64, req RefundRequest) (*RefundReceipt, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, &apiclient.ValidationError{
			Field:   "quantity",
			Message: "Please enter a quantity of at least 1.",
		}
	}

	var receipt RefundReceipt
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/cart/request-refund/%d/", orderItemID),
		Body:   req,
		Header: identity.AuthHeaders(id),
	}, &receipt)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id":    id.SessionID,
		"order_item_id": orderItemID,
		"refund_id":     receipt.RefundID,
	}).Info("Refund requested")

	return &receipt, nil
}

// ListRefunds returns refund requests, optionally filtered by status
func (s *Service) ListRefunds(ctx context.Context, id identity.Identity, status RefundStatus) ([]Refund, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	var query url.Values
	if status != "" {
		query = url.Values{"status": []string{string(status)}}
	}
	refunds, err := apiclient.Fetch[[]Refund](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/api/cart/refunds/",
		Query:  query,
		Header: identity.AuthHeaders(id),
	}).Unwrap()
	if err != nil {
		return nil, err
	}
	if refunds == nil {
		refunds = []Refund{}
	}
	return refunds, nil
}

// ApproveRefund approves a pending refund and re-fetches the list
func (s *Service) ApproveRefund(ctx context.Context, id identity.Identity, refundID int64, status RefundStatus) (*RefundDecision, []Refund, error) {
	return s.decideRefund(ctx, id, "approve-refund", refundID, status)
}

// DenyRefund denies a pending refund and re-fetches the list
func (s *Service) DenyRefund(ctx context.Context, id identity.Identity, refundID int64, status RefundStatus) (*RefundDecision, []Refund, error) {
	return s.decideRefund(ctx, id, "deny-refund", refundID, status)
}

func (s *Service) decideRefund(ctx context.Context, id identity.Identity, action string, refundID int64, status RefundStatus) (*RefundDecision, []Refund, error) {
	if err := requireUser(id); err != nil {
		return nil, nil, err
	}

	var decision RefundDecision
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/cart/%s/%d/", action, refundID),
		Header: identity.AuthHeaders(id),
	}, &decision)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": id.SessionID,
		"refund_id":  refundID,
		"action":     action,
	}).Info("Refund decided")

	refunds, err := s.ListRefunds(ctx, id, status)
	if err != nil {
		return &decision, nil, err
	}
	return &decision, refunds, nil
}

// ListDeliveries returns every delivery for the delivery manager
func (s *Service) ListDeliveries(ctx context.Context, id identity.Identity) ([]Delivery, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	deliveries, err := apiclient.Fetch[[]Delivery](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/api/deliveries/",
		Header: identity.AuthHeaders(id),
	}).Unwrap()
	if err != nil {
		return nil, err
	}
	if deliveries == nil {
		deliveries = []Delivery{}
	}
	return deliveries, nil
}

// UpdateDeliveryStatus sets a delivery's status. The returned delivery is the
// store's answer, or a local patch when the store answers without a body.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, id identity.Identity, deliveryID int64, status DeliveryStatus) (*Delivery, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, &apiclient.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("Invalid status %q. Use one of PENDING, IN-TRANSIT, DELIVERED, CANCELED.", status),
		}
	}

	var updated Delivery
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/deliveries/%d/", deliveryID),
		Body:   DeliveryStatusRequest{Status: status},
		Header: identity.AuthHeaders(id),
	}, &updated)
	if err != nil {
		return nil, err
	}
	if updated.ID == 0 {
		updated = Delivery{ID: deliveryID}
	}
	updated.Status = status

	s.logger.WithFields(logrus.Fields{
		"session_id":  id.SessionID,
		"delivery_id": deliveryID,
		"status":      status,
	}).Info("Delivery status updated")

	return &updated, nil
}

// ListInvoices returns the orders placed between two dates, inclusive.
// Both dates are required in YYYY-MM-DD form.
func (s *Service) ListInvoices(ctx context.Context, id identity.Identity, startDate, endDate string) ([]Order, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	if err := checkDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	invoices, err := apiclient.Fetch[[]Order](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/api/cart/fetch-invoices/",
		Query: url.Values{
			"start_date": []string{startDate},
			"end_date":   []string{endDate},
		},
		Header: identity.AuthHeaders(id),
	}).Unwrap()
	if err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []Order{}
	}
	return invoices, nil
}

// RevenueProfit returns the sales manager's revenue and profit figures for
// orders placed between two dates. Canceled orders and refunded units are
// left out by the store.
func (s *Service) RevenueProfit(ctx context.Context, id identity.Identity, startDate, endDate string) (*RevenueProfit, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	if err := checkDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	report, err := apiclient.Fetch[RevenueProfit](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/api/revenue-profit-analysis/",
		Query: url.Values{
			"start_date": []string{startDate},
			"end_date":   []string{endDate},
		},
		Header: identity.AuthHeaders(id),
	}).Unwrap()
	if err != nil {
		return nil, err
	}
	if report.RevenueByDate == nil {
		report.RevenueByDate = []RevenuePoint{}
	}
	// Older stores leave the refund total out of the answer
	if report.TotalRefunds.IsZero() {
		for _, point := range report.RevenueByDate {
			report.TotalRefunds = report.TotalRefunds.Add(point.Refunds)
		}
	}
	return &report, nil
}

// GetInvoice returns a single invoice (an order) by id
func (s *Service) GetInvoice(ctx context.Context, id identity.Identity, orderID int64) (*Order, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	result := apiclient.Fetch[Order](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/cart/fetch-invoice/%d/", orderID),
		Header: identity.AuthHeaders(id),
	})
	if !result.IsOk() {
		return nil, result.Err
	}
	return &result.Value, nil
}

// DownloadInvoicePDF passes the store's PDF through unchanged
func (s *Service) DownloadInvoicePDF(ctx context.Context, id identity.Identity, orderID int64) (*InvoicePDF, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	header := identity.AuthHeaders(id)
	header.Set("Accept", "application/pdf")

	resp, err := s.client.Raw(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/cart/download-invoice-pdf/%d/", orderID),
		Header: header,
	})
	if err != nil {
		return nil, err
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	return &InvoicePDF{
		Filename:    fmt.Sprintf("invoice_%d.pdf", orderID),
		ContentType: contentType,
		Data:        resp.Body,
	}, nil
}

// checkDateRange validates an inclusive YYYY-MM-DD range before the store sees it
func checkDateRange(startDate, endDate string) error {
	if startDate == "" || endDate == "" {
		return &apiclient.ValidationError{
			Field:   "start_date",
			Message: "Start date and end date are required.",
		}
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return &apiclient.ValidationError{Field: "start_date", Message: "Invalid date format. Use YYYY-MM-DD."}
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return &apiclient.ValidationError{Field: "end_date", Message: "Invalid date format. Use YYYY-MM-DD."}
	}
	if end.Before(start) {
		return &apiclient.ValidationError{Field: "end_date", Message: "End date must not be before start date."}
	}
	return nil
}

func findOrder(orders []Order, orderID int64) (Order, bool) {
	for _, o := range orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return Order{}, false
}

func requireUser(id identity.Identity) error {
	if !id.IsUser() {
		return &apiclient.AuthError{Message: "login required"}
	}
	return nil
}

// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// Status is the store-owned order state. The storefront only displays it.
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusInTransit  Status = "IN-TRANSIT"
	StatusDelivered  Status = "DELIVERED"
	StatusCanceled   Status = "CANCELED"
)

// IsCancelable reports whether the store accepts a cancel request for the order
func (s Status) IsCancelable() bool {
	return s == StatusProcessing
}

// RefundStatus is the state of a refund request
type RefundStatus string

const (
	RefundPending  RefundStatus = "PENDING"
	RefundApproved RefundStatus = "APPROVED"
	RefundDenied   RefundStatus = "DENIED"
)

// DeliveryStatus is the state a delivery manager may set
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryInTransit DeliveryStatus = "IN-TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryCanceled  DeliveryStatus = "CANCELED"
)

// ValidDeliveryStatuses lists the statuses the store accepts
var ValidDeliveryStatuses = []DeliveryStatus{DeliveryPending, DeliveryInTransit, DeliveryDelivered, DeliveryCanceled}

// IsValid reports whether the store accepts s
func (s DeliveryStatus) IsValid() bool {
	for _, valid := range ValidDeliveryStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

// Item is one line of a placed order
type Item struct {
	ID                 int64           `json:"id"`
	Product            apiclient.Ref   `json:"product"`
	ProductName        string          `json:"product_name"`
	ProductImage       string          `json:"product_image,omitempty"`
	ProductImageURL    string          `json:"product_image_url,omitempty"`
	Quantity           int             `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	RefundableQuantity *int            `json:"refundable_quantity,omitempty"`
}

// Image returns whichever image field the store filled in
func (i Item) Image() string {
	if i.ProductImage != "" {
		return i.ProductImage
	}
	return i.ProductImageURL
}

// Order is created by the store at checkout and is read-only here
type Order struct {
	ID         int64           `json:"id"`
	Status     Status          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []Item          `json:"items"`
}

// RefundRequest is the body of POST /api/cart/request-refund/{id}/
type RefundRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

// RefundReceipt is the store's answer to an accepted refund request
type RefundReceipt struct {
	Success  string `json:"success"`
	RefundID int64  `json:"refund_id"`
}

// Refund is a refund request as listed for the sales manager
type Refund struct {
	ID                int64               `json:"id"`
	User              apiclient.Ref       `json:"user"`
	OrderItem         Item                `json:"order_item"`
	RequestedQuantity int                 `json:"requested_quantity"`
	Reason            string              `json:"reason"`
	Status            RefundStatus        `json:"status"`
	RefundAmount      decimal.NullDecimal `json:"refund_amount"`
	CreatedAt         *time.Time          `json:"created_at,omitempty"`
}

// RefundDecision is the store's answer to approve/deny
type RefundDecision struct {
	Success      string              `json:"success"`
	RefundAmount decimal.NullDecimal `json:"refund_amount"`
}

// Delivery is one entry of the delivery manager's list
type Delivery struct {
	ID              int64               `json:"id"`
	CustomerID      apiclient.Ref       `json:"customer_id"`
	CustomerName    string              `json:"customer_name,omitempty"`
	DeliveryAddress string              `json:"delivery_address"`
	Status          DeliveryStatus      `json:"status"`
	TotalPrice      decimal.NullDecimal `json:"total_price"`
	OrderData       *Order              `json:"order_data,omitempty"`
}

// RevenueProfit is the store's revenue and profit analysis for a date range
type RevenueProfit struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	TotalRefunds  decimal.Decimal `json:"total_refunds"`
	RevenueByDate []RevenuePoint  `json:"revenue_by_date"`
}

// RevenuePoint is one day of the analysis. Date is the store's truncated
// timestamp, passed through as sent.
type RevenuePoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Refunds decimal.Decimal `json:"refunds"`
}

// DeliveryStatusRequest is the body of PUT /api/deliveries/{id}/
type DeliveryStatusRequest struct {
	Status DeliveryStatus `json:"status" binding:"required"`
}

// PatchDeliveryStatus returns deliveries with the status of one entry replaced,
// mirroring a successful update without re-fetching the list
func PatchDeliveryStatus(deliveries []Delivery, deliveryID int64, status DeliveryStatus) []Delivery {
	out := make([]Delivery, len(deliveries))
	for i, d := range deliveries {
		if d.ID == deliveryID {
			d.Status = status
		}
		out[i] = d
	}
	return out
}

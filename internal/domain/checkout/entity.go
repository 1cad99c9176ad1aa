// internal/domain/checkout/entity.go
package checkout

import (
	"time"
)

// State is a step of the checkout page
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// IsTerminal reports whether the submitter has finished an attempt
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// CardForm is the payment form as the shopper filled it in. When SavedCardID
// is set the inline fields are ignored.
type CardForm struct {
	SavedCardID    *int64 `json:"card_id,omitempty"`
	CardholderName string `json:"card_name"`
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry_date"`
	CVV            string `json:"cvv"`
	SaveForFuture  bool   `json:"save_new_card"`
}

// UsesSavedCard reports whether a stored instrument was selected
func (f CardForm) UsesSavedCard() bool {
	return f.SavedCardID != nil
}

// Last4 returns the last four digits of the inline card number, if any
func (f CardForm) Last4() string {
	if len(f.CardNumber) < 4 {
		return ""
	}
	return f.CardNumber[len(f.CardNumber)-4:]
}

// Payload is the body of POST /checkout/
type Payload struct {
	CreditCard interface{} `json:"credit_card"`
}

// SavedCardPayment references a card the store already holds
type SavedCardPayment struct {
	UseSavedCard bool  `json:"use_saved_card"`
	CardID       int64 `json:"card_id"`
}

// InlineCardPayment carries a card typed into the form
type InlineCardPayment struct {
	UseSavedCard bool   `json:"use_saved_card"`
	SaveNewCard  bool   `json:"save_new_card"`
	CardName     string `json:"card_name"`
	CardNumber   string `json:"card_number"`
	ExpiryDate   string `json:"expiry_date"`
	CVV          string `json:"cvv"`
}

// BuildPayload assembles the saved-card reference or the inline card fields,
// never both
func BuildPayload(form CardForm) Payload {
	if form.UsesSavedCard() {
		return Payload{CreditCard: SavedCardPayment{
			UseSavedCard: true,
			CardID:       *form.SavedCardID,
		}}
	}
	return Payload{CreditCard: InlineCardPayment{
		UseSavedCard: false,
		SaveNewCard:  form.SaveForFuture,
		CardName:     form.CardholderName,
		CardNumber:   form.CardNumber,
		ExpiryDate:   form.Expiry,
		CVV:          form.CVV,
	}}
}

// Attempt is one checkout submission as recorded in the journal. Only the
// last four card digits are kept; number, expiry and CVV are never stored.
type Attempt struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SessionID    string     `gorm:"size:64;not null;index" json:"session_id"`
	Username     string     `gorm:"size:150;index" json:"username"`
	SavedCard    bool       `gorm:"not null;default:false" json:"saved_card"`
	SavedCardID  *int64     `json:"saved_card_id,omitempty"`
	CardLast4    string     `gorm:"size:4" json:"card_last4,omitempty"`
	State        State      `gorm:"size:20;not null;index" json:"state"`
	OrderID      *int64     `gorm:"index" json:"order_id,omitempty"`
	HTTPStatus   int        `json:"http_status,omitempty"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	StartedAt    time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName overrides the table name
func (Attempt) TableName() string {
	return "checkout_attempts"
}

// internal/domain/checkout/validation.go
package checkout

import (
	"regexp"

	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3}$`)
)

const (
	invalidCardNumber = "Invalid card number. Please enter a 16-digit card number."
	invalidExpiry     = "Invalid expiry date. Use MM/YY format."
	invalidCVV        = "Invalid CVV. Please enter a 3-digit CVV."
)

// ValidateCard checks the shape of the inline card fields and returns the
// first failure. A selected saved card skips every check.
func ValidateCard(form CardForm) error {
	if form.UsesSavedCard() {
		return nil
	}
	if !cardNumberPattern.MatchString(form.CardNumber) {
		return &apiclient.ValidationError{Field: "card_number", Message: invalidCardNumber}
	}
	if !expiryPattern.MatchString(form.Expiry) {
		return &apiclient.ValidationError{Field: "expiry_date", Message: invalidExpiry}
	}
	if !cvvPattern.MatchString(form.CVV) {
		return &apiclient.ValidationError{Field: "cvv", Message: invalidCVV}
	}
	return nil
}

package validation

import (
	"fmt"
	"strings"
)

// CartValidator validates cart line changes
type CartValidator struct {
	validator *Validator
}

func NewCartValidator(v *Validator) *CartValidator {
	if v == nil {
		v = NewValidator()
	}
	return &CartValidator{validator: v}
}

// ValidateProductID requires a non-empty product identifier
func (cv *CartValidator) ValidateProductID(id string) error {
	if strings.TrimSpace(id) == "" {
		validationError := NewValidationError()
		validationError.AddRequiredError("product_id")
		return validationError
	}
	return nil
}

// ValidateQuantity only bounds the top; zero or less removes the line.
func (cv *CartValidator) ValidateQuantity(qty int) error {
	max := cv.validator.maxCartQuantity()
	if qty > max {
		validationError := NewValidationError()
		validationError.AddError("quantity", ErrorTypeInvalidRange,
			fmt.Sprintf("Quantity must be at most %d", max), qty)
		return validationError
	}
	return nil
}

package validation

import (
	"fmt"

	"homebase/internal/domain"
)

// MsgRatingRequired is shown when no star was selected.
const MsgRatingRequired = "Please provide a rating."

// FeedbackValidator validates feedback wall submissions
type FeedbackValidator struct {
	validator *Validator
}

func NewFeedbackValidator(v *Validator) *FeedbackValidator {
	if v == nil {
		v = NewValidator()
	}
	return &FeedbackValidator{validator: v}
}

// ValidateFeedback reports all field errors together
func (fv *FeedbackValidator) ValidateFeedback(name, message string, rating int) error {
	validationError := NewValidationError()

	name = fv.validator.TrimAndValidateString(name)
	switch {
	case name == "":
		validationError.AddError("name", ErrorTypeRequired, "Name is required", nil)
	case !fv.validator.IsValidStringLength(name, 1, fv.validator.nameMaxLength()):
		validationError.AddInvalidLengthError("name", name, 1, fv.validator.nameMaxLength())
	}

	message = fv.validator.TrimAndValidateString(message)
	switch {
	case message == "":
		validationError.AddError("message", ErrorTypeRequired, "Message is required", nil)
	case !fv.validator.IsValidStringLength(message, 1, fv.validator.messageMaxLength()):
		validationError.AddInvalidLengthError("message", message, 1, fv.validator.messageMaxLength())
	}

	switch {
	case rating == 0:
		validationError.AddError("rating", ErrorTypeRequired, MsgRatingRequired, rating)
	case rating < domain.MinRating || rating > domain.MaxRating:
		validationError.AddError("rating", ErrorTypeInvalidRange,
			fmt.Sprintf("Rating must be between %d and %d", domain.MinRating, domain.MaxRating), rating)
	}

	return validationError.ErrOrNil()
}

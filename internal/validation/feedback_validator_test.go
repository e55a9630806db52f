package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackValidator(t *testing.T) {
	validator := NewFeedbackValidator(nil)

	assert.NoError(t, validator.ValidateFeedback("Ana", "Lovely", 5))

	err := validator.ValidateFeedback("", " ", 0)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"name":    "Name is required",
		"message": "Message is required",
		"rating":  MsgRatingRequired,
	}, ve.FieldMessages())

	err = validator.ValidateFeedback("Ana", "hi", 6)
	ve, ok = AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Rating must be between 1 and 5", ve.FieldMessages()["rating"])
}

func TestCartValidator(t *testing.T) {
	validator := NewCartValidator(nil)

	assert.NoError(t, validator.ValidateQuantity(0))
	assert.NoError(t, validator.ValidateQuantity(99))
	assert.NoError(t, validator.ValidateQuantity(-1), "negative quantities remove the line")
	assert.Error(t, validator.ValidateQuantity(100))

	assert.NoError(t, validator.ValidateProductID("p1"))
	assert.Error(t, validator.ValidateProductID(" "))
}

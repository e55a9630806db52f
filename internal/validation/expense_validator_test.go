package validation

import (
	"testing"

	"homebase/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseValidator(t *testing.T) {
	validator := NewExpenseValidator(nil)

	tests := []struct {
		name       string
		inName     string
		inAmount   string
		wantName   string
		wantAmount domain.Money
		wantFields map[string]string
	}{
		{name: "valid", inName: " Coffee ", inAmount: "2.50", wantName: "Coffee", wantAmount: 250},
		{name: "missing name", inName: "", inAmount: "5", wantFields: map[string]string{"name": MsgExpenseNameRequired}},
		{name: "zero amount", inName: "Bus", inAmount: "0", wantFields: map[string]string{"amount": MsgExpenseAmount}},
		{name: "negative amount", inName: "Bus", inAmount: "-3", wantFields: map[string]string{"amount": MsgExpenseAmount}},
		{name: "not a number", inName: "Bus", inAmount: "abc", wantFields: map[string]string{"amount": MsgExpenseAmount}},
		{name: "infinite", inName: "Bus", inAmount: "Inf", wantFields: map[string]string{"amount": MsgExpenseAmount}},
		{name: "both", inName: " ", inAmount: "", wantFields: map[string]string{
			"name":   MsgExpenseNameRequired,
			"amount": MsgExpenseAmount,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, amount, err := validator.ValidateExpense(tt.inName, tt.inAmount)
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.wantName, name)
				assert.Equal(t, tt.wantAmount, amount)
				return
			}
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantFields, ve.FieldMessages())
		})
	}
}

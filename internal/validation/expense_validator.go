package validation

import (
	"homebase/internal/domain"
)

// Messages shown by the expense form.
const (
	MsgExpenseNameRequired = "Expense name is required"
	MsgExpenseAmount       = "Amount must be a positive number"
)

// ExpenseValidator validates new ledger entries
type ExpenseValidator struct {
	validator *Validator
}

func NewExpenseValidator(v *Validator) *ExpenseValidator {
	if v == nil {
		v = NewValidator()
	}
	return &ExpenseValidator{validator: v}
}

// ValidateExpense checks the name and the amount text, returning the cleaned
// name and parsed amount. Every failing field is reported.
func (ev *ExpenseValidator) ValidateExpense(name, amount string) (string, domain.Money, error) {
	validationError := NewValidationError()

	name = ev.validator.TrimAndValidateString(name)
	if !ev.validator.IsNonEmptyString(name) {
		validationError.AddError("name", ErrorTypeRequired, MsgExpenseNameRequired, nil)
	} else if !ev.validator.IsValidStringLength(name, 1, ev.validator.nameMaxLength()) {
		validationError.AddInvalidLengthError("name", name, 1, ev.validator.nameMaxLength())
	}

	money, err := domain.ParseMoney(amount)
	if err != nil || money <= 0 {
		validationError.AddError("amount", ErrorTypeInvalidValue, MsgExpenseAmount, amount)
	}

	if err := validationError.ErrOrNil(); err != nil {
		return "", 0, err
	}
	return name, money, nil
}

// Package validation checks user input for tasks, expenses, the cart and
// feedback, collecting every problem into a ValidationError.
package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"homebase/internal/config"
)

// Validator carries the configured limits shared by the per-entity
// validators.
type Validator struct {
	limits config.ValidationConfig
}

// NewValidator uses the stock limits from config.NewConfig.
func NewValidator() *Validator {
	return NewValidatorWithConfig(nil)
}

func NewValidatorWithConfig(cfg *config.Config) *Validator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Validator{limits: cfg.Validation}
}

func (v *Validator) IsNonEmptyString(s string) bool {
	return v.TrimAndValidateString(s) != ""
}

// IsValidStringLength counts runes of the trimmed string.
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(v.TrimAndValidateString(s))
	return min <= n && n <= max
}

// HasControlCharacters ignores tabs.
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return r != '\t' && unicode.IsControl(r)
	})
}

func (v *Validator) IsValidTaskID(id int64) bool { return id > 0 }

func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

func (v *Validator) taskTextMinLength() int { return v.limits.TaskTextMinLength }
func (v *Validator) taskTextMaxLength() int { return v.limits.TaskTextMaxLength }
func (v *Validator) nameMaxLength() int     { return v.limits.NameMaxLength }
func (v *Validator) messageMaxLength() int  { return v.limits.MessageMaxLength }
func (v *Validator) maxCartQuantity() int   { return v.limits.MaxCartQuantity }

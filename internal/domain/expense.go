package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Money is an amount in hundredths of the currency unit.
type Money int64

// ParseMoney parses a decimal amount such as "7.5" or "12.34". Amounts are
// rounded to the nearest hundredth.
func ParseMoney(s string) (Money, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return MoneyFromFloat(f)
}

// MoneyFromFloat converts a finite float amount.
func MoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("amount must be finite")
	}
	return Money(math.Round(f * 100)), nil
}

// Float returns the amount in whole units.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// String formats the amount with two decimals, e.g. "7.50".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Expense is a named, positive amount.
type Expense struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    Money     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Ledger holds expenses newest first.
type Ledger struct {
	expenses []Expense
}

// NewLedger restores a ledger from expenses already ordered newest first.
func NewLedger(expenses []Expense) Ledger {
	out := make([]Expense, len(expenses))
	copy(out, expenses)
	return Ledger{expenses: out}
}

// Add puts the expense at the head of the ledger.
func (l Ledger) Add(e Expense) Ledger {
	out := make([]Expense, 0, len(l.expenses)+1)
	out = append(out, e)
	out = append(out, l.expenses...)
	return Ledger{expenses: out}
}

// Delete removes the expense with the given id.
func (l Ledger) Delete(id string) Ledger {
	out := make([]Expense, 0, len(l.expenses))
	for _, e := range l.expenses {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return Ledger{expenses: out}
}

func (l Ledger) Clear() Ledger {
	return Ledger{}
}

func (l Ledger) Expenses() []Expense {
	out := make([]Expense, len(l.expenses))
	copy(out, l.expenses)
	return out
}

func (l Ledger) Len() int { return len(l.expenses) }

// Total sums every expense.
func (l Ledger) Total() Money {
	var total Money
	for _, e := range l.expenses {
		total += e.Amount
	}
	return total
}

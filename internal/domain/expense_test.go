package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input   string
		want    Money
		wantErr bool
	}{
		{input: "5", want: 500},
		{input: "2.5", want: 250},
		{input: "0.1", want: 10},
		{input: " 12.346 ", want: 1235},
		{input: "abc", wantErr: true},
		{input: "NaN", wantErr: true},
		{input: "Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := MoneyFromFloat(math.Inf(1))
	assert.Error(t, err)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "7.50", Money(750).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-1.20", Money(-120).String())
	assert.Equal(t, 7.5, Money(750).Float())
}

func TestLedger(t *testing.T) {
	now := time.Now()
	ledger := NewLedger(nil)
	ledger = ledger.Add(Expense{ID: "a", Name: "Coffee", Amount: 500, CreatedAt: now})
	ledger = ledger.Add(Expense{ID: "b", Name: "Bus", Amount: 250, CreatedAt: now})

	assert.Equal(t, "7.50", ledger.Total().String())
	assert.Equal(t, "b", ledger.Expenses()[0].ID, "newest first")

	without := ledger.Delete("b")
	assert.Equal(t, 1, without.Len())
	assert.Equal(t, 2, ledger.Len())
	assert.Equal(t, Money(0), ledger.Clear().Total())
}

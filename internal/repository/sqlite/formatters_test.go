package sqlite

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDB(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "UTC time",
			input:    time.Date(2024, 1, 31, 9, 30, 0, 0, time.UTC),
			expected: "2024-01-31T09:30:00Z",
		},
		{
			name:     "offset is normalized to UTC",
			input:    time.Date(2024, 1, 31, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800)),
			expected: "2024-01-31T04:00:00Z",
		},
		{
			name:     "sub-second precision is dropped",
			input:    time.Date(2024, 1, 31, 9, 30, 0, 999, time.UTC),
			expected: "2024-01-31T09:30:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTimeForDB(tt.input))
		})
	}
}

func TestParseTimeFromDB_RoundTrip(t *testing.T) {
	original := time.Date(2025, 6, 23, 11, 47, 24, 0, time.UTC)
	parsed, err := ParseTimeFromDB(FormatTimeForDB(original))
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))

	_, err = ParseTimeFromDB("2025-06-23 11:47:24")
	assert.Error(t, err)
}

func TestFormatStringPtrForDB(t *testing.T) {
	assert.Nil(t, FormatStringPtrForDB(nil))
	s := "2024-01-31"
	assert.Equal(t, "2024-01-31", FormatStringPtrForDB(&s))
}

func TestNullStringPtr(t *testing.T) {
	assert.Nil(t, NullStringPtr(sql.NullString{}))
	got := NullStringPtr(sql.NullString{String: "x", Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, "x", *got)
}

func TestBoolToInt(t *testing.T) {
	assert.Equal(t, 1, BoolToInt(true))
	assert.Equal(t, 0, BoolToInt(false))
}

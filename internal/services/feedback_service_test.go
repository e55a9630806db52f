package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"homebase/internal/domain"
	"homebase/internal/realtime"
	"homebase/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFeedbackService(t *testing.T, bus realtime.Bus) *feedbackServiceImpl {
	t.Helper()
	svc := NewFeedbackService(setupRepo(t), bus, nil, 0, nil).(*feedbackServiceImpl)
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("fb-%d", n)
	}
	return svc
}

func TestFeedbackService_Submit(t *testing.T) {
	service := setupFeedbackService(t, nil)
	ctx := context.Background()

	entry, err := service.Submit(ctx, " Asha ", "Great work", 5)
	require.NoError(t, err)
	assert.Equal(t, "fb-1", entry.ID)
	assert.Equal(t, "Asha", entry.Name)
	assert.False(t, entry.CreatedAt.IsZero())

	recent, err := service.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, entry, recent[0])
}

func TestFeedbackService_SubmitValidation(t *testing.T) {
	tests := []struct {
		name       string
		fbName     string
		message    string
		rating     int
		wantFields map[string]string
	}{
		{
			name:       "should ask for a rating",
			fbName:     "A",
			message:    "B",
			rating:     0,
			wantFields: map[string]string{"rating": validation.MsgRatingRequired},
		},
		{
			name:    "should report every missing field",
			rating:  0,
			wantFields: map[string]string{
				"name":    "Name is required",
				"message": "Message is required",
				"rating":  validation.MsgRatingRequired,
			},
		},
		{
			name:       "should reject rating above five",
			fbName:     "A",
			message:    "B",
			rating:     6,
			wantFields: map[string]string{"rating": "Rating must be between 1 and 5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := setupFeedbackService(t, nil)
			ctx := context.Background()

			_, err := service.Submit(ctx, tt.fbName, tt.message, tt.rating)

			ve, ok := validation.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantFields, ve.FieldMessages())

			recent, err := service.Recent(ctx, 10)
			require.NoError(t, err)
			assert.Empty(t, recent)
		})
	}
}

func TestFeedbackService_RecentOrderAndLimit(t *testing.T) {
	service := setupFeedbackService(t, nil)
	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		_, err := service.Submit(ctx, "user", fmt.Sprintf("message %d", i), 4)
		require.NoError(t, err)
	}

	recent, err := service.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, domain.DefaultFeedbackLimit)
	assert.Equal(t, "message 12", recent[0].Message)
	assert.Equal(t, "message 3", recent[9].Message)

	top, err := service.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestFeedbackService_WatchWithoutBus(t *testing.T) {
	service := setupFeedbackService(t, nil)
	err := service.Watch(context.Background(), 5, func([]domain.Feedback) {})
	assert.ErrorIs(t, err, ErrNoBus)
}

func TestFeedbackService_Watch(t *testing.T) {
	// Arrange
	bus := realtime.NewMemoryBus(nil)
	t.Cleanup(func() { bus.Close() })
	service := setupFeedbackService(t, bus)
	_, err := service.Submit(context.Background(), "first", "hello", 3)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	snapshots := make(chan []domain.Feedback, 8)
	done := make(chan error, 1)

	// Act
	go func() {
		done <- service.Watch(ctx, 5, func(entries []domain.Feedback) { snapshots <- entries })
	}()

	// Assert
	initial := receiveSnapshot(t, snapshots)
	require.Len(t, initial, 1)

	require.Eventually(t, func() bool {
		if _, err := service.Submit(context.Background(), "second", "again", 4); err != nil {
			return false
		}
		select {
		case next := <-snapshots:
			return len(next) >= 2 && next[0].Name == "second"
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not return after cancel")
	}
}

func receiveSnapshot(t *testing.T, ch <-chan []domain.Feedback) []domain.Feedback {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("no feedback snapshot")
	}
	return nil
}

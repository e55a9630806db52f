package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"homebase/internal/domain"
	"homebase/internal/logging"
	"homebase/internal/realtime"
	"homebase/internal/repository/sqlite"
	"homebase/internal/validation"
)

// EventFeedbackCreated is published on the feedback channel after each submit.
const EventFeedbackCreated = "created"

// ErrNoBus is returned by Watch when no realtime bus is configured.
var ErrNoBus = stderrors.New("live feedback needs a realtime bus")

type feedbackServiceImpl struct {
	repo         sqlite.Repository
	bus          realtime.Bus
	mapper       *domain.FeedbackMapper
	validator    *validation.FeedbackValidator
	defaultLimit int
	log          *logging.Logger
	now          func() time.Time
	newID        func() string
}

// NewFeedbackService creates a FeedbackService. bus may be nil, in which
// case submissions are not announced and Watch is unavailable.
func NewFeedbackService(repo sqlite.Repository, bus realtime.Bus, validator *validation.Validator, defaultLimit int, log *logging.Logger) FeedbackService {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultFeedbackLimit
	}
	if log == nil {
		log = logging.Nop()
	}
	return &feedbackServiceImpl{
		repo:         repo,
		bus:          bus,
		mapper:       domain.NewFeedbackMapper(),
		validator:    validation.NewFeedbackValidator(validator),
		defaultLimit: defaultLimit,
		log:          log.With("component", "FeedbackService"),
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Submit validates and appends an entry. The store stamps CreatedAt.
func (f *feedbackServiceImpl) Submit(ctx context.Context, name, message string, rating int) (domain.Feedback, error) {
	if err := f.validator.ValidateFeedback(name, message, rating); err != nil {
		return domain.Feedback{}, err
	}

	entry := domain.Feedback{
		ID:        f.newID(),
		Name:      strings.TrimSpace(name),
		Message:   strings.TrimSpace(message),
		Rating:    rating,
		CreatedAt: f.now().UTC().Truncate(time.Second),
	}
	row := f.mapper.ToDatabase(entry)
	if err := f.repo.CreateFeedback(ctx, &row); err != nil {
		return domain.Feedback{}, err
	}

	if f.bus != nil {
		// The entry is stored; a lost announcement only delays watchers.
		msg, err := realtime.NewMessage(realtime.ChannelFeedback, EventFeedbackCreated, entry)
		if err == nil {
			err = f.bus.Publish(ctx, msg)
		}
		if err != nil {
			f.log.Warn("feedback announcement failed", "id", entry.ID, "error", err)
		}
	}
	return entry, nil
}

// Recent returns the newest entries first
func (f *feedbackServiceImpl) Recent(ctx context.Context, limit int) ([]domain.Feedback, error) {
	if limit <= 0 {
		limit = f.defaultLimit
	}
	rows, err := f.repo.ListRecentFeedback(ctx, limit)
	if err != nil {
		return nil, err
	}
	return domain.RecentFeedback(f.mapper.FromDatabaseSlice(rows), limit), nil
}

// Watch calls fn with the current entries and again after every announced
// submission, until ctx is done.
func (f *feedbackServiceImpl) Watch(ctx context.Context, limit int, fn func([]domain.Feedback)) error {
	if f.bus == nil {
		return ErrNoBus
	}

	snapshot, err := f.Recent(ctx, limit)
	if err != nil {
		return err
	}
	fn(snapshot)

	err = f.bus.Subscribe(ctx, func(msg realtime.Message) {
		if msg.Channel != realtime.ChannelFeedback || msg.Event != EventFeedbackCreated {
			return
		}
		next, err := f.Recent(ctx, limit)
		if err != nil {
			if ctx.Err() == nil {
				f.log.Warn("feedback refresh failed", "error", err)
			}
			return
		}
		fn(next)
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

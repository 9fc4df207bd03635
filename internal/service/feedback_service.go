package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/internal/repository"
	"github.com/nanohana/tsuzuri/pkg/entity"
)

// Shown instead of generated text when the external call fails. The failure
// never propagates to the poster.
const fallbackFeedback = "We couldn't generate your feedback this time. Please try again later."

const (
	generationTimeout = 2 * time.Minute
	persistTimeout    = 10 * time.Second
)

type FeedbackService struct {
	feedback      repository.FeedbackRepositoryI
	diaries       repository.DiariesRepositoryI
	notifications repository.NotificationsRepositoryI
	generator     Generator
	pool          TaskPool
	now           func() time.Time
}

func NewFeedbackService(
	feedbackRepo repository.FeedbackRepositoryI,
	diariesRepo repository.DiariesRepositoryI,
	notificationsRepo repository.NotificationsRepositoryI,
	generator Generator,
	pool TaskPool,
) *FeedbackService {
	if feedbackRepo == nil || diariesRepo == nil || notificationsRepo == nil || generator == nil || pool == nil {
		log.Fatal("on feedback service provided nil dependencies")
	}
	return &FeedbackService{
		feedback:      feedbackRepo,
		diaries:       diariesRepo,
		notifications: notificationsRepo,
		generator:     generator,
		pool:          pool,
		now:           time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (fs *FeedbackService) WithClock(now func() time.Time) *FeedbackService {
	fs.now = now
	return fs
}

func (fs *FeedbackService) RequestDiaryFeedback(ctx context.Context, diaryID, uid uuid.UUID) error {
	diary, err := fs.diaries.GetByID(ctx, diaryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrDiaryNotFound) {
			return err
		}
		return errors.New("diaries repository error: " + err.Error())
	}
	if diary.UserID != uid {
		return errorvalues.ErrWrongOwner
	}
	_, err = fs.feedback.GetByDiary(ctx, diaryID)
	if err == nil {
		return errorvalues.ErrFeedbackExists
	}
	if !errors.Is(err, errorvalues.ErrFeedbackNotFound) {
		return errors.New("feedback repository error: " + err.Error())
	}
	err = fs.pool.Submit(func() {
		fs.runGeneration(&entity.Feedback{
			UserID:  uid,
			DiaryID: &diaryID,
		}, diary.Content)
	})
	if err != nil {
		return errors.New("submitting feedback job error: " + err.Error())
	}
	return nil
}

func (fs *FeedbackService) RequestPeriodFeedback(ctx context.Context, uid uuid.UUID, period string) error {
	p, err := parsePeriod(period)
	if err != nil {
		return err
	}
	windowStart := periodStart(p, fs.now())
	latest, err := fs.feedback.GetLatestByPeriod(ctx, uid, p)
	if err == nil && !latest.CreatedAt.Before(windowStart) {
		return errorvalues.ErrFeedbackExists
	}
	if err != nil && !errors.Is(err, errorvalues.ErrFeedbackNotFound) {
		return errors.New("feedback repository error: " + err.Error())
	}
	diaries, err := fs.diaries.ListByUserAndRange(ctx, uid, windowStart, fs.now().UTC())
	if err != nil {
		return errors.New("diaries repository error: " + err.Error())
	}
	if len(diaries) == 0 {
		return errorvalues.ErrNoDiariesInRange
	}
	var sb strings.Builder
	for _, d := range diaries {
		sb.WriteString(d.Content)
		sb.WriteString("\n---\n")
	}
	err = fs.pool.Submit(func() {
		fs.runGeneration(&entity.Feedback{
			UserID: uid,
			Period: p,
		}, sb.String())
	})
	if err != nil {
		return errors.New("submitting feedback job error: " + err.Error())
	}
	return nil
}

// runGeneration executes outside the request cycle: the poster polls the read
// endpoints for the result instead of waiting on the external call.
func (fs *FeedbackService) runGeneration(f *entity.Feedback, prompt string) {
	genCtx, cancelGen := context.WithTimeout(context.Background(), generationTimeout)
	content, err := fs.generator.Generate(genCtx, prompt)
	cancelGen()
	if err != nil {
		slog.Error("feedback generation failed", slog.String("error", err.Error()))
		content = fallbackFeedback
	}
	f.Content = content
	// The write runs on its own context: when generation timed out, its
	// deadline is already spent and would swallow the fallback row.
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err = fs.feedback.Create(ctx, f); err != nil {
		slog.Error("storing feedback failed", slog.String("error", err.Error()))
		return
	}
	message := "Your diary feedback has arrived"
	if f.Period != "" {
		message = fmt.Sprintf("Your new %s feedback has arrived", f.Period)
	}
	_ = fs.notifications.Create(ctx, &entity.Notification{
		UserID:    f.UserID,
		Message:   message,
		Type:      entity.NotificationFeedback,
		RelatedID: &f.ID,
	})
}

func (fs *FeedbackService) GetDiaryFeedback(ctx context.Context, diaryID, uid uuid.UUID) (*entity.Feedback, error) {
	diary, err := fs.diaries.GetByID(ctx, diaryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrDiaryNotFound) {
			return nil, err
		}
		return nil, errors.New("diaries repository error: " + err.Error())
	}
	if diary.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	feedback, err := fs.feedback.GetByDiary(ctx, diaryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrFeedbackNotFound) {
			return nil, err
		}
		return nil, errors.New("feedback repository error: " + err.Error())
	}
	return feedback, nil
}

func (fs *FeedbackService) GetLatestPeriodFeedback(ctx context.Context, uid uuid.UUID, period string) (*entity.Feedback, error) {
	p, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}
	feedback, err := fs.feedback.GetLatestByPeriod(ctx, uid, p)
	if err != nil {
		if errors.Is(err, errorvalues.ErrFeedbackNotFound) {
			return nil, err
		}
		return nil, errors.New("feedback repository error: " + err.Error())
	}
	return feedback, nil
}

func parsePeriod(period string) (entity.FeedbackPeriod, error) {
	switch entity.FeedbackPeriod(period) {
	case entity.PeriodWeekly:
		return entity.PeriodWeekly, nil
	case entity.PeriodMonthly:
		return entity.PeriodMonthly, nil
	}
	return "", errorvalues.ErrInvalidPeriod
}

// periodStart is the UTC opening instant of the window now falls into:
// Monday 00:00 for weekly, the first of the month for monthly.
func periodStart(p entity.FeedbackPeriod, now time.Time) time.Time {
	now = now.UTC()
	if p == entity.PeriodMonthly {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/internal/service"
	"github.com/nanohana/tsuzuri/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func newFeedbackService(
	feedback *feedbackRepoMock,
	diaries *diariesRepoMock,
	notifications *notificationsRepoMock,
	generator *generatorMock,
) *service.FeedbackService {
	return service.NewFeedbackService(feedback, diaries, notifications, generator, syncPool{}).
		WithClock(fixedClock)
}

func TestRequestDiaryFeedback(t *testing.T) {
	ctx := context.Background()
	t.Run("generates, stores and notifies", func(t *testing.T) {
		feedback := &feedbackRepoMock{}
		notifications := &notificationsRepoMock{}
		s := newFeedbackService(feedback, &diariesRepoMock{diary: testDiary()}, notifications, &generatorMock{text: "warm words"})
		err := s.RequestDiaryFeedback(ctx, diaryID, userID)
		assert.NoError(t, err)
		if assert.Len(t, feedback.created, 1) {
			assert.Equal(t, "warm words", feedback.created[0].Content)
			assert.Equal(t, diaryID, *feedback.created[0].DiaryID)
		}
		if assert.Len(t, notifications.created, 1) {
			assert.Equal(t, entity.NotificationFeedback, notifications.created[0].Type)
		}
	})
	t.Run("generation failure stores fallback text", func(t *testing.T) {
		feedback := &feedbackRepoMock{}
		s := newFeedbackService(feedback, &diariesRepoMock{diary: testDiary()}, &notificationsRepoMock{}, &generatorMock{err: errors.New("endpoint down")})
		err := s.RequestDiaryFeedback(ctx, diaryID, userID)
		assert.NoError(t, err)
		if assert.Len(t, feedback.created, 1) {
			assert.Equal(t, "We couldn't generate your feedback this time. Please try again later.", feedback.created[0].Content)
		}
	})
	t.Run("fallback write is not bound by the generation deadline", func(t *testing.T) {
		feedback := &feedbackRepoMock{}
		s := newFeedbackService(feedback, &diariesRepoMock{diary: testDiary()}, &notificationsRepoMock{}, &generatorMock{err: context.DeadlineExceeded})
		err := s.RequestDiaryFeedback(ctx, diaryID, userID)
		assert.NoError(t, err)
		if assert.Len(t, feedback.created, 1) {
			assert.Equal(t, "We couldn't generate your feedback this time. Please try again later.", feedback.created[0].Content)
		}
		// The write runs on its own short context, not the spent generation one.
		assert.WithinDuration(t, time.Now().Add(10*time.Second), feedback.createDeadline, 5*time.Second)
	})
	t.Run("not the owner", func(t *testing.T) {
		s := newFeedbackService(&feedbackRepoMock{}, &diariesRepoMock{diary: testDiary()}, &notificationsRepoMock{}, &generatorMock{})
		err := s.RequestDiaryFeedback(ctx, diaryID, friendID)
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
	t.Run("feedback already exists", func(t *testing.T) {
		feedback := &feedbackRepoMock{byDiary: &entity.Feedback{UserID: userID, DiaryID: &diaryID}}
		s := newFeedbackService(feedback, &diariesRepoMock{diary: testDiary()}, &notificationsRepoMock{}, &generatorMock{})
		err := s.RequestDiaryFeedback(ctx, diaryID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrFeedbackExists)
	})
	t.Run("diary not found", func(t *testing.T) {
		s := newFeedbackService(&feedbackRepoMock{}, &diariesRepoMock{state: stateDiaryNotFound}, &notificationsRepoMock{}, &generatorMock{})
		err := s.RequestDiaryFeedback(ctx, diaryID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrDiaryNotFound)
	})
}

func TestRequestPeriodFeedback(t *testing.T) {
	ctx := context.Background()
	diary := testDiary()
	t.Run("weekly aggregates the window", func(t *testing.T) {
		feedback := &feedbackRepoMock{}
		diaries := &diariesRepoMock{rangeDiaries: []*entity.Diary{&diary}}
		notifications := &notificationsRepoMock{}
		s := newFeedbackService(feedback, diaries, notifications, &generatorMock{text: "a good week"})
		err := s.RequestPeriodFeedback(ctx, userID, "weekly")
		assert.NoError(t, err)
		if assert.Len(t, feedback.created, 1) {
			assert.Equal(t, entity.PeriodWeekly, feedback.created[0].Period)
			assert.Nil(t, feedback.created[0].DiaryID)
		}
		if assert.Len(t, notifications.created, 1) {
			assert.Equal(t, "Your new weekly feedback has arrived", notifications.created[0].Message)
		}
	})
	t.Run("invalid period", func(t *testing.T) {
		s := newFeedbackService(&feedbackRepoMock{}, &diariesRepoMock{}, &notificationsRepoMock{}, &generatorMock{})
		err := s.RequestPeriodFeedback(ctx, userID, "daily")
		assert.ErrorIs(t, err, errorvalues.ErrInvalidPeriod)
	})
	t.Run("no diaries in the window", func(t *testing.T) {
		s := newFeedbackService(&feedbackRepoMock{}, &diariesRepoMock{}, &notificationsRepoMock{}, &generatorMock{})
		err := s.RequestPeriodFeedback(ctx, userID, "weekly")
		assert.ErrorIs(t, err, errorvalues.ErrNoDiariesInRange)
	})
	t.Run("fresh feedback in the window blocks a rerun", func(t *testing.T) {
		// now is Tuesday 2025-06-10; the weekly window opened Monday 06-09.
		feedback := &feedbackRepoMock{latest: &entity.Feedback{
			UserID:    userID,
			Period:    entity.PeriodWeekly,
			CreatedAt: now.AddDate(0, 0, -1),
		}}
		s := newFeedbackService(feedback, &diariesRepoMock{rangeDiaries: []*entity.Diary{&diary}}, &notificationsRepoMock{}, &generatorMock{})
		err := s.RequestPeriodFeedback(ctx, userID, "weekly")
		assert.ErrorIs(t, err, errorvalues.ErrFeedbackExists)
	})
	t.Run("stale feedback from a past window does not block", func(t *testing.T) {
		feedback := &feedbackRepoMock{latest: &entity.Feedback{
			UserID:    userID,
			Period:    entity.PeriodWeekly,
			CreatedAt: now.AddDate(0, 0, -7),
		}}
		s := newFeedbackService(feedback, &diariesRepoMock{rangeDiaries: []*entity.Diary{&diary}}, &notificationsRepoMock{}, &generatorMock{text: "again"})
		err := s.RequestPeriodFeedback(ctx, userID, "weekly")
		assert.NoError(t, err)
	})
}

func TestGetDiaryFeedback(t *testing.T) {
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		stored := &entity.Feedback{UserID: userID, DiaryID: &diaryID, Content: "warm words"}
		s := newFeedbackService(&feedbackRepoMock{byDiary: stored}, &diariesRepoMock{diary: testDiary()}, &notificationsRepoMock{}, &generatorMock{})
		f, err := s.GetDiaryFeedback(ctx, diaryID, userID)
		assert.NoError(t, err)
		assert.Equal(t, "warm words", f.Content)
	})
	t.Run("not generated yet", func(t *testing.T) {
		s := newFeedbackService(&feedbackRepoMock{}, &diariesRepoMock{diary: testDiary()}, &notificationsRepoMock{}, &generatorMock{})
		_, err := s.GetDiaryFeedback(ctx, diaryID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrFeedbackNotFound)
	})
	t.Run("not the owner", func(t *testing.T) {
		s := newFeedbackService(&feedbackRepoMock{}, &diariesRepoMock{diary: testDiary()}, &notificationsRepoMock{}, &generatorMock{})
		_, err := s.GetDiaryFeedback(ctx, diaryID, friendID)
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
}

func TestGetLatestPeriodFeedback(t *testing.T) {
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		stored := &entity.Feedback{UserID: userID, Period: entity.PeriodMonthly, Content: "a good month"}
		s := newFeedbackService(&feedbackRepoMock{latest: stored}, &diariesRepoMock{}, &notificationsRepoMock{}, &generatorMock{})
		f, err := s.GetLatestPeriodFeedback(ctx, userID, "monthly")
		assert.NoError(t, err)
		assert.Equal(t, "a good month", f.Content)
	})
	t.Run("invalid period", func(t *testing.T) {
		s := newFeedbackService(&feedbackRepoMock{}, &diariesRepoMock{}, &notificationsRepoMock{}, &generatorMock{})
		_, err := s.GetLatestPeriodFeedback(ctx, userID, "yearly")
		assert.ErrorIs(t, err, errorvalues.ErrInvalidPeriod)
	})
	t.Run("nothing stored", func(t *testing.T) {
		s := newFeedbackService(&feedbackRepoMock{}, &diariesRepoMock{}, &notificationsRepoMock{}, &generatorMock{})
		_, err := s.GetLatestPeriodFeedback(ctx, userID, "weekly")
		assert.ErrorIs(t, err, errorvalues.ErrFeedbackNotFound)
	})
}

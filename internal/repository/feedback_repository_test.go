package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/internal/repository"
	"github.com/nanohana/tsuzuri/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

func TestCreateFeedback(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewFeedbackRepoWithConn(mock)
	diaryID := uuid.New()
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO feedbacks (user_id, diary_id, period, content)`)
	t.Run("success", func(t *testing.T) {
		f := entity.Feedback{UserID: uid, DiaryID: &diaryID, Content: "warm words"}
		mock.ExpectQuery(query).
			WithArgs(f.UserID, f.DiaryID, f.Period, f.Content).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), time.Now()))
		assert.NoError(t, repo.Create(ctx, &f))
		assert.NotEqual(t, uuid.UUID{}, f.ID)
	})
	t.Run("duplicate per diary", func(t *testing.T) {
		f := entity.Feedback{UserID: uid, DiaryID: &diaryID, Content: "warm words"}
		mock.ExpectQuery(query).
			WithArgs(f.UserID, f.DiaryID, f.Period, f.Content).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		assert.ErrorIs(t, repo.Create(ctx, &f), errorvalues.ErrFeedbackExists)
	})
	t.Run("unknown user", func(t *testing.T) {
		f := entity.Feedback{UserID: uid, Period: entity.PeriodWeekly, Content: "a good week"}
		mock.ExpectQuery(query).
			WithArgs(f.UserID, f.DiaryID, f.Period, f.Content).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		assert.ErrorIs(t, repo.Create(ctx, &f), errorvalues.ErrUserNotFound)
	})
}

func TestGetFeedbackByDiary(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewFeedbackRepoWithConn(mock)
	diaryID := uuid.New()
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT id, user_id, diary_id, period, content, created_at FROM feedbacks`)
	columns := []string{"id", "user_id", "diary_id", "period", "content", "created_at"}
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(diaryID).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(uuid.New(), uid, &diaryID, entity.FeedbackPeriod(""), "warm words", time.Now()))
		f, err := repo.GetByDiary(ctx, diaryID)
		assert.NoError(t, err)
		assert.Equal(t, "warm words", f.Content)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(diaryID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByDiary(ctx, diaryID)
		assert.ErrorIs(t, err, errorvalues.ErrFeedbackNotFound)
	})
}

func TestGetLatestFeedbackByPeriod(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewFeedbackRepoWithConn(mock)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT id, user_id, diary_id, period, content, created_at FROM feedbacks`)
	columns := []string{"id", "user_id", "diary_id", "period", "content", "created_at"}
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(uid, entity.PeriodWeekly).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(uuid.New(), uid, (*uuid.UUID)(nil), entity.PeriodWeekly, "a good week", time.Now()))
		f, err := repo.GetLatestByPeriod(ctx, uid, entity.PeriodWeekly)
		assert.NoError(t, err)
		assert.Equal(t, entity.PeriodWeekly, f.Period)
	})
	t.Run("nothing stored", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(uid, entity.PeriodMonthly).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetLatestByPeriod(ctx, uid, entity.PeriodMonthly)
		assert.ErrorIs(t, err, errorvalues.ErrFeedbackNotFound)
	})
}

package repository_test

import (
	"context"
	"errors"
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

const diaryColumnsList = `id, user_id, title, content, time_limit_sec, char_limit, view_limit_duration_sec, view_count, like_count, created_at`

func diaryRow(d entity.Diary) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "title", "content", "time_limit_sec", "char_limit",
		"view_limit_duration_sec", "view_count", "like_count", "created_at",
	}).AddRow(
		d.ID, d.UserID, &d.Title, d.Content, d.TimeLimitSec, d.CharLimit,
		d.ViewLimitDurationSec, d.ViewCount, d.LikeCount, d.CreatedAt,
	)
}

func TestCreateDiary(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewDiariesRepoWithConn(mock)
	diary := entity.Diary{
		UserID:               uid,
		Title:                "test_diary",
		Content:              "wrote a little today",
		TimeLimitSec:         300,
		CharLimit:            200,
		ViewLimitDurationSec: 600,
	}
	did := uuid.New()
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO diaries (user_id, title, content, time_limit_sec, char_limit, view_limit_duration_sec)`)
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(diary.UserID, diary.Title, diary.Content, diary.TimeLimitSec, diary.CharLimit, diary.ViewLimitDurationSec).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(did))
		id, err := repo.Create(ctx, &diary)
		assert.NoError(t, err)
		assert.Equal(t, did, id)
	})
	t.Run("FK violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(diary.UserID, diary.Title, diary.Content, diary.TimeLimitSec, diary.CharLimit, diary.ViewLimitDurationSec).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.Create(ctx, &diary)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(diary.UserID, diary.Title, diary.Content, diary.TimeLimitSec, diary.CharLimit, diary.ViewLimitDurationSec).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, &diary)
		assert.Error(t, err)
	})
}

func TestGetDiaryByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewDiariesRepoWithConn(mock)
	diary := entity.Diary{
		ID:                   uuid.New(),
		UserID:               uid,
		Title:                "test_diary",
		Content:              "wrote a little today",
		TimeLimitSec:         300,
		CharLimit:            200,
		ViewLimitDurationSec: 600,
		CreatedAt:            time.Now(),
	}
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT ` + diaryColumnsList + ` FROM diaries WHERE id = $1;`)
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(diary.ID).
			WillReturnRows(diaryRow(diary))
		result, err := repo.GetByID(ctx, diary.ID)
		assert.NoError(t, err)
		assert.Equal(t, diary, *result)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(diary.ID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, diary.ID)
		assert.ErrorIs(t, err, errorvalues.ErrDiaryNotFound)
	})
}

func TestListViewableByUsers(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewDiariesRepoWithConn(mock)
	ctx := context.Background()
	at := time.Now().UTC()
	owners := []uuid.UUID{uuid.New(), uuid.New()}
	diary := entity.Diary{
		ID:                   uuid.New(),
		UserID:               owners[0],
		Content:              "still visible",
		ViewLimitDurationSec: 600,
		CreatedAt:            at.Add(-time.Minute),
	}
	query := regexp.QuoteMeta(`created_at + make_interval(secs => view_limit_duration_sec) >= $2`)
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(owners, at, 20, 0).
			WillReturnRows(diaryRow(diary))
		diaries, err := repo.ListViewableByUsers(ctx, owners, at, 20, 0)
		assert.NoError(t, err)
		if assert.Len(t, diaries, 1) {
			assert.Equal(t, diary.ID, diaries[0].ID)
		}
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(owners, at, 20, 0).
			WillReturnError(errors.New("db error"))
		_, err := repo.ListViewableByUsers(ctx, owners, at, 20, 0)
		assert.Error(t, err)
	})
}

func TestListPublic(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewDiariesRepoWithConn(mock)
	ctx := context.Background()
	at := time.Now().UTC()
	diary := entity.Diary{
		ID:                   uuid.New(),
		UserID:               uuid.New(),
		Content:              "open to everyone",
		ViewLimitDurationSec: 600,
		CreatedAt:            at.Add(-time.Minute),
	}
	query := regexp.QuoteMeta(`WHERE created_at + make_interval(secs => view_limit_duration_sec) >= $1`)
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(at, 20, 0).
			WillReturnRows(diaryRow(diary))
		diaries, err := repo.ListPublic(ctx, at, 20, 0)
		assert.NoError(t, err)
		if assert.Len(t, diaries, 1) {
			assert.Equal(t, diary.ID, diaries[0].ID)
		}
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(at, 20, 0).
			WillReturnError(errors.New("db error"))
		_, err := repo.ListPublic(ctx, at, 20, 0)
		assert.Error(t, err)
	})
}

func TestIncrementViewCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewDiariesRepoWithConn(mock)
	ctx := context.Background()
	did := uuid.New()
	query := regexp.QuoteMeta(`UPDATE diaries SET view_count = view_count + 1 WHERE id = $1;`)
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(did).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.IncrementViewCount(ctx, did))
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(did).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.IncrementViewCount(ctx, did), errorvalues.ErrDiaryNotFound)
	})
}

func TestDeleteDiary(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewDiariesRepoWithConn(mock)
	ctx := context.Background()
	did := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM diaries WHERE id = $1;`)
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(did).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		assert.NoError(t, repo.Delete(ctx, did))
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(did).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.Delete(ctx, did), errorvalues.ErrDiaryNotFound)
	})
}

package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/internal/repository"
	"github.com/nanohana/tsuzuri/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

func TestCreateNotification(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewNotificationsRepoWithConn(mock)
	relatedID := uuid.New()
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO notifications (user_id, message, type, related_id)`)
	t.Run("success fills id and created_at", func(t *testing.T) {
		n := entity.Notification{
			UserID:    uid,
			Message:   "Your diary received a like",
			Type:      entity.NotificationLike,
			RelatedID: &relatedID,
		}
		createdAt := time.Now()
		mock.ExpectQuery(query).
			WithArgs(n.UserID, n.Message, n.Type, n.RelatedID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), createdAt))
		assert.NoError(t, repo.Create(ctx, &n))
		assert.Equal(t, int64(42), n.ID)
		assert.Equal(t, createdAt, n.CreatedAt)
	})
	t.Run("unknown user", func(t *testing.T) {
		n := entity.Notification{UserID: uid, Message: "msg", Type: entity.NotificationFriend}
		mock.ExpectQuery(query).
			WithArgs(n.UserID, n.Message, n.Type, n.RelatedID).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		assert.ErrorIs(t, repo.Create(ctx, &n), errorvalues.ErrUserNotFound)
	})
	t.Run("nil notification", func(t *testing.T) {
		assert.Error(t, repo.Create(ctx, nil))
	})
}

func TestListNotificationsByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewNotificationsRepoWithConn(mock)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT id, user_id, message, type, related_id, is_read, created_at FROM notifications`)
	columns := []string{"id", "user_id", "message", "type", "related_id", "is_read", "created_at"}
	t.Run("all notifications", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(uid, false, 20, 0).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(1), uid, "You received a new friend request", entity.NotificationFriend, (*uuid.UUID)(nil), true, time.Now()).
				AddRow(int64(2), uid, "Your diary received a like", entity.NotificationLike, (*uuid.UUID)(nil), false, time.Now()))
		notifications, err := repo.ListByUser(ctx, uid, false, 20, 0)
		assert.NoError(t, err)
		assert.Len(t, notifications, 2)
	})
	t.Run("unread only", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(uid, true, 20, 0).
			WillReturnRows(pgxmock.NewRows(columns))
		notifications, err := repo.ListByUser(ctx, uid, true, 20, 0)
		assert.NoError(t, err)
		assert.Empty(t, notifications)
	})
}

func TestMarkNotificationRead(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewNotificationsRepoWithConn(mock)
	ctx := context.Background()
	query := regexp.QuoteMeta(`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2;`)
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(1), uid).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.MarkRead(ctx, 1, uid))
	})
	t.Run("someone else's notification stays hidden", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(1), uid).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.MarkRead(ctx, 1, uid), errorvalues.ErrNotificationNotFound)
	})
}

func TestCountUnread(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewNotificationsRepoWithConn(mock)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read;`)
	mock.ExpectQuery(query).
		WithArgs(uid).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	count, err := repo.CountUnread(ctx, uid)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}

package service_test

import (
	"context"
	"testing"

	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/internal/service"
	"github.com/nanohana/tsuzuri/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func TestNotificationList(t *testing.T) {
	ctx := context.Background()
	repo := &notificationsRepoMock{created: []entity.Notification{
		{ID: 1, UserID: userID, Message: "Your diary received a like", Type: entity.NotificationLike},
	}}
	s := service.NewNotificationService(repo)
	t.Run("success", func(t *testing.T) {
		list, err := s.List(ctx, userID, false, service.PaginationOpts{Limit: 20})
		assert.NoError(t, err)
		assert.Len(t, list, 1)
	})
	t.Run("db error", func(t *testing.T) {
		repo.state = stateDBError
		_, err := s.List(ctx, userID, false, service.PaginationOpts{Limit: 20})
		assert.Error(t, err)
		repo.state = stateSuccess
	})
}

func TestNotificationMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := &notificationsRepoMock{}
	s := service.NewNotificationService(repo)
	t.Run("success", func(t *testing.T) {
		assert.NoError(t, s.MarkRead(ctx, 1, userID))
	})
	t.Run("not found", func(t *testing.T) {
		repo.state = stateNotificationNotFound
		err := s.MarkRead(ctx, 1, userID)
		assert.ErrorIs(t, err, errorvalues.ErrNotificationNotFound)
		repo.state = stateSuccess
	})
	t.Run("mark all", func(t *testing.T) {
		assert.NoError(t, s.MarkAllRead(ctx, userID))
	})
}

func TestNotificationUnreadCount(t *testing.T) {
	ctx := context.Background()
	repo := &notificationsRepoMock{created: []entity.Notification{{ID: 1}, {ID: 2}}}
	s := service.NewNotificationService(repo)
	count, err := s.UnreadCount(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/internal/repository"
	"github.com/nanohana/tsuzuri/pkg/entity"
)

type NotificationService struct {
	repo repository.NotificationsRepositoryI
}

func NewNotificationService(notificationsRepo repository.NotificationsRepositoryI) *NotificationService {
	if notificationsRepo == nil {
		log.Fatal("on notification service provided nil repo")
	}
	return &NotificationService{
		repo: notificationsRepo,
	}
}

func (ns *NotificationService) List(ctx context.Context, uid uuid.UUID, unreadOnly bool, pagination PaginationOpts) ([]entity.Notification, error) {
	notifications, err := ns.repo.ListByUser(ctx, uid, unreadOnly, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("notifications repository error: " + err.Error())
	}
	return notifications, nil
}

func (ns *NotificationService) MarkRead(ctx context.Context, id int64, uid uuid.UUID) error {
	err := ns.repo.MarkRead(ctx, id, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNotificationNotFound) {
			return err
		}
		return errors.New("notifications repository error: " + err.Error())
	}
	return nil
}

func (ns *NotificationService) MarkAllRead(ctx context.Context, uid uuid.UUID) error {
	if err := ns.repo.MarkAllRead(ctx, uid); err != nil {
		return errors.New("notifications repository error: " + err.Error())
	}
	return nil
}

func (ns *NotificationService) UnreadCount(ctx context.Context, uid uuid.UUID) (int, error) {
	count, err := ns.repo.CountUnread(ctx, uid)
	if err != nil {
		return 0, errors.New("notifications repository error: " + err.Error())
	}
	return count, nil
}

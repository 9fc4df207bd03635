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

type FriendService struct {
	requests      repository.FriendRequestsRepositoryI
	users         repository.UsersRepositoryI
	notifications repository.NotificationsRepositoryI
}

func NewFriendService(
	requestsRepo repository.FriendRequestsRepositoryI,
	usersRepo repository.UsersRepositoryI,
	notificationsRepo repository.NotificationsRepositoryI,
) *FriendService {
	if requestsRepo == nil || usersRepo == nil || notificationsRepo == nil {
		log.Fatal("on friend service provided nil repos")
	}
	return &FriendService{
		requests:      requestsRepo,
		users:         usersRepo,
		notifications: notificationsRepo,
	}
}

// SendRequest keeps at most one meaningful edge per unordered pair. Resending
// the same request or re-requesting a resolved pair hands back the existing
// edge; a reverse pending request is treated as mutual consent and accepted.
func (fs *FriendService) SendRequest(ctx context.Context, fromID, toID uuid.UUID) (*entity.FriendRequest, error) {
	if fromID == toID {
		return nil, errorvalues.ErrSelfRequest
	}
	if _, err := fs.users.FindByID(ctx, toID); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}
	existing, err := fs.requests.GetByUsers(ctx, fromID, toID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errorvalues.ErrRequestNotFound) {
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	reverse, err := fs.requests.GetByUsers(ctx, toID, fromID)
	if err == nil {
		if reverse.Status != entity.StatusPending {
			return reverse, nil
		}
		if err = fs.requests.UpdateStatus(ctx, reverse.ID, entity.StatusAccepted); err != nil {
			return nil, errors.New("friend requests repository error: " + err.Error())
		}
		reverse.Status = entity.StatusAccepted
		_ = fs.notifications.Create(ctx, &entity.Notification{
			UserID:    toID,
			Message:   "Your friend request was accepted",
			Type:      entity.NotificationFriend,
			RelatedID: &fromID,
		})
		return reverse, nil
	}
	if !errors.Is(err, errorvalues.ErrRequestNotFound) {
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	request, err := fs.requests.Create(ctx, fromID, toID)
	if err != nil {
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	_ = fs.notifications.Create(ctx, &entity.Notification{
		UserID:    toID,
		Message:   "You received a new friend request",
		Type:      entity.NotificationFriend,
		RelatedID: &fromID,
	})
	return request, nil
}

func (fs *FriendService) Accept(ctx context.Context, requestID, uid uuid.UUID) (*entity.FriendRequest, error) {
	return fs.resolve(ctx, requestID, uid, entity.StatusAccepted)
}

func (fs *FriendService) Reject(ctx context.Context, requestID, uid uuid.UUID) (*entity.FriendRequest, error) {
	return fs.resolve(ctx, requestID, uid, entity.StatusRejected)
}

func (fs *FriendService) resolve(ctx context.Context, requestID, uid uuid.UUID, status entity.RequestStatus) (*entity.FriendRequest, error) {
	request, err := fs.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRequestNotFound) {
			return nil, err
		}
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	if request.ToUserID != uid {
		return nil, errorvalues.ErrNotRequestRecipient
	}
	if request.Status != entity.StatusPending {
		return nil, errorvalues.ErrRequestResolved
	}
	if err = fs.requests.UpdateStatus(ctx, requestID, status); err != nil {
		if errors.Is(err, errorvalues.ErrRequestNotFound) {
			return nil, err
		}
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	request.Status = status
	if status == entity.StatusAccepted {
		_ = fs.notifications.Create(ctx, &entity.Notification{
			UserID:    request.FromUserID,
			Message:   "Your friend request was accepted",
			Type:      entity.NotificationFriend,
			RelatedID: &request.ToUserID,
		})
	}
	return request, nil
}

func (fs *FriendService) ListReceived(ctx context.Context, uid uuid.UUID, status *entity.RequestStatus) ([]entity.FriendRequestDetail, error) {
	requests, err := fs.requests.ListReceived(ctx, uid, status)
	if err != nil {
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	return requests, nil
}

func (fs *FriendService) ListSent(ctx context.Context, uid uuid.UUID, status *entity.RequestStatus) ([]entity.FriendRequestDetail, error) {
	requests, err := fs.requests.ListSent(ctx, uid, status)
	if err != nil {
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	return requests, nil
}

func (fs *FriendService) ListFriends(ctx context.Context, uid uuid.UUID) ([]*entity.User, error) {
	friends, err := fs.requests.ListFriends(ctx, uid)
	if err != nil {
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	return friends, nil
}


package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/nanohana/tsuzuri/pkg/entity"
)

type RegisterRequest struct {
	Username string `validate:"required,alphanum_underscore,min=3,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72"`
}

type UpdateProfileRequest struct {
	Username        *string `validate:"omitempty,alphanum_underscore,min=3,max=100"`
	Email           *string `validate:"omitempty,email,max=254"`
	Password        *string `validate:"omitempty,min=8,max=72"`
	ProfileImageURL *string `validate:"omitempty,url,max=2048"`
}

type CreateDiaryRequest struct {
	Title                string `validate:"max=200"`
	Content              string `validate:"required"`
	TimeLimitSec         int    `validate:"min=0"`
	CharLimit            int    `validate:"min=0"`
	ViewLimitDurationSec int    `validate:"min=0"`
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type UserServiceI interface {
	// Validates credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, gives back user's data with ID
	Login(ctx context.Context, username, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// Username substring search, never returns the searching user
	Search(ctx context.Context, query string, searcher uuid.UUID, pagination PaginationOpts) ([]*entity.User, error)
	// Partial profile update. Nil fields stay untouched
	UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type DiaryServiceI interface {
	// Creates the diary and advances the owner's streak exactly once
	CreateDiary(ctx context.Context, uid uuid.UUID, req *CreateDiaryRequest) (*entity.Diary, error)
	// Randomized write constraints for the next post
	RandomRules() entity.DiaryRules
	// Reads one diary through the visibility gate. Non-owner reads count a view
	GetDiary(ctx context.Context, diaryID, viewerID uuid.UUID) (*entity.Diary, error)
	// Counts a read explicitly, with the same gate and owner exemption as GetDiary
	RecordView(ctx context.Context, diaryID, viewerID uuid.UUID) error
	ListOwn(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Diary, error)
	// In-window diaries of every user, newest first
	ListPublic(ctx context.Context, pagination PaginationOpts) ([]*entity.Diary, error)
	// In-window diaries of all accepted friends, newest first
	ListFriendFeed(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Diary, error)
	// In-window diaries of one friend; forbidden for non-friends
	ListFriendDiaries(ctx context.Context, uid, friendID uuid.UUID, pagination PaginationOpts) ([]*entity.Diary, error)
	DeleteDiary(ctx context.Context, diaryID, uid uuid.UUID) error
	Like(ctx context.Context, diaryID, uid uuid.UUID) error
	Unlike(ctx context.Context, diaryID, uid uuid.UUID) error
}

type FriendServiceI interface {
	// Sends a friend request; a reverse pending request is auto-accepted instead
	SendRequest(ctx context.Context, fromID, toID uuid.UUID) (*entity.FriendRequest, error)
	Accept(ctx context.Context, requestID, uid uuid.UUID) (*entity.FriendRequest, error)
	Reject(ctx context.Context, requestID, uid uuid.UUID) (*entity.FriendRequest, error)
	ListReceived(ctx context.Context, uid uuid.UUID, status *entity.RequestStatus) ([]entity.FriendRequestDetail, error)
	ListSent(ctx context.Context, uid uuid.UUID, status *entity.RequestStatus) ([]entity.FriendRequestDetail, error)
	ListFriends(ctx context.Context, uid uuid.UUID) ([]*entity.User, error)
}

type NotificationServiceI interface {
	List(ctx context.Context, uid uuid.UUID, unreadOnly bool, pagination PaginationOpts) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id int64, uid uuid.UUID) error
	MarkAllRead(ctx context.Context, uid uuid.UUID) error
	UnreadCount(ctx context.Context, uid uuid.UUID) (int, error)
}

type FeedbackServiceI interface {
	// Schedules generation for one diary; the result is read back by polling
	RequestDiaryFeedback(ctx context.Context, diaryID, uid uuid.UUID) error
	// Schedules generation over the current weekly/monthly window
	RequestPeriodFeedback(ctx context.Context, uid uuid.UUID, period string) error
	GetDiaryFeedback(ctx context.Context, diaryID, uid uuid.UUID) (*entity.Feedback, error)
	GetLatestPeriodFeedback(ctx context.Context, uid uuid.UUID, period string) (*entity.Feedback, error)
}

// Generator produces reflective text for a prompt. Implemented by pkg/textgen.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TaskPool runs fire-and-forget jobs. Satisfied by *ants.Pool.
type TaskPool interface {
	Submit(task func()) error
}

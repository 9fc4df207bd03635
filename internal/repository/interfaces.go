package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nanohana/tsuzuri/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by username. Can be used for login
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	// Looks up user by email
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's profile fields
	Update(ctx context.Context, user *entity.User) error
	// Persists a new streak value and last streak date
	UpdateStreak(ctx context.Context, uid uuid.UUID, count int, lastDate time.Time) error
	// Deletes user with cascading to owned rows
	Delete(ctx context.Context, uid uuid.UUID) error
	// Username substring search, excluding the searching user
	Search(ctx context.Context, query string, exclude uuid.UUID, limit, offset int) ([]*entity.User, error)
}

type DiariesRepositoryI interface {
	// Creates new diary. UserID, Content and the limit fields are necessary
	Create(ctx context.Context, diary *entity.Diary) (uuid.UUID, error)
	// Searches diary with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Diary, error)
	// Lists all diaries owned by uid, newest first. Requires pagination params
	ListByUser(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Diary, error)
	// Lists diaries owned by any of uids whose visibility window contains now
	ListViewableByUsers(ctx context.Context, uids []uuid.UUID, now time.Time, limit, offset int) ([]*entity.Diary, error)
	// Lists every user's diaries whose visibility window contains now
	ListPublic(ctx context.Context, now time.Time, limit, offset int) ([]*entity.Diary, error)
	// Lists diaries of uid created inside [from, to)
	ListByUserAndRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]*entity.Diary, error)
	// Adds one read to the diary's view counter
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	// Deletes diary with id, cascading to likes and feedback
	Delete(ctx context.Context, id uuid.UUID) error
}

type LikesRepositoryI interface {
	// Inserts a like row and bumps the diary's like counter in one transaction
	Like(ctx context.Context, diaryID, userID uuid.UUID) error
	// Removes the like row and lowers the counter, floored at zero
	Unlike(ctx context.Context, diaryID, userID uuid.UUID) error
	// Inspects if the pair has a like row
	Exists(ctx context.Context, diaryID, userID uuid.UUID) (bool, error)
}

type FriendRequestsRepositoryI interface {
	// Creates a pending edge from one user to another
	Create(ctx context.Context, fromID, toID uuid.UUID) (*entity.FriendRequest, error)
	// Searches request with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.FriendRequest, error)
	// Searches the directed edge fromID -> toID
	GetByUsers(ctx context.Context, fromID, toID uuid.UUID) (*entity.FriendRequest, error)
	// Moves a request to a new status
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RequestStatus) error
	// Lists requests addressed to uid, optionally filtered by status
	ListReceived(ctx context.Context, uid uuid.UUID, status *entity.RequestStatus) ([]entity.FriendRequestDetail, error)
	// Lists requests sent by uid, optionally filtered by status
	ListSent(ctx context.Context, uid uuid.UUID, status *entity.RequestStatus) ([]entity.FriendRequestDetail, error)
	// Collects ids of users sharing an accepted edge with uid, either direction
	FriendIDs(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error)
	// Reports whether an accepted edge exists between the two users
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	// Lists full profiles of uid's friends
	ListFriends(ctx context.Context, uid uuid.UUID) ([]*entity.User, error)
}

type NotificationsRepositoryI interface {
	// Appends one unread record; fills in ID and CreatedAt
	Create(ctx context.Context, n *entity.Notification) error
	// Lists uid's notifications newest first, optionally unread only
	ListByUser(ctx context.Context, uid uuid.UUID, unreadOnly bool, limit, offset int) ([]entity.Notification, error)
	// Flips the read flag of uid's notification with id. Never unsets it
	MarkRead(ctx context.Context, id int64, uid uuid.UUID) error
	// Flips the read flag on every unread notification of uid
	MarkAllRead(ctx context.Context, uid uuid.UUID) error
	// Counts unread notifications of uid
	CountUnread(ctx context.Context, uid uuid.UUID) (int, error)
}

type FeedbackRepositoryI interface {
	// Stores generated feedback; fills in ID and CreatedAt
	Create(ctx context.Context, f *entity.Feedback) error
	// Searches feedback attached to a diary
	GetByDiary(ctx context.Context, diaryID uuid.UUID) (*entity.Feedback, error)
	// Returns uid's newest feedback for a period
	GetLatestByPeriod(ctx context.Context, uid uuid.UUID, period entity.FeedbackPeriod) (*entity.Feedback, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID  `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	StreakCount     int        `json:"streak_count"`
	LastStreakDate  *time.Time `json:"last_streak_date,omitempty"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Diary struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"uid"`
	Title                string    `json:"title,omitempty"`
	Content              string    `json:"content"`
	TimeLimitSec         int       `json:"time_limit_sec"`
	CharLimit            int       `json:"char_limit"`
	ViewLimitDurationSec int       `json:"view_limit_duration_sec"`
	ViewCount            int       `json:"view_count"`
	LikeCount            int       `json:"like_count"`
	CreatedAt            time.Time `json:"created_at"`
}

// ViewEndTime is the instant the diary stops being readable by non-owners.
func (d *Diary) ViewEndTime() time.Time {
	return d.CreatedAt.Add(time.Duration(d.ViewLimitDurationSec) * time.Second)
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

type FriendRequest struct {
	ID         uuid.UUID     `json:"id"`
	FromUserID uuid.UUID     `json:"from_user_id"`
	ToUserID   uuid.UUID     `json:"to_user_id"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}

// FriendRequestDetail is a friend request join-fetched with both users' public
// profiles, so listing never re-reads users row by row.
type FriendRequestDetail struct {
	FriendRequest
	FromUsername string `json:"from_username"`
	ToUsername   string `json:"to_username"`
}

type NotificationType string

const (
	NotificationLike     NotificationType = "like"
	NotificationFriend   NotificationType = "friend"
	NotificationStreak   NotificationType = "streak"
	NotificationFeedback NotificationType = "feedback"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    uuid.UUID        `json:"uid"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	RelatedID *uuid.UUID       `json:"related_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

type FeedbackPeriod string

const (
	PeriodWeekly  FeedbackPeriod = "weekly"
	PeriodMonthly FeedbackPeriod = "monthly"
)

// Feedback holds generated text for either a single diary (DiaryID set, Period
// empty) or a weekly/monthly window (Period set, DiaryID nil).
type Feedback struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"uid"`
	DiaryID   *uuid.UUID     `json:"diary_id,omitempty"`
	Period    FeedbackPeriod `json:"period,omitempty"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

// DiaryRules are the randomized constraints handed to a client before writing.
type DiaryRules struct {
	TimeLimitSec         int `json:"time_limit_sec"`
	CharLimit            int `json:"char_limit"`
	ViewLimitDurationSec int `json:"view_limit_duration_sec"`
}

package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrEmailExists      = errors.New("such email is already registered")
	ErrUserNotFound     = errors.New("user doesn't exist")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrDiaryNotFound    = errors.New("diary doesn't exist")
	ErrDiaryNotViewable = errors.New("diary is no longer visible")
	ErrWrongOwner       = errors.New("user doesn't own this resource")
	ErrContentTooLong   = errors.New("content exceeds the char limit")

	ErrAlreadyLiked = errors.New("diary is already liked by this user")
	ErrNotLiked     = errors.New("diary isn't liked by this user")

	ErrSelfRequest         = errors.New("cannot send a friend request to yourself")
	ErrRequestNotFound     = errors.New("friend request doesn't exist")
	ErrRequestResolved     = errors.New("friend request is already resolved")
	ErrNotRequestRecipient = errors.New("friend request isn't addressed to this user")
	ErrNotFriends          = errors.New("users aren't friends")

	ErrNotificationNotFound = errors.New("notification doesn't exist")

	ErrFeedbackNotFound = errors.New("feedback doesn't exist")
	ErrFeedbackExists   = errors.New("feedback already exists for this target")
	ErrNoDiariesInRange = errors.New("no diaries in the requested period")
	ErrInvalidPeriod    = errors.New("period must be weekly or monthly")
)

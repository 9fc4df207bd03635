package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/internal/repository"
	"github.com/nanohana/tsuzuri/pkg/entity"
)

// Write-constraint options offered by RandomRules.
var (
	timeLimitOptions = []int{180, 300, 420, 600}
	charLimitOptions = []int{100, 200, 500, 0} // 0 means unlimited
)

const DefaultViewLimitSec = 600

type DiaryService struct {
	diaries       repository.DiariesRepositoryI
	likes         repository.LikesRepositoryI
	users         repository.UsersRepositoryI
	friends       repository.FriendRequestsRepositoryI
	notifications repository.NotificationsRepositoryI

	defaultViewLimitSec int
	now                 func() time.Time
}

func NewDiaryService(
	diariesRepo repository.DiariesRepositoryI,
	likesRepo repository.LikesRepositoryI,
	usersRepo repository.UsersRepositoryI,
	friendsRepo repository.FriendRequestsRepositoryI,
	notificationsRepo repository.NotificationsRepositoryI,
	defaultViewLimitSec int,
) *DiaryService {
	if diariesRepo == nil || likesRepo == nil || usersRepo == nil || friendsRepo == nil || notificationsRepo == nil {
		log.Fatal("on diary service provided nil repos")
	}
	if defaultViewLimitSec <= 0 {
		defaultViewLimitSec = DefaultViewLimitSec
	}
	return &DiaryService{
		diaries:             diariesRepo,
		likes:               likesRepo,
		users:               usersRepo,
		friends:             friendsRepo,
		notifications:       notificationsRepo,
		defaultViewLimitSec: defaultViewLimitSec,
		now:                 time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (ds *DiaryService) WithClock(now func() time.Time) *DiaryService {
	ds.now = now
	return ds
}

func (ds *DiaryService) CreateDiary(ctx context.Context, uid uuid.UUID, req *CreateDiaryRequest) (*entity.Diary, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	if req.CharLimit > 0 && utf8.RuneCountInString(req.Content) > req.CharLimit {
		return nil, errorvalues.ErrContentTooLong
	}
	viewLimit := req.ViewLimitDurationSec
	if viewLimit <= 0 {
		viewLimit = ds.defaultViewLimitSec
	}
	id, err := ds.diaries.Create(ctx, &entity.Diary{
		UserID:               uid,
		Title:                req.Title,
		Content:              req.Content,
		TimeLimitSec:         req.TimeLimitSec,
		CharLimit:            req.CharLimit,
		ViewLimitDurationSec: viewLimit,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("diaries repository error: " + err.Error())
	}
	diary, err := ds.diaries.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("diaries repository error: " + err.Error())
	}
	// The streak advances once per successful creation, after the row exists.
	if err = ds.advanceStreak(ctx, uid); err != nil {
		return nil, err
	}
	return diary, nil
}

func (ds *DiaryService) advanceStreak(ctx context.Context, uid uuid.UUID) error {
	user, err := ds.users.FindByID(ctx, uid)
	if err != nil {
		return errors.New("users repository error: " + err.Error())
	}
	count, lastDate, changed := NextStreak(user.StreakCount, user.LastStreakDate, ds.now())
	if !changed {
		return nil
	}
	if err = ds.users.UpdateStreak(ctx, uid, count, lastDate); err != nil {
		return errors.New("users repository error: " + err.Error())
	}
	if count > 1 && count%7 == 0 {
		// Milestone ping every full week; losing it must not fail the post.
		_ = ds.notifications.Create(ctx, &entity.Notification{
			UserID:    uid,
			Message:   fmt.Sprintf("You reached a %d-day streak!", count),
			Type:      entity.NotificationStreak,
			RelatedID: &uid,
		})
	}
	return nil
}

func (ds *DiaryService) RandomRules() entity.DiaryRules {
	return entity.DiaryRules{
		TimeLimitSec:         timeLimitOptions[rand.IntN(len(timeLimitOptions))],
		CharLimit:            charLimitOptions[rand.IntN(len(charLimitOptions))],
		ViewLimitDurationSec: ds.defaultViewLimitSec,
	}
}

func (ds *DiaryService) GetDiary(ctx context.Context, diaryID, viewerID uuid.UUID) (*entity.Diary, error) {
	diary, err := ds.diaries.GetByID(ctx, diaryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrDiaryNotFound) {
			return nil, err
		}
		return nil, errors.New("diaries repository error: " + err.Error())
	}
	if !CanView(diary, viewerID, ds.now()) {
		return nil, errorvalues.ErrDiaryNotViewable
	}
	if ShouldCountView(diary, viewerID) {
		if err = ds.diaries.IncrementViewCount(ctx, diaryID); err != nil {
			return nil, errors.New("diaries repository error: " + err.Error())
		}
		diary.ViewCount++
	}
	return diary, nil
}

// RecordView registers a read without handing the diary back. Owner views are
// accepted but never counted, same as in GetDiary.
func (ds *DiaryService) RecordView(ctx context.Context, diaryID, viewerID uuid.UUID) error {
	diary, err := ds.diaries.GetByID(ctx, diaryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrDiaryNotFound) {
			return err
		}
		return errors.New("diaries repository error: " + err.Error())
	}
	if !CanView(diary, viewerID, ds.now()) {
		return errorvalues.ErrDiaryNotViewable
	}
	if !ShouldCountView(diary, viewerID) {
		return nil
	}
	if err = ds.diaries.IncrementViewCount(ctx, diaryID); err != nil {
		return errors.New("diaries repository error: " + err.Error())
	}
	return nil
}

func (ds *DiaryService) ListOwn(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Diary, error) {
	diaries, err := ds.diaries.ListByUser(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("diaries repository error: " + err.Error())
	}
	return diaries, nil
}

func (ds *DiaryService) ListFriendFeed(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Diary, error) {
	friendIDs, err := ds.friends.FriendIDs(ctx, uid)
	if err != nil {
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	if len(friendIDs) == 0 {
		return []*entity.Diary{}, nil
	}
	diaries, err := ds.diaries.ListViewableByUsers(ctx, friendIDs, ds.now().UTC(), pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("diaries repository error: " + err.Error())
	}
	return diaries, nil
}

func (ds *DiaryService) ListPublic(ctx context.Context, pagination PaginationOpts) ([]*entity.Diary, error) {
	diaries, err := ds.diaries.ListPublic(ctx, ds.now().UTC(), pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("diaries repository error: " + err.Error())
	}
	return diaries, nil
}

func (ds *DiaryService) ListFriendDiaries(ctx context.Context, uid, friendID uuid.UUID, pagination PaginationOpts) ([]*entity.Diary, error) {
	if uid == friendID {
		return ds.ListOwn(ctx, uid, pagination)
	}
	friends, err := ds.friends.AreFriends(ctx, uid, friendID)
	if err != nil {
		return nil, errors.New("friend requests repository error: " + err.Error())
	}
	if !friends {
		return nil, errorvalues.ErrNotFriends
	}
	diaries, err := ds.diaries.ListViewableByUsers(ctx, []uuid.UUID{friendID}, ds.now().UTC(), pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("diaries repository error: " + err.Error())
	}
	return diaries, nil
}

func (ds *DiaryService) DeleteDiary(ctx context.Context, diaryID, uid uuid.UUID) error {
	diary, err := ds.diaries.GetByID(ctx, diaryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrDiaryNotFound) {
			return err
		}
		return errors.New("diaries repository error: " + err.Error())
	}
	if diary.UserID != uid {
		return errorvalues.ErrWrongOwner
	}
	if err = ds.diaries.Delete(ctx, diaryID); err != nil {
		if errors.Is(err, errorvalues.ErrDiaryNotFound) {
			return err
		}
		return errors.New("diaries repository error: " + err.Error())
	}
	return nil
}

func (ds *DiaryService) Like(ctx context.Context, diaryID, uid uuid.UUID) error {
	diary, err := ds.diaries.GetByID(ctx, diaryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrDiaryNotFound) {
			return err
		}
		return errors.New("diaries repository error: " + err.Error())
	}
	liked, err := ds.likes.Exists(ctx, diaryID, uid)
	if err != nil {
		return errors.New("likes repository error: " + err.Error())
	}
	if liked {
		return errorvalues.ErrAlreadyLiked
	}
	if err = ds.likes.Like(ctx, diaryID, uid); err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrAlreadyLiked), errors.Is(err, errorvalues.ErrDiaryNotFound):
			return err
		}
		return errors.New("likes repository error: " + err.Error())
	}
	if diary.UserID != uid {
		// Self-likes never notify.
		_ = ds.notifications.Create(ctx, &entity.Notification{
			UserID:    diary.UserID,
			Message:   "Your diary received a like",
			Type:      entity.NotificationLike,
			RelatedID: &diaryID,
		})
	}
	return nil
}

func (ds *DiaryService) Unlike(ctx context.Context, diaryID, uid uuid.UUID) error {
	err := ds.likes.Unlike(ctx, diaryID, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNotLiked) {
			return err
		}
		return errors.New("likes repository error: " + err.Error())
	}
	return nil
}

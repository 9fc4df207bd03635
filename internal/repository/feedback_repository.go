package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/pkg/entity"
)

type FeedbackRepository struct {
	conn PgConnection
}

func NewFeedbackRepo(cfg DBConfig) *FeedbackRepository {
	return &FeedbackRepository{
		conn: newPool(cfg, "feedbackRepo"),
	}
}

func NewFeedbackRepoWithConn(conn PgConnection) *FeedbackRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for feedbackRepo: " + err.Error())
	}
	return &FeedbackRepository{
		conn: conn,
	}
}

func (fbr *FeedbackRepository) Create(ctx context.Context, f *entity.Feedback) error {
	if f == nil {
		return errors.New("feedback is nil")
	}
	row := fbr.conn.QueryRow(ctx, `INSERT INTO feedbacks (user_id, diary_id, period, content)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at;`,
		f.UserID,
		f.DiaryID,
		f.Period,
		f.Content,
	)
	if err := row.Scan(&f.ID, &f.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation, one feedback per diary
			case "23505":
				return errorvalues.ErrFeedbackExists
			// FK violation
			case "23503":
				return errorvalues.ErrUserNotFound
			}
		}
		return errors.New("creating feedback error: " + err.Error())
	}
	return nil
}

func (fbr *FeedbackRepository) GetByDiary(ctx context.Context, diaryID uuid.UUID) (*entity.Feedback, error) {
	var f entity.Feedback
	row := fbr.conn.QueryRow(ctx, `SELECT id, user_id, diary_id, period, content, created_at FROM feedbacks
		WHERE diary_id = $1;`, diaryID)
	if err := row.Scan(&f.ID, &f.UserID, &f.DiaryID, &f.Period, &f.Content, &f.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrFeedbackNotFound
		}
		return nil, errors.New("getting feedback by diary error: " + err.Error())
	}
	return &f, nil
}

func (fbr *FeedbackRepository) GetLatestByPeriod(ctx context.Context, uid uuid.UUID, period entity.FeedbackPeriod) (*entity.Feedback, error) {
	var f entity.Feedback
	row := fbr.conn.QueryRow(ctx, `SELECT id, user_id, diary_id, period, content, created_at FROM feedbacks
		WHERE user_id = $1 AND period = $2 ORDER BY created_at DESC LIMIT 1;`, uid, period)
	if err := row.Scan(&f.ID, &f.UserID, &f.DiaryID, &f.Period, &f.Content, &f.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrFeedbackNotFound
		}
		return nil, errors.New("getting latest feedback error: " + err.Error())
	}
	return &f, nil
}

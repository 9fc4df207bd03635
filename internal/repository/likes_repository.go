package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
)

// LikesRepository keeps the like rows and the denormalized like counter on
// diaries consistent: both sides of a like change happen in one transaction,
// with the (diary_id, user_id) unique index as the authoritative duplicate
// guard.
type LikesRepository struct {
	conn PgConnection
}

func NewLikesRepo(cfg DBConfig) *LikesRepository {
	return &LikesRepository{
		conn: newPool(cfg, "likesRepo"),
	}
}

func NewLikesRepoWithConn(conn PgConnection) *LikesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for likesRepo: " + err.Error())
	}
	return &LikesRepository{
		conn: conn,
	}
}

func (lr *LikesRepository) Like(ctx context.Context, diaryID, userID uuid.UUID) error {
	tx, err := lr.conn.Begin(ctx)
	if err != nil {
		return errors.New("starting like tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)
	_, err = tx.Exec(ctx, `INSERT INTO diary_likes (diary_id, user_id) VALUES ($1, $2);`, diaryID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return errorvalues.ErrAlreadyLiked
			// FK violation
			case "23503":
				return errorvalues.ErrDiaryNotFound
			}
		}
		return errors.New("creating like error: " + err.Error())
	}
	_, err = tx.Exec(ctx, `UPDATE diaries SET like_count = like_count + 1 WHERE id = $1;`, diaryID)
	if err != nil {
		return errors.New("incrementing like count error: " + err.Error())
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing like tx error: " + err.Error())
	}
	return nil
}

func (lr *LikesRepository) Unlike(ctx context.Context, diaryID, userID uuid.UUID) error {
	tx, err := lr.conn.Begin(ctx)
	if err != nil {
		return errors.New("starting unlike tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)
	ct, err := tx.Exec(ctx, `DELETE FROM diary_likes WHERE diary_id = $1 AND user_id = $2;`, diaryID, userID)
	if err != nil {
		return errors.New("deleting like error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrNotLiked
	}
	_, err = tx.Exec(ctx, `UPDATE diaries SET like_count = GREATEST(like_count - 1, 0) WHERE id = $1;`, diaryID)
	if err != nil {
		return errors.New("decrementing like count error: " + err.Error())
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing unlike tx error: " + err.Error())
	}
	return nil
}

func (lr *LikesRepository) Exists(ctx context.Context, diaryID, userID uuid.UUID) (bool, error) {
	var exists bool
	row := lr.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM diary_likes WHERE diary_id = $1 AND user_id = $2);`, diaryID, userID)
	err := row.Scan(&exists)
	if err != nil {
		return false, errors.New("inspecting if like exists error: " + err.Error())
	}
	return exists, nil
}

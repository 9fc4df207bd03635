package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/pkg/entity"
)

type DiariesRepository struct {
	conn PgConnection
}

func NewDiariesRepo(cfg DBConfig) *DiariesRepository {
	return &DiariesRepository{
		conn: newPool(cfg, "diariesRepo"),
	}
}

func NewDiariesRepoWithConn(conn PgConnection) *DiariesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for diariesRepo: " + err.Error())
	}
	return &DiariesRepository{
		conn: conn,
	}
}

const diaryColumns = `id, user_id, title, content, time_limit_sec, char_limit, view_limit_duration_sec, view_count, like_count, created_at`

func scanDiary(row pgx.Row) (*entity.Diary, error) {
	var d entity.Diary
	var title *string
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&title,
		&d.Content,
		&d.TimeLimitSec,
		&d.CharLimit,
		&d.ViewLimitDurationSec,
		&d.ViewCount,
		&d.LikeCount,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if title != nil {
		d.Title = *title
	}
	return &d, nil
}

func (dr *DiariesRepository) Create(ctx context.Context, diary *entity.Diary) (uuid.UUID, error) {
	var id uuid.UUID
	row := dr.conn.QueryRow(ctx, `INSERT INTO diaries (user_id, title, content, time_limit_sec, char_limit, view_limit_duration_sec)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		diary.UserID,
		diary.Title,
		diary.Content,
		diary.TimeLimitSec,
		diary.CharLimit,
		diary.ViewLimitDurationSec,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating diary db error: " + err.Error())
	}
	return id, nil
}

func (dr *DiariesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Diary, error) {
	row := dr.conn.QueryRow(ctx, `SELECT `+diaryColumns+` FROM diaries WHERE id = $1;`, id)
	diary, err := scanDiary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrDiaryNotFound
		}
		return nil, errors.New("getting diary by id error: " + err.Error())
	}
	return diary, nil
}

func (dr *DiariesRepository) ListByUser(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Diary, error) {
	rows, err := dr.conn.Query(ctx, `SELECT `+diaryColumns+` FROM diaries
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3;`, uid, limit, offset)
	if err != nil {
		return nil, errors.New("getting diaries by uid error: " + err.Error())
	}
	return collectDiaries(rows)
}

func (dr *DiariesRepository) ListViewableByUsers(ctx context.Context, uids []uuid.UUID, now time.Time, limit, offset int) ([]*entity.Diary, error) {
	rows, err := dr.conn.Query(ctx, `SELECT `+diaryColumns+` FROM diaries
		WHERE user_id = ANY($1) AND created_at + make_interval(secs => view_limit_duration_sec) >= $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4;`, uids, now, limit, offset)
	if err != nil {
		return nil, errors.New("getting viewable diaries error: " + err.Error())
	}
	return collectDiaries(rows)
}

func (dr *DiariesRepository) ListPublic(ctx context.Context, now time.Time, limit, offset int) ([]*entity.Diary, error) {
	rows, err := dr.conn.Query(ctx, `SELECT `+diaryColumns+` FROM diaries
		WHERE created_at + make_interval(secs => view_limit_duration_sec) >= $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3;`, now, limit, offset)
	if err != nil {
		return nil, errors.New("getting public diaries error: " + err.Error())
	}
	return collectDiaries(rows)
}

func (dr *DiariesRepository) ListByUserAndRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]*entity.Diary, error) {
	rows, err := dr.conn.Query(ctx, `SELECT `+diaryColumns+` FROM diaries
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3 ORDER BY created_at;`, uid, from, to)
	if err != nil {
		return nil, errors.New("getting diaries for period error: " + err.Error())
	}
	return collectDiaries(rows)
}

func (dr *DiariesRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	ct, err := dr.conn.Exec(ctx, `UPDATE diaries SET view_count = view_count + 1 WHERE id = $1;`, id)
	if err != nil {
		return errors.New("incrementing view count error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrDiaryNotFound
	}
	return nil
}

func (dr *DiariesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := dr.conn.Exec(ctx, `DELETE FROM diaries WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting diary error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrDiaryNotFound
	}
	return nil
}

func collectDiaries(rows pgx.Rows) ([]*entity.Diary, error) {
	defer rows.Close()
	diaries := make([]*entity.Diary, 0)
	for rows.Next() {
		d, err := scanDiary(rows)
		if err != nil {
			return nil, errors.New("unmarshalling diary error: " + err.Error())
		}
		diaries = append(diaries, d)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return diaries, nil
}

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

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(cfg DBConfig) *UsersRepository {
	return &UsersRepository{
		conn: newPool(cfg, "usersRepo"),
	}
}

func NewUsersRepoWithConn(conn PgConnection) *UsersRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for usersRepo: " + err.Error())
	}
	return &UsersRepository{
		conn: conn,
	}
}

const userColumns = `id, username, email, password_hash, streak_count, last_streak_date, profile_image_url, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	var profileImage *string
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.StreakCount,
		&user.LastStreakDate,
		&profileImage,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if profileImage != nil {
		user.ProfileImageURL = *profileImage
	}
	return &user, nil
}

func (ur *UsersRepository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	_, err := ur.conn.Exec(ctx, `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3);`,
		user.Username,
		user.Email,
		user.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Unique violation, constraint tells which field collided
			if pgErr.ConstraintName == "users_email_key" {
				return errorvalues.ErrEmailExists
			}
			return errorvalues.ErrUserExists
		}
		return errors.New("creating user db error: " + err.Error())
	}
	return nil
}

func (ur *UsersRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1;`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by username error: " + err.Error())
	}
	return user, nil
}

func (ur *UsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1;`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by email error: " + err.Error())
	}
	return user, nil
}

func (ur *UsersRepository) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, uid)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by id error: " + err.Error())
	}
	return user, nil
}

func (ur *UsersRepository) Update(ctx context.Context, user *entity.User) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET username = $1, email = $2, password_hash = $3, profile_image_url = $4, updated_at = NOW() WHERE id = $5;`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.ProfileImageURL,
		user.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_email_key" {
				return errorvalues.ErrEmailExists
			}
			return errorvalues.ErrUserExists
		}
		return errors.New("updating user error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) UpdateStreak(ctx context.Context, uid uuid.UUID, count int, lastDate time.Time) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET streak_count = $1, last_streak_date = $2, updated_at = NOW() WHERE id = $3;`,
		count,
		lastDate,
		uid,
	)
	if err != nil {
		return errors.New("updating streak error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) Delete(ctx context.Context, uid uuid.UUID) error {
	ct, err := ur.conn.Exec(ctx, `DELETE FROM users WHERE id = $1;`, uid)
	if err != nil {
		return errors.New("deleting user error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) Search(ctx context.Context, query string, exclude uuid.UUID, limit, offset int) ([]*entity.User, error) {
	users := make([]*entity.User, 0)
	rows, err := ur.conn.Query(ctx, `SELECT `+userColumns+` FROM users
		WHERE username ILIKE '%' || $1 || '%' AND id != $2 AND is_active ORDER BY username LIMIT $3 OFFSET $4;`,
		query, exclude, limit, offset)
	if err != nil {
		return nil, errors.New("searching users error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errors.New("unmarshalling user error: " + err.Error())
		}
		users = append(users, user)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return users, nil
}

package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/pkg/entity"
)

type FriendRequestsRepository struct {
	conn PgConnection
}

func NewFriendRequestsRepo(cfg DBConfig) *FriendRequestsRepository {
	return &FriendRequestsRepository{
		conn: newPool(cfg, "friendRequestsRepo"),
	}
}

func NewFriendRequestsRepoWithConn(conn PgConnection) *FriendRequestsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for friendRequestsRepo: " + err.Error())
	}
	return &FriendRequestsRepository{
		conn: conn,
	}
}

func (fr *FriendRequestsRepository) Create(ctx context.Context, fromID, toID uuid.UUID) (*entity.FriendRequest, error) {
	req := entity.FriendRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     entity.StatusPending,
	}
	row := fr.conn.QueryRow(ctx, `INSERT INTO friend_requests (from_user_id, to_user_id, status)
		VALUES ($1, $2, $3) RETURNING id, created_at;`, fromID, toID, entity.StatusPending)
	if err := row.Scan(&req.ID, &req.CreatedAt); err != nil {
		return nil, errors.New("creating friend request db error: " + err.Error())
	}
	return &req, nil
}

func (fr *FriendRequestsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.FriendRequest, error) {
	var req entity.FriendRequest
	row := fr.conn.QueryRow(ctx, `SELECT id, from_user_id, to_user_id, status, created_at FROM friend_requests WHERE id = $1;`, id)
	if err := row.Scan(&req.ID, &req.FromUserID, &req.ToUserID, &req.Status, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrRequestNotFound
		}
		return nil, errors.New("getting friend request by id error: " + err.Error())
	}
	return &req, nil
}

func (fr *FriendRequestsRepository) GetByUsers(ctx context.Context, fromID, toID uuid.UUID) (*entity.FriendRequest, error) {
	var req entity.FriendRequest
	row := fr.conn.QueryRow(ctx, `SELECT id, from_user_id, to_user_id, status, created_at FROM friend_requests
		WHERE from_user_id = $1 AND to_user_id = $2;`, fromID, toID)
	if err := row.Scan(&req.ID, &req.FromUserID, &req.ToUserID, &req.Status, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrRequestNotFound
		}
		return nil, errors.New("getting friend request by users error: " + err.Error())
	}
	return &req, nil
}

func (fr *FriendRequestsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RequestStatus) error {
	ct, err := fr.conn.Exec(ctx, `UPDATE friend_requests SET status = $1 WHERE id = $2;`, status, id)
	if err != nil {
		return errors.New("updating friend request error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrRequestNotFound
	}
	return nil
}

const requestDetailColumns = `fr.id, fr.from_user_id, fr.to_user_id, fr.status, fr.created_at, uf.username, ut.username`

func (fr *FriendRequestsRepository) ListReceived(ctx context.Context, uid uuid.UUID, status *entity.RequestStatus) ([]entity.FriendRequestDetail, error) {
	rows, err := fr.conn.Query(ctx, `SELECT `+requestDetailColumns+` FROM friend_requests fr
		JOIN users uf ON uf.id = fr.from_user_id
		JOIN users ut ON ut.id = fr.to_user_id
		WHERE fr.to_user_id = $1 AND ($2::text IS NULL OR fr.status = $2)
		ORDER BY fr.created_at DESC;`, uid, status)
	if err != nil {
		return nil, errors.New("getting received requests error: " + err.Error())
	}
	return collectRequestDetails(rows)
}

func (fr *FriendRequestsRepository) ListSent(ctx context.Context, uid uuid.UUID, status *entity.RequestStatus) ([]entity.FriendRequestDetail, error) {
	rows, err := fr.conn.Query(ctx, `SELECT `+requestDetailColumns+` FROM friend_requests fr
		JOIN users uf ON uf.id = fr.from_user_id
		JOIN users ut ON ut.id = fr.to_user_id
		WHERE fr.from_user_id = $1 AND ($2::text IS NULL OR fr.status = $2)
		ORDER BY fr.created_at DESC;`, uid, status)
	if err != nil {
		return nil, errors.New("getting sent requests error: " + err.Error())
	}
	return collectRequestDetails(rows)
}

func (fr *FriendRequestsRepository) FriendIDs(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	rows, err := fr.conn.Query(ctx, `SELECT CASE WHEN from_user_id = $1 THEN to_user_id ELSE from_user_id END
		FROM friend_requests WHERE (from_user_id = $1 OR to_user_id = $1) AND status = $2;`, uid, entity.StatusAccepted)
	if err != nil {
		return nil, errors.New("getting friend ids error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		if err = rows.Scan(&id); err != nil {
			return nil, errors.New("unmarshalling friend id error: " + err.Error())
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return ids, nil
}

func (fr *FriendRequestsRepository) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var friends bool
	row := fr.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM friend_requests
		WHERE status = $3 AND ((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1)));`,
		a, b, entity.StatusAccepted)
	err := row.Scan(&friends)
	if err != nil {
		return false, errors.New("inspecting friendship error: " + err.Error())
	}
	return friends, nil
}

func (fr *FriendRequestsRepository) ListFriends(ctx context.Context, uid uuid.UUID) ([]*entity.User, error) {
	users := make([]*entity.User, 0)
	rows, err := fr.conn.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id IN (
		SELECT CASE WHEN from_user_id = $1 THEN to_user_id ELSE from_user_id END
		FROM friend_requests WHERE (from_user_id = $1 OR to_user_id = $1) AND status = $2
	) ORDER BY username;`, uid, entity.StatusAccepted)
	if err != nil {
		return nil, errors.New("getting friends error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errors.New("unmarshalling friend error: " + err.Error())
		}
		users = append(users, user)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return users, nil
}

func collectRequestDetails(rows pgx.Rows) ([]entity.FriendRequestDetail, error) {
	defer rows.Close()
	result := make([]entity.FriendRequestDetail, 0)
	for rows.Next() {
		var d entity.FriendRequestDetail
		err := rows.Scan(&d.ID, &d.FromUserID, &d.ToUserID, &d.Status, &d.CreatedAt, &d.FromUsername, &d.ToUsername)
		if err != nil {
			return nil, errors.New("unmarshalling friend request error: " + err.Error())
		}
		result = append(result, d)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return result, nil
}

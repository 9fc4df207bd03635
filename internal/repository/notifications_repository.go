package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/pkg/entity"
)

type NotificationsRepository struct {
	conn PgConnection
}

func NewNotificationsRepo(cfg DBConfig) *NotificationsRepository {
	return &NotificationsRepository{
		conn: newPool(cfg, "notificationsRepo"),
	}
}

func NewNotificationsRepoWithConn(conn PgConnection) *NotificationsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for notificationsRepo: " + err.Error())
	}
	return &NotificationsRepository{
		conn: conn,
	}
}

func (nr *NotificationsRepository) Create(ctx context.Context, n *entity.Notification) error {
	if n == nil {
		return errors.New("notification is nil")
	}
	row := nr.conn.QueryRow(ctx, `INSERT INTO notifications (user_id, message, type, related_id)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at;`,
		n.UserID,
		n.Message,
		n.Type,
		n.RelatedID,
	)
	if err := row.Scan(&n.ID, &n.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrUserNotFound
			}
		}
		return errors.New("creating notification error: " + err.Error())
	}
	return nil
}

func (nr *NotificationsRepository) ListByUser(ctx context.Context, uid uuid.UUID, unreadOnly bool, limit, offset int) ([]entity.Notification, error) {
	rows, err := nr.conn.Query(ctx, `SELECT id, user_id, message, type, related_id, is_read, created_at FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR NOT is_read) ORDER BY created_at DESC LIMIT $3 OFFSET $4;`,
		uid, unreadOnly, limit, offset)
	if err != nil {
		return nil, errors.New("getting notifications error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.Notification, 0)
	for rows.Next() {
		n := entity.Notification{}
		err = rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.RelatedID, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling notification error: " + err.Error())
		}
		result = append(result, n)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return result, nil
}

func (nr *NotificationsRepository) MarkRead(ctx context.Context, id int64, uid uuid.UUID) error {
	ct, err := nr.conn.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2;`, id, uid)
	if err != nil {
		return errors.New("marking notification read error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrNotificationNotFound
	}
	return nil
}

func (nr *NotificationsRepository) MarkAllRead(ctx context.Context, uid uuid.UUID) error {
	_, err := nr.conn.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read;`, uid)
	if err != nil {
		return errors.New("marking all notifications read error: " + err.Error())
	}
	return nil
}

func (nr *NotificationsRepository) CountUnread(ctx context.Context, uid uuid.UUID) (int, error) {
	var count int
	row := nr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read;`, uid)
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("counting unread notifications error: " + err.Error())
	}
	return count, nil
}

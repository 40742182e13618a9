package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/farhandp/coworking-book/internal/model"
)

// NotificationRepo owns the append-only 'notification' table. Rows
// are written by the other stores as side effects and read by the
// user dashboard; the only mutation is marking a row read.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Append inserts an unread notification for a user.
func (r *NotificationRepo) Append(ctx context.Context, userID uint64, title, body, typeTag string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notification (user_id, judul, pesan, tipe, dibaca) VALUES (?,?,?,?,false)",
		userID, title, body, typeTag)
	return err
}

// AppendTx is Append inside an existing transaction, so the
// notification commits together with the mutation it reports.
func (r *NotificationRepo) AppendTx(ctx context.Context, tx *sql.Tx, userID uint64, title, body, typeTag string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO notification (user_id, judul, pesan, tipe, dibaca) VALUES (?,?,?,?,false)",
		userID, title, body, typeTag)
	return err
}

// MarkRead flips dibaca to true. Re-reading an already-read
// notification is a no-op, not an error; only a missing id fails
// with ErrNotFound.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notification SET dibaca=true WHERE notification_id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM notification WHERE notification_id=?", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// UnreadCount returns the number of unread notifications for a user.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notification WHERE user_id=? AND dibaca=false", userID).Scan(&n)
	return n, err
}

// ListForUser returns a user's notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT notification_id, user_id, judul, pesan, tipe, dibaca, waktu_notifikasi FROM notification WHERE user_id=? ORDER BY waktu_notifikasi DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	notifs := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/farhandp/coworking-book/internal/model"
)

// ReviewRepo owns rows of the 'review' table. Each reservation has
// at most one review; submitting again overwrites it.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Upsert writes the review for a reservation. An existing row is
// updated in place (comment and date); otherwise a new row is
// inserted. The conditional UPDATE first keeps the common resubmit
// path to a single statement.
func (r *ReviewRepo) Upsert(ctx context.Context, reservationID uint64, comment string) (model.Review, error) {
	if comment == "" {
		return model.Review{}, ErrValidation
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"UPDATE review SET komentar=?, tanggal_review=? WHERE reservation_id=?",
		comment, now, reservationID)
	if err != nil {
		return model.Review{}, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return r.getByReservation(ctx, reservationID)
	}
	// Zero rows: either no review yet or an identical resubmit. Check
	// before inserting so the one-per-reservation rule holds.
	if existing, err := r.getByReservation(ctx, reservationID); err == nil {
		return existing, nil
	} else if err != ErrNotFound {
		return model.Review{}, err
	}
	ins, err := r.db.ExecContext(ctx,
		"INSERT INTO review (reservation_id, komentar, tanggal_review) VALUES (?,?,?)",
		reservationID, comment, now)
	if err != nil {
		return model.Review{}, err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return model.Review{}, err
	}
	return model.Review{ID: uint64(id), ReservationID: reservationID, Comment: comment, ReviewedAt: now}, nil
}

func (r *ReviewRepo) getByReservation(ctx context.Context, reservationID uint64) (model.Review, error) {
	var rev model.Review
	err := r.db.QueryRowContext(ctx,
		"SELECT review_id, reservation_id, komentar, tanggal_review FROM review WHERE reservation_id=? LIMIT 1",
		reservationID).Scan(&rev.ID, &rev.ReservationID, &rev.Comment, &rev.ReviewedAt)
	if err == sql.ErrNoRows {
		return rev, ErrNotFound
	}
	return rev, err
}

// ListByReservation returns the reviews recorded for a reservation,
// newest first.
func (r *ReviewRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT review_id, reservation_id, komentar, tanggal_review FROM review WHERE reservation_id=? ORDER BY tanggal_review DESC",
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]model.Review, 0)
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.ReservationID, &rev.Comment, &rev.ReviewedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

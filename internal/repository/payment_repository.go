package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/farhandp/coworking-book/internal/model"
)

// PaymentRepo owns rows of the 'payment' table. A payment settles a
// reservation; the verify/reject decisions are written through Tx
// methods so the handler can commit the payment and the reservation
// state change atomically.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// DB exposes the underlying handle for handler-scoped transactions.
func (r *PaymentRepo) DB() *sql.DB { return r.db }

const paymentColumns = "payment_id, reservation_id, jumlah_pembayaran, metode_pembayaran, reference, waktu_pembayaran, status_pembayaran"

func scanPayment(row interface{ Scan(...interface{}) error }) (model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.ReservationID, &p.Amount, &p.Method, &p.Reference, &p.PaidAt, &p.Status)
	return p, err
}

// Create records a submitted payment in PENDING state, stamped with
// the current time and a generated reference code.
func (r *PaymentRepo) Create(ctx context.Context, reservationID uint64, amount float64, method string) (model.Payment, error) {
	if amount <= 0 || method == "" {
		return model.Payment{}, ErrValidation
	}
	p := model.Payment{
		ReservationID: reservationID,
		Amount:        amount,
		Method:        method,
		Reference:     uuid.NewString(),
		PaidAt:        time.Now().UTC(),
		Status:        model.PaymentPending,
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO payment (reservation_id, jumlah_pembayaran, metode_pembayaran, reference, waktu_pembayaran, status_pembayaran) VALUES (?,?,?,?,?,?)",
		p.ReservationID, p.Amount, p.Method, p.Reference, p.PaidAt, p.Status)
	if err != nil {
		return model.Payment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Payment{}, err
	}
	p.ID = uint64(id)
	return p, nil
}

// GetByID returns a single payment or ErrNotFound.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE payment_id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// GetTx is GetByID inside an existing transaction.
func (r *PaymentRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Payment, error) {
	p, err := scanPayment(tx.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE payment_id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// SetStatusTx overwrites a payment's status within an existing
// transaction.
func (r *PaymentRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE payment SET status_pembayaran=? WHERE payment_id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM payment WHERE payment_id=?", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// PaymentDetail joins a payment with its reservation and, when
// claimed, the paying user. Used by the admin payment tables.
type PaymentDetail struct {
	model.Payment
	ReservationStatus string  `json:"status_reservasi"`
	UserID            *uint64 `json:"user_id"`
	UserName          *string `json:"nama,omitempty"`
}

const paymentDetailQuery = `SELECT p.payment_id, p.reservation_id, p.jumlah_pembayaran, p.metode_pembayaran,
                                   p.reference, p.waktu_pembayaran, p.status_pembayaran,
                                   r.status_reservasi, r.user_id, u.nama
                            FROM payment p
                            JOIN reservation r ON r.reservation_id = p.reservation_id
                            LEFT JOIN users u ON u.user_id = r.user_id`

func (r *PaymentRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]PaymentDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]PaymentDetail, 0)
	for rows.Next() {
		var d PaymentDetail
		var userID sql.NullInt64
		var name sql.NullString
		if err := rows.Scan(&d.ID, &d.ReservationID, &d.Amount, &d.Method, &d.Reference,
			&d.PaidAt, &d.Payment.Status, &d.ReservationStatus, &userID, &name); err != nil {
			return nil, err
		}
		if userID.Valid {
			uid := uint64(userID.Int64)
			d.UserID = &uid
		}
		if name.Valid {
			n := name.String
			d.UserName = &n
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListAll returns every payment with reservation and user context,
// newest first.
func (r *PaymentRepo) ListAll(ctx context.Context) ([]PaymentDetail, error) {
	return r.queryDetails(ctx, paymentDetailQuery+" ORDER BY p.waktu_pembayaran DESC")
}

// ListPending returns payments awaiting a decision, oldest first so
// admins work the queue in order.
func (r *PaymentRepo) ListPending(ctx context.Context) ([]PaymentDetail, error) {
	return r.queryDetails(ctx, paymentDetailQuery+" WHERE p.status_pembayaran=? ORDER BY p.waktu_pembayaran ASC",
		model.PaymentPending)
}

// ListByReservation returns payments submitted for one reservation,
// newest first.
func (r *PaymentRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE reservation_id=? ORDER BY waktu_pembayaran DESC",
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// PaymentStats aggregates payment counts for the admin dashboard.
type PaymentStats struct {
	Total    int64 `json:"totalPembayaran"`
	Today    int64 `json:"pembayaranHariIni"`
	Pending  int64 `json:"pembayaranPending"`
	Verified int64 `json:"pembayaranVerified"`
}

// Stats computes the payment counters. Today spans midnight to
// midnight in server-local time. The four counts are independent
// aggregates and run concurrently.
func (r *PaymentRepo) Stats(ctx context.Context) (PaymentStats, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var stats PaymentStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.QueryRowContext(gctx,
			"SELECT COUNT(*) FROM payment").Scan(&stats.Total)
	})
	g.Go(func() error {
		return r.db.QueryRowContext(gctx,
			"SELECT COUNT(*) FROM payment WHERE waktu_pembayaran >= ? AND waktu_pembayaran < ?",
			startOfDay.UTC(), endOfDay.UTC()).Scan(&stats.Today)
	})
	g.Go(func() error {
		return r.db.QueryRowContext(gctx,
			"SELECT COUNT(*) FROM payment WHERE status_pembayaran=?",
			model.PaymentPending).Scan(&stats.Pending)
	})
	g.Go(func() error {
		return r.db.QueryRowContext(gctx,
			"SELECT COUNT(*) FROM payment WHERE status_pembayaran=?",
			model.PaymentVerified).Scan(&stats.Verified)
	})
	if err := g.Wait(); err != nil {
		return PaymentStats{}, err
	}
	return stats, nil
}

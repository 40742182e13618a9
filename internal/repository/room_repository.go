package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/farhandp/coworking-book/internal/model"
)

// RoomRepo provides CRUD operations for coworking rooms stored in the
// 'coworking' table. Room status side effects (notifying the owning
// admin) are handled by the caller; the repository only mutates rows.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

const roomColumns = "coworking_id, no_ruang, id_admin, status_ruang"

// List returns every room ordered by its label.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+roomColumns+" FROM coworking ORDER BY no_ruang")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

// ListAvailable returns rooms whose status is AVAILABLE, ordered by id.
func (r *RoomRepo) ListAvailable(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+roomColumns+" FROM coworking WHERE status_ruang=? ORDER BY coworking_id",
		model.RoomAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

func collectRooms(rows *sql.Rows) ([]model.Room, error) {
	rooms := make([]model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Number, &room.AdminID, &room.Status); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// GetByID returns a single room or ErrNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	var room model.Room
	err := r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM coworking WHERE coworking_id=?", id).
		Scan(&room.ID, &room.Number, &room.AdminID, &room.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return room, ErrNotFound
	}
	return room, err
}

// Create inserts a room and returns it with the generated id. The
// status must be one of the enumerated values.
func (r *RoomRepo) Create(ctx context.Context, number string, adminID uint64, status string) (model.Room, error) {
	if strings.TrimSpace(number) == "" || !model.ValidRoomStatus(status) {
		return model.Room{}, ErrValidation
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO coworking (no_ruang, id_admin, status_ruang) VALUES (?,?,?)",
		number, adminID, status)
	if err != nil {
		return model.Room{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Room{}, err
	}
	return model.Room{ID: uint64(id), Number: number, AdminID: adminID, Status: status}, nil
}

// Update applies a merge-patch: nil fields keep their current value.
// Returns the updated row, or ErrNotFound when the id does not exist.
func (r *RoomRepo) Update(ctx context.Context, id uint64, number *string, status *string) (model.Room, error) {
	if status != nil && !model.ValidRoomStatus(*status) {
		return model.Room{}, ErrValidation
	}
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if number != nil {
		sets = append(sets, "no_ruang=?")
		args = append(args, *number)
	}
	if status != nil {
		sets = append(sets, "status_ruang=?")
		args = append(args, *status)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE coworking SET "+strings.Join(sets, ",")+" WHERE coworking_id=?", args...); err != nil {
			return model.Room{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// SetStatus overwrites a room's status and returns the updated row.
// The caller is responsible for notifying the owning admin when the
// room becomes UNAVAILABLE.
func (r *RoomRepo) SetStatus(ctx context.Context, id uint64, status string) (model.Room, error) {
	if !model.ValidRoomStatus(status) {
		return model.Room{}, ErrValidation
	}
	room, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Room{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE coworking SET status_ruang=? WHERE coworking_id=?", status, id); err != nil {
		return model.Room{}, err
	}
	room.Status = status
	return room, nil
}

// Delete removes a room. Returns ErrNotFound when absent.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM coworking WHERE coworking_id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

package model

import "time"

// Reservation lifecycle states stored in reservation.status_reservasi.
// UNCLAIMED is the free-slot sentinel: the record describes a room and
// a time window nobody has booked yet.  Claiming attaches a user and
// moves the record to PENDING_PAYMENT; a verified payment (or an admin
// override) makes it ACTIVE.  A user cancel returns the record to
// UNCLAIMED so the slot can be claimed again; CANCELLED is reachable
// only through an admin status override.
const (
    ReservationUnclaimed      = "UNCLAIMED"
    ReservationPendingPayment = "PENDING_PAYMENT"
    ReservationActive         = "ACTIVE"
    ReservationCancelled      = "CANCELLED"
)

// Reservation records a booking slot for a coworking room over a
// time window.  UserID is null while the slot is unclaimed.
//
// Fields:
//  ID      – primary key identifier.
//  UserID  – occupying user, nil for an unclaimed slot.
//  RoomID  – room being reserved (reservation.coworking_id).
//  StartAt – window start (reservation.waktu_mulai).
//  EndAt   – window end (reservation.waktu_selesai), exclusive.
//  Status  – lifecycle state, see constants above.
type Reservation struct {
    ID      uint64    `json:"reservation_id"`   // reservation.reservation_id
    UserID  *uint64   `json:"user_id"`          // reservation.user_id (nullable)
    RoomID  uint64    `json:"coworking_id"`     // reservation.coworking_id
    StartAt time.Time `json:"waktu_mulai"`      // reservation.waktu_mulai
    EndAt   time.Time `json:"waktu_selesai"`    // reservation.waktu_selesai
    Status  string    `json:"status_reservasi"` // reservation.status_reservasi
}

// ValidReservationStatus reports whether s is one of the enumerated
// lifecycle states.  Admin status overrides must pass this check so
// free-form strings never reach the column.
func ValidReservationStatus(s string) bool {
    switch s {
    case ReservationUnclaimed, ReservationPendingPayment, ReservationActive, ReservationCancelled:
        return true
    }
    return false
}

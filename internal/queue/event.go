// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationClaimedEvent is published when a user successfully claims a
// booking slot. Downstream consumers can log or trigger follow-ups
// without querying the primary database.
type ReservationClaimedEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    UserID        uint64 `json:"user_id"`
    RoomID        uint64 `json:"coworking_id"`
    RoomNumber    string `json:"no_ruang"`
    StartAt       string `json:"waktu_mulai"`
    EndAt         string `json:"waktu_selesai"`
    ClaimedAt     string `json:"claimed_at"`
}

// PaymentVerifiedEvent is published after an admin verifies a payment
// and the linked reservation has been activated.
type PaymentVerifiedEvent struct {
    PaymentID     uint64  `json:"payment_id"`
    ReservationID uint64  `json:"reservation_id"`
    UserID        uint64  `json:"user_id"`
    Amount        float64 `json:"jumlah_pembayaran"`
    Method        string  `json:"metode_pembayaran"`
    Reference     string  `json:"reference"`
    VerifiedBy    uint64  `json:"verified_by"`
    VerifiedAt    string  `json:"verified_at"`
}

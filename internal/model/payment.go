package model

import "time"

// Payment status values stored in payment.status_pembayaran.
const (
    PaymentPending  = "PENDING"
    PaymentVerified = "VERIFIED"
    PaymentRejected = "REJECTED"
)

// Payment is a row in the `payment` table.  A payment belongs to a
// reservation; verifying it activates the linked reservation.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – reservation the payment settles.
//  Amount        – amount paid (payment.jumlah_pembayaran).
//  Method        – payment method label (payment.metode_pembayaran).
//  Reference     – generated reference code used for reconciliation.
//  PaidAt        – submission timestamp (payment.waktu_pembayaran).
//  Status        – PENDING, VERIFIED or REJECTED.
type Payment struct {
    ID            uint64    `json:"payment_id"`        // payment.payment_id
    ReservationID uint64    `json:"reservation_id"`    // payment.reservation_id
    Amount        float64   `json:"jumlah_pembayaran"` // payment.jumlah_pembayaran
    Method        string    `json:"metode_pembayaran"` // payment.metode_pembayaran
    Reference     string    `json:"reference"`         // payment.reference
    PaidAt        time.Time `json:"waktu_pembayaran"`  // payment.waktu_pembayaran
    Status        string    `json:"status_pembayaran"` // payment.status_pembayaran
}

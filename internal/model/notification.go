package model

import "time"

// Notification type tags written by the stores when they emit
// side-effect notifications.
const (
    NotifReservation     = "reservasi"
    NotifPaymentVerified = "payment_verified"
    NotifPaymentRejected = "payment_rejected"
    NotifRoomStatus      = "room_status"
)

// Notification is an append-only message for a user, stored in the
// `notification` table.  Rows are never deleted; the only mutation
// is flipping Read to true.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – recipient.
//  Title     – short headline (notification.judul).
//  Body      – message text (notification.pesan).
//  Type      – type tag, see constants above (notification.tipe).
//  Read      – whether the user has opened it (notification.dibaca).
//  CreatedAt – insertion time (notification.waktu_notifikasi).
type Notification struct {
    ID        uint64    `json:"notification_id"`   // notification.notification_id
    UserID    uint64    `json:"user_id"`           // notification.user_id
    Title     string    `json:"judul"`             // notification.judul
    Body      string    `json:"pesan"`             // notification.pesan
    Type      string    `json:"tipe"`              // notification.tipe
    Read      bool      `json:"dibaca"`            // notification.dibaca
    CreatedAt time.Time `json:"waktu_notifikasi"`  // notification.waktu_notifikasi
}

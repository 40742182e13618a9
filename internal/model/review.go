package model

import "time"

// Review is a row in the `review` table.  At most one review exists
// per reservation; submitting again overwrites the comment and the
// review date.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – reservation being reviewed (upsert key).
//  Comment       – free-text comment (review.komentar).
//  ReviewedAt    – date of the latest submission (review.tanggal_review).
type Review struct {
    ID            uint64    `json:"review_id"`      // review.review_id
    ReservationID uint64    `json:"reservation_id"` // review.reservation_id
    Comment       string    `json:"komentar"`       // review.komentar
    ReviewedAt    time.Time `json:"tanggal_review"` // review.tanggal_review
}

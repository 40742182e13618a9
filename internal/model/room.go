package model

// Room status values stored in coworking.status_ruang.
const (
    RoomAvailable   = "AVAILABLE"
    RoomUnavailable = "UNAVAILABLE"
)

// Room represents a coworking room as stored in the `coworking`
// table.  Rooms are created and managed by administrators; the
// AdminID records which admin owns the room so status changes can
// be reported back to them.
//
// Fields:
//  ID      – primary key identifier.
//  Number  – room label shown to users (coworking.no_ruang).
//  AdminID – admin who owns the room (coworking.id_admin).
//  Status  – AVAILABLE or UNAVAILABLE.
type Room struct {
    ID      uint64 `json:"coworking_id"` // coworking.coworking_id
    Number  string `json:"no_ruang"`     // coworking.no_ruang
    AdminID uint64 `json:"id_admin"`     // coworking.id_admin
    Status  string `json:"status_ruang"` // coworking.status_ruang
}

// ValidRoomStatus reports whether s is one of the enumerated room
// status values.
func ValidRoomStatus(s string) bool {
    return s == RoomAvailable || s == RoomUnavailable
}

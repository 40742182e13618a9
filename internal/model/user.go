package model

import "time"

// Role values stored in users.role.
const (
    RoleUser  = "USER"
    RoleAdmin = "ADMIN"
)

// User represents an account record as stored in the `users` table.
// Each field corresponds to a column in the database.  Handlers
// define separate response types so the password hash never leaks
// into a JSON payload.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name (users.nama).
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Phone        – contact number (users.no_telp, nullable).
//  Role         – USER or ADMIN.
//  RegisteredAt – date the account was registered (users.tanggal_daftar).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.user_id
    Name         string    // users.nama
    Email        string    // users.email
    PasswordHash string    // users.password
    Phone        *string   // users.no_telp (nullable)
    Role         string    // users.role
    RegisteredAt time.Time // users.tanggal_daftar
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}

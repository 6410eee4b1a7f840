package entity

import (
	"database/sql"
	"time"
)

const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

type User struct {
	ID               uint64
	Role             string
	FirstName        string
	LastName         string
	Email            string
	PasswordHash     string
	IsEmailConfirmed bool
	IsFirstLogin     bool
	LastLogin        sql.NullTime
	LastLoginAs      sql.NullString
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TokenKind selects the secret, TTL and persistence row for a signed token.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
	TokenKindReset   TokenKind = "reset"
	TokenKindConfirm TokenKind = "confirm"
)

// Token is the persisted allow-list record for refresh/reset/confirm tokens.
// Access tokens are stateless and never stored. At most one row exists per
// (user, kind); issuing a new token of a kind overwrites the previous one.
type Token struct {
	ID        uint64
	UserID    uint64
	Kind      TokenKind
	Token     string
	CreatedAt time.Time
}

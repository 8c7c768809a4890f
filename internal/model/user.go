package model

import "time"

// User mirrors a row of the `Users` table in the users database. The
// column names keep the PascalCase casing of the original schema, so
// queries quote them verbatim.
//
// Fields:
//  ID           – primary key (Users.Id).
//  UserID       – public numeric-string identifier, 6-10 digits, unique.
//  Username     – unique display name, letters and digits only.
//  Email        – unique email address, stored lowercased.
//  PasswordHash – PBKDF2-SHA256 hash in "base64(salt).base64(key)" form.
type User struct {
	ID           int64  // Users.Id
	UserID       string // Users.UserId
	Username     string // Users.Username
	Email        string // Users.Email
	PasswordHash string // Users.PasswordHash
}

// UserSession mirrors a row of the `UserSessions` table. A session is
// live while ExpiresAt is in the future; expired rows are never swept,
// they are simply ignored (and occasionally displaced) on read.
//
// Fields:
//  ID           – primary key (UserSessions.Id).
//  UserID       – owning user's public identifier.
//  SessionToken – opaque GUID string handed to the client.
//  CreatedAt    – issue time (UTC); eviction order is FIFO on this.
//  ExpiresAt    – CreatedAt + 24h.
type UserSession struct {
	ID           int64     // UserSessions.Id
	UserID       string    // UserSessions.UserId
	SessionToken string    // UserSessions.SessionToken
	CreatedAt    time.Time // UserSessions.CreatedAt
	ExpiresAt    time.Time // UserSessions.ExpiresAt
}

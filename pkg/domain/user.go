package domain

import "github.com/google/uuid"

// UserID identifies the caller named by the bearer token subject.
type UserID uuid.UUID

// AnonymousUserID owns calculations submitted while authentication is disabled.
var AnonymousUserID = UserID(uuid.Nil) //nolint: gochecknoglobals

func (u UserID) String() string { return uuid.UUID(u).String() }

// Package repository implements the MySQL-backed stores of the auth
// service. Sentinel errors defined here let the service layer
// distinguish failure scenarios without inspecting driver errors.
// Token consumption methods enforce single-use semantics with
// conditional UPDATEs checked via RowsAffected, never with a
// read-then-write sequence.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no usable row: the row
// is absent, already revoked, already consumed, or was consumed by a
// concurrent caller between our read and our conditional update.
var ErrNotFound = errors.New("not found")

// ErrExpired is returned when a token row exists and is unconsumed but
// its expires_at lies in the past.
var ErrExpired = errors.New("expired")

// ErrEmailExists is returned by UserRepo.Create when the email column's
// unique constraint rejects the insert.
var ErrEmailExists = errors.New("email already exists")

package model

import "time"

// Role names stored in users.role. Tenants may extend this set; the
// service itself only assigns RoleUser on registration.
const (
    RoleAdmin = "admin"
    RoleUser  = "user"
    RoleGuest = "guest"
)

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are used internally by the repository layer; handlers define
// separate response types so that PasswordHash is never serialized
// toward a client.
//
// Fields:
//  ID            – primary key identifier of the user.
//  Name          – display name shown in the dashboard.
//  Email         – unique, lower-cased email address.
//  PasswordHash  – bcrypt hashed password.
//  Role          – role name (admin, user or guest).
//  EmailVerified – whether the address was confirmed via the email flow.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type User struct {
    ID            uint64    // users.id
    Name          string    // users.name
    Email         string    // users.email
    PasswordHash  string    // users.password_hash
    Role          string    // users.role
    EmailVerified bool      // users.email_verified
    CreatedAt     time.Time // users.created_at
    UpdatedAt     time.Time // users.updated_at
}

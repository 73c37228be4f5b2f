// Package users manages account registration and the admin approval
// lifecycle. Accounts start out pending and only approved accounts may
// authenticate.
package users

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("users: user not found")
	ErrAlreadyExists = errors.New("users: email already registered")
	ErrNotPending    = errors.New("users: user is not pending approval")
	ErrUnknownRole   = errors.New("users: unknown role")
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

type User struct {
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	Brand        string         `json:"brand"`
	Role         Role           `json:"role"`
	Status       ApprovalStatus `json:"status"`
	PasswordHash string         `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Event types published on the user lifecycle channel.
const (
	EventRegistered = "user.registered"
	EventApproved   = "user.approved"
	EventRejected   = "user.rejected"
)

// Event is the message published for every lifecycle change.
type Event struct {
	Type    string    `json:"type"`
	UserID  int64     `json:"user_id"`
	Email   string    `json:"email"`
	Brand   string    `json:"brand"`
	ActorID int64     `json:"actor_id,omitempty"`
	At      time.Time `json:"at"`
}

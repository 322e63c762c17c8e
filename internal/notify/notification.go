package notify

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a notification id does not exist.
var ErrNotFound = errors.New("notification not found")

// TypeRegistration tags notices written when an alumni registers.
const TypeRegistration = "registration"

// MaxList caps the admin notification feed.
const MaxList = 50

// Notification is an entry in the admin mailbox.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	AlumniID  *string   `json:"alumni_id"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists notifications. List returns newest first.
type Store interface {
	Create(ctx context.Context, n Notification) error
	List(ctx context.Context, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
}

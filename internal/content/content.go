// Package content manages events and spotlight profiles.
package content

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("content not found")

// Listing caps applied to reads.
const (
	MaxEvents    = 100
	MaxSpotlight = 20
)

var (
	EventTypes          = []string{"reunion", "webinar", "campus", "meetup"}
	SpotlightCategories = []string{"founder", "doctor", "civil_servant", "creator", "corporate"}
)

// Event is an association event.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventType   string    `json:"event_type"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventInput is the editable part of an event.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventType   string `json:"event_type"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
	IsActive    *bool  `json:"is_active"`
}

// Spotlight is a featured alumni profile.
type Spotlight struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Batch       string    `json:"batch"`
	Profession  string    `json:"profession"`
	Achievement string    `json:"achievement"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
}

// SpotlightInput is the editable part of a spotlight profile.
type SpotlightInput struct {
	Name        string `json:"name"`
	Batch       string `json:"batch"`
	Profession  string `json:"profession"`
	Achievement string `json:"achievement"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	IsFeatured  *bool  `json:"is_featured"`
}

// Store persists events and spotlight profiles. Update and Delete return
// ErrNotFound for unknown ids and change nothing.
type Store interface {
	ListEvents(ctx context.Context, activeOnly bool, limit int) ([]Event, error)
	CreateEvent(ctx context.Context, e Event) error
	UpdateEvent(ctx context.Context, e Event) error
	DeleteEvent(ctx context.Context, id string) error
	CountActiveEvents(ctx context.Context) (int, error)

	ListSpotlight(ctx context.Context, featuredOnly bool, limit int) ([]Spotlight, error)
	CreateSpotlight(ctx context.Context, s Spotlight) error
	UpdateSpotlight(ctx context.Context, s Spotlight) error
	DeleteSpotlight(ctx context.Context, id string) error
}

package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ehsas/internal/clock"
	"ehsas/internal/metrics"
)

// Recorder appends notices to the admin mailbox.
type Recorder struct {
	store Store
	clk   clock.Clock
}

// NewRecorder creates a recorder. A nil clock means the system clock.
func NewRecorder(store Store, clk clock.Clock) *Recorder {
	if clk == nil {
		clk = clock.System{}
	}
	return &Recorder{store: store, clk: clk}
}

// Record writes an unread notification.
func (r *Recorder) Record(ctx context.Context, typ, title, message string, alumniID *string) (Notification, error) {
	n := Notification{
		ID:        uuid.NewString(),
		Type:      typ,
		Title:     title,
		Message:   message,
		AlumniID:  alumniID,
		CreatedAt: r.clk.Now(),
	}
	if err := r.store.Create(ctx, n); err != nil {
		return Notification{}, fmt.Errorf("record notification: %w", err)
	}
	metrics.NotificationsRecorded.WithLabelValues(typ).Inc()
	return n, nil
}

// List returns up to limit notifications, newest first. Limits outside
// 1..MaxList fall back to MaxList.
func (r *Recorder) List(ctx context.Context, limit int) ([]Notification, error) {
	if limit <= 0 || limit > MaxList {
		limit = MaxList
	}
	return r.store.List(ctx, limit)
}

// MarkRead flags a notification as read. Marking twice is not an error.
func (r *Recorder) MarkRead(ctx context.Context, id string) error {
	return r.store.MarkRead(ctx, id)
}

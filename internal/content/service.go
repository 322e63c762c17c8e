package content

import (
	"context"

	"github.com/google/uuid"

	"ehsas/internal/clock"
)

// Service applies validation and defaults on top of a Store.
type Service struct {
	store Store
	clk   clock.Clock
}

func NewService(store Store, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{store: store, clk: clk}
}

// ListEvents returns up to MaxEvents events, only active ones when activeOnly.
func (s *Service) ListEvents(ctx context.Context, activeOnly bool) ([]Event, error) {
	return s.store.ListEvents(ctx, activeOnly, MaxEvents)
}

func (s *Service) CreateEvent(ctx context.Context, in EventInput) (Event, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return Event{}, err
	}
	e := Event{ID: uuid.NewString(), CreatedAt: s.clk.Now()}
	e.apply(in)
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// UpdateEvent replaces every editable field. An omitted is_active means active.
func (s *Service) UpdateEvent(ctx context.Context, id string, in EventInput) error {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return err
	}
	e := Event{ID: id}
	e.apply(in)
	return s.store.UpdateEvent(ctx, e)
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	return s.store.DeleteEvent(ctx, id)
}

func (s *Service) CountActiveEvents(ctx context.Context) (int, error) {
	return s.store.CountActiveEvents(ctx)
}

// ListSpotlight returns featured profiles capped at MaxSpotlight when
// featuredOnly, otherwise every profile.
func (s *Service) ListSpotlight(ctx context.Context, featuredOnly bool) ([]Spotlight, error) {
	limit := 0
	if featuredOnly {
		limit = MaxSpotlight
	}
	return s.store.ListSpotlight(ctx, featuredOnly, limit)
}

func (s *Service) CreateSpotlight(ctx context.Context, in SpotlightInput) (Spotlight, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return Spotlight{}, err
	}
	sp := Spotlight{ID: uuid.NewString(), CreatedAt: s.clk.Now()}
	sp.apply(in)
	if err := s.store.CreateSpotlight(ctx, sp); err != nil {
		return Spotlight{}, err
	}
	return sp, nil
}

// UpdateSpotlight replaces every editable field. An omitted is_featured means featured.
func (s *Service) UpdateSpotlight(ctx context.Context, id string, in SpotlightInput) error {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return err
	}
	sp := Spotlight{ID: id}
	sp.apply(in)
	return s.store.UpdateSpotlight(ctx, sp)
}

func (s *Service) DeleteSpotlight(ctx context.Context, id string) error {
	return s.store.DeleteSpotlight(ctx, id)
}

func (e *Event) apply(in EventInput) {
	e.Title = in.Title
	e.Description = in.Description
	e.EventType = in.EventType
	e.Date = in.Date
	e.Time = in.Time
	e.Location = in.Location
	e.ImageURL = in.ImageURL
	e.IsActive = boolOr(in.IsActive, true)
}

func (sp *Spotlight) apply(in SpotlightInput) {
	sp.Name = in.Name
	sp.Batch = in.Batch
	sp.Profession = in.Profession
	sp.Achievement = in.Achievement
	sp.Category = in.Category
	sp.ImageURL = in.ImageURL
	sp.IsFeatured = boolOr(in.IsFeatured, true)
}

package alumni

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ehsas/internal/clock"
	"ehsas/internal/metrics"
	"ehsas/internal/notify"
	"ehsas/internal/sequence"
)

// DistributionLimit is the number of batches reported by Stats.
const DistributionLimit = 10

// Recorder writes admin notifications.
type Recorder interface {
	Record(ctx context.Context, typ, title, message string, alumniID *string) (notify.Notification, error)
}

// Stats summarises the registry for the admin dashboard.
type Stats struct {
	TotalAlumni          int          `json:"total_alumni"`
	PendingRegistrations int          `json:"pending_registrations"`
	BatchDistribution    []BatchCount `json:"batch_distribution"`
}

// Service runs registration and review.
type Service struct {
	store      Store
	seq        sequence.Sequencer
	recorder   Recorder
	mailer     notify.Mailer
	clk        clock.Clock
	log        zerolog.Logger
	adminInbox string
}

// Deps groups the collaborators of Service.
type Deps struct {
	Store      Store
	Sequencer  sequence.Sequencer
	Recorder   Recorder
	Mailer     notify.Mailer
	Clock      clock.Clock
	Log        zerolog.Logger
	AdminInbox string
}

// NewService wires a registry service.
func NewService(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	return &Service{
		store:      d.Store,
		seq:        d.Sequencer,
		recorder:   d.Recorder,
		mailer:     d.Mailer,
		clk:        d.Clock,
		log:        d.Log,
		adminInbox: d.AdminInbox,
	}
}

// Register validates and stores a pending registration. The admin
// notification and the inbox email are best effort.
func (s *Service) Register(ctx context.Context, r Registration) (Alumni, error) {
	r = r.Normalize()
	now := s.clk.Now()
	if err := r.Validate(now.Year()); err != nil {
		return Alumni{}, err
	}

	if _, err := s.store.GetByEmail(ctx, r.Email); err == nil {
		return Alumni{}, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return Alumni{}, err
	}

	a := Alumni{
		ID:               uuid.NewString(),
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Mobile:           r.Mobile,
		YearOfJoining:    r.YearOfJoining,
		YearOfLeaving:    r.YearOfLeaving,
		ClassOfJoining:   r.ClassOfJoining,
		LastClassStudied: r.LastClassStudied,
		LastHouse:        r.LastHouse,
		FullAddress:      r.FullAddress,
		City:             r.City,
		Pincode:          r.Pincode,
		State:            r.State,
		Country:          r.Country,
		Profession:       r.Profession,
		Organization:     r.Organization,
		Status:           StatusPending,
		CreatedAt:        now,
	}
	if err := s.store.Create(ctx, a); err != nil {
		return Alumni{}, err
	}
	metrics.Registrations.Inc()
	s.log.Info().Str("alumni_id", a.ID).Int("batch", a.YearOfLeaving).Msg("alumni registered")

	if s.recorder != nil {
		msg := fmt.Sprintf("%s %s (%s) has registered from batch %d", a.FirstName, a.LastName, a.Email, a.YearOfLeaving)
		if _, err := s.recorder.Record(ctx, notify.TypeRegistration, "New Alumni Registration", msg, &a.ID); err != nil {
			s.log.Error().Err(err).Str("alumni_id", a.ID).Msg("record registration notification")
		}
	}
	if s.adminInbox != "" {
		s.send(ctx, notify.RegistrationReceived(s.adminInbox, a.FirstName, a.LastName, a.Email, a.YearOfLeaving), a.ID)
	}
	return a, nil
}

// List returns records matching f. A nil status means approved only.
func (s *Service) List(ctx context.Context, f Filter) ([]Alumni, error) {
	if f.Status == nil {
		st := StatusApproved
		f.Status = &st
	}
	return s.store.List(ctx, f)
}

// ListPending returns every pending registration.
func (s *Service) ListPending(ctx context.Context) ([]Alumni, error) {
	st := StatusPending
	return s.store.List(ctx, Filter{Status: &st})
}

// ListAll returns every record regardless of status.
func (s *Service) ListAll(ctx context.Context) ([]Alumni, error) {
	return s.store.List(ctx, Filter{})
}

func (s *Service) Get(ctx context.Context, id string) (Alumni, error) {
	return s.store.Get(ctx, id)
}

// Approve marks the record approved and returns its membership id. A record
// that already holds an id keeps it, so approving again is a no-op.
func (s *Service) Approve(ctx context.Context, id string) (string, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if a.Status == StatusApproved && a.MembershipID != nil {
		return *a.MembershipID, nil
	}

	var membershipID string
	if a.MembershipID != nil {
		membershipID = *a.MembershipID
	} else {
		n, err := s.seq.Next(ctx, a.YearOfLeaving)
		if err != nil {
			return "", fmt.Errorf("approve %s: %w", id, err)
		}
		membershipID = FormatMembershipID(a.YearOfLeaving, n)
	}

	updated, err := s.store.Approve(ctx, id, membershipID, s.clk.Now())
	if err != nil {
		return "", err
	}
	issued := *updated.MembershipID
	if a.MembershipID == nil && issued == membershipID {
		metrics.Approvals.Inc()
	}
	s.log.Info().Str("alumni_id", id).Str("membership_id", issued).Msg("alumni approved")

	s.send(ctx, notify.MembershipApproved(updated.Email, updated.FirstName, issued), id)
	return issued, nil
}

// Reject marks the record rejected. Membership id and approval time are kept.
func (s *Service) Reject(ctx context.Context, id string) error {
	a, err := s.store.Reject(ctx, id)
	if err != nil {
		return err
	}
	metrics.Rejections.Inc()
	s.log.Info().Str("alumni_id", id).Msg("alumni rejected")

	s.send(ctx, notify.MembershipRejected(a.Email, a.FirstName), id)
	return nil
}

// Stats reports approved and pending totals plus the newest batches.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	approved, err := s.store.CountByStatus(ctx, StatusApproved)
	if err != nil {
		return Stats{}, err
	}
	pending, err := s.store.CountByStatus(ctx, StatusPending)
	if err != nil {
		return Stats{}, err
	}
	dist, err := s.store.BatchDistribution(ctx, StatusApproved, DistributionLimit)
	if err != nil {
		return Stats{}, err
	}
	return Stats{TotalAlumni: approved, PendingRegistrations: pending, BatchDistribution: dist}, nil
}

func (s *Service) send(ctx context.Context, msg notify.Message, alumniID string) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Warn().Err(err).Str("alumni_id", alumniID).Str("subject", msg.Subject).Msg("email not sent")
	}
}

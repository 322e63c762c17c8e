package alumni

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ehsas/internal/clock"
	"ehsas/internal/notify"
	"ehsas/internal/sequence"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *fakeMailer) messages() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Message(nil), m.sent...)
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, string, string, string, *string) (notify.Notification, error) {
	return notify.Notification{}, errors.New("mailbox unavailable")
}

type fixture struct {
	svc      *Service
	store    *MemoryStore
	notes    *notify.MemoryStore
	mailer   *fakeMailer
	clk      *clock.Manual
	recorder *notify.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  NewMemoryStore(),
		notes:  notify.NewMemoryStore(),
		mailer: &fakeMailer{},
		clk:    clock.NewManual(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)),
	}
	f.recorder = notify.NewRecorder(f.notes, f.clk)
	f.svc = NewService(Deps{
		Store:      f.store,
		Sequencer:  sequence.NewMemory(),
		Recorder:   f.recorder,
		Mailer:     f.mailer,
		Clock:      f.clk,
		Log:        zerolog.Nop(),
		AdminInbox: "ehsas@eldenheights.org",
	})
	return f
}

func (f *fixture) register(t *testing.T, email string, batch int) Alumni {
	t.Helper()
	r := validRegistration()
	r.Email = email
	r.YearOfJoining = batch - 10
	r.YearOfLeaving = batch
	a, err := f.svc.Register(context.Background(), r)
	require.NoError(t, err)
	return a
}

func TestRegisterCreatesPendingRecord(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a := f.register(t, "asha@example.com", 2019)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, StatusPending, a.Status)
	assert.Nil(t, a.MembershipID)
	assert.Nil(t, a.ApprovedAt)
	assert.Equal(t, f.clk.Now(), a.CreatedAt)
	assert.Equal(t, "", a.Profession)

	notes, err := f.recorder.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, notify.TypeRegistration, notes[0].Type)
	assert.Equal(t, "New Alumni Registration", notes[0].Title)
	assert.Equal(t, "Asha Rao (asha@example.com) has registered from batch 2019", notes[0].Message)
	require.NotNil(t, notes[0].AlumniID)
	assert.Equal(t, a.ID, *notes[0].AlumniID)

	sent := f.mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"ehsas@eldenheights.org"}, sent[0].To)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.register(t, "asha@example.com", 2019)
	r := validRegistration()
	_, err := f.svc.Register(context.Background(), r)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	all, err := f.svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRegisterValidationError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	r := validRegistration()
	r.Email = "nope"
	_, err := f.svc.Register(context.Background(), r)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Empty(t, f.mailer.messages())
}

func TestRegisterSurvivesSideEffectFailures(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.mailer.err = errors.New("smtp down")
	f.svc.recorder = failingRecorder{}

	a := f.register(t, "asha@example.com", 2019)

	got, err := f.svc.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestListDefaultsToApproved(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	a := f.register(t, "a@example.com", 2019)
	b := f.register(t, "b@example.com", 2019)
	c := f.register(t, "c@example.com", 2020)
	_, err := f.svc.Approve(ctx, a.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Reject(ctx, c.ID))

	got, err := f.svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids(got))

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, ids(pending))

	rejected := StatusRejected
	got, err = f.svc.List(ctx, Filter{Status: &rejected})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, ids(got))

	all, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestApproveIssuesSequentialIDsPerBatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first := f.register(t, "a@example.com", 2019)
	second := f.register(t, "b@example.com", 2019)
	other := f.register(t, "c@example.com", 2020)

	id, err := f.svc.Approve(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "EH190001", id)

	id, err = f.svc.Approve(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "EH190002", id)

	id, err = f.svc.Approve(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "EH200001", id)

	got, err := f.svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedAt)
	assert.Equal(t, f.clk.Now(), *got.ApprovedAt)

	sent := f.mailer.messages()
	last := sent[len(sent)-1]
	assert.Equal(t, []string{"c@example.com"}, last.To)
	assert.Contains(t, last.Body, "EH200001")
}

func TestApproveIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	a := f.register(t, "a@example.com", 2019)
	id, err := f.svc.Approve(ctx, a.ID)
	require.NoError(t, err)
	firstApproval, err := f.svc.Get(ctx, a.ID)
	require.NoError(t, err)

	f.clk.Advance(time.Hour)
	again, err := f.svc.Approve(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	got, err := f.svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, firstApproval.ApprovedAt, got.ApprovedAt)

	next := f.register(t, "b@example.com", 2019)
	id, err = f.svc.Approve(ctx, next.ID)
	require.NoError(t, err)
	assert.Equal(t, "EH190002", id)
}

func TestRejectKeepsMembershipID(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	never := f.register(t, "a@example.com", 2019)
	require.NoError(t, f.svc.Reject(ctx, never.ID))
	got, err := f.svc.Get(ctx, never.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)
	assert.Nil(t, got.MembershipID)

	approved := f.register(t, "b@example.com", 2019)
	id, err := f.svc.Approve(ctx, approved.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Reject(ctx, approved.ID))
	got, err = f.svc.Get(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)
	require.NotNil(t, got.MembershipID)
	assert.Equal(t, id, *got.MembershipID)

	reapproved, err := f.svc.Approve(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, id, reapproved)
}

func TestApproveRejectUnknownID(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Approve(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.Reject(context.Background(), "missing"), ErrNotFound)
}

func TestConcurrentApprovalsGetDistinctIDs(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	const n = 25
	records := make([]Alumni, n)
	for i := range records {
		records[i] = f.register(t, string(rune('a'+i))+"@example.com", 2019)
	}

	var wg sync.WaitGroup
	out := make(chan string, n)
	for _, r := range records {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			mid, err := f.svc.Approve(ctx, id)
			if err == nil {
				out <- mid
			}
		}(r.ID)
	}
	wg.Wait()
	close(out)

	seen := make(map[string]bool)
	for id := range out {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestStatsDistributionSumsToTotal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	for i, batch := range []int{2015, 2015, 2016, 2019, 2019, 2019} {
		a := f.register(t, string(rune('a'+i))+"@example.com", batch)
		_, err := f.svc.Approve(ctx, a.ID)
		require.NoError(t, err)
	}
	f.register(t, "pending@example.com", 2019)

	st, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, st.TotalAlumni)
	assert.Equal(t, 1, st.PendingRegistrations)
	assert.Equal(t, []BatchCount{{2019, 3}, {2016, 1}, {2015, 2}}, st.BatchDistribution)

	sum := 0
	for _, b := range st.BatchDistribution {
		sum += b.Count
	}
	assert.Equal(t, st.TotalAlumni, sum)
}

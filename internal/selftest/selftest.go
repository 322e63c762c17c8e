// Package selftest drives a running API through the registry workflow and
// reports one line per check.
package selftest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"ehsas/internal/alumni"
	"ehsas/internal/apiclient"
	"ehsas/internal/content"
)

// Options configure a run. Batch is the graduation year used for the
// throwaway registration.
type Options struct {
	AdminEmail    string
	AdminPassword string
	Batch         int
}

// Result is the outcome of one check.
type Result struct {
	Name string
	Err  error
}

// Report collects results in execution order.
type Report struct {
	Results []Result
}

// Failed counts failed checks.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

type runner struct {
	admin  *apiclient.Client
	anon   *apiclient.Client
	opts   Options
	out    io.Writer
	report Report

	email     string
	alumniID  string
	ehsasID   string
	eventID   string
	profileID string
}

// Run executes every check against the API behind base. Later checks that
// depend on an earlier failure are reported as failed too.
func Run(ctx context.Context, base string, opts Options, out io.Writer) Report {
	if opts.Batch == 0 {
		opts.Batch = 2019
	}
	r := &runner{
		admin: apiclient.New(base),
		anon:  apiclient.New(base),
		opts:  opts,
		out:   out,
		email: fmt.Sprintf("selftest-%s@example.com", uuid.NewString()[:8]),
	}

	r.check("health", func() error { return r.anon.Health(ctx) })
	r.check("root banner", func() error {
		msg, err := r.anon.Root(ctx)
		if err != nil {
			return err
		}
		return expect(strings.HasPrefix(msg, "EHSAS API"), "unexpected banner %q", msg)
	})
	r.check("login rejects bad password", func() error {
		_, err := r.anon.Login(ctx, opts.AdminEmail, opts.AdminPassword+"x")
		return expectStatus(err, http.StatusUnauthorized)
	})
	r.check("admin login", func() error {
		_, err := r.admin.Login(ctx, opts.AdminEmail, opts.AdminPassword)
		return err
	})
	r.check("register", func() error {
		id, err := r.anon.Register(ctx, r.registration())
		r.alumniID = id
		return err
	})
	r.check("duplicate email rejected", func() error {
		_, err := r.anon.Register(ctx, r.registration())
		return expectStatus(err, http.StatusBadRequest)
	})
	r.check("pending list includes registration", func() error {
		list, err := r.admin.ListPending(ctx)
		if err != nil {
			return err
		}
		return expect(containsID(list, r.alumniID), "registration %s not pending", r.alumniID)
	})
	r.check("directory hides pending", func() error {
		list, err := r.anon.ListAlumni(ctx, nil)
		if err != nil {
			return err
		}
		return expect(!containsID(list, r.alumniID), "pending registration listed as approved")
	})
	r.check("approve requires token", func() error {
		_, err := r.anon.Approve(ctx, r.alumniID)
		return expectStatus(err, http.StatusUnauthorized)
	})
	r.check("approve", func() error {
		id, err := r.admin.Approve(ctx, r.alumniID)
		if err != nil {
			return err
		}
		r.ehsasID = id
		prefix := fmt.Sprintf("EH%02d", opts.Batch%100)
		return expect(len(id) == 8 && strings.HasPrefix(id, prefix), "membership id %q does not match %sNNNN", id, prefix)
	})
	r.check("approve is idempotent", func() error {
		id, err := r.admin.Approve(ctx, r.alumniID)
		if err != nil {
			return err
		}
		return expect(id == r.ehsasID, "second approval returned %q, first %q", id, r.ehsasID)
	})
	r.check("directory lists approved with filters", func() error {
		q := url.Values{"batch": {fmt.Sprint(opts.Batch)}, "city": {"selftest"}}
		list, err := r.anon.ListAlumni(ctx, q)
		if err != nil {
			return err
		}
		if !containsID(list, r.alumniID) {
			return errors.New("approved record missing from filtered directory")
		}
		for _, a := range list {
			if a.FullAddress != "" || a.Pincode != "" {
				return errors.New("directory exposes street address")
			}
		}
		return nil
	})
	r.check("stats", func() error {
		st, err := r.admin.Stats(ctx)
		if err != nil {
			return err
		}
		sum := 0
		for _, bc := range st.BatchDistribution {
			sum += bc.Count
		}
		return expect(st.TotalAlumni >= 1 && sum <= st.TotalAlumni, "inconsistent stats %+v", st)
	})
	r.check("notifications", func() error {
		list, err := r.admin.Notifications(ctx)
		if err != nil {
			return err
		}
		for _, n := range list {
			if strings.Contains(n.Message, r.email) {
				return r.admin.MarkRead(ctx, n.ID)
			}
		}
		return errors.New("no notification for the registration")
	})
	r.check("create event", func() error {
		e, err := r.admin.CreateEvent(ctx, r.event("Selftest meetup"))
		if err != nil {
			return err
		}
		r.eventID = e.ID
		return expect(e.IsActive, "new event not active")
	})
	r.check("update event", func() error {
		return r.admin.UpdateEvent(ctx, r.eventID, r.event("Selftest meetup (moved)"))
	})
	r.check("update unknown event", func() error {
		return expectStatus(r.admin.UpdateEvent(ctx, uuid.NewString(), r.event("nope")), http.StatusNotFound)
	})
	r.check("delete event", func() error { return r.admin.DeleteEvent(ctx, r.eventID) })
	r.check("create spotlight", func() error {
		sp, err := r.admin.CreateSpotlight(ctx, r.spotlight())
		if err != nil {
			return err
		}
		r.profileID = sp.ID
		return nil
	})
	r.check("featured spotlight lists profile", func() error {
		list, err := r.anon.Spotlight(ctx, false)
		if err != nil {
			return err
		}
		for _, sp := range list {
			if sp.ID == r.profileID {
				return nil
			}
		}
		return errors.New("new profile not featured")
	})
	r.check("update spotlight", func() error { return r.admin.UpdateSpotlight(ctx, r.profileID, r.spotlight()) })
	r.check("delete spotlight", func() error { return r.admin.DeleteSpotlight(ctx, r.profileID) })
	r.check("reject", func() error { return r.admin.Reject(ctx, r.alumniID) })

	return r.report
}

func (r *runner) check(name string, fn func() error) {
	err := fn()
	r.report.Results = append(r.report.Results, Result{Name: name, Err: err})
	if err != nil {
		fmt.Fprintf(r.out, "FAIL  %s: %v\n", name, err)
		return
	}
	fmt.Fprintf(r.out, "PASS  %s\n", name)
}

func (r *runner) registration() alumni.Registration {
	return alumni.Registration{
		FirstName: "Self", LastName: "Test", Email: r.email, Mobile: "9000000000",
		YearOfJoining: r.opts.Batch - 12, YearOfLeaving: r.opts.Batch,
		ClassOfJoining: "1", LastClassStudied: "12", LastHouse: "Selftest",
		FullAddress: "1 Test Lane", City: "Selftest", Pincode: "000000",
		State: "Test", Country: "India", Profession: "Tester",
	}
}

func (r *runner) event(title string) content.EventInput {
	return content.EventInput{
		Title: title, Description: "Automated check", EventType: "meetup",
		Date: "2030-01-01", Time: "10:00", Location: "Online",
	}
}

func (r *runner) spotlight() content.SpotlightInput {
	return content.SpotlightInput{
		Name: "Self Test", Batch: fmt.Sprint(r.opts.Batch), Profession: "Tester",
		Achievement: "Ran the checks", Category: "creator",
	}
}

func containsID(list []alumni.Alumni, id string) bool {
	for _, a := range list {
		if a.ID == id {
			return true
		}
	}
	return false
}

func expect(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return fmt.Errorf(format, args...)
}

func expectStatus(err error, status int) error {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("expected HTTP %d, got %v", status, err)
	}
	return expect(apiErr.Status == status, "expected HTTP %d, got %d", status, apiErr.Status)
}

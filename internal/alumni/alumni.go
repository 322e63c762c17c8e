// Package alumni holds membership records and their review lifecycle.
package alumni

import (
	"context"
	"time"
)

// Status is the review state of a registration.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus accepts the three known states.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	}
	return "", false
}

// Alumni is a stored membership record.
type Alumni struct {
	ID               string     `json:"id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            string     `json:"email"`
	Mobile           string     `json:"mobile"`
	YearOfJoining    int        `json:"year_of_joining"`
	YearOfLeaving    int        `json:"year_of_leaving"`
	ClassOfJoining   string     `json:"class_of_joining"`
	LastClassStudied string     `json:"last_class_studied"`
	LastHouse        string     `json:"last_house"`
	FullAddress      string     `json:"full_address"`
	City             string     `json:"city"`
	Pincode          string     `json:"pincode"`
	State            string     `json:"state"`
	Country          string     `json:"country"`
	Profession       string     `json:"profession"`
	Organization     string     `json:"organization"`
	Status           Status     `json:"status"`
	MembershipID     *string    `json:"ehsas_id"`
	CreatedAt        time.Time  `json:"created_at"`
	ApprovedAt       *time.Time `json:"approved_at"`
}

// Registration is the self-service sign-up payload.
type Registration struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Mobile           string `json:"mobile"`
	YearOfJoining    int    `json:"year_of_joining"`
	YearOfLeaving    int    `json:"year_of_leaving"`
	ClassOfJoining   string `json:"class_of_joining"`
	LastClassStudied string `json:"last_class_studied"`
	LastHouse        string `json:"last_house"`
	FullAddress      string `json:"full_address"`
	City             string `json:"city"`
	Pincode          string `json:"pincode"`
	State            string `json:"state"`
	Country          string `json:"country"`
	Profession       string `json:"profession"`
	Organization     string `json:"organization"`
}

// Filter narrows a listing. A nil Status means any status.
type Filter struct {
	Batch      *int
	Profession string
	City       string
	Status     *Status
}

// BatchCount is one bucket of the batch distribution.
type BatchCount struct {
	Batch int `json:"batch"`
	Count int `json:"count"`
}

// Store persists alumni records.
type Store interface {
	// Create inserts a record, returning ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, a Alumni) error
	Get(ctx context.Context, id string) (Alumni, error)
	GetByEmail(ctx context.Context, email string) (Alumni, error)
	List(ctx context.Context, f Filter) ([]Alumni, error)
	// Approve sets status approved. membershipID and at are only written
	// when the record has none yet, so the first issued id wins.
	Approve(ctx context.Context, id, membershipID string, at time.Time) (Alumni, error)
	// Reject sets status rejected and leaves every other field alone.
	Reject(ctx context.Context, id string) (Alumni, error)
	CountByStatus(ctx context.Context, st Status) (int, error)
	// BatchDistribution groups records with status st by leaving year,
	// newest year first, returning at most limit buckets.
	BatchDistribution(ctx context.Context, st Status, limit int) ([]BatchCount, error)
}

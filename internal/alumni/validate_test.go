package alumni

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() Registration {
	return Registration{
		FirstName:        "Asha",
		LastName:         "Rao",
		Email:            "asha@example.com",
		Mobile:           "9876543210",
		YearOfJoining:    2007,
		YearOfLeaving:    2019,
		ClassOfJoining:   "1",
		LastClassStudied: "12",
		LastHouse:        "Tagore",
		FullAddress:      "12 MG Road",
		City:             "Pune",
		Pincode:          "411001",
		State:            "Maharashtra",
		Country:          "India",
	}
}

func TestRegistrationValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Registration)
		field  string
	}{
		{"valid", func(*Registration) {}, ""},
		{"missing first name", func(r *Registration) { r.FirstName = "" }, "first_name"},
		{"missing address", func(r *Registration) { r.FullAddress = "" }, "full_address"},
		{"bad email", func(r *Registration) { r.Email = "not-an-email" }, "email"},
		{"display name email", func(r *Registration) { r.Email = "Asha <asha@example.com>" }, "email"},
		{"joining too early", func(r *Registration) { r.YearOfJoining = 1800 }, "year_of_joining"},
		{"leaving in far future", func(r *Registration) { r.YearOfLeaving = 2031 }, "year_of_leaving"},
		{"leaving before joining", func(r *Registration) { r.YearOfJoining, r.YearOfLeaving = 2019, 2010 }, "year_of_leaving"},
		{"next year allowed", func(r *Registration) { r.YearOfLeaving = 2025 }, ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := validRegistration()
			tc.mutate(&r)
			err := r.Validate(2024)
			if tc.field == "" {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestRegistrationNormalize(t *testing.T) {
	t.Parallel()

	r := validRegistration()
	r.Email = "  asha@example.com "
	r.Profession = " Doctor\t"
	n := r.Normalize()
	assert.Equal(t, "asha@example.com", n.Email)
	assert.Equal(t, "Doctor", n.Profession)
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	t.Parallel()

	err := (&ValidationError{Fields: map[string]string{"mobile": "is required", "city": "is required"}}).Error()
	assert.Equal(t, "invalid registration: city: is required; mobile: is required", err)
}

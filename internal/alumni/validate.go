package alumni

import (
	"net/mail"
	"sort"
	"strings"
)

const minYear = 1900

// Normalize trims whitespace from every text field.
func (r Registration) Normalize() Registration {
	for _, p := range []*string{
		&r.FirstName, &r.LastName, &r.Email, &r.Mobile, &r.ClassOfJoining, &r.LastClassStudied,
		&r.LastHouse, &r.FullAddress, &r.City, &r.Pincode, &r.State, &r.Country, &r.Profession, &r.Organization,
	} {
		*p = strings.TrimSpace(*p)
	}
	return r
}

// Validate checks required fields and the batch years. currentYear bounds
// the leaving year to at most one year ahead.
func (r Registration) Validate(currentYear int) error {
	var verr ValidationError
	required := []struct {
		name, value string
	}{
		{"first_name", r.FirstName},
		{"last_name", r.LastName},
		{"email", r.Email},
		{"mobile", r.Mobile},
		{"class_of_joining", r.ClassOfJoining},
		{"last_class_studied", r.LastClassStudied},
		{"last_house", r.LastHouse},
		{"full_address", r.FullAddress},
		{"city", r.City},
		{"pincode", r.Pincode},
		{"state", r.State},
		{"country", r.Country},
	}
	for _, f := range required {
		if f.value == "" {
			verr.add(f.name, "is required")
		}
	}
	if r.Email != "" {
		if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
			verr.add("email", "is not a valid email address")
		}
	}
	if r.YearOfJoining < minYear || r.YearOfJoining > currentYear+1 {
		verr.add("year_of_joining", "is out of range")
	}
	if r.YearOfLeaving < minYear || r.YearOfLeaving > currentYear+1 {
		verr.add("year_of_leaving", "is out of range")
	}
	if r.YearOfJoining > r.YearOfLeaving {
		verr.add("year_of_leaving", "must not be before year_of_joining")
	}
	return verr.orNil()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package content

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError reports a malformed event or spotlight payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (in EventInput) normalize() EventInput {
	for _, p := range []*string{&in.Title, &in.Description, &in.EventType, &in.Date, &in.Time, &in.Location, &in.ImageURL} {
		*p = strings.TrimSpace(*p)
	}
	in.EventType = strings.ToLower(in.EventType)
	return in
}

func (in EventInput) validate() error {
	for _, f := range []struct{ name, value string }{
		{"title", in.Title}, {"description", in.Description}, {"event_type", in.EventType},
		{"date", in.Date}, {"time", in.Time}, {"location", in.Location},
	} {
		if f.value == "" {
			return &ValidationError{Field: f.name, Reason: "is required"}
		}
	}
	if !slices.Contains(EventTypes, in.EventType) {
		return &ValidationError{Field: "event_type", Reason: "must be one of " + strings.Join(EventTypes, ", ")}
	}
	return nil
}

func (in SpotlightInput) normalize() SpotlightInput {
	for _, p := range []*string{&in.Name, &in.Batch, &in.Profession, &in.Achievement, &in.Category, &in.ImageURL} {
		*p = strings.TrimSpace(*p)
	}
	in.Category = strings.ToLower(in.Category)
	return in
}

func (in SpotlightInput) validate() error {
	for _, f := range []struct{ name, value string }{
		{"name", in.Name}, {"batch", in.Batch}, {"profession", in.Profession},
		{"achievement", in.Achievement}, {"category", in.Category},
	} {
		if f.value == "" {
			return &ValidationError{Field: f.name, Reason: "is required"}
		}
	}
	if !slices.Contains(SpotlightCategories, in.Category) {
		return &ValidationError{Field: "category", Reason: "must be one of " + strings.Join(SpotlightCategories, ", ")}
	}
	return nil
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

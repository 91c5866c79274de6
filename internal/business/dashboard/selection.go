package dashboard

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFilters is returned when applying an empty selection.
	ErrNoFilters = errors.New("select at least one filter")
	// ErrUnknownAttribute rejects selections outside Attributes.
	ErrUnknownAttribute = errors.New("unknown attribute")
)

// Selection collects the user's pending filter choices before they are applied.
type Selection struct {
	criteria Criteria
}

// Select sets the value for attr, replacing any previous choice. An empty
// value clears the attribute.
func (s *Selection) Select(attr, value string) error {
	if !KnownAttribute(attr) {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, attr)
	}
	if value == "" {
		s.Clear(attr)
		return nil
	}
	s.criteria = s.criteria.Set(attr, value)
	return nil
}

func (s *Selection) Clear(attr string) {
	s.criteria = s.criteria.Without(attr)
}

func (s *Selection) ClearAll() {
	s.criteria = nil
}

// CanApply reports whether at least one filter is selected.
func (s *Selection) CanApply() bool {
	return len(s.criteria) > 0
}

// Criteria returns a copy of the current choices in selection order.
func (s *Selection) Criteria() Criteria {
	return append(Criteria(nil), s.criteria...)
}

// Apply returns the query string for the dashboard view.
func (s *Selection) Apply() (string, error) {
	if !s.CanApply() {
		return "", ErrNoFilters
	}
	return s.criteria.Encode(), nil
}

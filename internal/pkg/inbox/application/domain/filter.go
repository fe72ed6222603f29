package inbox

import (
	"fmt"
	"strings"
)

// FilterMode selects which conversations the inbox listing shows.
type FilterMode string

const (
	FilterAll        FilterMode = "all"
	FilterYours      FilterMode = "yours"
	FilterUnassigned FilterMode = "unassigned"
)

// FilterModes lists every mode in tab order.
var FilterModes = []FilterMode{FilterAll, FilterYours, FilterUnassigned}

// Label is the tab caption shown to admins.
func (f FilterMode) Label() string {
	switch f {
	case FilterAll:
		return "All"
	case FilterYours:
		return "Yours"
	case FilterUnassigned:
		return "Nobody"
	}
	return string(f)
}

// ParseFilterMode accepts exactly the defined modes; anything else is an error.
func ParseFilterMode(s string) (FilterMode, error) {
	switch mode := FilterMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case FilterAll, FilterYours, FilterUnassigned:
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
}

// FilterConversations keeps the conversations matching mode for admin, in input order.
func FilterConversations(all []Conversation, mode FilterMode, admin User) ([]Conversation, error) {
	var keep func(c *Conversation) bool
	switch mode {
	case FilterAll:
		out := make([]Conversation, len(all))
		copy(out, all)
		return out, nil
	case FilterYours:
		keep = func(c *Conversation) bool { return c.IsOwnedBy(admin.ID) }
	case FilterUnassigned:
		keep = func(c *Conversation) bool { return c.IsUnassigned() }
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, string(mode))
	}

	out := make([]Conversation, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// CountByMode tallies conversations for every mode at once.
func CountByMode(all []Conversation, admin User) map[FilterMode]int {
	counts := map[FilterMode]int{FilterAll: len(all), FilterYours: 0, FilterUnassigned: 0}
	for i := range all {
		switch {
		case all[i].IsUnassigned():
			counts[FilterUnassigned]++
		case all[i].IsOwnedBy(admin.ID):
			counts[FilterYours]++
		}
	}
	return counts
}

package inbox

import (
	"strings"

	"github.com/google/uuid"
)

// CanonicalID returns s in the lowercase hyphenated uuid form when s parses as a
// uuid, and the trimmed input otherwise. Ids are compared as strings after this.
func CanonicalID(s string) string {
	s = strings.TrimSpace(s)
	if id, err := uuid.Parse(s); err == nil {
		return id.String()
	}
	return s
}

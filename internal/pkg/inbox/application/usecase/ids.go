package usecase

import "github.com/google/uuid"

// canonicalID parses s as a uuid and returns its canonical spelling. Storage keys
// are uuids, so anything that does not parse can never match a row and is not
// sent to the database.
func canonicalID(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func isID(s string) bool {
	_, ok := canonicalID(s)
	return ok
}

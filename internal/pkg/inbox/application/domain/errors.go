package inbox

import (
	"errors"
	"sort"
	"strings"
)

// Domain-level errors for inbox behaviors
var (
	ErrConversationNotFound = errors.New("inbox: conversation not found")
	ErrMessageNotFound      = errors.New("inbox: message not found")
	ErrUserNotFound         = errors.New("inbox: user not found")
	ErrInvalidFilter        = errors.New("inbox: invalid conversation filter")
)

// ValidationError lists the fields that kept a message from being saved.
// Keys are the form field names ("content", "user_id", ...).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "inbox: invalid message"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "inbox: invalid message: " + strings.Join(parts, ", ")
}

// Add records a problem for field, keeping the first one reported.
func (e *ValidationError) Add(field, problem string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = problem
	}
}

// OrNil returns e when it holds at least one problem.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsValidationError reports whether err carries field validation problems.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

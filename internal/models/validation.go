// internal/models/validation.go
package models

import "sort"

// ValidationError is one field-level problem reported either by the rule
// table or by a section editor's own checks.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validation error codes.
const (
	CodeMissingRequired = "MISSING_REQUIRED"
	CodeInvalidFormat   = "INVALID_FORMAT"
	CodeOutOfRange      = "OUT_OF_RANGE"
)

// ErrorSet maps field path (e.g. "hsc.board", "cetScorePercent") to a
// human-readable message. The zero-length set means "valid".
type ErrorSet map[string]string

// Add records a message for a field unless one is already present, so the
// first (most specific) check wins within a single source.
func (s ErrorSet) Add(field, message string) {
	if _, exists := s[field]; !exists {
		s[field] = message
	}
}

// MergeOverride folds editor-reported errors into the set. Editor errors
// take precedence over the rule table's generic messages for the same key.
func (s ErrorSet) MergeOverride(errs []ValidationError) {
	for _, e := range errs {
		s[e.Field] = e.Message
	}
}

// Empty reports whether validation passed.
func (s ErrorSet) Empty() bool {
	return len(s) == 0
}

// Messages returns every message ordered by field path, for the single
// aggregated notice shown to the user.
func (s ErrorSet) Messages() []string {
	fields := make([]string, 0, len(s))
	for f := range s {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, s[f])
	}
	return msgs
}

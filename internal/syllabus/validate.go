package syllabus

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSyllabus is returned (wrapped) when an imported syllabus
// document does not match the expected shape.
var ErrInvalidSyllabus = errors.New("invalid syllabus")

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateSubject checks the structural invariants of a subject and its
// topics. All problems are reported together.
func ValidateSubject(s Subject) error {
	var errs []error

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, &ValidationError{Field: "name", Reason: "subject name must not be empty"})
	}
	if s.Weight <= 0 {
		errs = append(errs, &ValidationError{Field: "weight", Reason: fmt.Sprintf("must be a positive integer, got %d", s.Weight)})
	}

	seen := make(map[string]bool, len(s.Topics))
	for i, t := range s.Topics {
		if seen[t.ID] {
			errs = append(errs, &ValidationError{
				Field:  fmt.Sprintf("topics[%d].id", i),
				Reason: fmt.Sprintf("duplicate topic ID %q", t.ID),
			})
		}
		seen[t.ID] = true
		if err := validateTopic(t, s.ID); err != nil {
			errs = append(errs, fmt.Errorf("topics[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

func validateTopic(t Topic, subjectID string) error {
	var errs []error
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, &ValidationError{Field: "name", Reason: "topic name must not be empty"})
	}
	if !t.Difficulty.Valid() {
		errs = append(errs, &ValidationError{Field: "difficulty", Reason: fmt.Sprintf("unknown difficulty %q", t.Difficulty)})
	}
	if t.SubjectID != subjectID {
		errs = append(errs, &ValidationError{
			Field:  "subjectId",
			Reason: fmt.Sprintf("topic belongs to %q, not %q", t.SubjectID, subjectID),
		})
	}
	return errors.Join(errs...)
}

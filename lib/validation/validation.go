package validation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

const (
	// MinRating and MaxRating bound an appearance rating, inclusive.
	MinRating = 1
	MaxRating = 5
)

// ValidationError reports input that breaks a domain rule.
type ValidationError struct {
	Field   string
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateRating returns the rating unchanged when it is within
// [MinRating, MaxRating]. Every path that sets a rating goes through here.
func ValidateRating(rating int) (int, error) {
	if rating < MinRating || rating > MaxRating {
		return 0, &ValidationError{
			Field:   "rating",
			Reason:  "out of range",
			Message: fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating),
		}
	}
	return rating, nil
}

// Required reports a missing required field.
func Required(field string) error {
	return &ValidationError{
		Field:   field,
		Reason:  "required",
		Message: fmt.Sprintf("%s is required", field),
	}
}

// WriteError writes a single error response of the form {"error": "..."}.
func WriteError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, map[string]string{"error": message}, status)
}

// WriteErrors writes a validation failure response of the form
// {"errors": ["...", ...]}.
func WriteErrors(w http.ResponseWriter, messages []string, status int) {
	if messages == nil {
		messages = []string{}
	}
	writeJSON(w, map[string][]string{"errors": messages}, status)
}

func writeJSON(w http.ResponseWriter, body any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode error response", slog.Any("error", err))
	}
}

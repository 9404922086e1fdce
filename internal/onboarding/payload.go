package onboarding

import (
	"math"
	"strings"
)

// Submission is the wire shape of the final profile update: the first name
// travels at the top level, everything else nested under profile. An unset
// first name is omitted rather than sent as an empty string.
type Submission struct {
	FirstName string         `json:"first_name,omitempty"`
	Profile   map[string]any `json:"profile"`
}

// FilterValues drops entries the backend treats as absent: empty or
// whitespace-only strings, nils, NaN numbers, and empty lists.
func FilterValues(values map[string]any) map[string]any {
	filtered := make(map[string]any, len(values))
	for field, value := range values {
		if keepValue(value) {
			filtered[field] = value
		}
	}
	return filtered
}

func keepValue(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case float64:
		return !math.IsNaN(typed)
	case float32:
		return !math.IsNaN(float64(typed))
	case []string:
		return len(typed) > 0
	case []any:
		return len(typed) > 0
	default:
		return true
	}
}

// BuildSubmission assembles the final payload: the filtered profile values
// plus the completion flag and the client's resolved IANA timezone.
func BuildSubmission(form *Form, timezone string) Submission {
	profile := FilterValues(form.Values())
	profile["is_onboarding_complete"] = true
	profile["timezone"] = timezone
	return Submission{
		FirstName: strings.TrimSpace(form.FirstName),
		Profile:   profile,
	}
}

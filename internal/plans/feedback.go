package plans

import (
	"fmt"

	"github.com/strideapp/stride/internal/backend"
)

const (
	minDifficulty = 1
	maxDifficulty = 10
)

var completionStatuses = map[string]bool{
	backend.WorkoutCompleted:    true,
	backend.WorkoutModified:     true,
	backend.WorkoutSkipped:      true,
	backend.WorkoutNotCompleted: true,
}

// ValidateFeedback checks a workout feedback form before it is relayed to
// the API. Difficulty is optional; the status is not.
func ValidateFeedback(completionStatus string, difficulty *int) map[string]string {
	fieldErrors := map[string]string{}
	if !completionStatuses[completionStatus] {
		fieldErrors["completion_status"] = "Pick how the workout went."
	}
	if difficulty != nil && (*difficulty < minDifficulty || *difficulty > maxDifficulty) {
		fieldErrors["difficulty"] = fmt.Sprintf("Difficulty must be between %d and %d.", minDifficulty, maxDifficulty)
	}
	return fieldErrors
}

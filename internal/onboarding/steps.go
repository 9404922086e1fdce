package onboarding

// Step is one screen of the onboarding wizard. Fields lists the form fields
// validated before the wizard advances past this step; Skippable marks steps
// the UI may relabel "Skip" when all of their fields are empty (the advance
// contract is unchanged either way).
type Step struct {
	ID        int
	Name      string
	Fields    []string
	Skippable bool
}

// Steps is the fixed ordered table driving the wizard. Positions are 1-based
// and stable: the step query parameter in the page URL indexes into it.
var Steps = []Step{
	{
		ID:     1,
		Name:   "About You",
		Fields: []string{"first_name"},
	},
	{
		ID:     2,
		Name:   "Basics",
		Fields: []string{"age", "feet", "inches", "heightCm", "weightKg", "weightLbs"},
	},
	{
		ID:     3,
		Name:   "Goals",
		Fields: []string{"goals", "goalsDetails"},
	},
	{
		ID:        4,
		Name:      "Race Details",
		Fields:    []string{"raceName", "raceDate", "distance", "timeGoal"},
		Skippable: true,
	},
	{
		ID:     5,
		Name:   "Experience",
		Fields: []string{"runningExperience", "recentRaceResults"},
	},
	{
		ID:     6,
		Name:   "Current Routine",
		Fields: []string{"routineDaysPerWeek", "routineMilesPerWeek", "routineEasyPace", "routineLongestRun"},
	},
	{
		ID:     7,
		Name:   "Training Schedule",
		Fields: []string{"daysCommitTraining", "preferredLongRunDays", "preferredWorkoutDays", "preferredRestDays", "extraTraining", "diet"},
	},
	{
		ID:     8,
		Name:   "Health & Notes",
		Fields: []string{"injuries", "pastProblems", "otherObligations", "moreInfo"},
	},
}

// TotalSteps is the number of wizard screens.
const TotalSteps = 8

// StepByID returns the descriptor for a step position.
func StepByID(stepID int) (Step, bool) {
	if stepID < 1 || stepID > len(Steps) {
		return Step{}, false
	}
	return Steps[stepID-1], true
}

// ClampStep resolves a raw step value (typically from the URL query) into a
// valid position: values outside [1, TotalSteps] fall back to 1.
func ClampStep(raw int) int {
	if raw < 1 || raw > TotalSteps {
		return 1
	}
	return raw
}

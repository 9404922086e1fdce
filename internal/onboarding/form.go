package onboarding

import "math"

// Form is the single mutable record behind the wizard. Field names mirror the
// backend profile contract. Height is held in exactly one of {feet+inches,
// heightCm} and weight in exactly one of {weightKg, weightLbs}; the unit
// setters below keep those invariants by clearing the opposing representation.
type Form struct {
	FirstName string `json:"first_name"`

	Age       *int     `json:"age"`
	Feet      *int     `json:"feet"`
	Inches    *int     `json:"inches"`
	HeightCm  *float64 `json:"heightCm"`
	WeightKg  *float64 `json:"weightKg"`
	WeightLbs *float64 `json:"weightLbs"`

	Goals        []string `json:"goals"`
	GoalsDetails string   `json:"goalsDetails"`

	RaceName string `json:"raceName"`
	RaceDate string `json:"raceDate"`
	Distance string `json:"distance"`
	TimeGoal string `json:"timeGoal"`

	RunningExperience string `json:"runningExperience"`
	RecentRaceResults string `json:"recentRaceResults"`

	RoutineDaysPerWeek  string `json:"routineDaysPerWeek"`
	RoutineMilesPerWeek string `json:"routineMilesPerWeek"`
	RoutineEasyPace     string `json:"routineEasyPace"`
	RoutineLongestRun   string `json:"routineLongestRun"`

	DaysCommitTraining   string   `json:"daysCommitTraining"`
	PreferredLongRunDays []string `json:"preferredLongRunDays"`
	PreferredWorkoutDays []string `json:"preferredWorkoutDays"`
	PreferredRestDays    []string `json:"preferredRestDays"`
	ExtraTraining        []string `json:"extraTraining"`
	Diet                 []string `json:"diet"`

	Injuries         string   `json:"injuries"`
	PastProblems     []string `json:"pastProblems"`
	OtherObligations string   `json:"otherObligations"`
	MoreInfo         string   `json:"moreInfo"`
}

func NewForm() *Form {
	return &Form{}
}

// SetHeightImperial records height in feet and inches and clears the metric
// representation.
func (form *Form) SetHeightImperial(feet int, inches int) {
	form.Feet = &feet
	form.Inches = &inches
	form.HeightCm = nil
}

// SetHeightMetric records height in centimeters and clears the imperial
// representation.
func (form *Form) SetHeightMetric(heightCm float64) {
	form.HeightCm = &heightCm
	form.Feet = nil
	form.Inches = nil
}

// SetWeightKg records weight in kilograms and clears the pound value.
func (form *Form) SetWeightKg(weightKg float64) {
	form.WeightKg = &weightKg
	form.WeightLbs = nil
}

// SetWeightLbs records weight in pounds and clears the kilogram value.
func (form *Form) SetWeightLbs(weightLbs float64) {
	form.WeightLbs = &weightLbs
	form.WeightKg = nil
}

// HasImperialHeight reports whether either imperial height field is set.
func (form *Form) HasImperialHeight() bool {
	return form.Feet != nil || form.Inches != nil
}

// HasMetricHeight reports whether the metric height field is set.
func (form *Form) HasMetricHeight() bool {
	return form.HeightCm != nil
}

// Values projects the form into a field-name keyed map, the shape the
// submission filter and the backend profile payload operate on. Unset
// pointers project as nil so the filter can drop them.
func (form *Form) Values() map[string]any {
	values := map[string]any{
		"age":                  numberOrNil(form.Age),
		"feet":                 numberOrNil(form.Feet),
		"inches":               numberOrNil(form.Inches),
		"heightCm":             floatOrNil(form.HeightCm),
		"weightKg":             floatOrNil(form.WeightKg),
		"weightLbs":            floatOrNil(form.WeightLbs),
		"goals":                stringListOrNil(form.Goals),
		"goalsDetails":         form.GoalsDetails,
		"raceName":             form.RaceName,
		"raceDate":             form.RaceDate,
		"distance":             form.Distance,
		"timeGoal":             form.TimeGoal,
		"runningExperience":    form.RunningExperience,
		"recentRaceResults":    form.RecentRaceResults,
		"routineDaysPerWeek":   form.RoutineDaysPerWeek,
		"routineMilesPerWeek":  form.RoutineMilesPerWeek,
		"routineEasyPace":      form.RoutineEasyPace,
		"routineLongestRun":    form.RoutineLongestRun,
		"daysCommitTraining":   form.DaysCommitTraining,
		"preferredLongRunDays": stringListOrNil(form.PreferredLongRunDays),
		"preferredWorkoutDays": stringListOrNil(form.PreferredWorkoutDays),
		"preferredRestDays":    stringListOrNil(form.PreferredRestDays),
		"extraTraining":        stringListOrNil(form.ExtraTraining),
		"diet":                 stringListOrNil(form.Diet),
		"injuries":             form.Injuries,
		"pastProblems":         stringListOrNil(form.PastProblems),
		"otherObligations":     form.OtherObligations,
		"moreInfo":             form.MoreInfo,
	}
	return values
}

func numberOrNil(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func floatOrNil(value *float64) any {
	if value == nil {
		return nil
	}
	if math.IsNaN(*value) {
		return nil
	}
	return *value
}

func stringListOrNil(values []string) any {
	if len(values) == 0 {
		return nil
	}
	return values
}

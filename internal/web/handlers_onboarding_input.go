package web

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/strideapp/stride/internal/onboarding"
)

// applyStepInput copies one step's posted values onto the draft form. Absent
// or unparseable numeric inputs leave their field unset so validation reports
// them instead of a silent zero.
func applyStepInput(c *fiber.Ctx, form *onboarding.Form, step onboarding.Step) {
	if step.ID == 2 {
		applyBodyMetrics(c, form)
		return
	}

	for _, field := range step.Fields {
		applyStringField(c, form, field)
	}
}

func applyStringField(c *fiber.Ctx, form *onboarding.Form, field string) {
	switch field {
	case "first_name":
		form.FirstName = trimmedFormValue(c, "first_name")
	case "goals":
		form.Goals = formValueList(c, "goals")
	case "goalsDetails":
		form.GoalsDetails = trimmedFormValue(c, "goalsDetails")
	case "raceName":
		form.RaceName = trimmedFormValue(c, "raceName")
	case "raceDate":
		form.RaceDate = trimmedFormValue(c, "raceDate")
	case "distance":
		form.Distance = trimmedFormValue(c, "distance")
	case "timeGoal":
		form.TimeGoal = trimmedFormValue(c, "timeGoal")
	case "runningExperience":
		form.RunningExperience = trimmedFormValue(c, "runningExperience")
	case "recentRaceResults":
		form.RecentRaceResults = trimmedFormValue(c, "recentRaceResults")
	case "routineDaysPerWeek":
		form.RoutineDaysPerWeek = trimmedFormValue(c, "routineDaysPerWeek")
	case "routineMilesPerWeek":
		form.RoutineMilesPerWeek = trimmedFormValue(c, "routineMilesPerWeek")
	case "routineEasyPace":
		form.RoutineEasyPace = trimmedFormValue(c, "routineEasyPace")
	case "routineLongestRun":
		form.RoutineLongestRun = trimmedFormValue(c, "routineLongestRun")
	case "daysCommitTraining":
		form.DaysCommitTraining = trimmedFormValue(c, "daysCommitTraining")
	case "preferredLongRunDays":
		form.PreferredLongRunDays = formValueList(c, "preferredLongRunDays")
	case "preferredWorkoutDays":
		form.PreferredWorkoutDays = formValueList(c, "preferredWorkoutDays")
	case "preferredRestDays":
		form.PreferredRestDays = formValueList(c, "preferredRestDays")
	case "extraTraining":
		form.ExtraTraining = formValueList(c, "extraTraining")
	case "diet":
		form.Diet = formValueList(c, "diet")
	case "injuries":
		form.Injuries = trimmedFormValue(c, "injuries")
	case "pastProblems":
		form.PastProblems = formValueList(c, "pastProblems")
	case "otherObligations":
		form.OtherObligations = trimmedFormValue(c, "otherObligations")
	case "moreInfo":
		form.MoreInfo = trimmedFormValue(c, "moreInfo")
	}
}

// applyBodyMetrics handles the age, height, and weight inputs. Height and
// weight each arrive in one of two unit representations; the form's unit
// setters clear the opposing one so only a single representation survives.
func applyBodyMetrics(c *fiber.Ctx, form *onboarding.Form) {
	form.Age = parseIntField(c, "age")

	form.Feet = nil
	form.Inches = nil
	form.HeightCm = nil
	if resolveUnit(c, "height_unit", "metric", trimmedFormValue(c, "heightCm") != "") {
		if heightCm, ok := parseFloatValue(trimmedFormValue(c, "heightCm")); ok {
			form.SetHeightMetric(heightCm)
		}
	} else {
		feet, feetOK := parseIntValue(trimmedFormValue(c, "feet"))
		inches, inchesOK := parseIntValue(trimmedFormValue(c, "inches"))
		if feetOK || inchesOK {
			form.SetHeightImperial(feet, inches)
		}
	}

	form.WeightKg = nil
	form.WeightLbs = nil
	if resolveUnit(c, "weight_unit", "kg", trimmedFormValue(c, "weightKg") != "") {
		if weightKg, ok := parseFloatValue(trimmedFormValue(c, "weightKg")); ok {
			form.SetWeightKg(weightKg)
		}
	} else {
		if weightLbs, ok := parseFloatValue(trimmedFormValue(c, "weightLbs")); ok {
			form.SetWeightLbs(weightLbs)
		}
	}
}

// resolveUnit reports whether the primary unit applies: an explicit selector
// wins, otherwise the presence of the primary unit's value decides.
func resolveUnit(c *fiber.Ctx, selector string, primary string, primaryPresent bool) bool {
	selected := strings.ToLower(trimmedFormValue(c, selector))
	if selected != "" {
		return selected == primary
	}
	return primaryPresent
}

func trimmedFormValue(c *fiber.Ctx, key string) string {
	return strings.TrimSpace(c.FormValue(key))
}

func formValueList(c *fiber.Ctx, key string) []string {
	raw := c.Context().PostArgs().PeekMulti(key)
	values := make([]string, 0, len(raw))
	for _, value := range raw {
		trimmed := strings.TrimSpace(string(value))
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

func parseIntField(c *fiber.Ctx, key string) *int {
	value, ok := parseIntValue(trimmedFormValue(c, key))
	if !ok {
		return nil
	}
	return &value
}

func parseIntValue(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parseFloatValue(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

package onboarding

import (
	"fmt"
	"strings"
	"time"
)

// Bounds come from the backend profile contract; values outside them are
// rejected there as well, so validating locally keeps the failure on the
// wizard surface instead of a round trip.
const (
	minAge = 18
	maxAge = 120

	minFeet   = 1
	maxFeet   = 8
	minInches = 0
	maxInches = 11

	minHeightCm = 100
	maxHeightCm = 250

	minWeightKg  = 10
	maxWeightKg  = 500
	minWeightLbs = 22
	maxWeightLbs = 1100
)

const raceDateLayout = "2006-01-02"

// ValidateStep runs schema validation restricted to one step's field subset
// and returns the per-field messages. An empty result means the step may
// advance.
func ValidateStep(form *Form, stepID int) FieldErrors {
	fieldErrors := FieldErrors{}
	step, ok := StepByID(stepID)
	if !ok {
		return fieldErrors
	}

	for _, field := range step.Fields {
		if message := validateField(form, field); message != "" {
			fieldErrors[field] = message
		}
	}
	return fieldErrors
}

func validateField(form *Form, field string) string {
	switch field {
	case "first_name":
		if strings.TrimSpace(form.FirstName) == "" {
			return "Please enter your first name."
		}
	case "age":
		if form.Age == nil {
			return "Please enter your age."
		}
		if *form.Age < minAge || *form.Age > maxAge {
			return fmt.Sprintf("Age must be between %d and %d.", minAge, maxAge)
		}
	case "feet":
		if form.Feet != nil && (*form.Feet < minFeet || *form.Feet > maxFeet) {
			return fmt.Sprintf("Feet must be between %d and %d.", minFeet, maxFeet)
		}
	case "inches":
		if form.Inches != nil && (*form.Inches < minInches || *form.Inches > maxInches) {
			return fmt.Sprintf("Inches must be between %d and %d.", minInches, maxInches)
		}
	case "heightCm":
		return validateHeight(form)
	case "weightKg":
		return validateWeight(form)
	case "weightLbs":
		if form.WeightLbs != nil && (*form.WeightLbs < minWeightLbs || *form.WeightLbs > maxWeightLbs) {
			return fmt.Sprintf("Weight must be between %d and %d lbs.", minWeightLbs, maxWeightLbs)
		}
	case "goals":
		if len(form.Goals) == 0 {
			return "Please pick at least one goal."
		}
	case "raceDate":
		if strings.TrimSpace(form.RaceDate) != "" {
			if _, err := time.Parse(raceDateLayout, form.RaceDate); err != nil {
				return "Race date must use the YYYY-MM-DD format."
			}
		}
	}
	return ""
}

// validateHeight enforces the one-representation invariant and the metric
// bounds; imperial bounds are reported on their own fields.
func validateHeight(form *Form) string {
	if form.HasImperialHeight() && form.HasMetricHeight() {
		return "Height can be set in feet and inches or centimeters, not both."
	}
	if !form.HasImperialHeight() && !form.HasMetricHeight() {
		return "Please enter your height."
	}
	if form.HeightCm != nil && (*form.HeightCm < minHeightCm || *form.HeightCm > maxHeightCm) {
		return fmt.Sprintf("Height must be between %d and %d cm.", minHeightCm, maxHeightCm)
	}
	if form.HasImperialHeight() && form.Feet == nil {
		return "Please enter your height."
	}
	return ""
}

// validateWeight mirrors validateHeight for the kilogram/pound pair.
func validateWeight(form *Form) string {
	if form.WeightKg != nil && form.WeightLbs != nil {
		return "Weight can be set in kilograms or pounds, not both."
	}
	if form.WeightKg == nil && form.WeightLbs == nil {
		return "Please enter your weight."
	}
	if form.WeightKg != nil && (*form.WeightKg < minWeightKg || *form.WeightKg > maxWeightKg) {
		return fmt.Sprintf("Weight must be between %d and %d kg.", minWeightKg, maxWeightKg)
	}
	return ""
}

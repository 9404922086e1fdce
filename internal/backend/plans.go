package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Plan statuses as reported by the API.
const (
	PlanStatusInProgress = "in progress"
	PlanStatusCompleted  = "completed"
	PlanStatusError      = "error"
)

// Workout completion statuses accepted by the feedback endpoint.
const (
	WorkoutCompleted    = "completed"
	WorkoutModified     = "modified"
	WorkoutSkipped      = "skipped"
	WorkoutNotCompleted = "not_completed"
)

// Plan is a training plan with its generation state.
type Plan struct {
	ID                    string         `json:"id"`
	Status                string         `json:"status"`
	CreatedAt             string         `json:"created_at"`
	GenerationCompletedAt *string        `json:"generation_completed_at"`
	GenerationError       *string        `json:"generation_error"`
	PlanInfo              map[string]any `json:"plan_info"`
}

// Workout is one scheduled workout inside a plan.
type Workout struct {
	ID               string         `json:"id"`
	Date             string         `json:"date"`
	WorkoutInfo      map[string]any `json:"workout_info"`
	CompletionStatus string         `json:"completion_status"`
	Difficulty       *int           `json:"difficulty"`
	AdditionalNotes  string         `json:"additional_notes"`
}

// WorkoutPage is one page of a plan's workout list (50 per page).
type WorkoutPage struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Workout `json:"results"`
}

// WorkoutFeedback is the user's report on a finished workout.
type WorkoutFeedback struct {
	CompletionStatus string `json:"completion_status"`
	Difficulty       *int   `json:"difficulty,omitempty"`
	AdditionalNotes  string `json:"additional_notes,omitempty"`
}

// GenerateResult acknowledges a plan-generation kick-off.
type GenerateResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// GeneratePlan starts generating a training plan for the authenticated user.
// Runs strictly after the profile PATCH commits; the endpoint takes no body.
func (client *Client) GeneratePlan(ctx context.Context, token string) (*GenerateResult, error) {
	var result GenerateResult
	if err := client.do(ctx, http.MethodPost, "/api/v1/plans/generate/", token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Plan fetches one training plan.
func (client *Client) Plan(ctx context.Context, token string, planID string) (*Plan, error) {
	var plan Plan
	path := fmt.Sprintf("/api/v1/plans/%s/", planID)
	if err := client.do(ctx, http.MethodGet, path, token, nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Workouts lists a plan's workouts, optionally filtered to one date
// (YYYY-MM-DD) and paged from 1.
func (client *Client) Workouts(ctx context.Context, token string, planID string, date string, page int) (*WorkoutPage, error) {
	params := url.Values{}
	if date != "" {
		params.Set("date", date)
	}
	if page > 1 {
		params.Set("page", fmt.Sprintf("%d", page))
	}

	path := fmt.Sprintf("/api/v1/plans/%s/workouts/", planID)
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var workoutPage WorkoutPage
	if err := client.do(ctx, http.MethodGet, path, token, nil, &workoutPage); err != nil {
		return nil, err
	}
	return &workoutPage, nil
}

// UpdateWorkout records feedback on a workout.
func (client *Client) UpdateWorkout(ctx context.Context, token string, planID string, workoutID string, feedback WorkoutFeedback) (*Workout, error) {
	path := fmt.Sprintf("/api/v1/plans/%s/workouts/%s/", planID, workoutID)
	var workout Workout
	if err := client.do(ctx, http.MethodPatch, path, token, feedback, &workout); err != nil {
		return nil, err
	}
	return &workout, nil
}

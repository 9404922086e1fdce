package web

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/strideapp/stride/internal/backend"
	"github.com/strideapp/stride/internal/plans"
)

// workoutPageLimit caps how many 50-item pages the viewer pulls for one plan.
const workoutPageLimit = 20

// PlanPage renders the plan viewer for one training week. The week query
// parameter is clamped into the plan's range; without it the viewer opens on
// the week containing today.
func (handler *Handler) PlanPage(c *fiber.Ctx) error {
	current := currentSession(c)
	account, err := handler.api.Me(c.Context(), current.Token)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return c.Redirect("/verify", fiber.StatusSeeOther)
		}
		return apiError(c, fiber.StatusBadGateway, "failed to load your account")
	}
	if path := nextPath(account); path != "/plan" {
		return c.Redirect(path, fiber.StatusSeeOther)
	}

	plan, err := handler.api.Plan(c.Context(), current.Token, account.CurrentPlan.ID)
	if err != nil {
		return apiError(c, fiber.StatusBadGateway, "failed to load your plan")
	}
	if plan.Status == backend.PlanStatusInProgress {
		return c.Redirect("/onboarding/generating", fiber.StatusSeeOther)
	}

	workouts, err := handler.fetchAllWorkouts(c, current.Token, plan.ID)
	if err != nil {
		return apiError(c, fiber.StatusBadGateway, "failed to load your workouts")
	}

	weeks := plans.GroupWeeks(workouts, handler.location)
	week := queryInt(c, "week")
	if week == 0 {
		week = plans.CurrentWeek(weeks, time.Now().In(handler.location))
	}
	week = plans.ClampWeek(week, len(weeks))

	var selected *plans.Week
	if len(weeks) > 0 {
		selected = &weeks[week-1]
	}

	return handler.render(c, "plan", fiber.Map{
		"Title":      "Your training plan",
		"FirstName":  account.FirstName,
		"Plan":       plan,
		"Weeks":      weeks,
		"Week":       selected,
		"WeekNumber": week,
		"PlanFailed": plan.Status == backend.PlanStatusError,
	})
}

// WorkoutFeedback records how a workout went and returns to the week it
// lives on.
func (handler *Handler) WorkoutFeedback(c *fiber.Ctx) error {
	current := currentSession(c)
	account, err := handler.api.Me(c.Context(), current.Token)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return c.Redirect("/verify", fiber.StatusSeeOther)
		}
		return apiError(c, fiber.StatusBadGateway, "failed to load your account")
	}
	if account.CurrentPlan == nil {
		return c.Redirect("/onboarding/generating", fiber.StatusSeeOther)
	}

	workoutID := c.Params("id")
	feedback := backend.WorkoutFeedback{
		CompletionStatus: trimmedFormValue(c, "completion_status"),
		AdditionalNotes:  trimmedFormValue(c, "additional_notes"),
		Difficulty:       parseIntField(c, "difficulty"),
	}

	if fieldErrors := plans.ValidateFeedback(feedback.CompletionStatus, feedback.Difficulty); len(fieldErrors) > 0 {
		if acceptsJSON(c) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": fieldErrors})
		}
		handler.setFlashCookie(c, FlashPayload{Error: firstMessage(fieldErrors)})
		return c.Redirect(planReturnPath(c), fiber.StatusSeeOther)
	}

	if _, err := handler.api.UpdateWorkout(c.Context(), current.Token, account.CurrentPlan.ID, workoutID, feedback); err != nil {
		message := "We couldn't save your feedback. Try again."
		if apiErr, ok := backend.AsAPIError(err); ok && apiErr.Message != "" {
			message = apiErr.Message
		}
		if acceptsJSON(c) {
			return apiError(c, fiber.StatusBadGateway, message)
		}
		handler.setFlashCookie(c, FlashPayload{Error: message})
		return c.Redirect(planReturnPath(c), fiber.StatusSeeOther)
	}

	if acceptsJSON(c) {
		return c.JSON(fiber.Map{"ok": true})
	}
	handler.setFlashCookie(c, FlashPayload{Notice: "Feedback saved."})
	return c.Redirect(planReturnPath(c), fiber.StatusSeeOther)
}

// fetchAllWorkouts walks the paginated workout list until the API reports no
// next page.
func (handler *Handler) fetchAllWorkouts(c *fiber.Ctx, token string, planID string) ([]backend.Workout, error) {
	var workouts []backend.Workout
	for page := 1; page <= workoutPageLimit; page++ {
		result, err := handler.api.Workouts(c.Context(), token, planID, "", page)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, result.Results...)
		if result.Next == nil {
			break
		}
	}
	return workouts, nil
}

func planReturnPath(c *fiber.Ctx) string {
	if week, ok := parseIntValue(trimmedFormValue(c, "week")); ok && week > 0 {
		return fmt.Sprintf("/plan?week=%d", week)
	}
	return "/plan"
}

func firstMessage(fieldErrors map[string]string) string {
	for _, message := range fieldErrors {
		return message
	}
	return ""
}

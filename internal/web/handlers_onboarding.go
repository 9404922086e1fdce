package web

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/strideapp/stride/internal/analytics"
	"github.com/strideapp/stride/internal/backend"
	"github.com/strideapp/stride/internal/onboarding"
	"github.com/strideapp/stride/internal/session"
)

const submitFailedMessage = "We couldn't finish your setup. Please try again."

type dayOption struct {
	Value string
	Label string
}

var weekDays = []dayOption{
	{Value: "monday", Label: "Monday"},
	{Value: "tuesday", Label: "Tuesday"},
	{Value: "wednesday", Label: "Wednesday"},
	{Value: "thursday", Label: "Thursday"},
	{Value: "friday", Label: "Friday"},
	{Value: "saturday", Label: "Saturday"},
	{Value: "sunday", Label: "Sunday"},
}

// OnboardingPage renders the wizard at the step named in the URL. Out-of-range
// or missing step values fall back to the first step.
func (handler *Handler) OnboardingPage(c *fiber.Ctx) error {
	current := currentSession(c)
	if current == nil {
		return c.Redirect("/verify", fiber.StatusSeeOther)
	}

	form, err := handler.sessions.LoadDraft(current.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load progress")
	}

	wizard := onboarding.NewWizard(form, queryInt(c, "step"))
	return handler.renderOnboarding(c, wizard, fiber.StatusOK)
}

// OnboardingNext applies the posted step values and advances the wizard. A
// validation failure re-renders the same step with per-field messages; the
// final step triggers the two-phase submission instead of a move.
func (handler *Handler) OnboardingNext(c *fiber.Ctx) error {
	current := currentSession(c)
	if current == nil {
		return c.Redirect("/verify", fiber.StatusSeeOther)
	}

	form, err := handler.sessions.LoadDraft(current.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load progress")
	}

	wizard := onboarding.NewWizard(form, postedStep(c))
	applyStepInput(c, wizard.Form, wizard.CurrentStep())
	if err := handler.sessions.SaveDraft(current.ID, wizard.Form); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save progress")
	}

	completedStep := wizard.CurrentStep()
	switch wizard.Advance() {
	case onboarding.AdvanceRejected:
		return handler.renderOnboarding(c, wizard, fiber.StatusUnprocessableEntity)
	case onboarding.AdvanceMoved:
		handler.tracker.TrackStepCompleted(c.Context(), current.ID, completedStep.ID, completedStep.Name)
		return redirectOrJSON(c, stepPath(wizard.Step()))
	default:
		// The final step counts as completed only once the submission lands.
		return handler.submitOnboarding(c, current, wizard)
	}
}

// OnboardingBack moves one step backward without validating. At the first
// step it stays put.
func (handler *Handler) OnboardingBack(c *fiber.Ctx) error {
	current := currentSession(c)
	if current == nil {
		return c.Redirect("/verify", fiber.StatusSeeOther)
	}

	form, err := handler.sessions.LoadDraft(current.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load progress")
	}

	wizard := onboarding.NewWizard(form, postedStep(c))
	applyStepInput(c, wizard.Form, wizard.CurrentStep())
	if err := handler.sessions.SaveDraft(current.ID, wizard.Form); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save progress")
	}

	wizard.Retreat()
	return redirectOrJSON(c, stepPath(wizard.Step()))
}

// submitOnboarding runs the two-phase submission: the profile PATCH first,
// then plan generation only once the PATCH has committed. Field-level
// rejections land back on the final step under profile-prefixed keys;
// anything else surfaces as a flash on the same step. There is no
// compensation for a committed PATCH whose generate call fails; retrying the
// submission repeats both calls safely.
func (handler *Handler) submitOnboarding(c *fiber.Ctx, current *session.Session, wizard *onboarding.Wizard) error {
	if !handler.beginSubmit(current.ID) {
		return handler.renderOnboarding(c, wizard, fiber.StatusConflict)
	}
	defer handler.endSubmit(current.ID)

	submission := onboarding.BuildSubmission(wizard.Form, handler.location.String())
	err := handler.api.UpdateProfile(c.Context(), current.Token, current.UserID, submission)
	if err != nil {
		if fieldErrors, ok := backend.AsFieldErrors(err); ok {
			wizard.Errors.Merge("profile.", fieldErrors)
			return handler.renderOnboarding(c, wizard, fiber.StatusUnprocessableEntity)
		}
		if errors.Is(err, backend.ErrUnauthorized) {
			return c.Redirect("/verify", fiber.StatusSeeOther)
		}
		return handler.failSubmit(c, submitFailedMessage)
	}

	if _, err := handler.api.GeneratePlan(c.Context(), current.Token); err != nil {
		message := submitFailedMessage
		if apiErr, ok := backend.AsAPIError(err); ok && apiErr.Message != "" {
			message = apiErr.Message
		}
		return handler.failSubmit(c, message)
	}

	finalStep := wizard.CurrentStep()
	handler.tracker.TrackStepCompleted(c.Context(), current.ID, finalStep.ID, finalStep.Name)
	handler.tracker.Track(c.Context(), current.ID, analytics.EventOnboardingCompleted, nil)
	// The profile is committed either way; a stale draft is harmless.
	_ = handler.sessions.ClearDraft(current.ID)
	return redirectOrJSON(c, "/onboarding/complete")
}

// failSubmit reports a submission failure that is not field-scoped: the
// wizard stays on its final step and the message rides a one-shot flash.
func (handler *Handler) failSubmit(c *fiber.Ctx, message string) error {
	if acceptsJSON(c) {
		return apiError(c, fiber.StatusBadGateway, message)
	}
	handler.setFlashCookie(c, FlashPayload{Error: message})
	return c.Redirect(stepPath(onboarding.TotalSteps), fiber.StatusSeeOther)
}

// OnboardingCompletePage confirms the submission and points at the plan.
func (handler *Handler) OnboardingCompletePage(c *fiber.Ctx) error {
	return handler.render(c, "complete", fiber.Map{
		"Title": "You're all set",
	})
}

// GeneratingPage shows plan-generation progress, refreshing until the plan
// lands. A finished plan redirects straight to the viewer.
func (handler *Handler) GeneratingPage(c *fiber.Ctx) error {
	current := currentSession(c)
	if current == nil || !current.Verified() {
		return c.Redirect("/verify", fiber.StatusSeeOther)
	}

	account, err := handler.api.Me(c.Context(), current.Token)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return c.Redirect("/verify", fiber.StatusSeeOther)
		}
		return apiError(c, fiber.StatusBadGateway, "failed to check plan status")
	}

	if account.CurrentPlan != nil && account.CurrentPlan.Status != backend.PlanStatusInProgress {
		return c.Redirect("/plan", fiber.StatusSeeOther)
	}

	status := ""
	if account.CurrentPlan != nil {
		status = account.CurrentPlan.Status
	}
	return handler.render(c, "generating", fiber.Map{
		"Title":  "Building your plan",
		"Status": status,
	})
}

func (handler *Handler) renderOnboarding(c *fiber.Ctx, wizard *onboarding.Wizard, status int) error {
	if acceptsJSON(c) && status >= fiber.StatusBadRequest {
		return c.Status(status).JSON(fiber.Map{
			"step":   wizard.Step(),
			"errors": wizard.Errors,
		})
	}

	step := wizard.CurrentStep()
	c.Status(status)
	return handler.render(c, "onboarding", fiber.Map{
		"Title":      step.Name,
		"Step":       step,
		"StepNumber": wizard.Step(),
		"TotalSteps": onboarding.TotalSteps,
		"Steps":      onboarding.Steps,
		"Form":       wizard.Form,
		"WeekDays":   weekDays,
		"Errors":     map[string]string(wizard.Errors),
		"NextPath":   "/onboarding/next",
		"BackPath":   "/onboarding/back",
	})
}

// postedStep reads the wizard position from the posted form, falling back to
// the URL query.
func postedStep(c *fiber.Ctx) int {
	if value, ok := parseIntValue(trimmedFormValue(c, "step")); ok {
		return value
	}
	return queryInt(c, "step")
}

func stepPath(step int) string {
	return fmt.Sprintf("/onboarding?step=%d", step)
}

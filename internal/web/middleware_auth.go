package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/strideapp/stride/internal/backend"
	"github.com/strideapp/stride/internal/session"
)

const contextSessionKey = "stride.session"

// EnsureSession hydrates the browser's session, creating an anonymous one
// when the cookie is missing, invalid, or points at an expired record.
func (handler *Handler) EnsureSession(c *fiber.Ctx) error {
	current, err := handler.resolveSession(c)
	if err != nil {
		current, err = handler.startAnonymousSession(c)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to start session")
		}
	}

	c.Locals(contextSessionKey, current)
	return c.Next()
}

// RequireVerified gates pages that need an API token behind the
// phone-verification flow.
func (handler *Handler) RequireVerified(c *fiber.Ctx) error {
	current := currentSession(c)
	if current == nil || !current.Verified() {
		if acceptsJSON(c) || isHTMX(c) {
			return apiError(c, fiber.StatusUnauthorized, "verification required")
		}
		return c.Redirect("/verify", fiber.StatusSeeOther)
	}
	return c.Next()
}

func (handler *Handler) resolveSession(c *fiber.Ctx) (*session.Session, error) {
	sessionID, err := handler.sessionIDFromCookie(c)
	if err != nil {
		return nil, err
	}

	return handler.sessions.Find(sessionID)
}

func (handler *Handler) startAnonymousSession(c *fiber.Ctx) (*session.Session, error) {
	current, err := handler.sessions.CreateAnonymous()
	if err != nil {
		return nil, err
	}
	if err := handler.setSessionCookie(c, current.ID); err != nil {
		return nil, err
	}
	return current, nil
}

func currentSession(c *fiber.Ctx) *session.Session {
	current, _ := c.Locals(contextSessionKey).(*session.Session)
	return current
}

// nextPath decides where a session should land based on what the API says
// about the account: verification first, then onboarding, then the plan.
func nextPath(account *backend.Account) string {
	switch {
	case account == nil || !account.IsVerified:
		return "/verify"
	case !account.Profile.IsOnboardingComplete:
		return "/onboarding"
	case account.CurrentPlan == nil:
		return "/onboarding/generating"
	default:
		return "/plan"
	}
}

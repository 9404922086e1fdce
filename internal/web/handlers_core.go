package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/strideapp/stride/internal/backend"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Home routes the visitor to wherever they are in the flow: verification,
// the wizard, the generating screen, or the plan.
func (handler *Handler) Home(c *fiber.Ctx) error {
	current := currentSession(c)
	if current == nil || !current.Verified() {
		return c.Redirect("/verify", fiber.StatusSeeOther)
	}

	account, err := handler.api.Me(c.Context(), current.Token)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return c.Redirect("/verify", fiber.StatusSeeOther)
		}
		return apiError(c, fiber.StatusBadGateway, "failed to load your account")
	}
	return c.Redirect(nextPath(account), fiber.StatusSeeOther)
}

// Logout tears the session down and returns to verification.
func (handler *Handler) Logout(c *fiber.Ctx) error {
	if current := currentSession(c); current != nil {
		handler.countdowns.Drop(current.ID)
		_ = handler.sessions.Delete(current.ID)
	}
	handler.clearSessionCookie(c)
	return redirectOrJSON(c, "/verify")
}

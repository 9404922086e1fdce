package web

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)

	app.Use(handler.EnsureSession)

	app.Get("/", handler.Home)
	app.Post("/logout", handler.Logout)

	app.Get("/verify", handler.VerifyPhonePage)
	app.Post("/verify/send", handler.SendCode)
	app.Get("/verify/code", handler.VerifyCodePage)
	app.Post("/verify/code", handler.ConfirmCode)
	app.Post("/verify/resend", handler.ResendCode)

	app.Get("/onboarding", handler.RequireVerified, handler.OnboardingPage)
	app.Post("/onboarding/next", handler.RequireVerified, handler.OnboardingNext)
	app.Post("/onboarding/back", handler.RequireVerified, handler.OnboardingBack)
	app.Get("/onboarding/complete", handler.RequireVerified, handler.OnboardingCompletePage)
	app.Get("/onboarding/generating", handler.RequireVerified, handler.GeneratingPage)

	app.Get("/plan", handler.RequireVerified, handler.PlanPage)
	app.Post("/plan/workouts/:id/feedback", handler.RequireVerified, handler.WorkoutFeedback)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

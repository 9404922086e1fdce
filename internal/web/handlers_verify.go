package web

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/strideapp/stride/internal/backend"
	"github.com/strideapp/stride/internal/session"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,19}$`)

const (
	codeExpiredMessage  = "Code has expired. Request a new one."
	tooManySendsMessage = "Too many codes requested. Wait a minute and try again."
)

// VerifyPhonePage renders the phone-entry screen. Sessions that already hold
// a token are sent to wherever the account is in the flow.
func (handler *Handler) VerifyPhonePage(c *fiber.Ctx) error {
	current := currentSession(c)
	if current != nil && current.Verified() {
		if account, err := handler.api.Me(c.Context(), current.Token); err == nil {
			return c.Redirect(nextPath(account), fiber.StatusSeeOther)
		}
	}

	phone := ""
	if current != nil {
		phone = current.Phone
	}
	return handler.render(c, "verify_phone", fiber.Map{
		"Title": "Verify your number",
		"Phone": phone,
	})
}

// SendCode asks the API to text a one-time code and starts the local
// countdown. Sends are throttled per phone number before the request leaves.
func (handler *Handler) SendCode(c *fiber.Ctx) error {
	current := currentSession(c)
	if current == nil {
		return c.Redirect("/verify", fiber.StatusSeeOther)
	}

	phone := strings.TrimSpace(c.FormValue("phone_number"))
	if !phonePattern.MatchString(phone) {
		return handler.renderPhoneError(c, phone, "Enter a valid phone number.", fiber.StatusUnprocessableEntity)
	}

	now := time.Now()
	key := phoneLimiterKey(phone)
	if handler.sendLimiter.tooManyRecent(key, now, sendCodeLimit, sendCodeWindow) {
		return handler.renderPhoneError(c, phone, tooManySendsMessage, fiber.StatusTooManyRequests)
	}

	if err := handler.api.SendVerificationCode(c.Context(), phone); err != nil {
		message := "We couldn't send a code right now. Try again shortly."
		if apiErr, ok := backend.AsAPIError(err); ok && apiErr.Message != "" {
			message = apiErr.Message
		}
		return handler.renderPhoneError(c, phone, message, fiber.StatusBadGateway)
	}

	handler.sendLimiter.record(key, now, sendCodeWindow)
	if err := handler.sessions.StashPhone(current.ID, phone); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save progress")
	}

	handler.tracker.TrackPhoneNumberEntered(c.Context(), current.ID, phone)
	handler.countdowns.Begin(context.Background(), current.ID, handler.codeTTL, nil)
	return redirectOrJSON(c, "/verify/code")
}

// VerifyCodePage renders the code-confirmation screen with the countdown
// state. Without a stashed phone number there is nothing to confirm.
func (handler *Handler) VerifyCodePage(c *fiber.Ctx) error {
	current := currentSession(c)
	if current == nil || current.Phone == "" {
		return c.Redirect("/verify", fiber.StatusSeeOther)
	}

	remaining := 0
	expired := true
	if countdown, ok := handler.countdowns.Get(current.ID); ok {
		remaining = countdown.Remaining()
		expired = countdown.Expired()
	}

	return handler.render(c, "verify_code", fiber.Map{
		"Title":     "Enter your code",
		"Phone":     maskPhone(current.Phone),
		"Remaining": remaining,
		"Expired":   expired,
	})
}

// ConfirmCode exchanges the entered code for an API token and attaches it to
// the session. Confirmation is refused once the countdown has run out.
func (handler *Handler) ConfirmCode(c *fiber.Ctx) error {
	current := currentSession(c)
	if current == nil || current.Phone == "" {
		return c.Redirect("/verify", fiber.StatusSeeOther)
	}

	countdown, ok := handler.countdowns.Get(current.ID)
	if !ok || countdown.Expired() {
		return handler.renderCodeError(c, current, codeExpiredMessage, true, fiber.StatusUnprocessableEntity)
	}

	code := strings.TrimSpace(c.FormValue("verification_code"))
	if code == "" {
		return handler.renderCodeError(c, current, "Enter the code we texted you.", false, fiber.StatusUnprocessableEntity)
	}

	result, err := handler.api.VerifyCode(c.Context(), current.Phone, code)
	if err != nil {
		message := "That code didn't work. Check it and try again."
		if apiErr, ok := backend.AsAPIError(err); ok && apiErr.Message != "" {
			message = apiErr.Message
		}
		return handler.renderCodeError(c, current, message, false, fiber.StatusUnprocessableEntity)
	}

	if err := handler.sessions.Authenticate(current.ID, result.UserID, result.Token); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save session")
	}
	handler.countdowns.Drop(current.ID)
	handler.sendLimiter.reset(phoneLimiterKey(current.Phone))

	account, err := handler.api.Me(c.Context(), result.Token)
	if err != nil {
		return redirectOrJSON(c, "/onboarding")
	}
	return redirectOrJSON(c, nextPath(account))
}

// ResendCode sends a fresh code to the stashed phone number and restarts the
// countdown.
func (handler *Handler) ResendCode(c *fiber.Ctx) error {
	current := currentSession(c)
	if current == nil || current.Phone == "" {
		return c.Redirect("/verify", fiber.StatusSeeOther)
	}

	now := time.Now()
	key := phoneLimiterKey(current.Phone)
	if handler.sendLimiter.tooManyRecent(key, now, sendCodeLimit, sendCodeWindow) {
		return handler.renderCodeError(c, current, tooManySendsMessage, false, fiber.StatusTooManyRequests)
	}

	if err := handler.api.SendVerificationCode(c.Context(), current.Phone); err != nil {
		message := "We couldn't send a new code. Try again shortly."
		if apiErr, ok := backend.AsAPIError(err); ok && apiErr.Message != "" {
			message = apiErr.Message
		}
		return handler.renderCodeError(c, current, message, false, fiber.StatusBadGateway)
	}

	handler.sendLimiter.record(key, now, sendCodeWindow)
	handler.countdowns.Begin(context.Background(), current.ID, handler.codeTTL, nil)
	return redirectOrJSON(c, "/verify/code")
}

func (handler *Handler) renderPhoneError(c *fiber.Ctx, phone string, message string, status int) error {
	if acceptsJSON(c) {
		return apiError(c, status, message)
	}
	c.Status(status)
	return handler.render(c, "verify_phone", fiber.Map{
		"Title": "Verify your number",
		"Phone": phone,
		"Error": message,
	})
}

func (handler *Handler) renderCodeError(c *fiber.Ctx, current *session.Session, message string, expired bool, status int) error {
	if acceptsJSON(c) {
		return apiError(c, status, message)
	}

	remaining := 0
	if countdown, ok := handler.countdowns.Get(current.ID); ok {
		remaining = countdown.Remaining()
		if countdown.Expired() {
			expired = true
		}
	}

	c.Status(status)
	return handler.render(c, "verify_code", fiber.Map{
		"Title":     "Enter your code",
		"Phone":     maskPhone(current.Phone),
		"Remaining": remaining,
		"Expired":   expired,
		"Error":     message,
	})
}

// maskPhone keeps only the last four digits visible.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

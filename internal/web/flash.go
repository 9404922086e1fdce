package web

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookieName = "stride_flash"

// FlashPayload is the one-shot notification surface: a notice after a
// successful action, or the generic failure text for submission and
// transport errors that are not field-scoped.
type FlashPayload struct {
	Notice string `json:"notice,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (handler *Handler) setFlashCookie(c *fiber.Ctx, payload FlashPayload) {
	payload.Notice = strings.TrimSpace(payload.Notice)
	payload.Error = strings.TrimSpace(payload.Error)
	if payload.Notice == "" && payload.Error == "" {
		clearFlashCookie(c)
		return
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		return
	}
	encoded := base64.RawURLEncoding.EncodeToString(serialized)

	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    encoded,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(5 * time.Minute),
	})
}

func popFlashCookie(c *fiber.Ctx) FlashPayload {
	raw := strings.TrimSpace(c.Cookies(flashCookieName))
	if raw == "" {
		return FlashPayload{}
	}
	clearFlashCookie(c)

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return FlashPayload{}
	}

	payload := FlashPayload{}
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return FlashPayload{}
	}
	payload.Notice = strings.TrimSpace(payload.Notice)
	payload.Error = strings.TrimSpace(payload.Error)
	return payload
}

func clearFlashCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

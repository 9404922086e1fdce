package backend

import (
	"context"
	"fmt"
	"net/http"
)

// Account is the authenticated user as reported by GET /api/v1/users/me/.
// Only the fields the frontend consults are decoded.
type Account struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	IsVerified  bool     `json:"is_verified"`
	Profile     Profile  `json:"profile"`
	CurrentPlan *PlanRef `json:"current_plan"`
}

// Profile is the subset of the server-side profile the frontend reads back.
type Profile struct {
	Timezone             string `json:"timezone"`
	PhoneNumber          string `json:"phone_number"`
	IsOnboardingComplete bool   `json:"is_onboarding_complete"`
}

// PlanRef identifies the user's current training plan.
type PlanRef struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Me fetches the authenticated user.
func (client *Client) Me(ctx context.Context, token string) (*Account, error) {
	var account Account
	if err := client.do(ctx, http.MethodGet, "/api/v1/users/me/", token, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateProfile issues the final onboarding submission: a PATCH of the
// filtered payload. A field-level rejection comes back as FieldErrors.
func (client *Client) UpdateProfile(ctx context.Context, token string, userID string, payload any) error {
	path := fmt.Sprintf("/api/v1/users/%s/", userID)
	return client.do(ctx, http.MethodPatch, path, token, payload, nil)
}

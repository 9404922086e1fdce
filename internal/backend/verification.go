package backend

import (
	"context"
	"net/http"
)

// VerifyResult is the outcome of a successful code exchange: the opaque
// auth token plus the account it belongs to. Created reports whether the
// API provisioned a fresh account for an unknown phone number.
type VerifyResult struct {
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Created bool   `json:"created"`
}

// SendVerificationCode asks the API to text a one-time code to the phone
// number. The API rate-limits this per phone number.
func (client *Client) SendVerificationCode(ctx context.Context, phoneNumber string) error {
	body := map[string]string{"phone_number": phoneNumber}
	return client.do(ctx, http.MethodPost, "/api/v1/users/verification-code/", "", body, nil)
}

// VerifyCode exchanges a received code for an auth token. Invalid or expired
// codes come back as an *APIError with the server's message.
func (client *Client) VerifyCode(ctx context.Context, phoneNumber string, code string) (*VerifyResult, error) {
	body := map[string]string{
		"phone_number":      phoneNumber,
		"verification_code": code,
	}
	var result VerifyResult
	if err := client.do(ctx, http.MethodPost, "/api/v1/users/verify-code/", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMeDecodesRedirectFields(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/users/me/" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Token secret-token" {
			t.Fatalf("expected Token auth header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "user-1",
			"is_verified": true,
			"profile": map[string]any{
				"is_onboarding_complete": true,
				"timezone":               "UTC",
			},
			"current_plan": map[string]any{"id": "plan-1", "status": "completed"},
		})
	}))
	defer server.Close()

	client := New(server.URL)
	account, err := client.Me(context.Background(), "secret-token")
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	if account.ID != "user-1" || !account.IsVerified {
		t.Fatalf("unexpected account: %+v", account)
	}
	if !account.Profile.IsOnboardingComplete {
		t.Fatal("expected onboarding complete flag decoded")
	}
	if account.CurrentPlan == nil || account.CurrentPlan.ID != "plan-1" {
		t.Fatalf("expected current plan decoded, got %+v", account.CurrentPlan)
	}
}

func TestUpdateProfileRelaysFieldLevelRejection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/v1/users/user-1/" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"age": "must be a number"}`))
	}))
	defer server.Close()

	client := New(server.URL)
	err := client.UpdateProfile(context.Background(), "secret-token", "user-1", map[string]any{"age": "x"})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}

	fieldErrors, ok := AsFieldErrors(err)
	if !ok {
		t.Fatalf("expected FieldErrors, got %T: %v", err, err)
	}
	if fieldErrors["age"] != "must be a number" {
		t.Fatalf("expected age message relayed, got %v", fieldErrors)
	}
}

func TestUpdateProfileFlattensListStyleRejection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"goals": ["Goals must be a list.", "All elements must be strings."]}`))
	}))
	defer server.Close()

	client := New(server.URL)
	err := client.UpdateProfile(context.Background(), "t", "user-1", nil)
	fieldErrors, ok := AsFieldErrors(err)
	if !ok {
		t.Fatalf("expected FieldErrors, got %T: %v", err, err)
	}
	if fieldErrors["goals"] != "Goals must be a list. All elements must be strings." {
		t.Fatalf("unexpected flattened message: %q", fieldErrors["goals"])
	}
}

func TestGeneratePlanSurfacesServerErrorText(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/plans/generate/" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model unavailable"}`))
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.GeneratePlan(context.Background(), "secret-token")
	apiError, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiError.Message != "model unavailable" {
		t.Fatalf("expected server error text, got %q", apiError.Message)
	}
	if apiError.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", apiError.StatusCode)
	}
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Me(context.Background(), "stale-token")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyCodeReturnsToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/verify-code/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["phone_number"] != "+15550001111" || body["verification_code"] != "123456" {
			t.Fatalf("unexpected request body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":   "issued-token",
			"user_id": "user-9",
			"created": true,
		})
	}))
	defer server.Close()

	client := New(server.URL)
	result, err := client.VerifyCode(context.Background(), "+15550001111", "123456")
	if err != nil {
		t.Fatalf("verify code failed: %v", err)
	}
	if result.Token != "issued-token" || result.UserID != "user-9" || !result.Created {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestVerifyCodeExpiredCodeIsAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Code has expired"}`))
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.VerifyCode(context.Background(), "+15550001111", "000000")
	apiError, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiError.Message != "Code has expired" {
		t.Fatalf("unexpected message %q", apiError.Message)
	}
}

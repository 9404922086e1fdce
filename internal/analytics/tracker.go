package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Event names emitted by the frontend.
const (
	EventStepCompleted       = "Step Completed"
	EventPhoneNumberEntered  = "Phone Number Entered"
	EventOnboardingCompleted = "Onboarding Completed"
)

// Tracker posts product events to the analytics ingestion endpoint. Tracking
// must never break a user flow: failures are logged and swallowed, and a
// tracker with no project token is a no-op.
type Tracker struct {
	ingestURL    string
	projectToken string
	httpClient   *http.Client
}

func NewTracker(ingestURL string, projectToken string) *Tracker {
	return &Tracker{
		ingestURL:    ingestURL,
		projectToken: projectToken,
		httpClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Enabled reports whether events will actually be sent.
func (tracker *Tracker) Enabled() bool {
	return tracker.projectToken != ""
}

// Track sends one event. Properties may be nil.
func (tracker *Tracker) Track(ctx context.Context, distinctID string, eventName string, properties map[string]any) {
	if !tracker.Enabled() {
		return
	}

	eventProperties := map[string]any{
		"token":       tracker.projectToken,
		"distinct_id": distinctID,
		"$insert_id":  uuid.NewString(),
		"time":        time.Now().Unix(),
	}
	for key, value := range properties {
		eventProperties[key] = value
	}

	payload := []map[string]any{{
		"event":      eventName,
		"properties": eventProperties,
	}}

	encoded, err := json.Marshal(payload)
	if err != nil {
		log.Printf("analytics: encode event %q: %v", eventName, err)
		return
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, tracker.ingestURL, bytes.NewReader(encoded))
	if err != nil {
		log.Printf("analytics: build request for %q: %v", eventName, err)
		return
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := tracker.httpClient.Do(request)
	if err != nil {
		log.Printf("analytics: send event %q: %v", eventName, err)
		return
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		log.Printf("analytics: event %q rejected with status %d", eventName, response.StatusCode)
	}
}

// TrackStepCompleted emits the per-step wizard progress event with the step
// number and its display name.
func (tracker *Tracker) TrackStepCompleted(ctx context.Context, distinctID string, stepNumber int, stepName string) {
	tracker.Track(ctx, distinctID, EventStepCompleted, map[string]any{
		"step_number": stepNumber,
		"step_name":   stepName,
	})
}

// TrackPhoneNumberEntered emits the phone-entry event. Only the last four
// digits of the number are included.
func (tracker *Tracker) TrackPhoneNumberEntered(ctx context.Context, distinctID string, phoneNumber string) {
	lastFour := "****"
	if len(phoneNumber) >= 4 {
		lastFour = phoneNumber[len(phoneNumber)-4:]
	}
	tracker.Track(ctx, distinctID, EventPhoneNumberEntered, map[string]any{
		"phone_number_last_4": lastFour,
	})
}

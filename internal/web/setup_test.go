package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/strideapp/stride/internal/analytics"
	"github.com/strideapp/stride/internal/backend"
	"github.com/strideapp/stride/internal/db"
	"github.com/strideapp/stride/internal/security"
	"github.com/strideapp/stride/internal/session"
)

const testSecretKey = "test-secret-key-test-secret-key!"

// stubAPI fakes the upstream REST API and records what the handlers call.
type stubAPI struct {
	mu            sync.Mutex
	patchCalls    int
	generateCalls int
	sendCalls     int
	events        []string

	// When set, the PATCH profile handler signals patchEntered on entry
	// and then waits for patchBlock to close before responding.
	patchEntered chan struct{}
	patchBlock   chan struct{}

	meStatus       int
	meBody         string
	patchStatus    int
	patchBody      string
	generateStatus int
	generateBody   string
	verifyStatus   int
	verifyBody     string
	sendStatus     int
	planBody       string
	workoutsBody   string

	server *httptest.Server
}

func newStubAPI(t *testing.T) *stubAPI {
	t.Helper()

	stub := &stubAPI{
		meStatus:       http.StatusOK,
		meBody:         `{"id":"user-1","first_name":"Ann","is_verified":true,"profile":{"timezone":"UTC","is_onboarding_complete":false},"current_plan":null}`,
		patchStatus:    http.StatusOK,
		patchBody:      `{}`,
		generateStatus: http.StatusCreated,
		generateBody:   `{"id":"plan-1","status":"in progress"}`,
		verifyStatus:   http.StatusOK,
		verifyBody:     `{"token":"token-abc","user_id":"user-9","created":true}`,
		sendStatus:     http.StatusOK,
		planBody:       `{"id":"plan-1","status":"completed","plan_info":{}}`,
		workoutsBody:   `{"count":0,"next":null,"previous":null,"results":[]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/me/", func(w http.ResponseWriter, r *http.Request) {
		stub.respond(w, stub.meStatus, stub.meBody)
	})
	mux.HandleFunc("/api/v1/users/verification-code/", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.sendCalls++
		stub.mu.Unlock()
		stub.respond(w, stub.sendStatus, `{}`)
	})
	mux.HandleFunc("/api/v1/users/verify-code/", func(w http.ResponseWriter, r *http.Request) {
		stub.respond(w, stub.verifyStatus, stub.verifyBody)
	})
	mux.HandleFunc("/api/v1/plans/generate/", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.generateCalls++
		stub.mu.Unlock()
		stub.respond(w, stub.generateStatus, stub.generateBody)
	})
	mux.HandleFunc("/api/v1/plans/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/workouts/") {
			stub.respond(w, http.StatusOK, stub.workoutsBody)
			return
		}
		if r.Method == http.MethodPatch {
			stub.respond(w, http.StatusOK, `{"id":"w-1","completion_status":"completed"}`)
			return
		}
		stub.respond(w, http.StatusOK, stub.planBody)
	})
	mux.HandleFunc("/api/v1/users/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			stub.mu.Lock()
			stub.patchCalls++
			entered, block := stub.patchEntered, stub.patchBlock
			stub.mu.Unlock()
			if entered != nil {
				entered <- struct{}{}
			}
			if block != nil {
				<-block
			}
			stub.respond(w, stub.patchStatus, stub.patchBody)
			return
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("/track", func(w http.ResponseWriter, r *http.Request) {
		var payload []struct {
			Event string `json:"event"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			stub.mu.Lock()
			for _, item := range payload {
				stub.events = append(stub.events, item.Event)
			}
			stub.mu.Unlock()
		}
		stub.respond(w, http.StatusOK, `1`)
	})

	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func (stub *stubAPI) respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (stub *stubAPI) counts() (patch int, generate int, send int) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.patchCalls, stub.generateCalls, stub.sendCalls
}

func (stub *stubAPI) eventNames() []string {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return append([]string(nil), stub.events...)
}

func newTestApp(t *testing.T, stub *stubAPI) (*fiber.App, *Handler, *session.Store) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "stride-web-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	sealer, err := security.NewSealer([]byte(testSecretKey))
	if err != nil {
		t.Fatalf("init sealer: %v", err)
	}
	sessions := session.NewStore(db.NewRepositories(database).Sessions, sealer, time.Hour)

	tracker := analytics.NewTracker(stub.server.URL+"/track", "test-project-token")
	handler, err := NewHandler(sessions, backend.New(stub.server.URL), tracker, testSecretKey, Options{
		Location: time.UTC,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterRoutes(app, handler)
	return app, handler, sessions
}

func anonymousSessionCookie(t *testing.T, handler *Handler, sessions *session.Store) (string, string) {
	t.Helper()

	current, err := sessions.CreateAnonymous()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return sessionCookieHeader(t, handler, current.ID), current.ID
}

func verifiedSessionCookie(t *testing.T, handler *Handler, sessions *session.Store) (string, string) {
	t.Helper()

	current, err := sessions.CreateAnonymous()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := sessions.Authenticate(current.ID, "user-1", "token-abc"); err != nil {
		t.Fatalf("authenticate session: %v", err)
	}
	return sessionCookieHeader(t, handler, current.ID), current.ID
}

func sessionCookieHeader(t *testing.T, handler *Handler, sessionID string) string {
	t.Helper()

	now := time.Now()
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.secretKey)
	if err != nil {
		t.Fatalf("sign session cookie: %v", err)
	}
	return sessionCookieName + "=" + token
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(body)
}

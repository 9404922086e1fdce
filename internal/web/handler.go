package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/strideapp/stride/internal/analytics"
	"github.com/strideapp/stride/internal/backend"
	"github.com/strideapp/stride/internal/session"
	"github.com/strideapp/stride/internal/verification"
)

//go:embed templates/*.html
var templateFiles embed.FS

// pageNames lists the per-page templates layered over the base layout.
var pageNames = []string{
	"verify_phone",
	"verify_code",
	"onboarding",
	"generating",
	"complete",
	"plan",
}

// Handler carries the frontend's dependencies: the local session store, the
// outbound API client, analytics, and the session cookie secret.
type Handler struct {
	sessions     *session.Store
	api          *backend.Client
	tracker      *analytics.Tracker
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	codeTTL      int
	templates    map[string]*template.Template
	countdowns   *verification.Registry
	sendLimiter  *attemptLimiter

	submitMu       sync.Mutex
	submitInFlight map[string]bool
}

// Options configures NewHandler beyond its required dependencies.
type Options struct {
	Location       *time.Location
	CookieSecure   bool
	CodeTTLSeconds int
}

func NewHandler(sessions *session.Store, api *backend.Client, tracker *analytics.Tracker, secret string, options Options) (*Handler, error) {
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if api == nil {
		return nil, errors.New("backend client is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("secret key is required")
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	codeTTL := options.CodeTTLSeconds
	if codeTTL <= 0 {
		codeTTL = verification.DefaultCodeTTLSeconds
	}
	if tracker == nil {
		tracker = analytics.NewTracker("", "")
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Handler{
		sessions:       sessions,
		api:            api,
		tracker:        tracker,
		secretKey:      []byte(secret),
		location:       location,
		cookieSecure:   options.CookieSecure,
		codeTTL:        codeTTL,
		templates:      templates,
		countdowns:     verification.NewRegistry(),
		sendLimiter:    newAttemptLimiter(),
		submitInFlight: make(map[string]bool),
	}, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDate": func(value time.Time, layout string) string {
			if value.IsZero() {
				return ""
			}
			return value.Format(layout)
		},
		"fieldError": func(fieldErrors map[string]string, field string) string {
			return fieldErrors[field]
		},
		"intValue": func(value *int) any {
			if value == nil {
				return ""
			}
			return *value
		},
		"floatValue": func(value *float64) any {
			if value == nil {
				return ""
			}
			return *value
		},
		"contains": func(values []string, wanted string) bool {
			for _, value := range values {
				if value == wanted {
					return true
				}
			}
			return false
		},
	}

	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(
			templateFiles,
			"templates/base.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// beginSubmit marks a session's submission in flight. It reports false when
// one is already running so the handler can refuse re-entry; it does not
// cancel in-flight requests.
func (handler *Handler) beginSubmit(sessionID string) bool {
	handler.submitMu.Lock()
	defer handler.submitMu.Unlock()
	if handler.submitInFlight[sessionID] {
		return false
	}
	handler.submitInFlight[sessionID] = true
	return true
}

func (handler *Handler) endSubmit(sessionID string) {
	handler.submitMu.Lock()
	defer handler.submitMu.Unlock()
	delete(handler.submitInFlight, sessionID)
}

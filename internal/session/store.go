package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/strideapp/stride/internal/db"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/onboarding"
	"github.com/strideapp/stride/internal/security"
	"gorm.io/gorm"
)

const tokenSealPurpose = "session.token"

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Session is the explicit session context handed down through the request
// path: the durable identity of one browser, the API token it holds (if
// verified), and the phone number stashed between the phone-entry and
// code-confirmation screens.
type Session struct {
	ID        string
	UserID    string
	Token     string
	Phone     string
	ExpiresAt time.Time
}

// Verified reports whether the session holds an API token.
func (session *Session) Verified() bool {
	return session.Token != ""
}

// Store owns session lifecycle against the local sqlite store. Tokens are
// sealed before they touch disk and unsealed on hydration.
type Store struct {
	sessions *db.SessionRepository
	sealer   *security.Sealer
	ttl      time.Duration
}

func NewStore(sessions *db.SessionRepository, sealer *security.Sealer, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Store{sessions: sessions, sealer: sealer, ttl: ttl}
}

// CreateAnonymous starts a session with no token, used while the visitor is
// still in the phone-verification flow.
func (store *Store) CreateAnonymous() (*Session, error) {
	now := time.Now().UTC()
	record := models.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(store.ttl),
	}
	if err := store.sessions.Create(&record); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Session{ID: record.ID, ExpiresAt: record.ExpiresAt}, nil
}

// Authenticate attaches a verified identity and its API token to an existing
// session. The phone stash is consumed at the same time since the
// verification flow is finished with it.
func (store *Store) Authenticate(sessionID string, userID string, token string) error {
	sealedToken, err := store.sealer.Seal(tokenSealPurpose, []byte(token))
	if err != nil {
		return fmt.Errorf("seal session token: %w", err)
	}
	return store.sessions.UpdateByID(sessionID, map[string]any{
		"user_id":      userID,
		"sealed_token": sealedToken,
		"phone_stash":  "",
	})
}

// Find hydrates a session, unsealing the token. Expired sessions are
// deleted and reported as ErrExpired.
func (store *Store) Find(sessionID string) (*Session, error) {
	record, err := store.sessions.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if record.Expired(time.Now().UTC()) {
		_ = store.sessions.DeleteByID(sessionID)
		return nil, ErrExpired
	}

	session := &Session{
		ID:        record.ID,
		UserID:    record.UserID,
		Phone:     record.PhoneStash,
		ExpiresAt: record.ExpiresAt,
	}
	if record.SealedToken != "" {
		token, err := store.sealer.Open(tokenSealPurpose, record.SealedToken)
		if err != nil {
			return nil, fmt.Errorf("unseal session token: %w", err)
		}
		session.Token = string(token)
	}
	return session, nil
}

// Delete tears a session down (logout).
func (store *Store) Delete(sessionID string) error {
	return store.sessions.DeleteByID(sessionID)
}

// StashPhone records the phone number between the phone-entry and
// code-confirmation screens.
func (store *Store) StashPhone(sessionID string, phoneNumber string) error {
	return store.sessions.UpdateByID(sessionID, map[string]any{
		"phone_stash": strings.TrimSpace(phoneNumber),
	})
}

// SaveDraft persists the in-progress wizard form so it survives the
// step-by-step request cycle.
func (store *Store) SaveDraft(sessionID string, form *onboarding.Form) error {
	encoded, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("encode wizard draft: %w", err)
	}
	return store.sessions.UpdateByID(sessionID, map[string]any{
		"draft_json": string(encoded),
	})
}

// LoadDraft restores the wizard form, or a fresh one when none is saved.
func (store *Store) LoadDraft(sessionID string) (*onboarding.Form, error) {
	record, err := store.sessions.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if strings.TrimSpace(record.DraftJSON) == "" {
		return onboarding.NewForm(), nil
	}

	form := onboarding.NewForm()
	if err := json.Unmarshal([]byte(record.DraftJSON), form); err != nil {
		// A corrupt draft should not strand the user; restart the wizard.
		return onboarding.NewForm(), nil
	}
	return form, nil
}

// ClearDraft discards the wizard draft after a successful submission.
func (store *Store) ClearDraft(sessionID string) error {
	return store.sessions.UpdateByID(sessionID, map[string]any{
		"draft_json": "",
	})
}

// PurgeExpired removes sessions past their expiry.
func (store *Store) PurgeExpired() error {
	return store.sessions.DeleteExpired(time.Now().UTC())
}

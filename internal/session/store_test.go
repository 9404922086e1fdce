package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/strideapp/stride/internal/db"
	"github.com/strideapp/stride/internal/onboarding"
	"github.com/strideapp/stride/internal/security"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *db.SessionRepository) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "stride-session-test.db")
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

	sealer, err := security.NewSealer([]byte("test-secret-key"))
	if err != nil {
		t.Fatalf("init sealer: %v", err)
	}

	sessions := db.NewSessionRepository(database)
	return NewStore(sessions, sealer, ttl), sessions
}

func TestAuthenticateSealsTokenAtRest(t *testing.T) {
	store, sessions := newTestStore(t, time.Hour)

	created, err := store.CreateAnonymous()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if created.Verified() {
		t.Fatal("expected anonymous session to be unverified")
	}

	if err := store.Authenticate(created.ID, "user-1", "backend-token"); err != nil {
		t.Fatalf("authenticate session: %v", err)
	}

	record, err := sessions.FindByID(created.ID)
	if err != nil {
		t.Fatalf("load raw session row: %v", err)
	}
	if record.SealedToken == "backend-token" || record.SealedToken == "" {
		t.Fatalf("expected sealed token at rest, got %q", record.SealedToken)
	}

	hydrated, err := store.Find(created.ID)
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if hydrated.Token != "backend-token" {
		t.Fatalf("expected unsealed token, got %q", hydrated.Token)
	}
	if hydrated.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", hydrated.UserID)
	}
}

func TestPhoneStashIsConsumedByAuthenticate(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	created, err := store.CreateAnonymous()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := store.StashPhone(created.ID, " +15550001111 "); err != nil {
		t.Fatalf("stash phone: %v", err)
	}

	stashed, err := store.Find(created.ID)
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if stashed.Phone != "+15550001111" {
		t.Fatalf("expected trimmed stashed phone, got %q", stashed.Phone)
	}

	if err := store.Authenticate(created.ID, "user-1", "tok"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	verified, err := store.Find(created.ID)
	if err != nil {
		t.Fatalf("find session after auth: %v", err)
	}
	if verified.Phone != "" {
		t.Fatalf("expected phone stash cleared after verification, got %q", verified.Phone)
	}
}

func TestDraftRoundTripAndClear(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	created, err := store.CreateAnonymous()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	form := onboarding.NewForm()
	form.FirstName = "Ann"
	age := 31
	form.Age = &age
	form.SetWeightKg(64)
	if err := store.SaveDraft(created.ID, form); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	restored, err := store.LoadDraft(created.ID)
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if restored.FirstName != "Ann" {
		t.Fatalf("expected restored first name, got %q", restored.FirstName)
	}
	if restored.Age == nil || *restored.Age != 31 {
		t.Fatalf("expected restored age 31, got %v", restored.Age)
	}
	if restored.WeightKg == nil || *restored.WeightKg != 64 {
		t.Fatalf("expected restored weightKg 64, got %v", restored.WeightKg)
	}
	if restored.WeightLbs != nil {
		t.Fatal("expected weightLbs to stay unset through the round trip")
	}

	if err := store.ClearDraft(created.ID); err != nil {
		t.Fatalf("clear draft: %v", err)
	}
	cleared, err := store.LoadDraft(created.ID)
	if err != nil {
		t.Fatalf("load cleared draft: %v", err)
	}
	if cleared.FirstName != "" {
		t.Fatalf("expected fresh form after clear, got %+v", cleared)
	}
}

func TestFindRejectsExpiredSession(t *testing.T) {
	store, sessions := newTestStore(t, time.Hour)

	created, err := store.CreateAnonymous()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	expiredAt := time.Now().UTC().Add(-time.Minute)
	if err := sessions.UpdateByID(created.ID, map[string]any{"expires_at": expiredAt}); err != nil {
		t.Fatalf("backdate session: %v", err)
	}

	if _, err := store.Find(created.ID); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}

	// The expired row is torn down on first touch.
	if _, err := store.Find(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after teardown, got %v", err)
	}
}

func TestFindUnknownSessionIsNotFound(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	if _, err := store.Find("missing-session"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

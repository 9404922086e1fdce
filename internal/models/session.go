package models

import "time"

// Session is one browser session of the frontend. It stands in for the
// browser's persistent key-value storage: the backend API token (sealed at
// rest), the phone number stashed between the phone-entry and
// code-confirmation screens, and the onboarding wizard draft.
type Session struct {
	ID          string    `gorm:"primaryKey"`
	UserID      string    `gorm:"not null;index"`
	SealedToken string    `gorm:"not null"`
	PhoneStash  string    `gorm:"not null;default:''"`
	DraftJSON   string    `gorm:"not null;default:''"`
	CreatedAt   time.Time `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

func (session *Session) Expired(now time.Time) bool {
	return !session.ExpiresAt.After(now)
}

package db

import (
	"time"

	"github.com/strideapp/stride/internal/models"
	"gorm.io/gorm"
)

type SessionRepository struct {
	database *gorm.DB
}

func NewSessionRepository(database *gorm.DB) *SessionRepository {
	return &SessionRepository{database: database}
}

func (repo *SessionRepository) Create(session *models.Session) error {
	return repo.database.Create(session).Error
}

func (repo *SessionRepository) FindByID(sessionID string) (models.Session, error) {
	var session models.Session
	if err := repo.database.Where("id = ?", sessionID).First(&session).Error; err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (repo *SessionRepository) UpdateByID(sessionID string, updates map[string]any) error {
	return repo.database.Model(&models.Session{}).Where("id = ?", sessionID).Updates(updates).Error
}

func (repo *SessionRepository) DeleteByID(sessionID string) error {
	return repo.database.Where("id = ?", sessionID).Delete(&models.Session{}).Error
}

func (repo *SessionRepository) DeleteExpired(now time.Time) error {
	return repo.database.Where("expires_at <= ?", now).Delete(&models.Session{}).Error
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// sessionRecord is the persisted row of one browser session
type sessionRecord struct {
	SessionID   string `gorm:"primaryKey;size:64"`
	AccessToken string `gorm:"not null"`
	TokenType   string
	Username    string
	IssuedAt    time.Time
	ExpiresAt   *time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (sessionRecord) TableName() string { return "console_sessions" }

// GormStore keeps credentials in a SQL database through GORM
type GormStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// OpenSQLiteStore opens (or creates) a SQLite file and migrates the table
func OpenSQLiteStore(path string, ttl time.Duration) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", path, err)
	}
	return NewGormStore(db, ttl)
}

// NewGormStore migrates the session table on db
func NewGormStore(db *gorm.DB, ttl time.Duration) (*GormStore, error) {
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("gorm store: migrate: %w", err)
	}
	return &GormStore{db: db, ttl: ttl}, nil
}

// Get returns the credential stored for sessionID
func (s *GormStore) Get(ctx context.Context, sessionID string) (models.Credential, error) {
	var rec sessionRecord
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Credential{}, auctionerrors.ErrNoCredential
	}
	if err != nil {
		return models.Credential{}, fmt.Errorf("gorm store: get %s: %w", sessionID, err)
	}
	if rec.ExpiresAt != nil && time.Now().After(*rec.ExpiresAt) {
		_ = s.Delete(ctx, sessionID)
		return models.Credential{}, auctionerrors.ErrNoCredential
	}
	return models.Credential{
		AccessToken: rec.AccessToken,
		TokenType:   rec.TokenType,
		Username:    rec.Username,
		IssuedAt:    rec.IssuedAt,
	}, nil
}

// Put stores cred for sessionID, replacing any previous row
func (s *GormStore) Put(ctx context.Context, sessionID string, cred models.Credential) error {
	rec := sessionRecord{
		SessionID:   sessionID,
		AccessToken: cred.AccessToken,
		TokenType:   cred.TokenType,
		Username:    cred.Username,
		IssuedAt:    cred.IssuedAt,
	}
	if s.ttl > 0 {
		exp := time.Now().Add(s.ttl)
		rec.ExpiresAt = &exp
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("gorm store: put %s: %w", sessionID, err)
	}
	return nil
}

// Delete removes the credential for sessionID
func (s *GormStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&sessionRecord{}).Error; err != nil {
		return fmt.Errorf("gorm store: delete %s: %w", sessionID, err)
	}
	return nil
}

// PurgeExpired removes sessions whose TTL has passed
func (s *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).Delete(&sessionRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("gorm store: purge: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Close releases the underlying connection pool
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

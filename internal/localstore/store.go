package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Well-known slot keys; one serialized value per key, localStorage-style.
const (
	KeyCachedUser    = "cached_user"
	KeyLocale        = "locale"
	KeyTheme         = "theme"
	KeyFavorites     = "favorites"
	KeyAckedNotifIDs = "acked_notifications"
)

// ErrNotFound is returned when a slot has never been written (or was deleted).
var ErrNotFound = errors.New("localstore: key not found")

// Entry is a single durable storage slot: a key and its serialized JSON value.
type Entry struct {
	Key       string    `gorm:"type:varchar(64);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Store defines the interface for the durable client-side key/value storage.
type Store interface {
	GetJSON(ctx context.Context, key string, out any) error
	SetJSON(ctx context.Context, key string, value any) error
	SetRaw(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Reset(ctx context.Context) error
}

type sqliteStore struct {
	db *gorm.DB
}

// Open initializes the sqlite-backed store at path and migrates the schema.
// Use ":memory:" for an ephemeral store in tests.
func Open(path string) (Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// GetJSON reads the slot and unmarshals it into out. Returns ErrNotFound for a
// missing slot; a malformed value is surfaced as a json error so that callers
// can apply their own silent-recovery policy.
func (s *sqliteStore) GetJSON(ctx context.Context, key string, out any) error {
	var entry Entry
	if err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(entry.Value), out)
}

// SetJSON serializes value and upserts it into the slot.
func (s *sqliteStore) SetJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	entry := Entry{Key: key, Value: string(raw)}
	return s.db.WithContext(ctx).Save(&entry).Error
}

// SetRaw writes a value without JSON encoding. Used for slots that are plain
// strings already and for seeding tests.
func (s *sqliteStore) SetRaw(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value}
	return s.db.WithContext(ctx).Save(&entry).Error
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error
}

// Reset drops every slot; the storage-clear operation.
func (s *sqliteStore) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&Entry{}).Error
}

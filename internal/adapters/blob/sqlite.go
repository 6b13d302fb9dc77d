package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskflow/core/internal/ports"
)

// Record is the GORM model behind SQLiteStore
type Record struct {
	Key       string `gorm:"primarykey;size:255"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for Record.
func (Record) TableName() string {
	return "task_blobs"
}

// SQLiteStore keeps blobs in a GORM-managed SQLite table
type SQLiteStore struct {
	db *gorm.DB
}

var _ ports.BlobStore = (*SQLiteStore)(nil)

// NewSQLiteStore migrates the blob table and returns the store
func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get reads the blob stored under key
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	if err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to find blob: %w", err)
	}
	return rec.Data, nil
}

// Put replaces the blob stored under key
func (s *SQLiteStore) Put(ctx context.Context, key string, data []byte) error {
	rec := Record{Key: key, Data: data}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save blob: %w", err)
	}
	return nil
}

// Ping checks the underlying connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

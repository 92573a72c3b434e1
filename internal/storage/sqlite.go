package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/leetplan/plansync/internal/models"
)

// Setting is one persisted key/value pair
type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// SQLiteRepository implements SettingsRepository on a local SQLite file
type SQLiteRepository struct {
	db *gorm.DB
}

// DefaultSQLitePath returns ~/.plansync/state.db, or a relative path when
// the home directory is unknown.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".plansync", "state.db")
	}
	return filepath.Join(home, ".plansync", "state.db")
}

// NewSQLiteRepository opens the database file and migrates the settings table
func NewSQLiteRepository(dsn string) (*SQLiteRepository, error) {
	if dsn == "" {
		dsn = DefaultSQLitePath()
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stderr, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&Setting{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func openSQLite(_ context.Context, opts Options) (SettingsRepository, error) {
	return NewSQLiteRepository(opts.SQLitePath)
}

func (r *SQLiteRepository) GetStartDate(ctx context.Context) (models.Date, bool, error) {
	var s Setting
	err := r.db.WithContext(ctx).Where("key = ?", StartDateKey).First(&s).Error
	switch {
	case err == nil:
		return parseStoredDate(s.Value)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.Date{}, false, nil
	default:
		return models.Date{}, false, fmt.Errorf("find setting: %w", err)
	}
}

func (r *SQLiteRepository) SetStartDate(ctx context.Context, date models.Date) error {
	s := Setting{Key: StartDateKey, Value: date.String(), UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s).Error
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

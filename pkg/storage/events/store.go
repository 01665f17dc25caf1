package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AmitKumar2k2/webhook-repo/pkg/storage"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config mirrors the storage configuration for the events table.
type Config struct {
	Driver string
	DSN    string
	Table  string
}

// Store implements storage.EventStore on top of GORM.
type Store struct {
	db    *gorm.DB
	table string
}

type row struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Action     string    `gorm:"column:action;size:32;not null"`
	Author     string    `gorm:"column:author;size:255;not null"`
	FromBranch *string   `gorm:"column:from_branch;size:255"`
	ToBranch   string    `gorm:"column:to_branch;size:255;not null"`
	RequestID  string    `gorm:"column:request_id;size:128;not null"`
	Timestamp  time.Time `gorm:"column:timestamp;not null;index:idx_events_timestamp,sort:desc"`
}

// Open creates a GORM-backed event store and runs the idempotent
// schema migration, including the descending timestamp index.
func Open(cfg Config) (*Store, error) {
	if cfg.Driver == "" {
		return nil, errors.New("storage driver is required")
	}
	if cfg.DSN == "" {
		return nil, errors.New("storage dsn is required")
	}
	driver := normalizeDriver(cfg.Driver)
	if driver == "" {
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}

	gormDB, err := openGorm(driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	table := cfg.Table
	if table == "" {
		table = "events"
	}
	store := &Store{
		db:    gormDB,
		table: table,
	}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

// Close closes the underlying DB connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Insert appends one event record and returns the assigned identifier.
func (s *Store) Insert(ctx context.Context, record storage.EventRecord) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store is not initialized")
	}
	if record.Action == "" {
		return 0, errors.New("action is required")
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	data := toRow(record)
	err := s.tableDB().
		WithContext(ctx).
		Create(&data).Error
	if err != nil {
		return 0, err
	}
	return data.ID, nil
}

// Recent returns up to limit records ordered by timestamp descending.
func (s *Store) Recent(ctx context.Context, limit int) ([]storage.EventRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	if limit <= 0 {
		return []storage.EventRecord{}, nil
	}
	var data []row
	err := s.tableDB().
		WithContext(ctx).
		Order("timestamp desc").
		Limit(limit).
		Find(&data).Error
	if err != nil {
		return nil, err
	}
	records := make([]storage.EventRecord, 0, len(data))
	for _, item := range data {
		records = append(records, fromRow(item))
	}
	return records, nil
}

func (s *Store) migrate() error {
	return s.tableDB().AutoMigrate(&row{})
}

func (s *Store) tableDB() *gorm.DB {
	return s.db.Table(s.table)
}

func toRow(record storage.EventRecord) row {
	return row{
		ID:         record.ID,
		Action:     record.Action,
		Author:     record.Author,
		FromBranch: record.FromBranch,
		ToBranch:   record.ToBranch,
		RequestID:  record.RequestID,
		Timestamp:  record.Timestamp,
	}
}

func fromRow(data row) storage.EventRecord {
	return storage.EventRecord{
		ID:         data.ID,
		Action:     data.Action,
		Author:     data.Author,
		FromBranch: data.FromBranch,
		ToBranch:   data.ToBranch,
		RequestID:  data.RequestID,
		Timestamp:  data.Timestamp,
	}
}

func normalizeDriver(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "postgres", "postgresql", "pgx":
		return "postgres"
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return ""
	}
}

func openGorm(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}

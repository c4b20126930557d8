package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is one namespaced value. Every collection and scalar lives in its own row.
type Entry struct {
	Key       string         `gorm:"column:storage_key;primaryKey"`
	Value     datatypes.JSON `gorm:"column:value"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "kv_entries" }

// Open connects to the configured backend. sqlite keeps everything in a single file
// on the operating device; postgres is accepted for hosted installs.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return db, nil
}

// GormKV is the durable key-value table behind the Adapter.
type GormKV struct {
	db *gorm.DB
}

func NewGormKV(db *gorm.DB) (*GormKV, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_entries: %w", err)
	}
	return &GormKV{db: db}, nil
}

// Get reports ok=false when the key was never written.
func (s *GormKV) Get(key string) ([]byte, bool, error) {
	var entry Entry
	err := s.db.Where("storage_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

// Set replaces the whole value stored under key in a single statement.
func (s *GormKV) Set(key string, value []byte) error {
	return upsert(s.db, key, value)
}

// SetMany writes every value inside one transaction: either all keys change or none do.
func (s *GormKV) SetMany(values map[string][]byte) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if err := upsert(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsert(db *gorm.DB, key string, value []byte) error {
	entry := Entry{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now().UTC()}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

package drivers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/creastat/cart/session"
)

const defaultTable = "cart_sessions"

// sessionRecord is one row of the sessions table.
type sessionRecord struct {
	SessionKey string `gorm:"column:session_key;primaryKey;size:191"`
	Payload    []byte `gorm:"column:payload"`
	UpdatedAt  time.Time
}

// DatabaseStore implements session.Store on a SQL table through gorm.
type DatabaseStore struct {
	db    *gorm.DB
	table string
}

// OpenDatabase opens a gorm connection for the "postgres" or "sqlite" driver.
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: unsupported database driver %q", session.ErrInvalidConfig, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	return db, nil
}

// NewDatabaseStore creates the sessions table if needed and returns the store.
func NewDatabaseStore(ctx context.Context, db *gorm.DB, table string) (*DatabaseStore, error) {
	if db == nil {
		return nil, session.ErrInvalidConfig
	}
	if table == "" {
		table = defaultTable
	}

	if err := db.WithContext(ctx).Table(table).AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("migrating %s: %w", table, err)
	}

	return &DatabaseStore{db: db, table: table}, nil
}

func (s *DatabaseStore) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.table)
}

// Get implements session.Store.
// Returns nil if the key is not found (not an error).
func (s *DatabaseStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec sessionRecord
	err := s.query(ctx).Where("session_key = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.Payload, nil
}

// Put implements session.Store as an upsert on session_key.
func (s *DatabaseStore) Put(ctx context.Context, key string, value []byte) error {
	rec := sessionRecord{
		SessionKey: key,
		Payload:    value,
		UpdatedAt:  time.Now(),
	}
	return s.query(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
}

// Has implements session.Store.
func (s *DatabaseStore) Has(ctx context.Context, key string) (bool, error) {
	var count int64
	if err := s.query(ctx).Where("session_key = ?", key).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Remove implements session.Store.
func (s *DatabaseStore) Remove(ctx context.Context, key string) error {
	return s.query(ctx).Where("session_key = ?", key).Delete(&sessionRecord{}).Error
}

// Close implements session.Store.
func (s *DatabaseStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Compile-time check that DatabaseStore implements session.Store.
var _ session.Store = (*DatabaseStore)(nil)

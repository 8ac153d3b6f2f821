package store

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/axonops/authadm/internal/config"
	"github.com/axonops/authadm/pkg/errors"
)

// Store provides access to the auth database
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// Open connects to the configured database
func Open(cfg *config.DatabaseConfig, logger *logrus.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("database configuration cannot be nil")
	}
	if logger == nil {
		logger = logrus.New()
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, errors.NewConfigError("database.driver", "unsupported driver: "+cfg.Driver, nil)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.NewStoreError("open", err)
	}

	logger.WithField("driver", cfg.Driver).Debug("Connected to auth database")

	return New(db, logger), nil
}

// New wraps an existing database handle. Tests use this with an
// in-memory sqlite database.
func New(db *gorm.DB, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the schema
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&User{}, &ContentType{}, &Permission{}); err != nil {
		return errors.NewStoreError("migrate", err)
	}
	s.logger.Debug("Auth schema migrated")
	return nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.NewStoreError("close", err)
	}
	return sqlDB.Close()
}

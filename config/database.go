package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"github.com/snap-point/social-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	URL        string `env:"DATABASE_URL"`
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	User       string `env:"DB_USER"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"social.db"`
}

// DSN returns the connection string for the configured driver.
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port)
}

// OpenDatabase connects without migrating.
func OpenDatabase(c DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case DriverPostgres:
		dialector = postgres.Open(c.DSN())
	case DriverSQLite:
		dialector = sqlite.Open(c.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.Driver, err)
	}

	if c.Driver == DriverSQLite {
		// One connection keeps in-memory databases and sqlite's writer lock coherent.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	return db, nil
}

// Migrate creates the schema and seeds the default roles.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Role{}, &models.User{}, &models.RefreshToken{}, &models.Friendship{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := backfillUserSearch(db); err != nil {
		return err
	}
	for _, name := range models.DefaultRoles {
		role := models.Role{Name: name}
		if err := db.Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

// backfillUserSearch fills the search columns of rows written before they
// existed.
func backfillUserSearch(db *gorm.DB) error {
	var users []models.User
	err := db.Where("search_email = ?", "").FindInBatches(&users, 200, func(tx *gorm.DB, _ int) error {
		for i := range users {
			if err := tx.Model(&users[i]).UpdateColumns(users[i].SearchColumns()).Error; err != nil {
				return err
			}
		}
		return nil
	}).Error
	if err != nil {
		return fmt.Errorf("backfill user search columns: %w", err)
	}
	return nil
}

func InitDB(c DatabaseConfig) (*gorm.DB, error) {
	db, err := OpenDatabase(c)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	slog.Info("database ready", "driver", c.Driver)
	return db, nil
}

// DefaultRoleID returns the id of the role assigned at registration.
func DefaultRoleID(db *gorm.DB) (uint, error) {
	var role models.Role
	if err := db.Where("name = ?", models.DefaultRoles[0]).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("role %q has not been seeded", models.DefaultRoles[0])
		}
		return 0, err
	}
	return role.ID, nil
}

package migrations

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mwantia/tagalong/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VersionKey is the kv entry holding the schema version
const VersionKey = "db.version"

// LatestVersion is the terminal schema version known to this build
const LatestVersion Version = 3

// Version counts the forward migrations applied to a store
type Version int

// Migration represents an irreversible forward migration. It runs only when
// the stored version equals Version-1 and leaves the store at Version.
type Migration struct {
	Version     Version
	Description string
	Up          func(*gorm.DB) error
}

// MigrationStatus represents the status of a migration
type MigrationStatus struct {
	Version     Version
	Description string
	Applied     bool
}

// Migrator handles database migrations
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: allMigrations(),
	}
}

// Initialized reports whether the kv relation exists
func (m *Migrator) Initialized(ctx context.Context) bool {
	return m.db.WithContext(ctx).Migrator().HasTable(&models.KV{})
}

// Migrate initializes an empty store and runs all pending migrations inside a
// single transaction. Any failure rolls back the whole run.
func (m *Migrator) Migrate(ctx context.Context) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bootstrap(tx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}

		current, err := getVersion(tx)
		if err != nil {
			return err
		}

		for _, migration := range m.migrations {
			if current != migration.Version-1 {
				continue
			}

			if err := migration.Up(tx); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
			}
			if err := setVersion(tx, migration.Version); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
			}

			current = migration.Version
		}

		return nil
	})
}

// Version returns the schema version stored in kv
func (m *Migrator) Version(ctx context.Context) (Version, error) {
	return getVersion(m.db.WithContext(ctx))
}

// Status returns migration status
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	current, err := m.Version(ctx)
	if err != nil {
		return nil, err
	}

	var statuses []MigrationStatus
	for _, migration := range m.migrations {
		statuses = append(statuses, MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
			Applied:     current >= migration.Version,
		})
	}

	return statuses, nil
}

func bootstrap(tx *gorm.DB) error {
	if tx.Migrator().HasTable(&models.KV{}) {
		return nil
	}

	if err := tx.Migrator().CreateTable(&models.KV{}); err != nil {
		return err
	}
	if err := setVersion(tx, 0); err != nil {
		return err
	}

	return tx.Migrator().CreateTable(&models.FileInfo{})
}

func getVersion(tx *gorm.DB) (Version, error) {
	var kv models.KV
	if err := tx.Where(&models.KV{Key: VersionKey}).First(&kv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("store has no %s entry", VersionKey)
		}
		return 0, fmt.Errorf("failed to read %s: %w", VersionKey, err)
	}

	v, err := strconv.Atoi(kv.Value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", VersionKey, kv.Value, err)
	}

	return Version(v), nil
}

func setVersion(tx *gorm.DB, v Version) error {
	kv := models.KV{
		Key:   VersionKey,
		Value: strconv.Itoa(int(v)),
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&kv).Error
}

// allMigrations returns all migrations in order
func allMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create document table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.Document{})
			},
		},
		{
			Version:     2,
			Description: "Create document_file table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.DocumentFile{})
			},
		},
		{
			Version:     3,
			Description: "Create document_tag table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.DocumentTag{})
			},
		},
	}
}

package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/tagalong/pkg/db/migrations"
	"github.com/mwantia/tagalong/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var _ MetadataStore = (*SQLiteStore)(nil)

// SQLiteStore implements MetadataStore using SQLite
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

// DB returns the underlying GORM database instance
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// Path returns the database file the store was opened with
func (s *SQLiteStore) Path() string {
	return s.path
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path     string
	LogLevel logger.LogLevel
}

// NewSQLiteStore creates a new SQLite-backed metadata store. A missing
// database file is created empty.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg.Path)), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		path: cfg.Path,
	}, nil
}

// ParseLogLevel maps a configured gorm log level name to its value
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}

const foreignKeysPragma = "_pragma=foreign_keys(1)"

// Foreign keys are off by default in SQLite; cascades depend on them.
// Plain paths become file: URIs so that '?' and '#' stay part of the name.
func dsn(path string) string {
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + foreignKeysPragma
	}

	escaped := (&url.URL{Path: path}).EscapedPath()
	return "file:" + escaped + "?" + foreignKeysPragma
}

// Connect initializes the database connection
func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(1) // SQLite only supports 1 writer
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate brings the schema up to migrations.LatestVersion
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

// Migrator returns a migrator bound to this store
func (s *SQLiteStore) Migrator() *migrations.Migrator {
	return migrations.NewMigrator(s.db)
}

// Health checks database connectivity
func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Transaction(ctx context.Context, fn func(tx MetadataStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SQLiteStore{
			db:   tx,
			path: s.path,
		})
	})
}

// FileInfo operations

func (s *SQLiteStore) UpsertFileInfo(ctx context.Context, info *models.FileInfo) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"path", "size"}),
		}).
		Create(info).Error
}

func (s *SQLiteStore) GetFileInfo(ctx context.Context, hash string) (*models.FileInfo, error) {
	var info models.FileInfo
	err := s.db.WithContext(ctx).Where("hash = ?", hash).First(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *SQLiteStore) ListFileInfos(ctx context.Context) ([]models.FileInfo, error) {
	var infos []models.FileInfo
	err := s.db.WithContext(ctx).Order("path, hash").Find(&infos).Error
	return infos, err
}

func (s *SQLiteStore) ListUnassignedFileInfos(ctx context.Context) ([]models.FileInfo, error) {
	var infos []models.FileInfo
	assigned := s.db.Model(&models.DocumentFile{}).Select("file_hash")
	err := s.db.WithContext(ctx).
		Where("hash NOT IN (?)", assigned).
		Order("path, hash").
		Find(&infos).Error
	return infos, err
}

// Document operations

// ClearDocuments removes every document and page assignment. Tags follow
// their documents through the ON DELETE CASCADE constraint.
func (s *SQLiteStore) ClearDocuments(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("1 = 1").Delete(&models.DocumentFile{}).Error; err != nil {
		return fmt.Errorf("failed to clear document files: %w", err)
	}
	if err := db.Where("1 = 1").Delete(&models.Document{}).Error; err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveDocument(ctx context.Context, doc *models.Document) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(doc).Error
}

func (s *SQLiteStore) GetDocument(ctx context.Context, uuid string) (*models.Document, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).Where("uuid = ?", uuid).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	err := s.db.WithContext(ctx).Order("uuid").Find(&docs).Error
	return docs, err
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, uuid string) error {
	return s.db.WithContext(ctx).Delete(&models.Document{}, "uuid = ?", uuid).Error
}

// DocumentFile operations

func (s *SQLiteStore) CreateDocumentFile(ctx context.Context, file *models.DocumentFile) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(file).Error
}

func (s *SQLiteStore) ListDocumentFiles(ctx context.Context, uuid string) ([]models.DocumentFile, error) {
	var files []models.DocumentFile
	err := s.db.WithContext(ctx).
		Where("document_uuid = ?", uuid).
		Order("page").
		Find(&files).Error
	return files, err
}

// DocumentTag operations

func (s *SQLiteStore) SaveDocumentTag(ctx context.Context, tag *models.DocumentTag) error {
	return s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(tag).Error
}

func (s *SQLiteStore) ListDocumentTags(ctx context.Context, uuid string) ([]models.DocumentTag, error) {
	var tags []models.DocumentTag
	err := s.db.WithContext(ctx).
		Where("document_id = ?", uuid).
		Order("tag").
		Find(&tags).Error
	return tags, err
}

func (s *SQLiteStore) CountDocumentTags(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.DocumentTag{}).Count(&count).Error
	return count, err
}

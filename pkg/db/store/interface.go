package store

import (
	"context"

	"github.com/mwantia/tagalong/pkg/db/models"
)

// MetadataStore defines the interface for database operations
type MetadataStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error

	// Transaction runs fn against a store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx MetadataStore) error) error

	// FileInfo operations
	UpsertFileInfo(ctx context.Context, info *models.FileInfo) error
	GetFileInfo(ctx context.Context, hash string) (*models.FileInfo, error)
	ListFileInfos(ctx context.Context) ([]models.FileInfo, error)
	ListUnassignedFileInfos(ctx context.Context) ([]models.FileInfo, error)

	// Document operations
	ClearDocuments(ctx context.Context) error
	SaveDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, uuid string) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]models.Document, error)
	DeleteDocument(ctx context.Context, uuid string) error

	// DocumentFile operations
	CreateDocumentFile(ctx context.Context, file *models.DocumentFile) error
	ListDocumentFiles(ctx context.Context, uuid string) ([]models.DocumentFile, error)

	// DocumentTag operations
	SaveDocumentTag(ctx context.Context, tag *models.DocumentTag) error
	ListDocumentTags(ctx context.Context, uuid string) ([]models.DocumentTag, error)
	CountDocumentTags(ctx context.Context) (int64, error)
}

package autosort

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwantia/tagalong/internal/config"
	"github.com/mwantia/tagalong/pkg/db/models"
	"github.com/mwantia/tagalong/pkg/db/store"
	"github.com/mwantia/tagalong/pkg/log"
)

// ErrDuplicatePage is returned when two files map to the same page of a document.
var ErrDuplicatePage = errors.New("duplicate page")

// Result summarises an autosort pass.
type Result struct {
	Documents int // documents written
	Files     int // files assigned to a page
	Ignored   int // paths outside the dated directory grammar
	Skipped   int // dated paths rejected under the skip policy
}

// Engine rebuilds documents, pages and tags from the file index.
type Engine struct {
	Log    log.LoggerService     `fabric:"logger:autosort"`
	Config config.AutosortConfig `fabric:"inject"`

	now func() time.Time
}

// NewEngine returns an Engine applying cfg's invalid-path policy and logging
// to logger.
func NewEngine(cfg config.AutosortConfig, logger log.LoggerService) *Engine {
	return &Engine{
		Log:    logger,
		Config: cfg,
		now:    time.Now,
	}
}

// Run discards every document and regenerates them from the file index
// entries that are not assigned to a page, inside one transaction.
func (e *Engine) Run(ctx context.Context, st store.MetadataStore) (*Result, error) {
	var result *Result

	err := st.Transaction(ctx, func(tx store.MetadataStore) error {
		var err error
		result, err = e.run(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (e *Engine) run(ctx context.Context, tx store.MetadataStore) (*Result, error) {
	if err := tx.ClearDocuments(ctx); err != nil {
		return nil, err
	}

	infos, err := tx.ListUnassignedFileInfos(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned files: %w", err)
	}

	registered := e.clock().UTC()
	result := &Result{}

	// key -> page -> hash
	pages := make(map[string]map[int]string)

	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path, page, err := e.parse(info)
		if err != nil {
			if e.Config.OnInvalid == config.OnInvalidSkip {
				e.Log.Warn("Skipping %s: %v", info.Path, err)
				result.Skipped++
				continue
			}
			return nil, err
		}
		if path == nil {
			e.Log.Debug("Ignoring %s %s", info.Hash, info.Path)
			result.Ignored++
			continue
		}

		key := path.Key()
		if existing, ok := pages[key][page]; ok {
			return nil, fmt.Errorf("%w %d in document %s: %s and %s", ErrDuplicatePage, page, key, existing, info.Hash)
		}

		if _, ok := pages[key]; !ok {
			pages[key] = make(map[int]string)
			result.Documents++
		}
		pages[key][page] = info.Hash

		if err := e.assign(ctx, tx, path, page, info.Hash, registered); err != nil {
			return nil, err
		}

		e.Log.Info("%s page %d %s", key, page, info.Hash)
		result.Files++
	}

	return result, nil
}

func (e *Engine) parse(info models.FileInfo) (*DatedPath, int, error) {
	path, err := ParsePath(info.Path)
	if err != nil || path == nil {
		return nil, 0, err
	}

	page, err := path.Page()
	if err != nil {
		return nil, 0, err
	}

	return path, page, nil
}

func (e *Engine) assign(ctx context.Context, tx store.MetadataStore, path *DatedPath, page int, hash string, registered time.Time) error {
	key := path.Key()

	doc := &models.Document{
		UUID:           key,
		DateRegistered: registered,
		DateCreated:    path.Date,
	}
	if err := tx.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document %s: %w", key, err)
	}

	tag := &models.DocumentTag{
		DocumentID: key,
		Tag:        path.Tag(),
	}
	if err := tx.SaveDocumentTag(ctx, tag); err != nil {
		return fmt.Errorf("failed to tag document %s: %w", key, err)
	}

	file := &models.DocumentFile{
		DocumentUUID: key,
		Page:         page,
		FileHash:     hash,
	}
	if err := tx.CreateDocumentFile(ctx, file); err != nil {
		return fmt.Errorf("failed to assign %s to page %d of %s: %w", hash, page, key, err)
	}

	return nil
}

func (e *Engine) clock() time.Time {
	if e.now == nil {
		return time.Now()
	}
	return e.now()
}

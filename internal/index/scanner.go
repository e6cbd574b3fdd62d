package index

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mwantia/tagalong/pkg/db/models"
	"github.com/mwantia/tagalong/pkg/db/store"
	"github.com/mwantia/tagalong/pkg/hasher"
	"github.com/mwantia/tagalong/pkg/log"
)

// ScanResult summarises a rescan of the root directory.
type ScanResult struct {
	Files      int   // regular files hashed
	Bytes      int64 // total bytes hashed
	Duplicates int   // files whose content was already seen at another path in this pass
}

// Scanner reconciles the fileinfo relation with the files under a root.
type Scanner struct {
	Log    log.LoggerService `fabric:"logger:index"`
	Hasher hasher.Hasher     `fabric:"inject"`
}

// NewScanner returns a Scanner that hashes with hasher.Default and logs to
// logger.
func NewScanner(logger log.LoggerService) *Scanner {
	return &Scanner{
		Log:    logger,
		Hasher: hasher.Default,
	}
}

// Scan hashes every regular file below root and upserts the results in one
// transaction once the walk has completed. Rows for files that disappeared
// are kept.
func (s *Scanner) Scan(ctx context.Context, st store.MetadataStore, root string) (*ScanResult, error) {
	infos, result, err := s.walk(ctx, root)
	if err != nil {
		return nil, err
	}

	err = st.Transaction(ctx, func(tx store.MetadataStore) error {
		for i := range infos {
			if err := tx.UpsertFileInfo(ctx, &infos[i]); err != nil {
				return fmt.Errorf("failed to index %s: %w", infos[i].Path, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Scanner) walk(ctx context.Context, root string) ([]models.FileInfo, *ScanResult, error) {
	dir, err := resolveRoot(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	var infos []models.FileInfo
	result := &ScanResult{}
	seen := make(map[string]string)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if !d.Type().IsRegular() {
			s.Log.Debug("Skipping non-regular file %s", path)
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		meta, err := s.Hasher.File(path)
		if err != nil {
			return err
		}

		s.Log.Info("%s %s %d", relPath, meta.Hash, meta.Size)

		if previous, ok := seen[meta.Hash]; ok {
			s.Log.Debug("Content of %s already seen at %s", relPath, previous)
			result.Duplicates++
		}
		seen[meta.Hash] = relPath

		infos = append(infos, models.FileInfo{
			Hash: meta.Hash,
			Path: relPath,
			Size: meta.Size,
		})
		result.Files++
		result.Bytes += meta.Size

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return infos, result, nil
}

// resolveRoot follows symlinks on root itself; links below it are still
// skipped by the walk.
func resolveRoot(root string) (string, error) {
	dir, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}

	return dir, nil
}

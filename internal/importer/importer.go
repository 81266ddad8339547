// Package importer loads a directory of movie XML files into the store.
// Each file holds one schema-validated movie document; a file that fails
// validation or decoding is counted and skipped, never fatal to the run.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"moviehub/internal/models"
	"moviehub/internal/schema"
	"moviehub/internal/xmlcodec"
)

// MovieStore is the slice of the movie repository the importer needs.
type MovieStore interface {
	Upsert(ctx context.Context, m *models.Movie) (created bool, err error)
}

// Stats reports the outcome of one import run.
type Stats struct {
	Created int
	Updated int
	Errors  int
}

type Importer struct {
	store     MovieStore
	validator *schema.Validator
	logger    *slog.Logger
}

func NewImporter(store MovieStore, validator *schema.Validator, logger *slog.Logger) *Importer {
	return &Importer{store: store, validator: validator, logger: logger}
}

// Run imports every .xml file under dir, in name order. An unreadable
// directory is the only fatal condition; per-file failures increment
// Stats.Errors and the run continues.
func (imp *Importer) Run(ctx context.Context, dir string) (Stats, error) {
	var stats Stats

	info, err := os.Stat(dir)
	if err != nil {
		return stats, fmt.Errorf("import directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("import path %s is not a directory", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil {
		return stats, fmt.Errorf("scan import directory %s: %w", dir, err)
	}
	sort.Strings(paths)

	imp.logger.Info("starting movie import", "dir", dir, "files", len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		created, err := imp.importFile(ctx, path)
		if err != nil {
			stats.Errors++
			imp.logger.Error("import failed", "file", filepath.Base(path), "error", err)
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	imp.logger.Info("movie import finished",
		"created", stats.Created,
		"updated", stats.Updated,
		"errors", stats.Errors,
	)
	return stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	root, err := imp.validator.Validate(raw)
	if err != nil {
		return false, err
	}

	movie, err := xmlcodec.DecodeMovie(root)
	if err != nil {
		return false, err
	}

	return imp.store.Upsert(ctx, &movie)
}

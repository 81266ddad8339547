package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"moviehub/internal/config"
	"moviehub/internal/database"
	"moviehub/internal/importer"
	"moviehub/internal/repository"
	"moviehub/internal/schema"
)

// Bulk-loads a directory of movie XML files into the database. Existing
// movies are updated in place, new ones created, and invalid files
// counted and skipped.
func main() {
	dir := flag.String("dir", "", "directory of movie XML files (defaults to MOVIE_DATA_PATH)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	validator, err := schema.NewValidatorFromFile(cfg.SchemaPath, "movie")
	if err != nil {
		logger.Error("could not load movie schema", "path", cfg.SchemaPath, "error", err)
		os.Exit(1)
	}

	target := cfg.MovieDataPath
	if *dir != "" {
		target = *dir
	}

	imp := importer.NewImporter(repository.NewMovieRepository(db), validator, logger)
	stats, err := imp.Run(context.Background(), target)
	if err != nil {
		logger.Error("import aborted", "error", err)
		os.Exit(1)
	}

	if stats.Errors > 0 {
		os.Exit(1)
	}
}

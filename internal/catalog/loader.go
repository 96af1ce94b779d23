package catalog

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"

	"clothier/internal/model"

	"github.com/rs/zerolog"
)

// Loader reads a gzipped CSV catalogue file and returns its products.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// fileLoader implements Loader for the local filesystem.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped catalogue file from the local filesystem.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	l.logger.Info().Str("file", path).Msg("loading catalogue file")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", path, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
	}
	defer gzipReader.Close()

	products, err := ParseRecords(gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("error reading catalogue file")
		return nil, fmt.Errorf("error reading catalogue file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("products_loaded", len(products)).
		Msg("catalogue file loaded successfully")

	return products, nil
}

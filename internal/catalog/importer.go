package catalog

import (
	"context"
	"fmt"

	"clothier/internal/repository"

	"github.com/rs/zerolog"
)

// Importer upserts loaded catalogue files into the product store.
type Importer struct {
	loader   Loader
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewImporter creates a catalogue importer.
func NewImporter(loader Loader, products repository.ProductRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:   loader,
		products: products,
		logger:   logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Run loads the given file and upserts every product. Existing rows are
// updated in place, so re-running an import is safe.
func (i *Importer) Run(ctx context.Context, file string) (int, error) {
	products, err := i.loader.Load(ctx, file)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalogue: %w", err)
	}

	for idx := range products {
		if err := i.products.Upsert(ctx, &products[idx]); err != nil {
			return idx, fmt.Errorf("failed to import product %s: %w", products[idx].ID, err)
		}
	}

	i.logger.Info().
		Str("file", file).
		Int("products_imported", len(products)).
		Msg("catalogue import completed")

	return len(products), nil
}

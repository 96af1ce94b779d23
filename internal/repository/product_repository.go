package repository

import (
	"context"
	"errors"
	"fmt"

	"clothier/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, price, initial_quantity,
	category_id, brand_id, color_id, size_id, gender_id, image_url, created_at`

// productSelect joins the reference tables so reads carry resolved
// category/brand/color/size/gender names alongside the raw IDs.
const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.initial_quantity,
		p.category_id, p.brand_id, p.color_id, p.size_id, p.gender_id,
		p.image_url, p.created_at,
		cat.name, br.name, col.name, sz.name, gen.name
	FROM products p
	LEFT JOIN categories cat ON cat.id = p.category_id
	LEFT JOIN brands br ON br.id = p.brand_id
	LEFT JOIN colors col ON col.id = p.color_id
	LEFT JOIN sizes sz ON sz.id = p.size_id
	LEFT JOIN genders gen ON gen.id = p.gender_id
`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.InitialQuantity,
		&p.CategoryID, &p.BrandID, &p.ColorID, &p.SizeID, &p.GenderID,
		&p.ImageURL, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProductWithRefs(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.InitialQuantity,
		&p.CategoryID, &p.BrandID, &p.ColorID, &p.SizeID, &p.GenderID,
		&p.ImageURL, &p.CreatedAt,
		&p.Category, &p.Brand, &p.Color, &p.Size, &p.Gender,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := productSelect + `
		ORDER BY p.name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProductWithRefs(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := productSelect + ` WHERE p.id = $1`

	p, err := scanProductWithRefs(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := productSelect + `
		WHERE p.id = ANY($1)
		ORDER BY p.name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProductWithRefs(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetForUpdate retrieves a product inside tx with a row-level lock.
func (r *productRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 FOR UPDATE`, productColumns)

	p, err := scanProduct(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found for update")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to lock product row")
		return nil, fmt.Errorf("failed to lock product row: %w", err)
	}

	return p, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, initial_quantity,
			category_id, brand_id, color_id, size_id, gender_id, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.InitialQuantity,
		p.CategoryID, p.BrandID, p.ColorID, p.SizeID, p.GenderID,
		p.ImageURL, p.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update replaces the mutable fields of an existing product.
func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, initial_quantity = $5,
			category_id = $6, brand_id = $7, color_id = $8, size_id = $9,
			gender_id = $10, image_url = $11
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.InitialQuantity,
		p.CategoryID, p.BrandID, p.ColorID, p.SizeID, p.GenderID, p.ImageURL,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &model.ProductNotFoundError{ProductID: p.ID}
	}

	return nil
}

// Delete removes a product unless historical order items reference it.
func (r *productRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503 foreign_key_violation: order items reference the product
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			r.logger.Warn().Str("product_id", id).Msg("delete blocked by order history")
			return model.ErrProductReferenced
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &model.ProductNotFoundError{ProductID: id}
	}

	return nil
}

// Upsert inserts a product or updates it in place.
func (r *productRepository) Upsert(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, initial_quantity,
			category_id, brand_id, color_id, size_id, gender_id, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			initial_quantity = EXCLUDED.initial_quantity,
			image_url = EXCLUDED.image_url
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.InitialQuantity,
		p.CategoryID, p.BrandID, p.ColorID, p.SizeID, p.GenderID,
		p.ImageURL, p.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to upsert product")
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"clothier/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// clientRepository implements the ClientRepository interface using PostgreSQL.
type clientRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewClientRepository creates a new PostgreSQL-backed client repository.
func NewClientRepository(pool *pgxpool.Pool, logger zerolog.Logger) ClientRepository {
	return &clientRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "client").Logger(),
	}
}

// FindOrCreate resolves a client by email inside tx, creating it on
// first order. ON CONFLICT DO NOTHING keeps the first write when two
// checkouts race on the same new email; the follow-up SELECT always
// returns the surviving row.
func (r *clientRepository) FindOrCreate(ctx context.Context, tx pgx.Tx, desc model.ClientDescriptor) (*model.Client, error) {
	insert := `
		INSERT INTO clients (id, full_name, email, address)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
	`

	_, err := tx.Exec(ctx, insert, uuid.New(), desc.Name, desc.Email, desc.Address)
	if err != nil {
		r.logger.Error().Err(err).Str("email", desc.Email).Msg("failed to upsert client")
		return nil, fmt.Errorf("failed to upsert client: %w", err)
	}

	query := `
		SELECT id, full_name, email, address
		FROM clients
		WHERE email = $1
	`

	var c model.Client
	err = tx.QueryRow(ctx, query, desc.Email).Scan(&c.ID, &c.FullName, &c.Email, &c.Address)
	if err != nil {
		r.logger.Error().Err(err).Str("email", desc.Email).Msg("failed to resolve client")
		return nil, fmt.Errorf("failed to resolve client: %w", err)
	}

	return &c, nil
}

// GetByID retrieves a client by its ID.
func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `
		SELECT id, full_name, email, address
		FROM clients
		WHERE id = $1
	`

	var c model.Client
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.FullName, &c.Email, &c.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("client_id", id.String()).Msg("client not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("client_id", id.String()).Msg("failed to query client")
		return nil, fmt.Errorf("failed to query client: %w", err)
	}

	return &c, nil
}

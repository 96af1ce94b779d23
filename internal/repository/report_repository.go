package repository

import (
	"context"
	"fmt"
	"time"

	"clothier/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// reportRepository implements the ReportRepository interface using PostgreSQL.
// Reporting queries run outside any transaction; a snapshot lagging the
// latest commit by one read is acceptable.
type reportRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReportRepository creates a new PostgreSQL-backed report repository.
func NewReportRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReportRepository {
	return &reportRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "report").Logger(),
	}
}

const earningsWindowQuery = `
	SELECT
		COUNT(DISTINCT o.id),
		COALESCE(SUM(oi.quantity), 0),
		COALESCE(SUM(oi.quantity * oi.price_at_order), 0)
	FROM orders o
	LEFT JOIN order_items oi ON o.id = oi.order_id
	WHERE o.created_at >= $1
		AND o.created_at < $2
		AND o.status <> 'cancelled'
`

// DailyEarnings aggregates earnings for the day containing ts (UTC).
func (r *reportRepository) DailyEarnings(ctx context.Context, ts time.Time) (*model.DailyEarnings, error) {
	day := ts.UTC().Truncate(24 * time.Hour)
	next := day.Add(24 * time.Hour)

	var report model.DailyEarnings
	report.Date = day.Format("2006-01-02")

	err := r.pool.QueryRow(ctx, earningsWindowQuery, day, next).Scan(
		&report.TotalOrders, &report.TotalItemsSold, &report.TotalEarnings,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("date", report.Date).Msg("failed to query daily earnings")
		return nil, fmt.Errorf("failed to query daily earnings: %w", err)
	}

	return &report, nil
}

// MonthlyEarnings aggregates a calendar month with a per-day breakdown.
func (r *reportRepository) MonthlyEarnings(ctx context.Context, year, month int) (*model.MonthlyEarnings, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	report := &model.MonthlyEarnings{
		Year:           year,
		Month:          month,
		DailyBreakdown: []model.DailyEarnings{},
	}

	err := r.pool.QueryRow(ctx, earningsWindowQuery, start, end).Scan(
		&report.TotalOrders, &report.TotalItemsSold, &report.TotalEarnings,
	)
	if err != nil {
		r.logger.Error().Err(err).Int("year", year).Int("month", month).
			Msg("failed to query monthly earnings")
		return nil, fmt.Errorf("failed to query monthly earnings: %w", err)
	}

	breakdownQuery := `
		SELECT
			DATE(o.created_at),
			COUNT(DISTINCT o.id),
			COALESCE(SUM(oi.quantity), 0),
			COALESCE(SUM(oi.quantity * oi.price_at_order), 0)
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.created_at >= $1
			AND o.created_at < $2
			AND o.status <> 'cancelled'
		GROUP BY DATE(o.created_at)
		ORDER BY DATE(o.created_at)
	`

	rows, err := r.pool.Query(ctx, breakdownQuery, start, end)
	if err != nil {
		r.logger.Error().Err(err).Int("year", year).Int("month", month).
			Msg("failed to query daily breakdown")
		return nil, fmt.Errorf("failed to query daily breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day model.DailyEarnings
		var date time.Time
		err := rows.Scan(&date, &day.TotalOrders, &day.TotalItemsSold, &day.TotalEarnings)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan daily breakdown row")
			return nil, fmt.Errorf("failed to scan daily breakdown: %w", err)
		}
		day.Date = date.Format("2006-01-02")
		report.DailyBreakdown = append(report.DailyBreakdown, day)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating daily breakdown rows")
		return nil, fmt.Errorf("error iterating daily breakdown: %w", err)
	}

	return report, nil
}

// TopProducts ranks products by order count, then quantity sold.
func (r *reportRepository) TopProducts(ctx context.Context, limit int, since *time.Time) ([]model.TopProduct, error) {
	query := `
		SELECT
			oi.product_id,
			p.name,
			p.price,
			COUNT(DISTINCT o.id) AS order_count,
			SUM(oi.quantity) AS quantity_sold,
			SUM(oi.quantity * oi.price_at_order) AS total_revenue
		FROM order_items oi
		INNER JOIN orders o ON oi.order_id = o.id
		INNER JOIN products p ON oi.product_id = p.id
		WHERE o.status <> 'cancelled'
			AND ($2::timestamptz IS NULL OR o.created_at >= $2)
		GROUP BY oi.product_id, p.name, p.price
		ORDER BY order_count DESC, quantity_sold DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit, since)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Msg("failed to query top products")
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	var products []model.TopProduct
	for rows.Next() {
		var tp model.TopProduct
		err := rows.Scan(&tp.ProductID, &tp.Name, &tp.CurrentPrice,
			&tp.OrderCount, &tp.QuantitySold, &tp.TotalRevenue)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan top product row")
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		tp.Rank = len(products) + 1
		products = append(products, tp)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating top product rows")
		return nil, fmt.Errorf("error iterating top products: %w", err)
	}

	return products, nil
}

// SalesSummary computes the all-time revenue and status breakdown.
func (r *reportRepository) SalesSummary(ctx context.Context) (*model.SalesSummary, error) {
	revenueQuery := `
		SELECT COALESCE(SUM(oi.quantity * oi.price_at_order), 0)
		FROM order_items oi
		INNER JOIN orders o ON oi.order_id = o.id
		WHERE o.status <> 'cancelled'
	`

	var revenue decimal.Decimal
	if err := r.pool.QueryRow(ctx, revenueQuery).Scan(&revenue); err != nil {
		r.logger.Error().Err(err).Msg("failed to query total revenue")
		return nil, fmt.Errorf("failed to query total revenue: %w", err)
	}

	statsQuery := `
		SELECT status, COUNT(*)
		FROM orders
		GROUP BY status
	`

	rows, err := r.pool.Query(ctx, statsQuery)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query status breakdown")
		return nil, fmt.Errorf("failed to query status breakdown: %w", err)
	}
	defer rows.Close()

	summary := &model.SalesSummary{TotalRevenue: revenue}
	for rows.Next() {
		var status model.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan status breakdown row")
			return nil, fmt.Errorf("failed to scan status breakdown: %w", err)
		}

		summary.StatusCounts.Total += count
		switch status {
		case model.StatusPending:
			summary.StatusCounts.Pending = count
		case model.StatusProcessing:
			summary.StatusCounts.Processing = count
		case model.StatusShipped:
			summary.StatusCounts.Shipped = count
		case model.StatusDelivered:
			summary.StatusCounts.Delivered = count
		case model.StatusCancelled:
			summary.StatusCounts.Cancelled = count
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating status breakdown rows")
		return nil, fmt.Errorf("error iterating status breakdown: %w", err)
	}

	// Cancelled orders are excluded from revenue but counted in totals.
	summary.TotalOrders = summary.StatusCounts.Total - summary.StatusCounts.Cancelled

	return summary, nil
}

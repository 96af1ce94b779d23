package service

import (
	"context"
	"fmt"
	"time"

	"clothier/internal/model"
	"clothier/internal/repository"

	"github.com/rs/zerolog"
)

// reportService implements ReportService.
type reportService struct {
	reportRepo repository.ReportRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// NewReportService creates a new report service.
func NewReportService(reportRepo repository.ReportRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		logger:     logger.With().Str("service", "report").Logger(),
		now:        time.Now,
	}
}

// DailyEarnings reports earnings for the given "2006-01-02" day, or
// today when empty.
func (s *reportService) DailyEarnings(ctx context.Context, date string) (*model.DailyEarnings, error) {
	day := s.now().UTC()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Date must be formatted as YYYY-MM-DD")
		}
		day = parsed
	}

	report, err := s.reportRepo.DailyEarnings(ctx, day)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("failed to compute daily earnings")
		return nil, fmt.Errorf("failed to compute daily earnings: %w", err)
	}

	return report, nil
}

// MonthlyEarnings reports a calendar month with daily breakdown.
func (s *reportService) MonthlyEarnings(ctx context.Context, year, month int) (*model.MonthlyEarnings, error) {
	now := s.now().UTC()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Month must be between 1 and 12")
	}

	report, err := s.reportRepo.MonthlyEarnings(ctx, year, month)
	if err != nil {
		s.logger.Error().Err(err).Int("year", year).Int("month", month).
			Msg("failed to compute monthly earnings")
		return nil, fmt.Errorf("failed to compute monthly earnings: %w", err)
	}

	return report, nil
}

// TopProducts ranks best sellers over a trailing period.
func (s *reportService) TopProducts(ctx context.Context, limit int, period string) (*model.TopProductsReport, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var since *time.Time
	now := s.now().UTC()
	switch period {
	case "week":
		t := now.AddDate(0, 0, -7)
		since = &t
	case "month":
		t := now.AddDate(0, -1, 0)
		since = &t
	case "year":
		t := now.AddDate(-1, 0, 0)
		since = &t
	case "", "all":
		period = "all_time"
	default:
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Period must be one of: week, month, year, all")
	}

	products, err := s.reportRepo.TopProducts(ctx, limit, since)
	if err != nil {
		s.logger.Error().Err(err).Str("period", period).Msg("failed to compute top products")
		return nil, fmt.Errorf("failed to compute top products: %w", err)
	}

	return &model.TopProductsReport{
		Period:   period,
		Limit:    limit,
		Products: products,
	}, nil
}

// Summary reports all-time revenue and the status breakdown.
func (s *reportService) Summary(ctx context.Context) (*model.SalesSummary, error) {
	summary, err := s.reportRepo.SalesSummary(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to compute sales summary")
		return nil, fmt.Errorf("failed to compute sales summary: %w", err)
	}
	return summary, nil
}

package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"dealdesk/internal/analytics"
	"dealdesk/internal/export"
	"dealdesk/internal/models"
	"dealdesk/internal/record"
	"dealdesk/internal/repository"
)

// AnalyticsService loads the deal set and runs the in-memory engine over it.
type AnalyticsService struct {
	Repo   repository.Repository
	Engine *analytics.Engine
	Logger *zap.Logger

	// DefaultRange is used when a caller passes an empty token.
	DefaultRange string
}

func (s *AnalyticsService) rangeToken(token string) string {
	token = strings.TrimSpace(token)
	if token != "" {
		return token
	}
	if s.DefaultRange != "" {
		return s.DefaultRange
	}
	return analytics.Range30d
}

// Records loads every deal as a semi-structured record.
func (s *AnalyticsService) Records(ctx context.Context) ([]record.Raw, error) {
	deals, err := s.Repo.AllDeals(ctx)
	if err != nil {
		return nil, err
	}
	return models.Records(deals), nil
}

func (s *AnalyticsService) Overview(ctx context.Context, token string) (analytics.Result, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return analytics.Result{}, err
	}
	return s.Engine.ComputeKPIs(records, s.rangeToken(token)), nil
}

func (s *AnalyticsService) Monthly(ctx context.Context) ([]analytics.MonthBucket, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return s.Engine.MonthlySeries(records), nil
}

func (s *AnalyticsService) DealTypes(ctx context.Context, token string) ([]analytics.TypeBreakdown, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return s.Engine.DealTypeBreakdown(records, s.rangeToken(token)), nil
}

func (s *AnalyticsService) Compensation(ctx context.Context, token string) ([]analytics.CompensationBucket, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return s.Engine.CompensationRanges(records, s.rangeToken(token)), nil
}

func (s *AnalyticsService) Outcomes(ctx context.Context, token string) (analytics.Outcomes, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return analytics.Outcomes{}, err
	}
	return s.Engine.PredictionOutcomes(records, s.rangeToken(token)), nil
}

func (s *AnalyticsService) Accuracy(ctx context.Context, token string) (analytics.Accuracy, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return analytics.Accuracy{}, err
	}
	return s.Engine.PredictionAccuracy(records, s.rangeToken(token)), nil
}

// Comprehensive assembles the full report envelope in one record load.
func (s *AnalyticsService) Comprehensive(ctx context.Context, token string) (export.ComprehensiveReport, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return export.ComprehensiveReport{}, err
	}
	token = s.rangeToken(token)
	return export.BuildComprehensive(
		token,
		s.Engine.ComputeKPIs(records, token),
		s.Engine.MonthlySeries(records),
		s.Engine.DealTypeBreakdown(records, token),
		s.Engine.CompensationRanges(records, token),
		s.Engine.PredictionAccuracy(records, token),
		time.Now().UTC(),
	), nil
}

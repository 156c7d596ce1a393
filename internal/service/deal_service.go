package service

import (
	"context"

	"go.uber.org/zap"

	"dealdesk/internal/filter"
	"dealdesk/internal/models"
	"dealdesk/internal/record"
	"dealdesk/internal/repository"
	"dealdesk/internal/ws"
)

// DealService mediates deal mutations: it writes through the repository,
// keeps the filter store's record set current, and pushes a fresh KPI
// overview to live dashboard subscribers.
type DealService struct {
	Repo      repository.Repository
	Filters   *filter.Store
	Hub       *ws.Hub
	Analytics *AnalyticsService
	Logger    *zap.Logger
}

func (s *DealService) Create(ctx context.Context, item *models.Deal) error {
	if err := s.Repo.CreateDeal(ctx, item); err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

func (s *DealService) Update(ctx context.Context, item *models.Deal) error {
	if err := s.Repo.UpdateDeal(ctx, item); err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

func (s *DealService) Delete(ctx context.Context, id uint64) error {
	if err := s.Repo.DeleteDeal(ctx, id); err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

// Query runs the in-memory filter and sort pipeline over the full deal set.
func (s *DealService) Query(ctx context.Context, st filter.State, sortCfg filter.SortConfig) ([]record.Raw, error) {
	records, err := s.Analytics.Records(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Sort(filter.Apply(records, st), sortCfg), nil
}

func (s *DealService) afterMutation(ctx context.Context) {
	records, err := s.Analytics.Records(ctx)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("deal set reload failed after mutation", zap.Error(err))
		}
		return
	}
	if s.Filters != nil {
		s.Filters.SetDeals(records)
	}
	if s.Hub != nil {
		overview := s.Analytics.Engine.ComputeKPIs(records, s.Analytics.rangeToken(""))
		s.Hub.Broadcast(ctx, overview)
	}
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
)

type spaceStore interface {
	List(ctx context.Context, filter models.SpaceFilter) ([]models.Space, int, error)
}

// SpaceService exposes read access to the campus space catalog.
type SpaceService struct {
	spaces spaceStore
	logger *zap.Logger
}

// NewSpaceService instantiates SpaceService.
func NewSpaceService(spaces spaceStore, logger *zap.Logger) *SpaceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpaceService{spaces: spaces, logger: logger}
}

// List returns spaces matching the filter with pagination info.
func (s *SpaceService) List(ctx context.Context, filter models.SpaceFilter) ([]models.Space, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}
	spaces, total, err := s.spaces.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list spaces")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return spaces, pagination, nil
}

package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
)

type termStore interface {
	List(ctx context.Context) ([]models.Term, error)
	FindByName(ctx context.Context, name string) (*models.Term, error)
}

// TermService exposes read access to academic terms and their lock state.
type TermService struct {
	terms  termStore
	logger *zap.Logger
}

// NewTermService instantiates TermService.
func NewTermService(terms termStore, logger *zap.Logger) *TermService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{terms: terms, logger: logger}
}

// List returns every known term.
func (s *TermService) List(ctx context.Context) ([]models.Term, error) {
	terms, err := s.terms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}
	return terms, nil
}

// Find returns one term by display name or term code.
func (s *TermService) Find(ctx context.Context, name string) (*models.Term, error) {
	normalized := NormalizeTermLabel(name)
	if normalized == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "term is required")
	}
	term, err := s.terms.FindByName(ctx, normalized)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return term, nil
}

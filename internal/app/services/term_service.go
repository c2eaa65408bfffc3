package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/tolgad/registra/internal/app/models"
	"github.com/tolgad/registra/internal/app/models/dto"
	"github.com/tolgad/registra/internal/app/repositories"
	"github.com/tolgad/registra/internal/pkg/apperrors"
)

const termDateLayout = "2006-01-02"

// TermService handles operations on academic terms
type TermService struct {
	termRepo *repositories.TermRepository
	logger   zerolog.Logger
}

// NewTermService creates a new TermService
func NewTermService(termRepo *repositories.TermRepository, logger zerolog.Logger) *TermService {
	return &TermService{
		termRepo: termRepo,
		logger:   logger,
	}
}

func parseTermDates(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(termDateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse(termDateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("endDate must be YYYY-MM-DD")
	}
	return start, end, nil
}

// CreateTerm creates a new academic term
func (s *TermService) CreateTerm(ctx context.Context, req *dto.CreateTermRequest) (*models.Term, error) {
	start, end, err := parseTermDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	term := &models.Term{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	}
	if err := term.Validate(); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if err := s.termRepo.Create(ctx, term); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("termId", term.ID).Str("name", term.Name).Msg("Term created")
	return term, nil
}

// GetTerm retrieves a term by ID
func (s *TermService) GetTerm(ctx context.Context, id int64) (*models.Term, error) {
	return s.termRepo.GetByID(ctx, id)
}

// GetAllTerms retrieves all terms
func (s *TermService) GetAllTerms(ctx context.Context) ([]*models.Term, error) {
	return s.termRepo.GetAll(ctx)
}

// UpdateTerm updates an existing term
func (s *TermService) UpdateTerm(ctx context.Context, id int64, req *dto.UpdateTermRequest) (*models.Term, error) {
	term, err := s.termRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end, err := parseTermDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	term.Name = req.Name
	term.StartDate = start
	term.EndDate = end
	if err := term.Validate(); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if err := s.termRepo.Update(ctx, term); err != nil {
		return nil, err
	}

	return term, nil
}

// DeleteTerm deletes a term. Fails while courses still reference it.
func (s *TermService) DeleteTerm(ctx context.Context, id int64) error {
	return s.termRepo.Delete(ctx, id)
}

package services

import (
	"context"

	"github.com/mosaic-folio/backend/database"
	"github.com/mosaic-folio/backend/errs"
	"github.com/mosaic-folio/backend/models"
)

type QueryService struct {
	submissionRepo *database.SubmissionRepo
	categoryRepo   *database.CategoryRepo
}

func NewQueryService(db database.Database) *QueryService {
	return &QueryService{
		submissionRepo: db.SubmissionRepo(),
		categoryRepo:   db.CategoryRepo(),
	}
}

// List returns the submissions selected by filter. No match is an empty slice.
func (s *QueryService) List(ctx context.Context, filter database.SubmissionFilter) ([]models.SubmissionView, error) {
	views, err := s.submissionRepo.FindViews(ctx, filter)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	if views == nil {
		views = []models.SubmissionView{}
	}
	return views, nil
}

// Get returns one submission whatever its validation state.
func (s *QueryService) Get(ctx context.Context, id uint) (*models.SubmissionView, error) {
	views, err := s.List(ctx, database.SubmissionFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, errs.NewNotFound("project")
	}
	return &views[0], nil
}

// Categories returns every category with its display name.
func (s *QueryService) Categories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "categories", err)
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return categories, nil
}

package database

import (
	"context"
	"time"

	"github.com/mosaic-folio/backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// SubmissionFilter narrows a listing. The first set field wins, in the order
// ID, CategoryID, Pending; an empty filter selects validated submissions.
type SubmissionFilter struct {
	ID         *uint
	CategoryID *uint
	Pending    bool
}

type SubmissionRepo struct {
	db *gorm.DB
}

func NewSubmissionRepo(db *gorm.DB) *SubmissionRepo {
	return &SubmissionRepo{db}
}

// Add inserts a new submission into the database
func (r *SubmissionRepo) Add(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// FindByID returns a submission by its ID, always read from the primary.
func (r *SubmissionRepo) FindByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// MarkValidated stamps a pending submission with at and returns the stored row.
// An already validated submission keeps its first timestamp. Returns
// gorm.ErrRecordNotFound when no submission has that id.
func (r *SubmissionRepo) MarkValidated(ctx context.Context, id uint, at time.Time) (*models.Submission, error) {
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND updated_at IS NULL", id).
		Update("updated_at", at).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// FindViews returns the joined listing rows matching filter, ordered by id.
func (r *SubmissionRepo) FindViews(ctx context.Context, filter SubmissionFilter) ([]models.SubmissionView, error) {
	query := r.db.WithContext(ctx).
		Table("projects_details AS pd").
		Select(`pd.id, pd.title, pd.github, pd.demolink, pd.created_at,
			pd.project_id, p.name AS project_name,
			s.git_username, s.id AS student_id`).
		Joins("JOIN students s ON s.id = pd.git_username_id").
		Joins("JOIN projects p ON p.id = pd.project_id")

	switch {
	case filter.ID != nil:
		query = query.Where("pd.id = ?", *filter.ID)
	case filter.CategoryID != nil:
		query = query.Where("pd.project_id = ?", *filter.CategoryID)
	case filter.Pending:
		query = query.Where("pd.updated_at IS NULL")
	default:
		query = query.Where("pd.updated_at IS NOT NULL")
	}

	views := make([]models.SubmissionView, 0)
	if err := query.Order("pd.id").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

// Count returns the number of stored submissions.
func (r *SubmissionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).Count(&n).Error
	return n, err
}

package database

import (
	"context"

	"github.com/mosaic-folio/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// FindAll returns all categories ordered by id
func (r *CategoryRepo) FindAll(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

// FindByID returns a category by its ID
func (r *CategoryRepo) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Seed inserts the given categories, renaming existing ids.
func (r *CategoryRepo) Seed(ctx context.Context, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	rows := append([]models.Category(nil), categories...)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(&rows).Error
}

package database

import (
	"context"

	"github.com/mosaic-folio/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudentRepo struct {
	db *gorm.DB
}

func NewStudentRepo(db *gorm.DB) *StudentRepo {
	return &StudentRepo{db}
}

// FindByGitUsername returns the student owning handle.
func (r *StudentRepo) FindByGitUsername(ctx context.Context, gitUsername string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("git_username = ?", gitUsername).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// FindOrCreate resolves the student for gitUsername, inserting it when absent.
// The insert is conditional on the unique handle index, so concurrent callers
// racing on an unseen handle end up sharing one row. created reports whether
// this call inserted it.
func (r *StudentRepo) FindOrCreate(ctx context.Context, gitUsername string) (student *models.Student, created bool, err error) {
	candidate := models.Student{GitUsername: gitUsername}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "git_username"}},
			DoNothing: true,
		}).
		Create(&candidate)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 && candidate.ID != 0 {
		return &candidate, true, nil
	}

	student, err = r.FindByGitUsername(ctx, gitUsername)
	if err != nil {
		return nil, false, err
	}
	return student, false, nil
}

// Count returns the number of known students.
func (r *StudentRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&n).Error
	return n, err
}

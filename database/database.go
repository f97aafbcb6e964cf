package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db             *gorm.DB
	studentRepo    *StudentRepo
	categoryRepo   *CategoryRepo
	submissionRepo *SubmissionRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		studentRepo:    NewStudentRepo(db),
		categoryRepo:   NewCategoryRepo(db),
		submissionRepo: NewSubmissionRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) StudentRepo() *StudentRepo {
	return d.studentRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) SubmissionRepo() *SubmissionRepo {
	return d.submissionRepo
}

// GetDB returns the underlying database connection
func (d Database) GetDB() *gorm.DB {
	return d.db
}

// Transaction runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks that the primary database answers.
func (d Database) Ping(ctx context.Context) error {
	var result int
	return d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
}

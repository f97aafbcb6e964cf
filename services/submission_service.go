package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mosaic-folio/backend/database"
	"github.com/mosaic-folio/backend/errs"
	"github.com/mosaic-folio/backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const notifyTimeout = 5 * time.Second

// SubmitRequest is the body of a project submission.
type SubmitRequest struct {
	Title       string     `json:"title" validate:"required"`
	Github      string     `json:"github" validate:"required"`
	Demolink    string     `json:"demolink" validate:"required"`
	GitUsername string     `json:"gitUsername" validate:"required"`
	ProjectID   FlexibleID `json:"projectId" validate:"required"`
}

func (r *SubmitRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Github = strings.TrimSpace(r.Github)
	r.Demolink = strings.TrimSpace(r.Demolink)
	r.GitUsername = strings.TrimSpace(r.GitUsername)
}

type SubmissionService struct {
	db       database.Database
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
	pending  sync.WaitGroup
}

func NewSubmissionService(db database.Database, notifier Notifier, opts ...Option) *SubmissionService {
	o := buildOptions(opts)
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &SubmissionService{
		db:       db,
		notifier: notifier,
		logger:   log.With().Str("service", "submission").Logger(),
		now:      o.now,
	}
}

// Submit stores a new pending submission, creating the student on first use.
// The student and the submission are written in one transaction. Moderators
// are notified in the background once it commits.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (*models.Submission, error) {
	req.normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var (
		submission     *models.Submission
		student        *models.Student
		studentCreated bool
	)
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		student, studentCreated, err = tx.StudentRepo().FindOrCreate(ctx, req.GitUsername)
		if err != nil {
			return errs.NewDatabaseError("resolve", "student", err)
		}

		submission = &models.Submission{
			Title:      req.Title,
			Github:     req.Github,
			Demolink:   req.Demolink,
			StudentID:  student.ID,
			CategoryID: uint(req.ProjectID),
			CreatedAt:  s.now(),
		}
		if err := tx.SubmissionRepo().Add(ctx, submission); err != nil {
			return errs.NewDatabaseError("create", "submission", err)
		}
		return nil
	})
	if err != nil {
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, errs.NewTransactionFailedError("submit project", err)
	}

	s.logger.Info().
		Uint("submissionId", submission.ID).
		Uint("studentId", student.ID).
		Bool("studentCreated", studentCreated).
		Msg("Project submitted")

	notice := SubmissionNotice{Submission: *submission, GitUsername: student.GitUsername}
	notifyCtx := context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.notify(notifyCtx, notice)
	}()

	return submission, nil
}

func (s *SubmissionService) notify(ctx context.Context, notice SubmissionNotice) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.notifier.SubmissionReceived(ctx, notice); err != nil {
		s.logger.Error().Err(err).Uint("submissionId", notice.Submission.ID).Msg("Failed to notify moderators")
	}
}

// Wait blocks until moderator notifications started by Submit have finished.
func (s *SubmissionService) Wait() {
	s.pending.Wait()
}

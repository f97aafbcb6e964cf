package services

import (
	"context"
	"time"

	"github.com/mosaic-folio/backend/database"
	"github.com/mosaic-folio/backend/errs"
	"github.com/mosaic-folio/backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ModerationService struct {
	submissionRepo *database.SubmissionRepo
	logger         zerolog.Logger
	now            func() time.Time
}

func NewModerationService(db database.Database, opts ...Option) *ModerationService {
	o := buildOptions(opts)
	return &ModerationService{
		submissionRepo: db.SubmissionRepo(),
		logger:         log.With().Str("service", "moderation").Logger(),
		now:            o.now,
	}
}

// Validate publishes a pending submission. Validating twice keeps the first
// timestamp and returns the stored row.
func (s *ModerationService) Validate(ctx context.Context, id uint) (*models.Submission, error) {
	submission, err := s.submissionRepo.MarkValidated(ctx, id, s.now())
	if err != nil {
		return nil, errs.NewDatabaseError("validate", "project", err)
	}

	s.logger.Debug().
		Uint("submissionId", submission.ID).
		Time("validatedAt", *submission.ValidatedAt).
		Msg("Project validated")
	return submission, nil
}

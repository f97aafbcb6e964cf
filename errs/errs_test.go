package errs

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewDatabaseError(t *testing.T) {
	t.Run("record not found becomes 404", func(t *testing.T) {
		err := NewDatabaseError("find", "submission", gorm.ErrRecordNotFound)
		assert.Equal(t, http.StatusNotFound, err.StatusCode)
		assert.True(t, IsNotFound(err))
	})

	t.Run("translated foreign key violation becomes 400", func(t *testing.T) {
		err := NewDatabaseError("create", "submission", fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated))
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
		assert.True(t, IsForeignKeyConstraintError(err))
		assert.True(t, IsValidation(err))
	})

	t.Run("sqlite foreign key message becomes 400", func(t *testing.T) {
		err := NewDatabaseError("create", "submission", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"))
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
		assert.True(t, IsForeignKeyConstraintError(err))
	})

	t.Run("duplicate key becomes 409", func(t *testing.T) {
		err := NewDatabaseError("create", "student", errors.New(`ERROR: duplicate key value violates unique constraint "idx_students_git_username"`))
		assert.Equal(t, http.StatusConflict, err.StatusCode)
		assert.True(t, IsUniqueConstraintViolationError(err))
	})

	t.Run("connection failure becomes 503", func(t *testing.T) {
		err := NewDatabaseError("find", "submissions", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))
		assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
		assert.True(t, errors.Is(err, ErrDatabaseConnection))
		assert.True(t, IsStorage(err))
	})

	t.Run("anything else is a generic storage error", func(t *testing.T) {
		cause := errors.New("syntax error at or near \"FROM\"")
		err := NewDatabaseError("find", "submissions", cause)
		assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
		assert.True(t, IsStorage(err))
		assert.True(t, err.IsServerError())
		assert.Equal(t, "database query failed", err.Message())
		assert.Equal(t, "database query failed: Failed to find submissions -> syntax error at or near \"FROM\"", err.GetFullError())
	})
}

func TestApiErrUnwrap(t *testing.T) {
	err := NewMissingRequiredFieldError("title")
	wrapped := fmt.Errorf("submit: %w", err)

	assert.True(t, IsMissingRequiredFieldError(wrapped))
	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsStorage(wrapped))
	assert.Equal(t, http.StatusBadRequest, StatusCode(wrapped))
	assert.Equal(t, "title", err.Field)
	assert.Equal(t, "missing required field: title", err.Error())
	assert.Equal(t, "invalid field: id: must be an integer", NewInvalidFieldError("id", "must be an integer").Error())
	assert.Equal(t, "invalid JSON: unexpected EOF", NewInvalidJSONError(io.ErrUnexpectedEOF).Error())
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(NewNotFound("submission")))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(Unauthorized))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
	assert.True(t, IsBadRequest(NewBadRequestError("invalid id")))
	assert.Equal(t, "submission not found", NewNotFound("submission").Error())
}

func TestNewInternalErrorWithCause(t *testing.T) {
	err := NewInternalErrorWithCause("unexpected error", NewNotFound("student"))

	assert.True(t, IsInternal(err))
	assert.True(t, err.IsServerError())
	assert.Equal(t, "unexpected error: internal server error", err.Message())
	assert.Equal(t, "unexpected error: internal server error -> student not found", err.GetFullError())
}

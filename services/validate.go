package services

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mosaic-folio/backend/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so clients see the field they sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and converts the first
// failure into an *errs.ApiErr.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errs.NewBadRequestError(err.Error())
	}

	fe := validationErrors[0]
	if fe.Tag() == "required" {
		return errs.NewMissingRequiredFieldError(fe.Field())
	}
	return errs.NewInvalidFieldError(fe.Field(), "failed "+fe.Tag()+" check")
}

// FlexibleID is the projectId of a submission request. Clients send it either
// as a JSON number or as a numeric string.
type FlexibleID uint

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*id = 0
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errs.NewInvalidFieldError("projectId", "must be an integer")
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = 0
			return nil
		}
	}

	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return errs.NewInvalidFieldError("projectId", "must be a positive integer")
	}
	*id = FlexibleID(n)
	return nil
}

// ParseID parses an id from a path or query value. Text that is not an
// integer is an invalid field. ok is false for integers no row can carry
// (zero, negative or beyond the id range); callers treat those as no match.
func ParseID(field, raw string) (id uint, ok bool, err error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, false, nil
		}
		return 0, false, errs.NewInvalidFieldError(field, "must be an integer")
	}
	if n <= 0 || uint64(n) > uint64(^uint(0)) {
		return 0, false, nil
	}
	return uint(n), true, nil
}

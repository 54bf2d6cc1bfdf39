package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error categories. Handlers map these (and repositories.ErrNotFound) to
// HTTP statuses with errors.Is; services wrap them with context.
var (
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("not authorized")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// validationError converts validator output into an ErrValidation naming the
// offending fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, strings.ToLower(e.Field()))
	}
	return fmt.Errorf("%w: invalid or missing fields: %s", ErrValidation, strings.Join(fields, ", "))
}

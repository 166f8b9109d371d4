// Package forms binds HTML form posts into structs tagged for gin's
// validator and turns failures into validation errors the pages can show.
package forms

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/tourism/internal/apperr"
)

// Error is a failed binding. It matches apperr.ErrValidation and carries
// the names of the fields that failed their rules.
type Error struct {
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	return apperr.ErrValidation.Error() + ": " + e.Message
}

func (e *Error) Unwrap() []error {
	return []error{apperr.ErrValidation, e.Err}
}

// Bind parses the request into dst using its form and binding tags. Any
// failure, including a number that does not parse, is reported with the
// single user-facing message.
func Bind(c *gin.Context, dst any, message string) error {
	err := c.ShouldBind(dst)
	if err == nil {
		return nil
	}
	return &Error{Message: message, Fields: FailedFields(err), Err: err}
}

// FailedFields lists the struct fields rejected by the validator.
func FailedFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

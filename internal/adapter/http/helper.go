package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/book"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/fine"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/loan"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/settings"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/user"
	fineuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/fine"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// Map domain errors → HTTP codes with a message staff can act on.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, fine.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, book.ErrNotFound),
		errors.Is(err, settings.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, fine.ErrDuplicateFine):
		return http.StatusConflict, "a fine of this type already exists for this loan"
	case errors.Is(err, fine.ErrAlreadyPaid):
		return http.StatusConflict, "fine is already paid"
	case errors.Is(err, fine.ErrCannotWaivePaid):
		return http.StatusConflict, "fine is already paid and can no longer be waived"
	case errors.Is(err, fine.ErrAlreadySettled):
		return http.StatusConflict, "fine was already waived or cancelled"
	case errors.Is(err, fine.ErrAlreadyCompleted):
		return http.StatusConflict, "loan is completed; no overdue fine can be issued"
	case errors.Is(err, fine.ErrMissingDueDate):
		return http.StatusUnprocessableEntity, "loan has no due date; it was never issued"
	case errors.Is(err, settings.ErrInvalidValue):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, fineuc.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	}
	return http.StatusInternalServerError, "internal error"
}

func writeError(c echo.Context, err error) error {
	code, msg := errorStatus(err)
	if code == http.StatusInternalServerError {
		log.Printf("http: %s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}

func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func hexParam(c echo.Context, name string) (string, bool) {
	v := c.Param(name)
	return v, reHex32.MatchString(v)
}

package services

import (
	"errors"
	"fmt"

	"genetrack-backend-go/internal/store"
)

type ServiceError struct {
	Status  int
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: 404, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: 400, Message: msg}
}

func ErrForbidden(msg string) error {
	return ServiceError{Status: 403, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: 401, Message: msg}
}

func ErrConflict(msg string) error {
	return ServiceError{Status: 409, Message: msg}
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// FromStoreError turns a store sentinel into a ServiceError about entity.
// Unclassified errors are returned wrapped.
func FromStoreError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound(entity + " not found")
	case errors.Is(err, store.ErrConflict):
		return ErrConflict(entity + " already exists")
	case errors.Is(err, store.ErrRestricted):
		return ErrConflict(entity + " is still referenced")
	case errors.Is(err, store.ErrMissingReference):
		return ErrBadRequest(entity + " references a missing record")
	case errors.Is(err, store.ErrInvalid):
		return ErrBadRequest("invalid " + entity + ": " + err.Error())
	}
	return WrapError(err, entity)
}

// StatusOf reports the HTTP-style status carried by err, 500 when none.
func StatusOf(err error) int {
	var svcErr ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Status
	}
	return 500
}

package service

import (
	"errors"

	"study-buddy/internal/domain"
)

// wrapStoreError passes domain errors through and turns anything else into
// an internal error carrying message.
func wrapStoreError(err error, message string) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewInternalError(message, err)
}

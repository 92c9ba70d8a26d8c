package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/internal/validators"
)

// fromStoreError translates a repository error into a service sentinel.
// Errors that are not part of the store's domain become ErrInternal.
func fromStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return ErrDuplicateEmail
	case errors.Is(err, store.ErrConflict):
		return ErrConflict
	case errors.Is(err, store.ErrOwnerNotFound):
		return fmt.Errorf("%w: %w", ErrUnauthorized, ErrUnknownOwner)
	case errors.Is(err, store.ErrReferenceNotFound):
		return fmt.Errorf("%w: %w", ErrValidation, ErrUnknownClient)
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}

// validate runs v over obj and wraps failures with ErrValidation.
func validate(ctx context.Context, v validators.Validator, obj any, fields ...string) error {
	if err := v.Validate(ctx, obj, fields...); err != nil {
		if errors.Is(err, validators.ErrUnsupportedType) {
			return fmt.Errorf("%w: %w", ErrInternal, err)
		}
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUnauthorized = errors.New("authentication credentials were not provided")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrNotFound     = errors.New("not found")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// notFound maps gorm's missing-row error onto ErrNotFound and leaves others alone.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

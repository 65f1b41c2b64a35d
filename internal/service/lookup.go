package service

import (
	"database/sql"
	"errors"

	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
)

// lookupError maps a failed repository read: a missing row becomes notFound,
// anything else an internal error carrying message.
func lookupError(err error, notFound *appErrors.Error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return appErrors.Internal(err, message)
}

// missing swaps sql.ErrNoRows for notFound and returns other errors unchanged.
func missing(err error, notFound *appErrors.Error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

package db

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/Martyn911/ticket-system/entities"
	"github.com/lib/pq"
)

const (
	postgresUniqueValueViolationErrorCode = "23505"

	// class 08 - connection exception
	postgresConnectionExceptionClass = "08"
)

func isErrorUniqueViolation(err error) bool {
	var psqlErr *pq.Error
	return errors.As(err, &psqlErr) && psqlErr.Code == postgresUniqueValueViolationErrorCode
}

func isErrorConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var psqlErr *pq.Error
	return errors.As(err, &psqlErr) && psqlErr.Code.Class() == postgresConnectionExceptionClass
}

// mapConnError turns driver-level connectivity failures into the transient
// ErrStoreUnavailable so callers can tell them apart from business outcomes.
func mapConnError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if isErrorConnectionFailure(err) {
		return errors.Join(entities.ErrStoreUnavailable, err)
	}
	return err
}

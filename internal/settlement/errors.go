package settlement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/storage"
)

var (
	ErrUnauthenticated      = errors.New("no authenticated session")
	ErrDeletedMember        = errors.New("one of the standbys has been deleted")
	ErrDeleted              = errors.New("standby is deleted")
	ErrSelfSettle           = errors.New("a standby cannot be settled with itself")
	ErrAlreadySettled       = errors.New("one of the standbys is already settled")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// StoreError is a failure of the record store. The operation was aborted and
// nothing beyond the current transaction was persisted.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// PartialFailure reports a multi-step operation that stopped part way. The
// completed steps are persisted and are not rolled back; retrying the
// failed step by hand is safe.
type PartialFailure struct {
	Op        string
	Completed []string
	Failed    string
	// Record is the standby created before the failure, if any.
	Record *models.StandbyEvent
	Err    error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s partially failed: done [%s], failed %s: %v",
		e.Op, strings.Join(e.Completed, "; "), e.Failed, e.Err)
}

func (e *PartialFailure) Unwrap() error {
	return e.Err
}

// storeErr wraps err as a StoreError unless it is one of the engine's own
// outcomes, which pass through untouched.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, ErrDeletedMember),
		errors.Is(err, ErrDeleted),
		errors.Is(err, ErrAlreadySettled),
		errors.As(err, &se):
		return err
	}
	return &StoreError{Op: op, Err: err}
}

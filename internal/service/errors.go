package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/standbys/internal/ledger"
	"github.com/mmynk/standbys/internal/roster"
	"github.com/mmynk/standbys/internal/settlement"
	"github.com/mmynk/standbys/internal/storage"
)

// fieldHeader carries the name of the invalid input field on
// InvalidArgument errors.
const fieldHeader = "Standby-Invalid-Field"

var errInternal = errors.New("internal error")

// toConnectError maps ledger errors onto connect codes. Store failures are
// logged here and reach the client as a generic internal error.
func toConnectError(logger *slog.Logger, procedure string, err error) error {
	var (
		connectErr *connect.Error
		validation *ledger.ValidationError
		partial    *settlement.PartialFailure
	)
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.As(err, &partial):
		attrs := []any{"procedure", procedure, "failed", partial.Failed, "error", partial.Err}
		if partial.Record != nil {
			attrs = append(attrs, "standby_id", partial.Record.ID)
		}
		logger.Error("Partial failure", attrs...)
		return connect.NewError(connect.CodeAborted, partial)
	case errors.As(err, &validation):
		cerr := connect.NewError(connect.CodeInvalidArgument, validation)
		cerr.Meta().Set(fieldHeader, validation.Field)
		return cerr
	case errors.Is(err, settlement.ErrUnauthenticated):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, settlement.ErrSelfSettle),
		errors.Is(err, roster.ErrInvalidRange):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, settlement.ErrDeletedMember),
		errors.Is(err, settlement.ErrDeleted),
		errors.Is(err, settlement.ErrAlreadySettled),
		errors.Is(err, settlement.ErrConfirmationRequired):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	}

	logger.Error("Request failed", "procedure", procedure, "error", err)
	return connect.NewError(connect.CodeInternal, errInternal)
}

// InvalidField returns the input field named by an InvalidArgument error.
func InvalidField(err error) string {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return ""
	}
	return connectErr.Meta().Get(fieldHeader)
}

package service

import (
	"context"
	"log/slog"

	"cloud.google.com/go/civil"
	"connectrpc.com/connect"

	"github.com/mmynk/standbys/internal/ledger"
	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/roster"
)

// RosterService implements the RosterService RPC interface.
type RosterService struct {
	roster roster.Provider
	logger *slog.Logger
}

// NewRosterService creates the roster service.
func NewRosterService(provider roster.Provider, logger *slog.Logger) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterService{roster: provider, logger: logger}
}

// PlatoonOnDuty returns the platoon rostered for a date and shift. An
// unknown roster yields an empty platoon, not an error.
func (s *RosterService) PlatoonOnDuty(ctx context.Context, req *connect.Request[PlatoonOnDutyRequest]) (*connect.Response[PlatoonOnDutyResponse], error) {
	date, err := civil.ParseDate(req.Msg.Date)
	if err != nil {
		return nil, toConnectError(s.logger, RosterServicePlatoonOnDutyProcedure,
			&ledger.ValidationError{Field: "date", Message: "not a date"})
	}
	shift, err := models.ParseShiftType(req.Msg.ShiftType)
	if err != nil {
		return nil, toConnectError(s.logger, RosterServicePlatoonOnDutyProcedure,
			&ledger.ValidationError{Field: "shift_type", Message: "please select Day or Night"})
	}

	platoon, err := s.roster.PlatoonOnDuty(ctx, date, shift)
	if err != nil {
		s.logger.Warn("Roster lookup failed", "date", date, "shift", shift, "error", err)
		platoon = ""
	}
	return connect.NewResponse(&PlatoonOnDutyResponse{
		Platoon: platoon,
		Label:   ledger.FormatPlatoonLabel(platoon),
	}), nil
}

// RosterRange returns the roster for every date in [from, to].
func (s *RosterService) RosterRange(ctx context.Context, req *connect.Request[RosterRangeRequest]) (*connect.Response[RosterRangeResponse], error) {
	from, to, err := parseRange(req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, toConnectError(s.logger, RosterServiceRosterRangeProcedure, err)
	}
	days, err := s.roster.Range(ctx, from, to)
	if err != nil {
		return nil, toConnectError(s.logger, RosterServiceRosterRangeProcedure, err)
	}
	return connect.NewResponse(&RosterRangeResponse{Days: days}), nil
}

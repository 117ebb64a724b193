package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	StandbyServiceName = "standby.v1.StandbyService"
	RosterServiceName  = "standby.v1.RosterService"
	AuthServiceName    = "standby.v1.AuthService"
)

// Fully qualified procedure names.
const (
	StandbyServiceAddStandbyProcedure     = "/" + StandbyServiceName + "/AddStandby"
	StandbyServiceEditStandbyProcedure    = "/" + StandbyServiceName + "/EditStandby"
	StandbyServiceGetStandbyProcedure     = "/" + StandbyServiceName + "/GetStandby"
	StandbyServiceListStandbysProcedure   = "/" + StandbyServiceName + "/ListStandbys"
	StandbyServiceGetPositionProcedure    = "/" + StandbyServiceName + "/GetPosition"
	StandbyServiceSettleStandbysProcedure = "/" + StandbyServiceName + "/SettleStandbys"
	StandbyServiceSettleWithNewProcedure  = "/" + StandbyServiceName + "/SettleWithNew"
	StandbyServiceUnsettleGroupProcedure  = "/" + StandbyServiceName + "/UnsettleGroup"
	StandbyServiceDeleteStandbyProcedure  = "/" + StandbyServiceName + "/DeleteStandby"
	StandbyServiceDeletePairProcedure     = "/" + StandbyServiceName + "/DeletePair"
	StandbyServiceRestoreStandbyProcedure = "/" + StandbyServiceName + "/RestoreStandby"
	StandbyServiceRestorePairProcedure    = "/" + StandbyServiceName + "/RestorePair"
	StandbyServiceListCandidatesProcedure = "/" + StandbyServiceName + "/ListCandidates"
	StandbyServiceSuggestNamesProcedure   = "/" + StandbyServiceName + "/SuggestNames"
	StandbyServiceListOverlayProcedure    = "/" + StandbyServiceName + "/ListOverlay"

	RosterServicePlatoonOnDutyProcedure = "/" + RosterServiceName + "/PlatoonOnDuty"
	RosterServiceRosterRangeProcedure   = "/" + RosterServiceName + "/RosterRange"

	AuthServiceRegisterProcedure = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure    = "/" + AuthServiceName + "/Login"
	AuthServiceMeProcedure       = "/" + AuthServiceName + "/Me"
)

// routes dispatches on the full procedure path.
type routes map[string]http.Handler

func (r routes) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h, ok := r[req.URL.Path]
	if !ok {
		http.NotFound(w, req)
		return
	}
	h.ServeHTTP(w, req)
}

func unary[Req, Res any](procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) http.Handler {
	opts = append([]connect.HandlerOption{CodecOption()}, opts...)
	return connect.NewUnaryHandler(procedure, fn, opts...)
}

// NewStandbyServiceHandler builds the HTTP handler for StandbyService and
// returns the path to mount it on.
func NewStandbyServiceHandler(svc *StandbyService, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + StandbyServiceName + "/", routes{
		StandbyServiceAddStandbyProcedure:     unary(StandbyServiceAddStandbyProcedure, svc.AddStandby, opts),
		StandbyServiceEditStandbyProcedure:    unary(StandbyServiceEditStandbyProcedure, svc.EditStandby, opts),
		StandbyServiceGetStandbyProcedure:     unary(StandbyServiceGetStandbyProcedure, svc.GetStandby, opts),
		StandbyServiceListStandbysProcedure:   unary(StandbyServiceListStandbysProcedure, svc.ListStandbys, opts),
		StandbyServiceGetPositionProcedure:    unary(StandbyServiceGetPositionProcedure, svc.GetPosition, opts),
		StandbyServiceSettleStandbysProcedure: unary(StandbyServiceSettleStandbysProcedure, svc.SettleStandbys, opts),
		StandbyServiceSettleWithNewProcedure:  unary(StandbyServiceSettleWithNewProcedure, svc.SettleWithNew, opts),
		StandbyServiceUnsettleGroupProcedure:  unary(StandbyServiceUnsettleGroupProcedure, svc.UnsettleGroup, opts),
		StandbyServiceDeleteStandbyProcedure:  unary(StandbyServiceDeleteStandbyProcedure, svc.DeleteStandby, opts),
		StandbyServiceDeletePairProcedure:     unary(StandbyServiceDeletePairProcedure, svc.DeletePair, opts),
		StandbyServiceRestoreStandbyProcedure: unary(StandbyServiceRestoreStandbyProcedure, svc.RestoreStandby, opts),
		StandbyServiceRestorePairProcedure:    unary(StandbyServiceRestorePairProcedure, svc.RestorePair, opts),
		StandbyServiceListCandidatesProcedure: unary(StandbyServiceListCandidatesProcedure, svc.ListCandidates, opts),
		StandbyServiceSuggestNamesProcedure:   unary(StandbyServiceSuggestNamesProcedure, svc.SuggestNames, opts),
		StandbyServiceListOverlayProcedure:    unary(StandbyServiceListOverlayProcedure, svc.ListOverlay, opts),
	}
}

// NewRosterServiceHandler builds the HTTP handler for RosterService.
func NewRosterServiceHandler(svc *RosterService, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + RosterServiceName + "/", routes{
		RosterServicePlatoonOnDutyProcedure: unary(RosterServicePlatoonOnDutyProcedure, svc.PlatoonOnDuty, opts),
		RosterServiceRosterRangeProcedure:   unary(RosterServiceRosterRangeProcedure, svc.RosterRange, opts),
	}
}

// NewAuthServiceHandler builds the HTTP handler for AuthService.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + AuthServiceName + "/", routes{
		AuthServiceRegisterProcedure: unary(AuthServiceRegisterProcedure, svc.Register, opts),
		AuthServiceLoginProcedure:    unary(AuthServiceLoginProcedure, svc.Login, opts),
		AuthServiceMeProcedure:       unary(AuthServiceMeProcedure, svc.Me, opts),
	}
}

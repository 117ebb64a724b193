package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{CodecOption()}, opts...)
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure, opts...)
}

// StandbyServiceClient calls StandbyService.
type StandbyServiceClient struct {
	addStandby     *connect.Client[AddStandbyRequest, AddStandbyResponse]
	editStandby    *connect.Client[EditStandbyRequest, EditStandbyResponse]
	getStandby     *connect.Client[GetStandbyRequest, GetStandbyResponse]
	listStandbys   *connect.Client[ListStandbysRequest, ListStandbysResponse]
	getPosition    *connect.Client[GetPositionRequest, GetPositionResponse]
	settleStandbys *connect.Client[SettleStandbysRequest, SettleStandbysResponse]
	settleWithNew  *connect.Client[SettleWithNewRequest, AddStandbyResponse]
	unsettleGroup  *connect.Client[UnsettleGroupRequest, UnsettleGroupResponse]
	deleteStandby  *connect.Client[DeleteStandbyRequest, DeleteResponse]
	deletePair     *connect.Client[DeletePairRequest, DeleteResponse]
	restoreStandby *connect.Client[RestoreStandbyRequest, RestoreStandbyResponse]
	restorePair    *connect.Client[RestorePairRequest, RestorePairResponse]
	listCandidates *connect.Client[ListCandidatesRequest, ListCandidatesResponse]
	suggestNames   *connect.Client[SuggestNamesRequest, SuggestNamesResponse]
	listOverlay    *connect.Client[ListOverlayRequest, ListOverlayResponse]
}

// NewStandbyServiceClient creates a client for the service at baseURL.
func NewStandbyServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *StandbyServiceClient {
	return &StandbyServiceClient{
		addStandby:     newClient[AddStandbyRequest, AddStandbyResponse](httpClient, baseURL, StandbyServiceAddStandbyProcedure, opts),
		editStandby:    newClient[EditStandbyRequest, EditStandbyResponse](httpClient, baseURL, StandbyServiceEditStandbyProcedure, opts),
		getStandby:     newClient[GetStandbyRequest, GetStandbyResponse](httpClient, baseURL, StandbyServiceGetStandbyProcedure, opts),
		listStandbys:   newClient[ListStandbysRequest, ListStandbysResponse](httpClient, baseURL, StandbyServiceListStandbysProcedure, opts),
		getPosition:    newClient[GetPositionRequest, GetPositionResponse](httpClient, baseURL, StandbyServiceGetPositionProcedure, opts),
		settleStandbys: newClient[SettleStandbysRequest, SettleStandbysResponse](httpClient, baseURL, StandbyServiceSettleStandbysProcedure, opts),
		settleWithNew:  newClient[SettleWithNewRequest, AddStandbyResponse](httpClient, baseURL, StandbyServiceSettleWithNewProcedure, opts),
		unsettleGroup:  newClient[UnsettleGroupRequest, UnsettleGroupResponse](httpClient, baseURL, StandbyServiceUnsettleGroupProcedure, opts),
		deleteStandby:  newClient[DeleteStandbyRequest, DeleteResponse](httpClient, baseURL, StandbyServiceDeleteStandbyProcedure, opts),
		deletePair:     newClient[DeletePairRequest, DeleteResponse](httpClient, baseURL, StandbyServiceDeletePairProcedure, opts),
		restoreStandby: newClient[RestoreStandbyRequest, RestoreStandbyResponse](httpClient, baseURL, StandbyServiceRestoreStandbyProcedure, opts),
		restorePair:    newClient[RestorePairRequest, RestorePairResponse](httpClient, baseURL, StandbyServiceRestorePairProcedure, opts),
		listCandidates: newClient[ListCandidatesRequest, ListCandidatesResponse](httpClient, baseURL, StandbyServiceListCandidatesProcedure, opts),
		suggestNames:   newClient[SuggestNamesRequest, SuggestNamesResponse](httpClient, baseURL, StandbyServiceSuggestNamesProcedure, opts),
		listOverlay:    newClient[ListOverlayRequest, ListOverlayResponse](httpClient, baseURL, StandbyServiceListOverlayProcedure, opts),
	}
}

func (c *StandbyServiceClient) AddStandby(ctx context.Context, req *connect.Request[AddStandbyRequest]) (*connect.Response[AddStandbyResponse], error) {
	return c.addStandby.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) EditStandby(ctx context.Context, req *connect.Request[EditStandbyRequest]) (*connect.Response[EditStandbyResponse], error) {
	return c.editStandby.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) GetStandby(ctx context.Context, req *connect.Request[GetStandbyRequest]) (*connect.Response[GetStandbyResponse], error) {
	return c.getStandby.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) ListStandbys(ctx context.Context, req *connect.Request[ListStandbysRequest]) (*connect.Response[ListStandbysResponse], error) {
	return c.listStandbys.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) GetPosition(ctx context.Context, req *connect.Request[GetPositionRequest]) (*connect.Response[GetPositionResponse], error) {
	return c.getPosition.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) SettleStandbys(ctx context.Context, req *connect.Request[SettleStandbysRequest]) (*connect.Response[SettleStandbysResponse], error) {
	return c.settleStandbys.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) SettleWithNew(ctx context.Context, req *connect.Request[SettleWithNewRequest]) (*connect.Response[AddStandbyResponse], error) {
	return c.settleWithNew.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) UnsettleGroup(ctx context.Context, req *connect.Request[UnsettleGroupRequest]) (*connect.Response[UnsettleGroupResponse], error) {
	return c.unsettleGroup.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) DeleteStandby(ctx context.Context, req *connect.Request[DeleteStandbyRequest]) (*connect.Response[DeleteResponse], error) {
	return c.deleteStandby.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) DeletePair(ctx context.Context, req *connect.Request[DeletePairRequest]) (*connect.Response[DeleteResponse], error) {
	return c.deletePair.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) RestoreStandby(ctx context.Context, req *connect.Request[RestoreStandbyRequest]) (*connect.Response[RestoreStandbyResponse], error) {
	return c.restoreStandby.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) RestorePair(ctx context.Context, req *connect.Request[RestorePairRequest]) (*connect.Response[RestorePairResponse], error) {
	return c.restorePair.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) ListCandidates(ctx context.Context, req *connect.Request[ListCandidatesRequest]) (*connect.Response[ListCandidatesResponse], error) {
	return c.listCandidates.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) SuggestNames(ctx context.Context, req *connect.Request[SuggestNamesRequest]) (*connect.Response[SuggestNamesResponse], error) {
	return c.suggestNames.CallUnary(ctx, req)
}

func (c *StandbyServiceClient) ListOverlay(ctx context.Context, req *connect.Request[ListOverlayRequest]) (*connect.Response[ListOverlayResponse], error) {
	return c.listOverlay.CallUnary(ctx, req)
}

// RosterServiceClient calls RosterService.
type RosterServiceClient struct {
	platoonOnDuty *connect.Client[PlatoonOnDutyRequest, PlatoonOnDutyResponse]
	rosterRange   *connect.Client[RosterRangeRequest, RosterRangeResponse]
}

// NewRosterServiceClient creates a client for the service at baseURL.
func NewRosterServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *RosterServiceClient {
	return &RosterServiceClient{
		platoonOnDuty: newClient[PlatoonOnDutyRequest, PlatoonOnDutyResponse](httpClient, baseURL, RosterServicePlatoonOnDutyProcedure, opts),
		rosterRange:   newClient[RosterRangeRequest, RosterRangeResponse](httpClient, baseURL, RosterServiceRosterRangeProcedure, opts),
	}
}

func (c *RosterServiceClient) PlatoonOnDuty(ctx context.Context, req *connect.Request[PlatoonOnDutyRequest]) (*connect.Response[PlatoonOnDutyResponse], error) {
	return c.platoonOnDuty.CallUnary(ctx, req)
}

func (c *RosterServiceClient) RosterRange(ctx context.Context, req *connect.Request[RosterRangeRequest]) (*connect.Response[RosterRangeResponse], error) {
	return c.rosterRange.CallUnary(ctx, req)
}

// AuthServiceClient calls AuthService.
type AuthServiceClient struct {
	register *connect.Client[RegisterRequest, AuthResponse]
	login    *connect.Client[LoginRequest, AuthResponse]
	me       *connect.Client[MeRequest, MeResponse]
}

// NewAuthServiceClient creates a client for the service at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	return &AuthServiceClient{
		register: newClient[RegisterRequest, AuthResponse](httpClient, baseURL, AuthServiceRegisterProcedure, opts),
		login:    newClient[LoginRequest, AuthResponse](httpClient, baseURL, AuthServiceLoginProcedure, opts),
		me:       newClient[MeRequest, MeResponse](httpClient, baseURL, AuthServiceMeProcedure, opts),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Me(ctx context.Context, req *connect.Request[MeRequest]) (*connect.Response[MeResponse], error) {
	return c.me.CallUnary(ctx, req)
}

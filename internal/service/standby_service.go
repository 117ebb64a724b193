package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/samber/lo"

	"github.com/mmynk/standbys/internal/ledger"
	"github.com/mmynk/standbys/internal/middleware"
	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/roster"
	"github.com/mmynk/standbys/internal/settlement"
	"github.com/mmynk/standbys/internal/views"
)

const defaultSuggestLimit = 10

// CacheObserver is told whether each snapshot read was served from cache.
type CacheObserver interface {
	CacheResult(hit bool)
}

type nopObserver struct{}

func (nopObserver) CacheResult(bool) {}

// StandbyService implements the StandbyService RPC interface on top of the
// settlement engine.
type StandbyService struct {
	engine   *settlement.Engine
	roster   roster.Provider
	observer CacheObserver
	logger   *slog.Logger
}

// NewStandbyService creates the standby service. observer may be nil.
func NewStandbyService(engine *settlement.Engine, provider roster.Provider, observer CacheObserver, logger *slog.Logger) *StandbyService {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StandbyService{
		engine:   engine,
		roster:   provider,
		observer: observer,
		logger:   logger,
	}
}

func (s *StandbyService) fail(procedure string, err error) error {
	return toConnectError(s.logger, procedure, err)
}

// snapshot loads every record of the caller. Unauthenticated callers get an
// empty snapshot.
func (s *StandbyService) snapshot(ctx context.Context, sess models.Session) ([]models.StandbyEvent, error) {
	records, hit, err := s.engine.Snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}
	if sess.UserID != "" {
		s.observer.CacheResult(hit)
	}
	return records, nil
}

func (s *StandbyService) view(ev *models.StandbyEvent, records []models.StandbyEvent) StandbyView {
	partner := views.Partner(ev, records)
	v := StandbyView{
		Standby:    *ev,
		Status:     ledger.Classify(ev),
		StatusText: views.StatusText(ev),
		Narrative:  views.Narrative(ev, partner, s.engine.Today()),
	}
	if partner != nil {
		v.PartnerID = partner.ID
	}
	return v
}

func resolution(in ResolutionInput) (settlement.Resolution, error) {
	return settlement.ParseResolution(in.Kind, in.Note)
}

// AddStandby records a new standby, settling it with LinkTo when given.
func (s *StandbyService) AddStandby(ctx context.Context, req *connect.Request[AddStandbyRequest]) (*connect.Response[AddStandbyResponse], error) {
	sess := middleware.SessionFrom(ctx)
	in := req.Msg.Standby.ledgerInput()

	if req.Msg.LinkTo == "" {
		ev, err := s.engine.Add(ctx, sess, in)
		if err != nil {
			return nil, s.fail(StandbyServiceAddStandbyProcedure, err)
		}
		s.logger.Info("Standby added", "user_id", sess.UserID, "standby_id", ev.ID)
		return connect.NewResponse(&AddStandbyResponse{Standby: ev}), nil
	}

	res, err := resolution(req.Msg.Resolution)
	if err != nil {
		return nil, s.fail(StandbyServiceAddStandbyProcedure, err)
	}
	ev, st, err := s.engine.LinkOnAdd(ctx, sess, in, req.Msg.LinkTo, res)
	if err != nil {
		return nil, s.fail(StandbyServiceAddStandbyProcedure, err)
	}
	s.logger.Info("Standby added and settled",
		"user_id", sess.UserID,
		"standby_id", ev.ID,
		"settlement_id", st.ID,
	)
	return connect.NewResponse(&AddStandbyResponse{Standby: ev, Settlement: st}), nil
}

// EditStandby replaces the editable fields of a standby.
func (s *StandbyService) EditStandby(ctx context.Context, req *connect.Request[EditStandbyRequest]) (*connect.Response[EditStandbyResponse], error) {
	ev, err := s.engine.Edit(ctx, middleware.SessionFrom(ctx), req.Msg.ID, req.Msg.Standby.ledgerInput())
	if err != nil {
		return nil, s.fail(StandbyServiceEditStandbyProcedure, err)
	}
	return connect.NewResponse(&EditStandbyResponse{Standby: ev}), nil
}

// GetStandby returns one standby with its narrative and settlement partner.
func (s *StandbyService) GetStandby(ctx context.Context, req *connect.Request[GetStandbyRequest]) (*connect.Response[GetStandbyResponse], error) {
	sess := middleware.SessionFrom(ctx)
	ev, err := s.engine.Get(ctx, sess, req.Msg.ID)
	if err != nil {
		return nil, s.fail(StandbyServiceGetStandbyProcedure, err)
	}
	records, err := s.snapshot(ctx, sess)
	if err != nil {
		return nil, s.fail(StandbyServiceGetStandbyProcedure, err)
	}

	resp := &GetStandbyResponse{Standby: s.view(ev, records)}
	if p := views.Partner(ev, records); p != nil {
		partner := *p
		resp.Partner = &partner
	}
	return connect.NewResponse(resp), nil
}

// ListStandbys returns one category. History categories also carry the
// records grouped by settlement.
func (s *StandbyService) ListStandbys(ctx context.Context, req *connect.Request[ListStandbysRequest]) (*connect.Response[ListStandbysResponse], error) {
	category, err := views.ParseCategory(req.Msg.Category)
	if err != nil {
		return nil, s.fail(StandbyServiceListStandbysProcedure,
			&ledger.ValidationError{Field: "category", Message: err.Error()})
	}

	records, err := s.snapshot(ctx, middleware.SessionFrom(ctx))
	if err != nil {
		return nil, s.fail(StandbyServiceListStandbysProcedure, err)
	}

	projected := views.Project(records, category, s.engine.Today())
	resp := &ListStandbysResponse{
		Category: string(category),
		Items: lo.Map(projected, func(ev models.StandbyEvent, _ int) StandbyView {
			return s.view(&ev, records)
		}),
		Position: positionView(views.CountPosition(records)),
	}
	if category.IsHistory() {
		resp.History = lo.Map(views.GroupHistory(projected, category), func(item views.HistoryItem, _ int) HistoryGroup {
			return HistoryGroup{
				GroupID: item.GroupID,
				SortKey: item.SortKey,
				Items: lo.Map(item.Records, func(ev models.StandbyEvent, _ int) StandbyView {
					return s.view(&ev, records)
				}),
			}
		})
	}
	return connect.NewResponse(resp), nil
}

// GetPosition returns the owed and owing counters, overall and per person.
func (s *StandbyService) GetPosition(ctx context.Context, req *connect.Request[GetPositionRequest]) (*connect.Response[GetPositionResponse], error) {
	records, err := s.snapshot(ctx, middleware.SessionFrom(ctx))
	if err != nil {
		return nil, s.fail(StandbyServiceGetPositionProcedure, err)
	}
	return connect.NewResponse(&GetPositionResponse{
		Position: positionView(views.CountPosition(records)),
		People:   views.Balances(records),
	}), nil
}

// SettleStandbys pairs two existing standbys.
func (s *StandbyService) SettleStandbys(ctx context.Context, req *connect.Request[SettleStandbysRequest]) (*connect.Response[SettleStandbysResponse], error) {
	res, err := resolution(req.Msg.Resolution)
	if err != nil {
		return nil, s.fail(StandbyServiceSettleStandbysProcedure, err)
	}
	sess := middleware.SessionFrom(ctx)
	st, err := s.engine.Settle(ctx, sess, req.Msg.AID, req.Msg.BID, res)
	if err != nil {
		return nil, s.fail(StandbyServiceSettleStandbysProcedure, err)
	}
	s.logger.Info("Standbys settled", "user_id", sess.UserID, "settlement_id", st.ID, "resolution", st.Resolution)
	return connect.NewResponse(&SettleStandbysResponse{Settlement: st}), nil
}

// SettleWithNew records the repayment of an existing standby as a new one.
func (s *StandbyService) SettleWithNew(ctx context.Context, req *connect.Request[SettleWithNewRequest]) (*connect.Response[AddStandbyResponse], error) {
	res, err := resolution(req.Msg.Resolution)
	if err != nil {
		return nil, s.fail(StandbyServiceSettleWithNewProcedure, err)
	}
	ev, st, err := s.engine.SettleWithNew(ctx, middleware.SessionFrom(ctx), req.Msg.ExistingID, req.Msg.Standby.ledgerInput(), res)
	if err != nil {
		return nil, s.fail(StandbyServiceSettleWithNewProcedure, err)
	}
	return connect.NewResponse(&AddStandbyResponse{Standby: ev, Settlement: st}), nil
}

// UnsettleGroup returns both members of a settlement to the active lists.
func (s *StandbyService) UnsettleGroup(ctx context.Context, req *connect.Request[UnsettleGroupRequest]) (*connect.Response[UnsettleGroupResponse], error) {
	ids, err := s.engine.Unsettle(ctx, middleware.SessionFrom(ctx), req.Msg.GroupID, req.Msg.Confirmed)
	if err != nil {
		return nil, s.fail(StandbyServiceUnsettleGroupProcedure, err)
	}
	return connect.NewResponse(&UnsettleGroupResponse{Unsettled: ids}), nil
}

// DeleteStandby soft deletes a standby, unsettling its partner.
func (s *StandbyService) DeleteStandby(ctx context.Context, req *connect.Request[DeleteStandbyRequest]) (*connect.Response[DeleteResponse], error) {
	sess := middleware.SessionFrom(ctx)
	res, err := s.engine.SoftDelete(ctx, sess, req.Msg.ID, req.Msg.Confirmed)
	if err != nil {
		return nil, s.fail(StandbyServiceDeleteStandbyProcedure, err)
	}
	if len(res.Unsettled) > 0 {
		s.logger.Info("Partner unsettled by delete", "user_id", sess.UserID, "standby_id", req.Msg.ID, "unsettled", res.Unsettled)
	}
	return connect.NewResponse(&DeleteResponse{Result: *res}), nil
}

// DeletePair soft deletes both members of a settlement.
func (s *StandbyService) DeletePair(ctx context.Context, req *connect.Request[DeletePairRequest]) (*connect.Response[DeleteResponse], error) {
	res, err := s.engine.DeletePair(ctx, middleware.SessionFrom(ctx), req.Msg.GroupID, req.Msg.Confirmed)
	if err != nil {
		return nil, s.fail(StandbyServiceDeletePairProcedure, err)
	}
	return connect.NewResponse(&DeleteResponse{Result: *res}), nil
}

// RestoreStandby brings a deleted standby back as active.
func (s *StandbyService) RestoreStandby(ctx context.Context, req *connect.Request[RestoreStandbyRequest]) (*connect.Response[RestoreStandbyResponse], error) {
	ev, err := s.engine.Restore(ctx, middleware.SessionFrom(ctx), req.Msg.ID)
	if err != nil {
		return nil, s.fail(StandbyServiceRestoreStandbyProcedure, err)
	}
	return connect.NewResponse(&RestoreStandbyResponse{Standby: ev}), nil
}

// RestorePair restores the deleted members of a former settlement.
func (s *StandbyService) RestorePair(ctx context.Context, req *connect.Request[RestorePairRequest]) (*connect.Response[RestorePairResponse], error) {
	ids, err := s.engine.RestorePair(ctx, middleware.SessionFrom(ctx), req.Msg.GroupID)
	if err != nil {
		return nil, s.fail(StandbyServiceRestorePairProcedure, err)
	}
	return connect.NewResponse(&RestorePairResponse{Restored: ids}), nil
}

// ListCandidates lists the standbys that could settle the given one.
func (s *StandbyService) ListCandidates(ctx context.Context, req *connect.Request[ListCandidatesRequest]) (*connect.Response[ListCandidatesResponse], error) {
	out, err := s.engine.Candidates(ctx, middleware.SessionFrom(ctx), req.Msg.ID)
	if err != nil {
		return nil, s.fail(StandbyServiceListCandidatesProcedure, err)
	}
	return connect.NewResponse(&ListCandidatesResponse{Candidates: out}), nil
}

// SuggestNames autocompletes counterparty names.
func (s *StandbyService) SuggestNames(ctx context.Context, req *connect.Request[SuggestNamesRequest]) (*connect.Response[SuggestNamesResponse], error) {
	limit := req.Msg.Limit
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	names := s.engine.SuggestNames(ctx, middleware.SessionFrom(ctx), req.Msg.Prefix, limit)
	return connect.NewResponse(&SuggestNamesResponse{Names: names}), nil
}

// ListOverlay returns the roster for a date range with the caller's live
// standbys placed on it.
func (s *StandbyService) ListOverlay(ctx context.Context, req *connect.Request[ListOverlayRequest]) (*connect.Response[ListOverlayResponse], error) {
	from, to, err := parseRange(req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, s.fail(StandbyServiceListOverlayProcedure, err)
	}
	days, err := s.roster.Range(ctx, from, to)
	if err != nil {
		return nil, s.fail(StandbyServiceListOverlayProcedure, err)
	}
	records, err := s.snapshot(ctx, middleware.SessionFrom(ctx))
	if err != nil {
		return nil, s.fail(StandbyServiceListOverlayProcedure, err)
	}
	return connect.NewResponse(&ListOverlayResponse{Days: views.Overlay(records, days)}), nil
}

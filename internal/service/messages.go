package service

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/mmynk/standbys/internal/ledger"
	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/settlement"
	"github.com/mmynk/standbys/internal/views"
)

// StandbyInput is a standby as entered on the add and edit forms.
type StandbyInput struct {
	PersonName        string `json:"person_name"`
	HomePlatoon       string `json:"home_platoon,omitempty"`
	DutyPlatoon       string `json:"duty_platoon,omitempty"`
	DutyPlatoonManual bool   `json:"duty_platoon_manual,omitempty"`
	ShiftDate         string `json:"shift_date"`
	ShiftType         string `json:"shift_type"`
	WorkedForMe       bool   `json:"worked_for_me"`
	Notes             string `json:"notes,omitempty"`
}

func (in StandbyInput) ledgerInput() ledger.Input {
	return ledger.Input{
		PersonName:        in.PersonName,
		HomePlatoon:       in.HomePlatoon,
		DutyPlatoon:       in.DutyPlatoon,
		DutyPlatoonManual: in.DutyPlatoonManual,
		ShiftDate:         in.ShiftDate,
		ShiftType:         in.ShiftType,
		WorkedForMe:       in.WorkedForMe,
		Notes:             in.Notes,
	}
}

// ResolutionInput picks how a settlement is annotated: "typo" (or empty),
// "three_way", or "other" with a note.
type ResolutionInput struct {
	Kind string `json:"kind,omitempty"`
	Note string `json:"note,omitempty"`
}

// StandbyView is a record with its derived display text.
type StandbyView struct {
	Standby    models.StandbyEvent `json:"standby"`
	Status     models.Status       `json:"status"`
	StatusText string              `json:"status_text"`
	Narrative  string              `json:"narrative"`
	PartnerID  string              `json:"partner_id,omitempty"`
}

// HistoryGroup is a settled pair, or a single record, in a history list.
type HistoryGroup struct {
	GroupID string        `json:"group_id,omitempty"`
	Items   []StandbyView `json:"items"`
	SortKey *time.Time    `json:"sort_key,omitempty"`
}

// PositionView is the balance shown on the dashboard.
type PositionView struct {
	OwedToMe int `json:"owed_to_me"`
	IOwe     int `json:"i_owe"`
	Net      int `json:"net"`
}

func positionView(p views.Position) PositionView {
	return PositionView{OwedToMe: p.OwedToMe, IOwe: p.IOwe, Net: p.Net()}
}

type AddStandbyRequest struct {
	Standby StandbyInput `json:"standby"`
	// LinkTo settles the new record with this existing one.
	LinkTo     string          `json:"link_to,omitempty"`
	Resolution ResolutionInput `json:"resolution"`
}

type AddStandbyResponse struct {
	Standby    *models.StandbyEvent `json:"standby"`
	Settlement *models.Settlement   `json:"settlement,omitempty"`
}

type EditStandbyRequest struct {
	ID      string       `json:"id"`
	Standby StandbyInput `json:"standby"`
}

type EditStandbyResponse struct {
	Standby *models.StandbyEvent `json:"standby"`
}

type GetStandbyRequest struct {
	ID string `json:"id"`
}

type GetStandbyResponse struct {
	Standby StandbyView          `json:"standby"`
	Partner *models.StandbyEvent `json:"partner,omitempty"`
}

type ListStandbysRequest struct {
	Category string `json:"category"`
}

type ListStandbysResponse struct {
	Category string        `json:"category"`
	Items    []StandbyView `json:"items"`
	// History is set for the history categories only.
	History  []HistoryGroup `json:"history,omitempty"`
	Position PositionView   `json:"position"`
}

type GetPositionRequest struct{}

type GetPositionResponse struct {
	Position PositionView          `json:"position"`
	People   []views.PersonBalance `json:"people"`
}

type SettleStandbysRequest struct {
	AID        string          `json:"a_id"`
	BID        string          `json:"b_id"`
	Resolution ResolutionInput `json:"resolution"`
}

type SettleStandbysResponse struct {
	Settlement *models.Settlement `json:"settlement"`
}

type SettleWithNewRequest struct {
	ExistingID string          `json:"existing_id"`
	Standby    StandbyInput    `json:"standby"`
	Resolution ResolutionInput `json:"resolution"`
}

type UnsettleGroupRequest struct {
	GroupID   string `json:"group_id"`
	Confirmed bool   `json:"confirmed"`
}

type UnsettleGroupResponse struct {
	Unsettled []string `json:"unsettled"`
}

type DeleteStandbyRequest struct {
	ID        string `json:"id"`
	Confirmed bool   `json:"confirmed"`
}

type DeletePairRequest struct {
	GroupID   string `json:"group_id"`
	Confirmed bool   `json:"confirmed"`
}

type DeleteResponse struct {
	Result settlement.DeleteResult `json:"result"`
}

type RestoreStandbyRequest struct {
	ID string `json:"id"`
}

type RestoreStandbyResponse struct {
	Standby *models.StandbyEvent `json:"standby"`
}

type RestorePairRequest struct {
	GroupID string `json:"group_id"`
}

type RestorePairResponse struct {
	Restored []string `json:"restored"`
}

type ListCandidatesRequest struct {
	ID string `json:"id"`
}

type ListCandidatesResponse struct {
	Candidates []settlement.Candidate `json:"candidates"`
}

type SuggestNamesRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit,omitempty"`
}

type SuggestNamesResponse struct {
	Names []string `json:"names"`
}

type ListOverlayRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ListOverlayResponse struct {
	Days []views.OverlayDay `json:"days"`
}

type PlatoonOnDutyRequest struct {
	Date      string `json:"date"`
	ShiftType string `json:"shift_type"`
}

type PlatoonOnDutyResponse struct {
	Platoon string `json:"platoon"`
	Label   string `json:"label"`
}

type RosterRangeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type RosterRangeResponse struct {
	Days []models.RosterDay `json:"days"`
}

// UserView is a user without credentials.
type UserView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	HomePlatoon string    `json:"home_platoon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func userView(u *models.User) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		HomePlatoon: u.HomePlatoon,
		CreatedAt:   time.Unix(u.CreatedAt, 0).UTC(),
	}
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	HomePlatoon string `json:"home_platoon,omitempty"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User      UserView  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type MeRequest struct{}

type MeResponse struct {
	User UserView `json:"user"`
}

// parseRange reads a from/to pair of YYYY-MM-DD dates.
func parseRange(from, to string) (civil.Date, civil.Date, error) {
	f, err := civil.ParseDate(from)
	if err != nil {
		return civil.Date{}, civil.Date{}, &ledger.ValidationError{Field: "from", Message: "not a date"}
	}
	t, err := civil.ParseDate(to)
	if err != nil {
		return civil.Date{}, civil.Date{}, &ledger.ValidationError{Field: "to", Message: "not a date"}
	}
	return f, t, nil
}

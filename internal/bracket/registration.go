package bracket

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

type RegistrationType string

const (
	IndividualRegistration RegistrationType = "individual"
	TeamRegistration       RegistrationType = "team"
)

// Registration is a request to join an unstarted tournament. Individual
// registrations fill the player roster, team registrations the team list.
type Registration struct {
	ID     uuid.UUID          `json:"id"`
	Type   RegistrationType   `json:"type"`
	Status RegistrationStatus `json:"status"`

	EntrantID string `json:"entrantId,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`

	TeamID      string   `json:"teamId,omitempty"`
	TeamName    string   `json:"teamName,omitempty"`
	MemberIDs   []string `json:"memberIds,omitempty"`
	MemberNames []string `json:"memberNames,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type Registrations []Registration

func (r Registrations) Index(id uuid.UUID) int {
	for i, reg := range r {
		if reg.ID == id {
			return i
		}
	}
	return -1
}

// Holds reports whether a live (pending or approved) registration already
// claims the entrant or team id.
func (r Registrations) Holds(id string) bool {
	for _, reg := range r {
		if reg.Status == RegistrationRejected {
			continue
		}
		if reg.EntrantID == id || reg.TeamID == id {
			return true
		}
	}
	return false
}

func (r Registration) rawEntrant() *RawEntrant {
	return &RawEntrant{ID: r.EntrantID, Name: r.Name, Email: r.Email}
}

func (r Registration) rawTeam() *RawTeam {
	return &RawTeam{ID: r.TeamID, Name: r.TeamName, MemberIDs: r.MemberIDs, MemberNames: r.MemberNames}
}

// Admit adds an approved registration to the roster matching the tournament
// kind, normalising it on the way in. Records that normalise to nothing are
// dropped.
func (t *Tournament) Admit(reg Registration) {
	switch reg.Type {
	case IndividualRegistration:
		for _, e := range NormalizeEntrants([]*RawEntrant{reg.rawEntrant()}) {
			if _, ok := t.Players.Find(e.ID); !ok {
				t.Players = append(t.Players, e)
			}
		}
	case TeamRegistration:
		for _, team := range NormalizeTeams([]*RawTeam{reg.rawTeam()}) {
			if _, ok := t.Teams.Find(team.ID); !ok {
				t.Teams = append(t.Teams, team)
			}
		}
	}
}

// Register adds a pending registration. Elimination tournaments take
// individual entrants, round-robins take complete teams.
func Register(t Tournament, reg Registration) (Tournament, error) {
	if t.Status != TournamentUnstarted {
		return t, Validationf("registration for tournament %s is closed", t.ID)
	}

	reg.EntrantID = strings.TrimSpace(reg.EntrantID)
	reg.TeamID = strings.TrimSpace(reg.TeamID)
	if IsByeID(reg.EntrantID) || IsByeID(reg.TeamID) {
		return t, Validationf("ids starting with %q are reserved", ByePrefix)
	}

	var id string
	switch t.Kind {
	case Elimination:
		if reg.Type != IndividualRegistration || reg.EntrantID == "" {
			return t, Validationf("elimination tournaments take individual registrations with an entrant id")
		}
		id = reg.EntrantID
		if _, ok := t.Players.Find(id); ok {
			return t, Validationf("entrant %s is already registered", id)
		}
	case RoundRobin:
		if reg.Type != TeamRegistration || reg.TeamID == "" {
			return t, Validationf("round-robin tournaments take team registrations with a team id")
		}
		teams := NormalizeTeams([]*RawTeam{reg.rawTeam()})
		if len(teams) != 1 || len(teams[0].MemberIDs) != TeamSize {
			return t, &InvalidTeamSizeError{Teams: []string{displayName(reg.TeamName, "", reg.TeamID)}}
		}
		id = reg.TeamID
		if _, ok := t.Teams.Find(id); ok {
			return t, Validationf("team %s is already registered", id)
		}
	default:
		return t, Validationf("unknown tournament kind %q", t.Kind)
	}
	if t.Registrations.Holds(id) {
		return t, Validationf("%s already has a registration", id)
	}

	reg.Status = RegistrationPending
	next := t.Clone()
	next.Registrations = append(next.Registrations, reg)
	return next, nil
}

// Decide approves or rejects a pending registration. Approved entrants join
// the roster straight away.
func Decide(t Tournament, regID uuid.UUID, approve bool) (Tournament, error) {
	if t.Status != TournamentUnstarted {
		return t, Validationf("registration for tournament %s is closed", t.ID)
	}
	idx := t.Registrations.Index(regID)
	if idx < 0 {
		return t, fmt.Errorf("registration %s: %w", regID, ErrNotFound)
	}
	if t.Registrations[idx].Status != RegistrationPending {
		return t, Validationf("registration %s is already %s", regID, t.Registrations[idx].Status)
	}

	next := t.Clone()
	reg := &next.Registrations[idx]
	if !approve {
		reg.Status = RegistrationRejected
		return next, nil
	}
	reg.Status = RegistrationApproved
	next.Admit(*reg)
	return next, nil
}

// Pending lists the registrations still awaiting a decision.
func (r Registrations) Pending() Registrations {
	var out Registrations
	for _, reg := range r {
		if reg.Status == RegistrationPending {
			out = append(out, reg)
		}
	}
	return out
}

package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentUnstarted  TournamentStatus = "unstarted"
	TournamentInProgress TournamentStatus = "in_progress"
	TournamentCompleted  TournamentStatus = "completed"
)

type TournamentKind string

const (
	Elimination TournamentKind = "elimination"
	RoundRobin  TournamentKind = "round_robin"
)

func (k TournamentKind) Valid() bool {
	return k == Elimination || k == RoundRobin
}

// Tournament is the single document persisted per tournament. Players is only
// populated for Elimination and Teams only for RoundRobin.
type Tournament struct {
	ID      uuid.UUID `db:"id" json:"id"`
	OwnerID uuid.UUID `db:"owner_id" json:"ownerId"`
	Name    string    `db:"name" json:"name"`

	Kind   TournamentKind   `db:"kind" json:"kind"`
	Status TournamentStatus `db:"status" json:"status"`

	Players       Roster        `db:"players" json:"players"`
	Teams         TeamList      `db:"teams" json:"teams"`
	Registrations Registrations `db:"registrations" json:"registrations"`
	Matchups      Ledger        `db:"matchups" json:"matchups"`

	CurrentRound int     `db:"current_round" json:"currentRound"`
	ChampionID   *string `db:"champion_id" json:"championId"`
	ChampionName *string `db:"champion_name" json:"championName"`

	// Revision counter used for compare-and-swap writes
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Clone returns a copy whose slices can be mutated without touching t.
func (t Tournament) Clone() Tournament {
	c := t
	c.Players = append(Roster(nil), t.Players...)
	c.Teams = make(TeamList, len(t.Teams))
	for i, team := range t.Teams {
		team.MemberIDs = append([]string(nil), team.MemberIDs...)
		team.MemberNames = append([]string(nil), team.MemberNames...)
		c.Teams[i] = team
	}
	c.Registrations = make(Registrations, len(t.Registrations))
	for i, reg := range t.Registrations {
		reg.MemberIDs = append([]string(nil), reg.MemberIDs...)
		reg.MemberNames = append([]string(nil), reg.MemberNames...)
		c.Registrations[i] = reg
	}
	c.Matchups = t.Matchups.Clone()
	if t.ChampionID != nil {
		id := *t.ChampionID
		c.ChampionID = &id
	}
	if t.ChampionName != nil {
		name := *t.ChampionName
		c.ChampionName = &name
	}
	return c
}

func (t *Tournament) crown(id, name string) {
	t.Status = TournamentCompleted
	t.ChampionID = &id
	t.ChampionName = &name
}

func (t *Tournament) uncrown() {
	if t.Status == TournamentCompleted {
		t.Status = TournamentInProgress
	}
	t.ChampionID = nil
	t.ChampionName = nil
}

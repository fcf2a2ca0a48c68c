package bracket

import (
	"strings"
	"time"
)

// ByePrefix marks the synthetic opponent id of a bye matchup.
const ByePrefix = "bye-"

const ByeName = "BYE"

type Matchup struct {
	Round       int `json:"round"`
	MatchNumber int `json:"matchNumber"`

	Side1ID   string `json:"side1Id"`
	Side2ID   string `json:"side2Id"`
	Side1Name string `json:"side1Name"`
	Side2Name string `json:"side2Name"`

	Completed bool    `json:"completed"`
	WinnerID  *string `json:"winnerId"`

	ScheduledTime *string    `json:"scheduledTime"`
	ScheduledAt   *time.Time `json:"scheduledAt,omitempty"`

	IsBye bool `json:"isBye"`

	// Round-robin sub-match fields, set when the matchup is one of the five
	// player games of a team pairing.
	PlayerMatchNumber int    `json:"playerMatchNumber,omitempty"`
	Player1ID         string `json:"player1Id,omitempty"`
	Player2ID         string `json:"player2Id,omitempty"`
	Player1Name       string `json:"player1Name,omitempty"`
	Player2Name       string `json:"player2Name,omitempty"`
}

// MatchKey identifies a matchup inside a ledger.
type MatchKey struct {
	Side1ID     string `json:"side1Id"`
	Side2ID     string `json:"side2Id"`
	Round       int    `json:"round"`
	MatchNumber int    `json:"matchNumber"`
}

func (m Matchup) Key() MatchKey {
	return MatchKey{Side1ID: m.Side1ID, Side2ID: m.Side2ID, Round: m.Round, MatchNumber: m.MatchNumber}
}

func (m Matchup) HasSide(id string) bool {
	return id != "" && (m.Side1ID == id || m.Side2ID == id)
}

// SideName returns the name stored for the given side id.
func (m Matchup) SideName(id string) string {
	switch id {
	case m.Side1ID:
		return m.Side1Name
	case m.Side2ID:
		return m.Side2Name
	}
	return ""
}

// Opponent returns the id of the side that is not id.
func (m Matchup) Opponent(id string) string {
	if m.Side1ID == id {
		return m.Side2ID
	}
	return m.Side1ID
}

func (m Matchup) Winner() string {
	if m.WinnerID == nil {
		return ""
	}
	return *m.WinnerID
}

func (m Matchup) IsWinner(id string) bool {
	return m.Completed && m.WinnerID != nil && *m.WinnerID == id
}

// IsByeID reports whether id is a synthetic bye opponent.
func IsByeID(id string) bool {
	return strings.HasPrefix(id, ByePrefix)
}

// Ledger is the ordered sequence of every matchup of a tournament.
type Ledger []Matchup

func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	c := make(Ledger, len(l))
	for i, m := range l {
		if m.WinnerID != nil {
			w := *m.WinnerID
			m.WinnerID = &w
		}
		if m.ScheduledTime != nil {
			s := *m.ScheduledTime
			m.ScheduledTime = &s
		}
		if m.ScheduledAt != nil {
			at := *m.ScheduledAt
			m.ScheduledAt = &at
		}
		c[i] = m
	}
	return c
}

// Index returns the position of the matchup identified by key, or -1.
func (l Ledger) Index(key MatchKey) int {
	for i, m := range l {
		if m.Key() == key {
			return i
		}
	}
	return -1
}

func (l Ledger) InRound(round int) []Matchup {
	var matchups []Matchup
	for _, m := range l {
		if m.Round == round {
			matchups = append(matchups, m)
		}
	}
	return matchups
}

func (l Ledger) MaxRound() int {
	maxRound := 0
	for _, m := range l {
		if m.Round > maxRound {
			maxRound = m.Round
		}
	}
	return maxRound
}

func (l Ledger) HasRoundAfter(round int) bool {
	for _, m := range l {
		if m.Round > round {
			return true
		}
	}
	return false
}

func (l Ledger) AllCompleted() bool {
	if len(l) == 0 {
		return false
	}
	for _, m := range l {
		if !m.Completed {
			return false
		}
	}
	return true
}

func (l Ledger) CompletedCount() int {
	n := 0
	for _, m := range l {
		if m.Completed {
			n++
		}
	}
	return n
}

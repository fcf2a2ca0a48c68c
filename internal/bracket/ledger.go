package bracket

import (
	"fmt"
	"time"
)

// Outcome summarises what a recorded result changed.
type Outcome struct {
	NewlyCompleted   bool   `json:"newlyCompleted"`
	Corrected        bool   `json:"corrected"`
	PreviousWinnerID string `json:"previousWinnerId,omitempty"`
	// Later-round matchups whose side was replaced by a correction
	Cascaded     int    `json:"cascaded"`
	NextRound    int    `json:"nextRound,omitempty"`
	ChampionID   string `json:"championId,omitempty"`
	ChampionName string `json:"championName,omitempty"`
}

// Changed reports whether the ledger was touched at all.
func (o Outcome) Changed() bool {
	return o.NewlyCompleted || o.Corrected
}

func locate(t Tournament, key MatchKey) (int, error) {
	idx := t.Matchups.Index(key)
	if idx < 0 {
		return -1, &MatchNotFoundError{Key: key}
	}
	return idx, nil
}

func checkMatchup(m Matchup) error {
	if m.IsBye != IsByeID(m.Side2ID) {
		return &InvariantViolationError{
			Detail: fmt.Sprintf("matchup %s vs %s in round %d has isBye=%t", m.Side1ID, m.Side2ID, m.Round, m.IsBye),
		}
	}
	if !m.Completed {
		return nil
	}
	if m.WinnerID == nil || !m.HasSide(*m.WinnerID) {
		return &InvariantViolationError{
			Detail: fmt.Sprintf("completed matchup %s vs %s in round %d has winner %q outside its sides",
				m.Side1ID, m.Side2ID, m.Round, m.Winner()),
		}
	}
	return nil
}

// SetWinner records winnerID as the winner of the matchup identified by key.
// Recording the same winner again changes nothing. Changing the winner of an
// elimination matchup replaces the old winner in later rounds, reopening any
// of those matchups that were already decided, and revokes the champion.
// Only one level is replaced; matchups downstream of a reopened one are left
// as they are.
func SetWinner(t Tournament, key MatchKey, winnerID string) (Tournament, Outcome, error) {
	var out Outcome

	if t.Status == TournamentUnstarted {
		return t, out, Validationf("tournament %s has not started", t.ID)
	}
	if t.Kind == RoundRobin && t.Status == TournamentCompleted {
		return t, out, Validationf("tournament %s is already completed", t.ID)
	}

	idx, err := locate(t, key)
	if err != nil {
		return t, out, err
	}
	current := t.Matchups[idx]
	if err := checkMatchup(current); err != nil {
		return t, out, err
	}
	if current.IsBye {
		return t, out, Validationf("bye matchups are decided automatically")
	}
	if !current.HasSide(winnerID) {
		return t, out, &WinnerNotInMatchError{Key: key, WinnerID: winnerID}
	}
	if current.IsWinner(winnerID) {
		return t, out, nil
	}

	next := t.Clone()
	m := &next.Matchups[idx]
	previous := m.Winner()
	wasCompleted := m.Completed

	winner := winnerID
	m.Completed = true
	m.WinnerID = &winner

	if !wasCompleted {
		out.NewlyCompleted = true
		return next, out, nil
	}

	out.Corrected = true
	out.PreviousWinnerID = previous
	if next.Kind != Elimination {
		return next, out, nil
	}

	winnerName := m.SideName(winnerID)
	for j := range next.Matchups {
		later := &next.Matchups[j]
		if later.Round <= key.Round {
			continue
		}
		switch previous {
		case later.Side1ID:
			later.Side1ID, later.Side1Name = winnerID, winnerName
		case later.Side2ID:
			later.Side2ID, later.Side2Name = winnerID, winnerName
		default:
			continue
		}
		out.Cascaded++

		if later.IsBye {
			// A bye stays decided in favour of whoever holds it
			id := later.Side1ID
			later.WinnerID = &id
			continue
		}
		if later.Completed {
			later.Completed = false
			later.WinnerID = nil
		}
	}
	next.uncrown()

	return next, out, nil
}

// SetScheduledTime stores the free-form time text of a matchup, and the
// parsed instant when one is known.
func SetScheduledTime(t Tournament, key MatchKey, text string, at *time.Time) (Tournament, error) {
	idx, err := locate(t, key)
	if err != nil {
		return t, err
	}

	next := t.Clone()
	m := &next.Matchups[idx]
	if text == "" {
		m.ScheduledTime = nil
		m.ScheduledAt = nil
		return next, nil
	}
	m.ScheduledTime = &text
	if at != nil {
		utc := at.UTC()
		m.ScheduledAt = &utc
	} else {
		m.ScheduledAt = nil
	}
	return next, nil
}

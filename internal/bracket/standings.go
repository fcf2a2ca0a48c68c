package bracket

import (
	"cmp"
	"slices"
	"strconv"
)

type EntrantStatus string

const (
	StatusActive     EntrantStatus = "active"
	StatusEliminated EntrantStatus = "eliminated"
	StatusChampion   EntrantStatus = "champion"
)

// RoundName labels a round counting back from the last one.
func RoundName(round, totalRounds int) string {
	switch round {
	case totalRounds:
		return "Final"
	case totalRounds - 1:
		return "Semi-Final"
	case totalRounds - 2:
		return "Quarter-Final"
	case 1:
		return "First Round"
	}
	return "Round " + strconv.Itoa(round)
}

type PlayerStanding struct {
	EntrantID         string        `json:"entrantId"`
	Name              string        `json:"name"`
	Status            EntrantStatus `json:"status"`
	Wins              int           `json:"wins"`
	Losses            int           `json:"losses"`
	ReachedRound      int           `json:"reachedRound"`
	EliminatedInRound int           `json:"eliminatedInRound,omitempty"`
	EliminatedBy      string        `json:"eliminatedBy,omitempty"`
}

type RoundProgress struct {
	Round            int    `json:"round"`
	Name             string `json:"name"`
	TotalMatches     int    `json:"totalMatches"`
	CompletedMatches int    `json:"completedMatches"`
}

type MatchRecord struct {
	Round      int    `json:"round"`
	RoundName  string `json:"roundName"`
	WinnerID   string `json:"winnerId"`
	WinnerName string `json:"winnerName"`
	LoserID    string `json:"loserId"`
	LoserName  string `json:"loserName"`
}

type EliminationStandings struct {
	Players     []PlayerStanding `json:"players"`
	Rounds      []RoundProgress  `json:"rounds"`
	History     []MatchRecord    `json:"history"`
	TotalRounds int              `json:"totalRounds"`
	IsComplete  bool             `json:"isComplete"`
	Champion    *PlayerStanding  `json:"champion,omitempty"`
}

// ComputeEliminationStandings folds every decided non-bye matchup into a
// ranking of the entrants. Entrants that are not in the roster are ignored.
func ComputeEliminationStandings(entrants []Entrant, ledger Ledger) EliminationStandings {
	players := make([]PlayerStanding, len(entrants))
	byID := make(map[string]*PlayerStanding, len(entrants))
	for i, e := range entrants {
		players[i] = PlayerStanding{
			EntrantID:    e.ID,
			Name:         e.DisplayName,
			Status:       StatusActive,
			ReachedRound: 1,
		}
		byID[e.ID] = &players[i]
	}

	totalRounds := max(ledger.MaxRound(), 1)
	res := EliminationStandings{TotalRounds: totalRounds}
	for r := 1; r <= totalRounds; r++ {
		round := ledger.InRound(r)
		res.Rounds = append(res.Rounds, RoundProgress{
			Round:            r,
			Name:             RoundName(r, totalRounds),
			TotalMatches:     len(round),
			CompletedMatches: Ledger(round).CompletedCount(),
		})
	}

	completed := 0
	for _, m := range ledger {
		if !m.Completed || m.WinnerID == nil || m.IsBye {
			continue
		}
		completed++

		winnerID := m.Winner()
		loserID := m.Opponent(winnerID)
		winnerName := m.SideName(winnerID)
		res.History = append(res.History, MatchRecord{
			Round:      m.Round,
			RoundName:  RoundName(m.Round, totalRounds),
			WinnerID:   winnerID,
			WinnerName: winnerName,
			LoserID:    loserID,
			LoserName:  m.SideName(loserID),
		})

		if w, ok := byID[winnerID]; ok {
			w.Wins++
			w.ReachedRound = max(w.ReachedRound, m.Round+1)
		}
		if l, ok := byID[loserID]; ok {
			l.Losses++
			l.Status = StatusEliminated
			l.EliminatedInRound = m.Round
			l.EliminatedBy = winnerName
			l.ReachedRound = m.Round
		}
	}
	slices.Reverse(res.History)

	active := 0
	var last *PlayerStanding
	for i := range players {
		if players[i].Status == StatusActive {
			active++
			last = &players[i]
		}
	}
	if active == 1 && completed > 0 {
		last.Status = StatusChampion
	}
	res.IsComplete = active <= 1 && completed > 0

	slices.SortStableFunc(players, func(a, b PlayerStanding) int {
		if a.Status == StatusChampion || b.Status == StatusChampion {
			if a.Status == b.Status {
				return 0
			}
			if a.Status == StatusChampion {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b.ReachedRound, a.ReachedRound); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	res.Players = players
	if len(players) > 0 && players[0].Status == StatusChampion {
		champ := players[0]
		res.Champion = &champ
	}
	return res
}

// HeadToHead is one team's series record against one opponent.
type HeadToHead struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Played int `json:"played"`
	// "W", "L" or empty while level
	Result string `json:"result"`
}

type TeamStanding struct {
	TeamID           string                `json:"teamId"`
	Name             string                `json:"name"`
	Points           float64               `json:"points"`
	TotalWins        int                   `json:"totalWins"`
	TotalMatches     int                   `json:"totalMatches"`
	IndividualWins   int                   `json:"individualWins"`
	IndividualLosses int                   `json:"individualLosses"`
	Results          map[string]HeadToHead `json:"results"`
}

type RoundRobinStandings struct {
	Teams            []TeamStanding `json:"teams"`
	TotalMatches     int            `json:"totalMatches"`
	CompletedMatches int            `json:"completedMatches"`
	IsComplete       bool           `json:"isComplete"`
	Champion         *TeamStanding  `json:"champion,omitempty"`
}

type pairing struct {
	team1, team2         string
	team1Wins, team2Wins int
	completed            int
}

// PairingPoints splits the points of one team pairing given how many of its
// games are decided. A decided series is worth 2 points to the majority
// winner; an unfinished one is worth a share of 2 proportional to the games
// played, split 60/40 toward the leader or evenly when level.
func PairingPoints(team1Wins, team2Wins, completed int) (float64, float64) {
	if completed <= 0 {
		return 0, 0
	}
	if completed >= TeamSize {
		switch {
		case team1Wins > team2Wins:
			return 2, 0
		case team2Wins > team1Wins:
			return 0, 2
		}
		return 1, 1
	}

	progress := float64(completed) / TeamSize * 2
	switch {
	case team1Wins > team2Wins:
		return progress * 0.6, progress * 0.4
	case team2Wins > team1Wins:
		return progress * 0.4, progress * 0.6
	}
	return progress * 0.5, progress * 0.5
}

// ComputeRoundRobinStandings aggregates the player games of every team
// pairing into a points table.
func ComputeRoundRobinStandings(teams []Team, ledger Ledger) RoundRobinStandings {
	table := make([]TeamStanding, len(teams))
	byID := make(map[string]*TeamStanding, len(teams))
	for i, t := range teams {
		table[i] = TeamStanding{TeamID: t.ID, Name: t.Name, Results: map[string]HeadToHead{}}
		byID[t.ID] = &table[i]
	}

	var order []string
	pairings := map[string]*pairing{}
	completed := 0
	for _, m := range ledger {
		if !m.Completed || m.WinnerID == nil {
			continue
		}
		completed++

		key := pairingKey(m.Side1ID, m.Side2ID)
		p, ok := pairings[key]
		if !ok {
			p = &pairing{team1: m.Side1ID, team2: m.Side2ID}
			pairings[key] = p
			order = append(order, key)
		}
		p.completed++

		winner := m.Winner()
		loser := m.Opponent(winner)
		if winner == p.team1 {
			p.team1Wins++
		} else {
			p.team2Wins++
		}
		if s, ok := byID[winner]; ok {
			s.IndividualWins++
		}
		if s, ok := byID[loser]; ok {
			s.IndividualLosses++
		}
	}

	for _, key := range order {
		p := pairings[key]
		t1, ok1 := byID[p.team1]
		t2, ok2 := byID[p.team2]
		if !ok1 || !ok2 {
			continue
		}

		t1.Results[p.team2] = headToHead(p.team1Wins, p.team2Wins)
		t2.Results[p.team1] = headToHead(p.team2Wins, p.team1Wins)

		pts1, pts2 := PairingPoints(p.team1Wins, p.team2Wins, p.completed)
		t1.Points += pts1
		t2.Points += pts2

		if p.completed >= TeamSize {
			t1.TotalMatches++
			t2.TotalMatches++
			switch {
			case p.team1Wins > p.team2Wins:
				t1.TotalWins++
			case p.team2Wins > p.team1Wins:
				t2.TotalWins++
			}
		}
	}

	slices.SortStableFunc(table, func(a, b TeamStanding) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalWins, a.TotalWins); c != 0 {
			return c
		}
		return cmp.Compare(b.IndividualWins, a.IndividualWins)
	})

	res := RoundRobinStandings{
		Teams:            table,
		TotalMatches:     len(ledger),
		CompletedMatches: completed,
		IsComplete:       ledger.AllCompleted(),
	}
	if res.IsComplete && len(table) > 0 {
		champ := table[0]
		res.Champion = &champ
	}
	return res
}

func headToHead(wins, losses int) HeadToHead {
	h := HeadToHead{Wins: wins, Losses: losses, Played: 1}
	switch {
	case wins > losses:
		h.Result = "W"
	case losses > wins:
		h.Result = "L"
	}
	return h
}

func pairingKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

package bracket

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// stubRand never shuffles and always picks the same index.
type stubRand struct {
	pick int
}

func (s stubRand) Shuffle(int, func(i, j int)) {}

func (s stubRand) IntN(n int) int { return s.pick % n }

var fixedNow = time.UnixMilli(1700000000000)

func newTestEngine(rng Randomizer) *Engine {
	return NewEngine(rng, WithClock(func() time.Time { return fixedNow }))
}

func newElimination(names ...string) Tournament {
	t := Tournament{ID: uuid.New(), Name: "Cup", Kind: Elimination, Status: TournamentUnstarted}
	for _, n := range names {
		t.Players = append(t.Players, Entrant{ID: strings.ToLower(n), DisplayName: n})
	}
	return t
}

func makeTeam(id string) Team {
	team := Team{ID: id, Name: "Team " + strings.ToUpper(id)}
	for k := 1; k <= TeamSize; k++ {
		team.MemberIDs = append(team.MemberIDs, id+"-"+strconv.Itoa(k))
	}
	return team
}

func newRoundRobin(ids ...string) Tournament {
	t := Tournament{ID: uuid.New(), Name: "League", Kind: RoundRobin, Status: TournamentUnstarted}
	for _, id := range ids {
		t.Teams = append(t.Teams, makeTeam(id))
	}
	return t
}

func findMatch(l Ledger, round int, side string) Matchup {
	for _, m := range l {
		if m.Round == round && m.HasSide(side) {
			return m
		}
	}
	return Matchup{}
}

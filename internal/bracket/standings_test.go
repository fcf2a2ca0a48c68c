package bracket

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundName(t *testing.T) {
	testCases := []struct {
		round, total int
		expected     string
	}{
		{1, 1, "Final"},
		{3, 3, "Final"},
		{2, 3, "Semi-Final"},
		{1, 3, "Quarter-Final"},
		{1, 5, "First Round"},
		{2, 5, "Round 2"},
		{3, 5, "Quarter-Final"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, RoundName(tc.round, tc.total), "round %d of %d", tc.round, tc.total)
	}
}

func TestEliminationStandings(t *testing.T) {
	engine := newTestEngine(stubRand{})
	tour, err := engine.Start(newElimination("Ann", "Bob", "Cid", "Dee"))
	require.NoError(t, err)
	tour = playRound(t, engine, tour, "ann", "cid")
	tour = playRound(t, engine, tour, "ann")

	res := ComputeEliminationStandings(tour.Players, tour.Matchups)

	expected := []PlayerStanding{
		{EntrantID: "ann", Name: "Ann", Status: StatusChampion, Wins: 2, ReachedRound: 3},
		{EntrantID: "cid", Name: "Cid", Status: StatusEliminated, Wins: 1, Losses: 1, ReachedRound: 2, EliminatedInRound: 2, EliminatedBy: "Ann"},
		{EntrantID: "bob", Name: "Bob", Status: StatusEliminated, Losses: 1, ReachedRound: 1, EliminatedInRound: 1, EliminatedBy: "Ann"},
		{EntrantID: "dee", Name: "Dee", Status: StatusEliminated, Losses: 1, ReachedRound: 1, EliminatedInRound: 1, EliminatedBy: "Cid"},
	}
	if diff := cmp.Diff(expected, res.Players); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, res.IsComplete)
	assert.Equal(t, 2, res.TotalRounds)
	require.NotNil(t, res.Champion)
	assert.Equal(t, "ann", res.Champion.EntrantID)

	assert.Equal(t, []RoundProgress{
		{Round: 1, Name: "Semi-Final", TotalMatches: 2, CompletedMatches: 2},
		{Round: 2, Name: "Final", TotalMatches: 1, CompletedMatches: 1},
	}, res.Rounds)

	require.Len(t, res.History, 3)
	assert.Equal(t, MatchRecord{Round: 2, RoundName: "Final", WinnerID: "ann", WinnerName: "Ann", LoserID: "cid", LoserName: "Cid"}, res.History[0])
}

func TestEliminationStandingsSkipsByes(t *testing.T) {
	engine := newTestEngine(stubRand{})
	tour, err := engine.Start(newElimination("Ann", "Bob", "Cid"))
	require.NoError(t, err)

	res := ComputeEliminationStandings(tour.Players, tour.Matchups)

	assert.Empty(t, res.History)
	assert.False(t, res.IsComplete)
	assert.Nil(t, res.Champion)
	for _, p := range res.Players {
		assert.Equal(t, StatusActive, p.Status)
		assert.Zero(t, p.Wins)
	}
	// Ties on round and wins fall back to the name
	assert.Equal(t, []string{"Ann", "Bob", "Cid"}, []string{res.Players[0].Name, res.Players[1].Name, res.Players[2].Name})
}

func TestEliminationStandingsSingleChampion(t *testing.T) {
	engine := newTestEngine(stubRand{})
	tour, err := engine.Start(newElimination("Ann", "Bob", "Cid", "Dee"))
	require.NoError(t, err)
	tour = playRound(t, engine, tour, "ann")

	res := ComputeEliminationStandings(tour.Players, tour.Matchups)

	champions := 0
	for _, p := range res.Players {
		if p.Status == StatusChampion {
			champions++
		}
	}
	assert.Zero(t, champions, "three players are still active")
	assert.False(t, res.IsComplete)
}

func playSeries(t *testing.T, e *Engine, tour Tournament, side1Wins int, games int) Tournament {
	t.Helper()
	for i, m := range tour.Matchups[:games] {
		winner := m.Side2ID
		if i < side1Wins {
			winner = m.Side1ID
		}
		next, _, err := e.RecordResult(tour, m.Key(), winner)
		require.NoError(t, err)
		tour = next
	}
	return tour
}

func TestRoundRobinStandingsFullSeries(t *testing.T) {
	engine := newTestEngine(stubRand{})
	tour, err := engine.Start(newRoundRobin("a", "b"))
	require.NoError(t, err)
	tour = playSeries(t, engine, tour, 3, 5)

	res := ComputeRoundRobinStandings(tour.Teams, tour.Matchups)

	expected := []TeamStanding{
		{
			TeamID: "a", Name: "Team A", Points: 2, TotalWins: 1, TotalMatches: 1,
			IndividualWins: 3, IndividualLosses: 2,
			Results: map[string]HeadToHead{"b": {Wins: 3, Losses: 2, Played: 1, Result: "W"}},
		},
		{
			TeamID: "b", Name: "Team B", Points: 0, TotalWins: 0, TotalMatches: 1,
			IndividualWins: 2, IndividualLosses: 3,
			Results: map[string]HeadToHead{"a": {Wins: 2, Losses: 3, Played: 1, Result: "L"}},
		},
	}
	if diff := cmp.Diff(expected, res.Teams); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, res.IsComplete)
	assert.Equal(t, 5, res.TotalMatches)
	assert.Equal(t, 5, res.CompletedMatches)
	require.NotNil(t, res.Champion)
	assert.Equal(t, "a", res.Champion.TeamID)
}

func TestRoundRobinStandingsPartial(t *testing.T) {
	engine := newTestEngine(stubRand{})
	tour, err := engine.Start(newRoundRobin("a", "b"))
	require.NoError(t, err)
	tour = playSeries(t, engine, tour, 0, 2)

	res := ComputeRoundRobinStandings(tour.Teams, tour.Matchups)

	require.Len(t, res.Teams, 2)
	leader, trailer := res.Teams[0], res.Teams[1]
	assert.Equal(t, "b", leader.TeamID)
	assert.InDelta(t, 0.48, leader.Points, 1e-9)
	assert.InDelta(t, 0.32, trailer.Points, 1e-9)
	assert.Zero(t, leader.TotalMatches, "unfinished series do not count")
	assert.Zero(t, leader.TotalWins)
	assert.Equal(t, 2, leader.IndividualWins)
	assert.Equal(t, 2, trailer.IndividualLosses)
	assert.False(t, res.IsComplete)
	assert.Nil(t, res.Champion)
}

func TestPairingPoints(t *testing.T) {
	t.Run("decided series are worth exactly two", func(t *testing.T) {
		for w := 0; w <= TeamSize; w++ {
			p1, p2 := PairingPoints(w, TeamSize-w, TeamSize)
			assert.Equal(t, 2.0, p1+p2, "%d-%d", w, TeamSize-w)
		}
	})

	testCases := []struct {
		name         string
		w1, w2, done int
		p1, p2       float64
	}{
		{"nothing played", 0, 0, 0, 0, 0},
		{"leader after one", 1, 0, 1, 0.24, 0.16},
		{"level after two", 1, 1, 2, 0.4, 0.4},
		{"trailer after three", 1, 2, 3, 0.48, 0.72},
		{"leader after four", 3, 1, 4, 0.96, 0.64},
		{"majority of five", 3, 2, 5, 2, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p1, p2 := PairingPoints(tc.w1, tc.w2, tc.done)
			assert.InDelta(t, tc.p1, p1, 1e-9)
			assert.InDelta(t, tc.p2, p2, 1e-9)
		})
	}
}

func TestRoundRobinStandingsOrdering(t *testing.T) {
	engine := newTestEngine(stubRand{})
	tour, err := engine.Start(newRoundRobin("a", "b", "c"))
	require.NoError(t, err)

	// a sweeps everything, b beats c 4-1
	for _, m := range tour.Matchups {
		var winner string
		switch {
		case m.HasSide("a"):
			winner = "a"
		case m.PlayerMatchNumber == 1:
			winner = "c"
		default:
			winner = "b"
		}
		tour, _, err = engine.RecordResult(tour, m.Key(), winner)
		require.NoError(t, err)
	}

	res := ComputeRoundRobinStandings(tour.Teams, tour.Matchups)

	ids := []string{res.Teams[0].TeamID, res.Teams[1].TeamID, res.Teams[2].TeamID}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, 4.0, res.Teams[0].Points)
	assert.Equal(t, 2.0, res.Teams[1].Points)
	assert.Equal(t, 0.0, res.Teams[2].Points)
	assert.Equal(t, 4, res.Teams[1].IndividualWins)
	assert.Equal(t, 9, res.Teams[2].IndividualLosses)
	assert.Equal(t, "a", res.Champion.TeamID)
}

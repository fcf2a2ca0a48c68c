package report

import (
	"bytes"
	"testing"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func completedLeague() bracket.RoundRobinStandings {
	teams := []bracket.Team{
		{ID: "a", Name: "Aces", MemberIDs: []string{"a1", "a2", "a3", "a4", "a5"}},
		{ID: "b", Name: "Bats", MemberIDs: []string{"b1", "b2", "b3", "b4", "b5"}},
	}
	ledger, _ := bracket.GenerateRoundRobin(teams)
	for i := range ledger {
		winner := ledger[i].Side1ID
		if i == 4 {
			winner = ledger[i].Side2ID
		}
		ledger[i].Completed = true
		ledger[i].WinnerID = &winner
	}
	return bracket.ComputeRoundRobinStandings(teams, ledger)
}

func finishedCup() bracket.EliminationStandings {
	a, c := "a", "c"
	players := []bracket.Entrant{{ID: "a", DisplayName: "Ann"}, {ID: "b", DisplayName: "Bob"}, {ID: "c", DisplayName: "Cid"}}
	ledger := bracket.Ledger{
		{Round: 1, MatchNumber: 1, Side1ID: "a", Side2ID: "b", Side1Name: "Ann", Side2Name: "Bob", Completed: true, WinnerID: &a},
		{Round: 1, MatchNumber: 2, Side1ID: "c", Side2ID: "bye-1", Side1Name: "Cid", Side2Name: "BYE", Completed: true, WinnerID: &c, IsBye: true},
		{Round: 2, MatchNumber: 1, Side1ID: "a", Side2ID: "c", Side1Name: "Ann", Side2Name: "Cid", Completed: true, WinnerID: &a},
	}
	return bracket.ComputeEliminationStandings(players, ledger)
}

func TestBarChartPNG(t *testing.T) {
	testCases := []struct {
		name string
		bars []Bar
	}{
		{"points", RoundRobinBars(completedLeague())},
		{"wins", EliminationBars(finishedCup())},
		{"all zero", []Bar{{Label: "A"}, {Label: "B"}}},
		{"empty", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img, err := BarChartPNG("Standings", "Points", tc.bars)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(img, pngMagic))
		})
	}
}

func TestRoundRobinBars(t *testing.T) {
	bars := RoundRobinBars(completedLeague())
	assert.Equal(t, []Bar{{Label: "Aces", Value: 2}, {Label: "Bats", Value: 0}}, bars)
}

func openRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestRoundRobinWorkbook(t *testing.T) {
	data, err := RoundRobinWorkbook(completedLeague())
	require.NoError(t, err)

	rows := openRows(t, data, standingsSheet)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rank", "Team", "Points", "Series Won", "Series Played", "Games Won", "Games Lost"}, rows[0])
	assert.Equal(t, []string{"1", "Aces", "2", "1", "1", "4", "1"}, rows[1])
	assert.Equal(t, []string{"2", "Bats", "0", "0", "1", "1", "4"}, rows[2])

	grid := openRows(t, data, "Head to Head")
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"Aces", "-", "4-1 (W)"}, grid[1])
	assert.Equal(t, []string{"Bats", "1-4 (L)", "-"}, grid[2])
}

func TestEliminationWorkbook(t *testing.T) {
	data, err := EliminationWorkbook(finishedCup())
	require.NoError(t, err)

	rows := openRows(t, data, standingsSheet)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"1", "Ann", "champion", "2", "0", "Champion"}, rows[1])
	assert.Equal(t, []string{"2", "Cid", "eliminated", "0", "1", "Final", "Ann"}, rows[2])
	assert.Equal(t, []string{"3", "Bob", "eliminated", "0", "1", "Semi-Final", "Ann"}, rows[3])

	history := openRows(t, data, "History")
	require.Len(t, history, 3)
	assert.Equal(t, []string{"Final", "Ann", "Cid"}, history[1])

	rounds := openRows(t, data, "Rounds")
	assert.Equal(t, []string{"1", "Semi-Final", "2", "2"}, rounds[1])
}

func TestStandingsExportsByKind(t *testing.T) {
	tour := bracket.Tournament{Name: "Cup", Kind: bracket.Elimination}

	img, err := StandingsChart(tour)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))

	data, err := StandingsWorkbook(tour)
	require.NoError(t, err)
	assert.Len(t, openRows(t, data, standingsSheet), 1)

	tour.Kind = bracket.RoundRobin
	data, err = StandingsWorkbook(tour)
	require.NoError(t, err)
	assert.Len(t, openRows(t, data, "Head to Head"), 1)
}

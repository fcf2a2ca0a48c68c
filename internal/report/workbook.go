package report

import (
	"fmt"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/xuri/excelize/v2"
)

const standingsSheet = "Standings"

type sheet struct {
	name   string
	header []any
	rows   [][]any
}

func writeWorkbook(sheets ...sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", s.name, err)
		}

		for r, row := range append([][]any{s.header}, s.rows...) {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write sheet %q: %w", s.name, err)
			}
		}

		last, err := excelize.CoordinatesToCellName(len(s.header), 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(s.name, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func EliminationWorkbook(s bracket.EliminationStandings) ([]byte, error) {
	standings := sheet{
		name:   standingsSheet,
		header: []any{"Rank", "Player", "Status", "Wins", "Losses", "Reached", "Eliminated By"},
	}
	for i, p := range s.Players {
		reached := bracket.RoundName(p.ReachedRound, s.TotalRounds)
		if p.Status == bracket.StatusChampion {
			reached = "Champion"
		} else if p.ReachedRound > s.TotalRounds {
			reached = "Winner"
		}
		standings.rows = append(standings.rows, []any{i + 1, p.Name, string(p.Status), p.Wins, p.Losses, reached, p.EliminatedBy})
	}

	rounds := sheet{name: "Rounds", header: []any{"Round", "Name", "Matches", "Completed"}}
	for _, r := range s.Rounds {
		rounds.rows = append(rounds.rows, []any{r.Round, r.Name, r.TotalMatches, r.CompletedMatches})
	}

	history := sheet{name: "History", header: []any{"Round", "Winner", "Loser"}}
	for _, m := range s.History {
		history.rows = append(history.rows, []any{m.RoundName, m.WinnerName, m.LoserName})
	}

	return writeWorkbook(standings, rounds, history)
}

func RoundRobinWorkbook(s bracket.RoundRobinStandings) ([]byte, error) {
	standings := sheet{
		name:   standingsSheet,
		header: []any{"Rank", "Team", "Points", "Series Won", "Series Played", "Games Won", "Games Lost"},
	}
	for i, t := range s.Teams {
		standings.rows = append(standings.rows, []any{i + 1, t.Name, t.Points, t.TotalWins, t.TotalMatches, t.IndividualWins, t.IndividualLosses})
	}

	grid := sheet{name: "Head to Head", header: []any{"Team"}}
	for _, t := range s.Teams {
		grid.header = append(grid.header, t.Name)
	}
	for _, t := range s.Teams {
		row := []any{t.Name}
		for _, opp := range s.Teams {
			h, ok := t.Results[opp.TeamID]
			if opp.TeamID == t.TeamID || !ok || h.Played == 0 {
				row = append(row, "-")
				continue
			}
			cell := fmt.Sprintf("%d-%d", h.Wins, h.Losses)
			if h.Result != "" {
				cell += " (" + h.Result + ")"
			}
			row = append(row, cell)
		}
		grid.rows = append(grid.rows, row)
	}

	return writeWorkbook(standings, grid)
}

// StandingsWorkbook picks the workbook matching the tournament kind.
func StandingsWorkbook(t bracket.Tournament) ([]byte, error) {
	if t.Kind == bracket.RoundRobin {
		return RoundRobinWorkbook(bracket.ComputeRoundRobinStandings(t.Teams, t.Matchups))
	}
	return EliminationWorkbook(bracket.ComputeEliminationStandings(t.Players, t.Matchups))
}

package report

import (
	"bytes"
	"fmt"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var palette = []drawing.Color{
	drawing.ColorFromHex("FF6384"),
	drawing.ColorFromHex("36A2EB"),
	drawing.ColorFromHex("FFCE56"),
	drawing.ColorFromHex("4BC0C0"),
	drawing.ColorFromHex("9966FF"),
	drawing.ColorFromHex("FF9F40"),
}

type Bar struct {
	Label string
	Value float64
}

// EliminationBars charts wins per player in ranking order.
func EliminationBars(s bracket.EliminationStandings) []Bar {
	bars := make([]Bar, 0, len(s.Players))
	for _, p := range s.Players {
		bars = append(bars, Bar{Label: p.Name, Value: float64(p.Wins)})
	}
	return bars
}

// RoundRobinBars charts points per team in table order.
func RoundRobinBars(s bracket.RoundRobinStandings) []Bar {
	bars := make([]Bar, 0, len(s.Teams))
	for _, t := range s.Teams {
		bars = append(bars, Bar{Label: t.Name, Value: t.Points})
	}
	return bars
}

// BarChartPNG renders bars as a PNG. An empty input renders a single empty
// "No data" bar.
func BarChartPNG(title, axis string, bars []Bar) ([]byte, error) {
	if len(bars) == 0 {
		bars = []Bar{{Label: "No data"}}
	}

	maxValue := 0.0
	values := make([]chart.Value, len(bars))
	for i, b := range bars {
		maxValue = max(maxValue, b.Value)
		values[i] = chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{
				FillColor:   palette[i%len(palette)],
				StrokeColor: palette[i%len(palette)],
			},
		}
	}

	graph := chart.BarChart{
		Title:  title,
		Width:  max(480, 90*len(bars)+120),
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth:   50,
		BarSpacing: 30,
		XAxis:      chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			Name: axis,
			// Zero-height data would otherwise collapse the range
			Range: &chart.ContinuousRange{Min: 0, Max: max(maxValue, 1)},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f", f)
				}
				return ""
			},
		},
		Bars: values,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// StandingsChart picks the chart matching the tournament kind.
func StandingsChart(t bracket.Tournament) ([]byte, error) {
	if t.Kind == bracket.RoundRobin {
		return BarChartPNG(t.Name+" - Points", "Points", RoundRobinBars(bracket.ComputeRoundRobinStandings(t.Teams, t.Matchups)))
	}
	return BarChartPNG(t.Name+" - Wins", "Wins", EliminationBars(bracket.ComputeEliminationStandings(t.Players, t.Matchups)))
}

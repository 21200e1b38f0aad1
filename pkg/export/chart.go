package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/bracket"
)

var ErrNothingToChart = errors.New("playoffs not started")

// BracketChart renders the bracket points of the qualified drivers as PNG bar
// chart in classification order. The champion is highlighted.
func BracketChart(state *model.PlayoffState) ([]byte, error) {
	if len(state.Rounds) == 0 || len(state.QualifiedDrivers) == 0 {
		return nil, ErrNothingToChart
	}
	standings := classification(state)
	bars := make([]chart.Value, 0, len(standings))
	maxValue := 0.0
	for _, s := range standings {
		label := s.Driver.Code
		if label == "" {
			label = s.Driver.DriverID
		}
		style := chart.Style{FillColor: drawing.ColorFromHex("1f77b4"), StrokeWidth: 0}
		if state.Champion.GetOr("") == s.Driver.DriverID {
			style.FillColor = drawing.ColorFromHex("d4af37")
		}
		value := float64(bracket.BracketPoints(s.Driver.DriverID, 1, state))
		maxValue = max(maxValue, value)
		bars = append(bars, chart.Value{Label: label, Value: value, Style: style})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("%d playoff bracket points", state.Season),
		Width:    200 + 80*len(bars),
		Height:   400,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue*1.1 + 1},
		},
		Bars: bars,
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

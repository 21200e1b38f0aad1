// Package export renders playoff states into spreadsheets and charts.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/bracket"
)

const (
	SheetRegularSeason = "Regular Season"
	SheetPlayoffs      = "Playoffs"
)

// WriteWorkbook writes an xlsx workbook with the regular season standings and
// the playoff classification of the state
func WriteWorkbook(w io.Writer, state *model.PlayoffState) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetRegularSeason); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetPlayoffs); err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := writeRegularSeason(f, header, state); err != nil {
		return err
	}
	if err := writePlayoffs(f, header, state); err != nil {
		return err
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeRegularSeason(f *excelize.File, header int, state *model.PlayoffState) error {
	rows := [][]any{{
		"Pos", "Driver", "Code", "Team", "Points", "Official Points",
		"Wins", "Podiums", "Qualified",
	}}
	for i := range state.RegularSeasonStandings {
		s := &state.RegularSeasonStandings[i]
		qualified := ""
		if state.IsQualified(s.Driver.DriverID) {
			qualified = "yes"
		}
		rows = append(rows, []any{
			s.Position, s.Driver.FullName(), s.Driver.Code, s.Driver.ConstructorName,
			s.Points, s.OfficialPoints.InexactFloat64(),
			s.Wins, s.Podiums, qualified,
		})
	}
	return writeRows(f, SheetRegularSeason, header, rows)
}

func writePlayoffs(f *excelize.File, header int, state *model.PlayoffState) error {
	head := []any{"Pos", "Driver", "Eliminated In"}
	for i := range state.Rounds {
		head = append(head, fmt.Sprintf("Round %d", state.Rounds[i].Round))
	}
	head = append(head, "Bracket Points")
	rows := [][]any{head}

	for i, s := range classification(state) {
		id := s.Driver.DriverID
		row := []any{i + 1, s.Driver.FullName(), eliminationLabel(id, state)}
		for j := range state.Rounds {
			if p := bracket.RoundPoints(&state.Rounds[j], id); p.IsValue() {
				row = append(row, p.MustGet())
			} else {
				row = append(row, "")
			}
		}
		row = append(row, bracket.BracketPoints(id, 1, state))
		rows = append(rows, row)
	}
	return writeRows(f, SheetPlayoffs, header, rows)
}

func writeRows(f *excelize.File, sheet string, header int, rows [][]any) error {
	for idx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	end, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", end, header)
}

func eliminationLabel(driverID string, state *model.PlayoffState) string {
	switch r := bracket.EliminationRound(driverID, state); {
	case state.Champion.GetOr("") == driverID:
		return "Champion"
	case r == bracket.NotEliminated:
		return ""
	default:
		return fmt.Sprintf("Round %d", r)
	}
}

// classification returns the qualified drivers ordered by playoff progression
func classification(state *model.PlayoffState) []model.DriverStanding {
	qualified := make([]model.DriverStanding, 0, len(state.QualifiedDrivers))
	for _, s := range state.RegularSeasonStandings {
		if state.IsQualified(s.Driver.DriverID) {
			qualified = append(qualified, s)
		}
	}
	return bracket.SortByProgression(qualified, state)
}

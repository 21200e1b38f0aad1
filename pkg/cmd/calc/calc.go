package calc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/gp-playoffs/pkg/cmd/util"
	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/bracket"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/playoff"
)

var (
	inputFile    string
	outputFormat string
)

var errUnknownFormat = errors.New("unknown output format")

func NewCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc season",
		Short: "computes the playoff state of a season",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			util.SetupLogger()
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid season %q: %w", args[0], err)
			}
			season, err := util.LoadSeason(cmd.Context(), year, inputFile)
			if err != nil {
				return err
			}
			state := playoff.Calculate(season.Races, season.Calendar)
			return render(cmd.OutOrStdout(), state, outputFormat)
		},
	}
	cmd.Flags().StringVarP(&inputFile,
		"file",
		"f",
		"",
		"read the season from this snapshot file instead of the database")
	cmd.Flags().StringVarP(&outputFormat,
		"output",
		"o",
		"table",
		"output format (table, json)")
	return cmd
}

func render(w io.Writer, state *model.PlayoffState, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	case "table":
		return writeTable(w, state)
	default:
		return fmt.Errorf("%w: %s", errUnknownFormat, format)
	}
}

func writeTable(w io.Writer, state *model.PlayoffState) error {
	fmt.Fprintf(w, "Season %d: %s (%s), %d races, playoffs start with race %d\n\n",
		state.Season, state.Status, state.Stage, state.TotalRaces, state.PlayoffStartRace)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tDRIVER\tTEAM\tPTS\tWINS\tQUALIFIED")
	for _, s := range state.RegularSeasonStandings {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n",
			s.Position, s.Driver.FullName(), s.Driver.ConstructorName, s.Points, s.Wins,
			lo.Ternary(state.IsQualified(s.Driver.DriverID), "yes", ""))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for i := range state.Rounds {
		r := &state.Rounds[i]
		fmt.Fprintf(w, "\nRound %d (races %s)%s\n", r.Round, joinInts(r.RaceNumbers),
			lo.Ternary(r.Complete, "", " in progress"))
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "POS\tDRIVER\tPTS\tRESULT")
		for _, s := range r.Standings {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n",
				s.Position, s.Driver.FullName(), s.Points, roundResult(r, s.Driver.DriverID))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if champion, ok := state.Champion.Get(); ok {
		fmt.Fprintf(w, "\nChampion: %s\n", champion)
	}
	return nil
}

func roundResult(r *model.PlayoffRound, driverID string) string {
	switch {
	case lo.Contains(r.Advancing, driverID):
		if bracket.AdvancedViaTiebreak(r, driverID) {
			return "advanced (tiebreak)"
		}
		return "advanced"
	case lo.Contains(r.Eliminated, driverID):
		return "eliminated"
	default:
		return "out"
	}
}

func joinInts(v []int) string {
	return strings.Join(lo.Map(v, func(i, _ int) string { return strconv.Itoa(i) }), ",")
}

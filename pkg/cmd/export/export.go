package export

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/cmd/util"
	"github.com/mpapenbr/gp-playoffs/pkg/export"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/playoff"
)

var (
	inputFile string
	xlsxFile  string
	chartFile string
)

func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export season",
		Short: "exports the playoff state of a season as workbook and chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			util.SetupLogger()
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid season %q: %w", args[0], err)
			}
			return exportSeason(cmd, year)
		},
	}
	cmd.Flags().StringVarP(&inputFile,
		"file",
		"f",
		"",
		"read the season from this snapshot file instead of the database")
	cmd.Flags().StringVar(&xlsxFile,
		"xlsx",
		"",
		"workbook file (default: playoffs-<season>.xlsx)")
	cmd.Flags().StringVar(&chartFile,
		"chart",
		"",
		"write the bracket points chart as png into this file")
	return cmd
}

func exportSeason(cmd *cobra.Command, year int) error {
	season, err := util.LoadSeason(cmd.Context(), year, inputFile)
	if err != nil {
		return err
	}
	state := playoff.Calculate(season.Races, season.Calendar)

	target := xlsxFile
	if target == "" {
		target = fmt.Sprintf("playoffs-%d.xlsx", year)
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteWorkbook(f, state); err != nil {
		return err
	}
	log.Info("workbook written", log.String("file", target))

	if chartFile == "" {
		return nil
	}
	data, err := export.BracketChart(state)
	if err != nil {
		return err
	}
	if err := os.WriteFile(chartFile, data, 0o600); err != nil {
		return err
	}
	log.Info("chart written", log.String("file", chartFile))
	return nil
}

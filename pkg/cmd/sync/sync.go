package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/cmd/util"
	"github.com/mpapenbr/gp-playoffs/pkg/config"
	"github.com/mpapenbr/gp-playoffs/pkg/db/postgres"
	"github.com/mpapenbr/gp-playoffs/pkg/jolpica"
	"github.com/mpapenbr/gp-playoffs/pkg/publish/natspub"
	"github.com/mpapenbr/gp-playoffs/pkg/seasonfile"
	playoffsvc "github.com/mpapenbr/gp-playoffs/pkg/service/playoff"
)

var outDir string

func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [season...]",
		Short: "fetches season data from the jolpica api",
		Long: `Fetches calendar and results of the given seasons (default: all supported seasons).
The data is stored in the database unless --out is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sqlLogger := util.SetupLogger()
			years, err := util.ParseYears(args)
			if err != nil {
				return err
			}
			if outDir != "" {
				return syncToFiles(cmd.Context(), years)
			}
			return syncToDB(cmd.Context(), years, sqlLogger)
		},
	}
	cmd.Flags().StringVar(&config.JolpicaURL,
		"jolpica-url",
		jolpica.DefaultBaseURL,
		"base url of the jolpica api")
	cmd.Flags().StringVarP(&outDir,
		"out",
		"o",
		"",
		"write season snapshots (<season>.json) into this directory instead of the database")
	cmd.Flags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"publish computed states to this nats server")
	return cmd
}

func newClient() *jolpica.Client {
	return jolpica.NewClient(jolpica.WithBaseURL(config.JolpicaURL))
}

func syncToFiles(ctx context.Context, years []int) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	cli := newClient()
	for _, year := range years {
		season, err := cli.FetchSeason(ctx, year)
		if err != nil {
			return err
		}
		file := filepath.Join(outDir, fmt.Sprintf("%d.json", year))
		if err := seasonfile.Save(file, season); err != nil {
			return err
		}
		log.Info("snapshot written",
			log.String("file", file),
			log.Int("races", len(season.Races)))
	}
	return nil
}

func syncToDB(ctx context.Context, years []int, sqlLogger *log.Logger) error {
	util.WaitForDB()
	pool := postgres.InitWithURL(config.DB,
		postgres.WithTracer(sqlLogger, log.DebugLevel))
	defer pool.Close()

	opts := []playoffsvc.Option{playoffsvc.WithFetcher(newClient())}
	if config.NatsURL != "" {
		nc, err := nats.Connect(config.NatsURL)
		if err != nil {
			return err
		}
		defer nc.Close()
		pub, err := natspub.New(ctx, nc)
		if err != nil {
			return err
		}
		opts = append(opts, playoffsvc.WithPublisher(pub))
	}
	svc := playoffsvc.NewService(playoffsvc.NewDBStore(pool), opts...)
	for _, year := range years {
		run, err := svc.Sync(ctx, year)
		if err != nil {
			return err
		}
		log.Info("season synced",
			log.Int("season", year),
			log.Int("races", run.Races),
			log.String("run", run.ID.String()))
	}
	return nil
}

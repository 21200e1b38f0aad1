package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/api"
	"github.com/mpapenbr/gp-playoffs/pkg/cmd/util"
	"github.com/mpapenbr/gp-playoffs/pkg/config"
	"github.com/mpapenbr/gp-playoffs/pkg/db/postgres"
	"github.com/mpapenbr/gp-playoffs/pkg/jolpica"
	"github.com/mpapenbr/gp-playoffs/pkg/publish/local"
	"github.com/mpapenbr/gp-playoffs/pkg/publish/natspub"
	playoffsvc "github.com/mpapenbr/gp-playoffs/pkg/service/playoff"
	"github.com/mpapenbr/gp-playoffs/pkg/utils"
)

//nolint:funlen // by design
func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "starts the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.ServerAddr,
		"addr",
		"a",
		"localhost:8080",
		"HTTP server listen address")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data")
	cmd.Flags().StringVar(&config.TelemetryOutput,
		"telemetry-output",
		"otlp",
		"where telemetry data is sent to (otlp, stdout)")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	cmd.Flags().StringVar(&config.AdminToken,
		"admin-token",
		"",
		"admin token value (empty disables admin endpoints)")
	cmd.Flags().StringVar(&config.JolpicaURL,
		"jolpica-url",
		jolpica.DefaultBaseURL,
		"base url of the jolpica api")
	cmd.Flags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"publish computed states to this nats server")
	cmd.Flags().StringVar(&config.CacheExpiration,
		"cache-expiration",
		"5m",
		"computed playoff states are kept for this duration")
	return cmd
}

//nolint:funlen,cyclop // by design
func startServer(ctx context.Context) error {
	var telemetry *config.Telemetry
	_, sqlLogger := util.SetupLogger()

	log.Debug("Config:",
		log.String("db", config.DB),
		log.String("addr", config.ServerAddr),
		log.String("jolpica", config.JolpicaURL),
		log.String("nats", config.NatsURL),
	)

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // by design
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	waitForRequiredServices()

	pgTraceOption := postgres.WithTracer(sqlLogger, log.DebugLevel)
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err == nil {
			pgTraceOption = postgres.WithOtlpTracer()
		} else {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}

	pool := postgres.InitWithURL(config.DB, pgTraceOption)
	defer pool.Close()

	localPub := local.New()
	defer localPub.Close()
	svcOpts := []playoffsvc.Option{
		playoffsvc.WithFetcher(jolpica.NewClient(jolpica.WithBaseURL(config.JolpicaURL))),
		playoffsvc.WithPublisher(localPub),
	}
	if d, err := time.ParseDuration(config.CacheExpiration); err == nil {
		svcOpts = append(svcOpts, playoffsvc.WithCacheExpiration(d))
	} else {
		log.Warn("Invalid cache expiration, using default", log.ErrorField(err))
	}
	apiOpts := []api.Option{
		api.WithAdminToken(config.AdminToken),
		api.WithMetrics(api.NewMetrics()),
		api.WithStream(localPub),
	}
	if config.NatsURL != "" {
		nc, err := nats.Connect(config.NatsURL)
		if err != nil {
			return err
		}
		defer nc.Drain() //nolint:errcheck // shutdown
		pub, err := natspub.New(ctx, nc)
		if err != nil {
			return err
		}
		svcOpts = append(svcOpts, playoffsvc.WithPublisher(pub))
		apiOpts = append(apiOpts, api.WithStateFallback(pub))
	}
	svc := playoffsvc.NewService(playoffsvc.NewDBStore(pool), svcOpts...)

	apiServer := api.NewServer(svc, apiOpts...)

	server := &http.Server{
		Addr:              config.ServerAddr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", log.String("addr", config.ServerAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	setupGoRoutinesDump()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case v := <-sigChan:
		log.Debug("Got signal ", log.Any("signal", v))
	case err := <-errChan:
		log.Error("server could not be started", log.ErrorField(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", log.ErrorField(err))
	}
	if telemetry != nil {
		telemetry.Shutdown()
	}
	log.Info("Server terminated")
	return nil
}

func setupGoRoutinesDump() {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			fmt.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n",
				buf[:stacklen])
		}
	}()
}

// waitForRequiredServices waits for the database and the optional nats server
func waitForRequiredServices() {
	util.WaitForDB()
	if config.NatsURL == "" {
		return
	}
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		timeout = 60 * time.Second
	}
	if addr := utils.ExtractFromNatsURL(config.NatsURL); addr != "" {
		if err := utils.WaitForTCP(addr, timeout); err != nil {
			log.Fatal("required services not ready", log.ErrorField(err))
		}
	}
}

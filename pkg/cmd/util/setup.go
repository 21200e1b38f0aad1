package util

import (
	"os"
	"sync"
	"time"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/config"
	"github.com/mpapenbr/gp-playoffs/pkg/utils"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the application logger according to the log flags and
// installs it as default. The second logger is meant for the sql tracer.
func SetupLogger() (logger, sqlLogger *log.Logger) {
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1)}
	if config.LogFilter != "" && config.LogFilter != "*" {
		if f, err := log.WithFilter(config.LogFilter); err == nil {
			opts = append(opts, f)
		} else {
			log.Warn("Invalid log filter, ignoring", log.ErrorField(err))
		}
	}
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.InfoLevel),
			opts...)
		sqlLogger = log.New(
			os.Stderr,
			ParseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.DebugLevel),
			opts...)
		sqlLogger = log.DevLogger(
			os.Stderr,
			ParseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)
	return logger, sqlLogger
}

// WaitForDB blocks until the database configured by config.DB accepts tcp
// connections. Terminates the process if the timeout is reached.
func WaitForDB() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}

	wg := sync.WaitGroup{}
	if postgresAddr := utils.ExtractFromDBURL(config.DB); postgresAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := utils.WaitForTCP(postgresAddr, timeout); err != nil {
				log.Fatal("required services not ready", log.ErrorField(err))
			}
		}()
	}
	log.Debug("Waiting for connection checks to return")
	wg.Wait()
	log.Debug("Required services are available")
}

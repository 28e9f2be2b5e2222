package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/globalsolution/ecoprev/internal/config"
	"github.com/globalsolution/ecoprev/internal/logger"
	"github.com/globalsolution/ecoprev/internal/metrics"
	"github.com/globalsolution/ecoprev/internal/monitor"
	"github.com/globalsolution/ecoprev/internal/server"
	"github.com/globalsolution/ecoprev/internal/tracking"
)

// statusInterval is how often /status runtime data is refreshed.
const statusInterval = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"start"},
	Short:   "Start the ecoprev server",
	Long:    `Load both models and serve the prediction API in foreground mode.`,
	RunE:    runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads --config, or the environment when no file is given, and
// applies --host/--port when set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = host
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := new(slog.LevelVar)
	level.Set(logger.ParseLevel(cfg.Logging.Level))

	out, closeLog := logger.Output(logger.FileOptions{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer closeLog()

	log := logger.NewWithLevel(out, level, cfg.Logging.Format)

	log.Info("ecoprev starting",
		"version", Version,
		"config", cfgFile,
	)

	tracker, err := tracking.New(tracking.Config{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     "ecoprev@" + Version,
		SampleRate:  cfg.Sentry.SampleRate,
	})
	if err != nil {
		return err
	}
	defer tracker.Flush(2 * time.Second)

	models, err := loadModels(cfg, log)
	if err != nil {
		return err
	}
	defer models.Close()

	// Create monitors
	monitors := []monitor.Monitor{
		monitor.NewCPUMonitor(),
		monitor.NewMemoryMonitor(),
	}
	if pm, err := monitor.NewProcessMonitor(); err != nil {
		log.Warn("process monitor unavailable", "error", err)
	} else {
		monitors = append(monitors, pm)
	}

	agg := monitor.NewAggregator(monitors, statusInterval, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := agg.Start(ctx); err != nil {
		return fmt.Errorf("failed to start aggregator: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	if cfg.Server.PIDFile != "" {
		if err := writePIDFile(cfg.Server.PIDFile); err != nil {
			log.Warn("failed to write PID file", "error", err)
		} else {
			defer os.Remove(cfg.Server.PIDFile)
		}
	}

	srv := server.New(cfg, server.Deps{
		Service:    models.service,
		Models:     models.infos,
		Aggregator: agg,
		Metrics:    m,
		Tracker:    tracker,
		LogLevel:   level,
	}, log, Version)

	reload := func(reason string) {
		log.Info("reloading configuration", "reason", reason)

		newCfg, err := loadConfig(cmd)
		if err != nil {
			log.Error("invalid configuration, reload aborted", "error", err)
			return
		}
		srv.ReloadConfig(newCfg)
	}

	if cfg.Watch.Enabled && cfgFile != "" {
		go func() {
			if err := config.Watch(ctx, cfgFile, cfg.WatchDebounce(), log, func() { reload("file changed") }); err != nil {
				log.Error("config watcher stopped", "error", err)
			}
		}()
	}

	sighupCh := make(chan os.Signal, 1)
	sigCh := make(chan os.Signal, 1)
	shutdownDone := make(chan struct{})

	signal.Notify(sighupCh, syscall.SIGHUP)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for {
			select {
			case <-sighupCh:
				reload("SIGHUP")
			case <-shutdownDone:
				return
			}
		}
	}()

	go func() {
		<-sigCh

		log.Info("shutdown signal received")

		signal.Stop(sighupCh)
		signal.Stop(sigCh)
		close(shutdownDone)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}

		agg.Stop()
		cancel()
	}()

	log.Info("ecoprev ready", "addr", srv.Addr())

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("ecoprev stopped")
	return nil
}

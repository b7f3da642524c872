package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/tgienger/tick/internal/config"
	"github.com/tgienger/tick/internal/db"
	"github.com/tgienger/tick/internal/logging"
	"github.com/tgienger/tick/internal/rpc"
	"github.com/tgienger/tick/internal/store"
	"github.com/tgienger/tick/internal/store/memory"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the config file")
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	initConfig := flag.Bool("init", false, "write the default config file and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("tickd %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *initConfig {
		if err := config.Default().Save(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *configPath)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	var out io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger, err := logging.New(cfg.Log, out, "tickd")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	tasks := store.New(repo)
	defer tasks.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           rpc.NewServer(tasks, logger),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ErrorLog:          logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "version", version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openRepository(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (store.Repository, error) {
	if cfg.Driver == "memory" {
		logger.Warn("using in-memory store; tasks are lost on exit")
		return memory.New(), nil
	}

	dsn := cfg.DSN
	if cfg.Driver == db.DriverSQLite && dsn == "" {
		var err error
		if dsn, err = db.DefaultDSN(); err != nil {
			return nil, err
		}
	}
	database, err := db.Open(ctx, cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}
	logger.Info("database opened", "driver", database.Driver())
	return database, nil
}

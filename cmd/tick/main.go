package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/tick/internal/config"
	"github.com/tgienger/tick/internal/logging"
	"github.com/tgienger/tick/internal/rpc"
	"github.com/tgienger/tick/internal/ui"
	"github.com/tgienger/tick/internal/ui/styles"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the config file")
	server := flag.String("server", "", "tickd base URL (overrides console.server_url)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("tick %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.Console.ServerURL = *server
	}

	// The terminal belongs to the UI, so logs go to a file
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = config.DefaultLogFile()
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger, err := logging.New(cfg.Log, logFile, "tick")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !styles.SetTheme(cfg.Console.Theme) {
		logger.Warn("unknown theme, using default", "theme", cfg.Console.Theme)
	}

	client := rpc.NewClient(cfg.Console.ServerURL, &http.Client{Timeout: cfg.Console.RequestTimeout})
	logger.Info("starting", "server", cfg.Console.ServerURL, "version", version)

	// Create and run the application
	app := ui.NewApp(client, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		logFile.Close()
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

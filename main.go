package main

import (
	"fmt"
	"net/http"
	"os"

	"foodwagen/cmd"
	"foodwagen/internal/api"
	"foodwagen/internal/debounce"
	"foodwagen/internal/logging"
	"foodwagen/internal/store"
	"foodwagen/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Parse CLI flags
	config, err := cmd.ParseFlags(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if config.ShowVersion {
		fmt.Println("foodwagen", version)
		return
	}

	// The TUI owns the terminal, so logs go to a file
	logFile, err := logging.OpenFile(config.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := logging.New(config.LogLevel, logFile)
	logger.Info("starting foodwagen", "version", version, "api", config.APIBaseURL)

	client := api.NewClient(config.APIBaseURL,
		api.WithTimeout(config.Timeout),
		api.WithLogger(logger),
	)

	notifier := ui.NewChannelNotifier(32)
	foods := store.New(client,
		store.WithNotifier(notifier),
		store.WithLogger(logger),
	)

	app := ui.New(foods, ui.Options{
		Notifier:    notifier,
		Debouncer:   debounce.New(debounce.DefaultDelay),
		ImageClient: &http.Client{Timeout: config.Timeout},
		Logger:      logger,
		PrefsPath:   config.PrefsPath,
		APIBaseURL:  client.BaseURL(),
	})

	// Create and run Bubble Tea app
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("app exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

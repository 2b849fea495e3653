package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/drt/internal/api"
	"github.com/tgienger/drt/internal/config"
	"github.com/tgienger/drt/internal/db"
	"github.com/tgienger/drt/internal/export"
	"github.com/tgienger/drt/internal/logger"
	"github.com/tgienger/drt/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("drt %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	conf, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := conf.LogFile()
	if err != nil {
		return err
	}
	closer, err := logger.Init(conf.Log.Level, logFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	timeout, err := conf.APITimeout()
	if err != nil {
		return err
	}
	client := api.NewClient(conf.API.BaseURL, timeout)
	log.WithField("base_url", conf.API.BaseURL).WithField("version", version).Info("starting drt")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(args) > 0 {
		switch args[0] {
		case "export":
			if len(args) < 2 {
				return errors.New("usage: drt export <file.xlsx>")
			}
			return exportWorkbook(ctx, client, args[1])
		default:
			return errors.Errorf("unknown command %q", args[0])
		}
	}

	dbFile, err := conf.DatabaseFile()
	if err != nil {
		return err
	}
	database, err := db.New(dbFile)
	if err != nil {
		return err
	}
	defer database.Close()

	app := ui.NewApp(ctx, client, database)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "run application")
	}
	return nil
}

func exportWorkbook(ctx context.Context, client api.Provider, path string) error {
	positions, err := client.ListPositions(ctx)
	if err != nil {
		return errors.Wrap(err, "list positions")
	}
	events, err := client.ListEvents(ctx, api.EventFilter{})
	if err != nil {
		return errors.Wrap(err, "list events")
	}
	if err := export.WriteFile(path, positions, events); err != nil {
		return err
	}
	fmt.Printf("Exported %d positions and %d events to %s\n", len(positions), len(events), path)
	return nil
}

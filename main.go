package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/session"
	"taskdeck/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// The terminal owns stdout; poll failures go to a log file.
	if f, err := tea.LogToFile(os.TempDir()+"/taskdeck.log", "taskdeck"); err == nil {
		defer f.Close()
	} else {
		log.SetOutput(os.Stderr)
	}

	store, err := session.Open(cfg.Session.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	sess := session.New(store)
	if _, err := sess.Restore(); err != nil {
		log.Printf("session restore: %v", err)
	}

	client := api.New(cfg.Server.URL, cfg.Server.Timeout, sess)

	app := tui.NewApp(cfg, client, sess)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

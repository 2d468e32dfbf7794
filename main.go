package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"scrollwin/internal/config"
	"scrollwin/internal/eventbus"
	"scrollwin/internal/feed"
	"scrollwin/internal/ui"
)

func main() {
	var configPath, mode string
	flag.StringVar(&configPath, "config", "", "Path to the config file (default ./"+config.FileName+")")
	flag.StringVar(&mode, "mode", "", "Display mode: list, grid or chat (overrides the config)")
	flag.Parse()

	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Printf("Error getting current directory: %v\n", err)
			os.Exit(1)
		}
		configPath = filepath.Join(wd, config.FileName)
	}

	// Set up logging
	logFile, err := os.OpenFile("scrollwin.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(bus)
	cfg := loadOrCreateConfig(configSvc, configPath)
	if mode != "" {
		cfg.UI.Mode = mode
	}

	uiModel, err := ui.NewModel(bus, cfg, feed.NewSource(cfg.Feed))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer uiModel.Close()

	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	uiModel.SetProgram(p)

	// Create event channel for UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forwardEvent := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventScrolled,
		eventbus.EventScrollingChanged,
		eventbus.EventLoadStateChanged,
		eventbus.EventLoadMoreFailed,
		eventbus.EventItemsAppended,
		eventbus.EventError,
	} {
		bus.Subscribe(t, forwardEvent)
	}
	bus.Subscribe(eventbus.EventLoadMoreFailed, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.LoadMoreFailedEvent); ok {
			log.Printf("Page request failed: %v", event.Err)
		}
	})

	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Quit()
	}()

	log.Printf("Starting UI in %s mode...", cfg.UI.Mode)
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}

// loadOrCreateConfig loads the config at path or writes the defaults there
func loadOrCreateConfig(configSvc config.ConfigService, path string) *config.Config {
	if _, err := os.Stat(path); err == nil {
		cfg, err := configSvc.LoadFromPath(path)
		if err == nil {
			log.Printf("Loaded config from %s", path)
			return cfg
		}
		log.Printf("Failed to load config, using defaults: %v", err)
		return config.DefaultConfig()
	}

	log.Printf("Creating new config at %s", path)
	cfg := config.DefaultConfig()
	if err := configSvc.SaveToPath(cfg, path); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
	return cfg
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"shopgrip/internal/catalog"
	"shopgrip/internal/config"
	"shopgrip/internal/eventbus"
	"shopgrip/internal/images"
	"shopgrip/internal/ui"
)

func main() {
	// Parse command line arguments
	var (
		endpoint   string
		configPath string
		noImages   bool
	)
	pflag.StringVarP(&endpoint, "endpoint", "e", "", "catalog endpoint URL")
	pflag.StringVarP(&configPath, "config", "c", "", "config file path")
	pflag.BoolVar(&noImages, "no-images", false, "skip image prefetching")
	pflag.Parse()

	// Set up logging
	logFile, err := os.OpenFile("shopgrip.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create event bus
	bus := eventbus.New()

	// Load configuration; a .env file and SHOPGRIP_ENDPOINT may override
	// the endpoint, the --endpoint flag wins over both
	_ = godotenv.Load()

	configSvc := config.NewConfigServiceWithBus(bus)
	cfg := loadConfig(configSvc, configPath)

	if env := os.Getenv("SHOPGRIP_ENDPOINT"); env != "" {
		cfg.Endpoint = env
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if noImages {
		cfg.UISettings.LoadImages = false
	}

	// Initialize services; both run their background work under ctx so
	// nothing outlives the process teardown
	catalogSvc := catalog.NewCatalogService(ctx, bus, cfg.Endpoint, cfg.HTTPTimeout())
	_ = images.NewLoader(ctx, bus, cfg.ImageWorkers, cfg.HTTPTimeout(), cfg.UISettings.LoadImages) // Loader subscribes to events automatically

	// Create UI model
	uiModel := ui.NewModel(bus, cfg)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen())

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			// Channel full, drop event
			log.Println("Event channel full, dropping event")
		}
	}
	bus.Subscribe(eventbus.EventFetchStarted, forward)
	bus.Subscribe(eventbus.EventCatalogLoaded, forward)
	bus.Subscribe(eventbus.EventCatalogFetchFailed, forward)
	bus.Subscribe(eventbus.EventImageLoaded, forward)
	bus.Subscribe(eventbus.EventImageFailed, forward)
	bus.Subscribe(eventbus.EventError, forward)

	// Start forwarding events to UI in background
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// Start initial fetch; cancelled on shutdown so a late response is
	// never applied after teardown
	if err := catalogSvc.StartFetch(ctx); err != nil {
		log.Printf("Initial fetch not started: %v", err)
	}

	// Run the UI
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	// Cleanup. eventChan is left open: a straggler goroutine may still
	// publish while winding down, and Send on a finished program is a no-op.
	cancel()
}

// loadConfig loads config from the given path or the default location,
// falling back to defaults
func loadConfig(configSvc config.ConfigService, path string) *config.Config {
	if path != "" {
		cfg, err := configSvc.LoadFromPath(path)
		if err != nil {
			log.Printf("Error loading config %s: %v", path, err)
			return config.DefaultConfig()
		}
		return cfg
	}

	cfg, err := configSvc.Load()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		return config.DefaultConfig()
	}
	return cfg
}

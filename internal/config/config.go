package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"shopgrip/internal/eventbus"
)

// Defaults applied to zero-valued fields after load
const (
	DefaultEndpoint       = "http://localhost:8390/api/products"
	DefaultDebounceMs     = 300
	DefaultImageWorkers   = 5
	DefaultRequestTimeout = 10 // seconds
)

// Config represents the application configuration
type Config struct {
	Version        int        `toml:"version"`
	Endpoint       string     `toml:"endpoint"`         // catalog URL
	DebounceMs     int        `toml:"debounce_ms"`      // quiet interval for the filter input
	ImageWorkers   int        `toml:"image_workers"`    // concurrent image fetches
	RequestTimeout int        `toml:"request_timeout"`  // per-request timeout, seconds
	UISettings     UISettings `toml:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowPrices bool `toml:"show_prices"`
	LoadImages bool `toml:"load_images"` // prefetch product images in the background
}

// Debounce returns the configured quiet interval as a duration
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// HTTPTimeout returns the configured per-request timeout as a duration
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	// Create shopgrip config directory
	shopgripDir := filepath.Join(configDir, "shopgrip")
	os.MkdirAll(shopgripDir, 0755)

	return &configService{
		filePath: filepath.Join(shopgripDir, "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from the default file
func (cs *configService) Load() (*Config, error) {
	// Return defaults if the file doesn't exist
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cs.publishLoaded(cfg)
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}

	cs.publishLoaded(cfg)
	return cfg, nil
}

// Save saves the configuration to the default file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Seed the sentinel so a file that omits debounce_ms keeps the default
	// while an explicit 0 still means "commit every keystroke"
	cfg := Config{DebounceMs: -1}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	// Ensure config directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (cs *configService) publishLoaded(cfg *Config) {
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Endpoint: cfg.Endpoint})
	}
}

// applyDefaults fills unset fields. A negative DebounceMs marks the field
// as absent from the file; zero is a valid setting meaning "commit every
// keystroke immediately".
func applyDefaults(cfg *Config) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.DebounceMs < 0 {
		cfg.DebounceMs = DefaultDebounceMs
	}
	if cfg.ImageWorkers <= 0 {
		cfg.ImageWorkers = DefaultImageWorkers
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:        1,
		Endpoint:       DefaultEndpoint,
		DebounceMs:     DefaultDebounceMs,
		ImageWorkers:   DefaultImageWorkers,
		RequestTimeout: DefaultRequestTimeout,
		UISettings: UISettings{
			ShowPrices: true,
			LoadImages: true,
		},
	}
}

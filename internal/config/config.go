package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"scrollwin/internal/domain"
	"scrollwin/internal/eventbus"
)

// FileName is the per-directory config file main looks for
const FileName = ".scrollwin.toml"

// Display modes
const (
	ModeList = "list"
	ModeGrid = "grid"
	ModeChat = "chat"
)

// Config represents the application configuration
type Config struct {
	Version int            `toml:"version"`
	Engine  EngineSettings `toml:"engine"`
	Feed    FeedSettings   `toml:"feed"`
	UI      UISettings     `toml:"ui"`
}

// EngineSettings tunes the scroll coordinator. Extents are in terminal lines.
type EngineSettings struct {
	Overscan      int     `toml:"overscan"`
	QuietPeriodMS int     `toml:"quiet_period_ms"`
	LoadThreshold float64 `toml:"load_threshold"` // 0 means one viewport
	PinEpsilon    float64 `toml:"pin_epsilon"`
}

// FeedSettings drives the synthetic data source
type FeedSettings struct {
	Seed             int64   `toml:"seed"`
	InitialItems     int     `toml:"initial_items"`
	PageSize         int     `toml:"page_size"`
	MaxItems         int     `toml:"max_items"` // 0 means the source never runs dry
	LatencyMS        int     `toml:"latency_ms"`
	FailureRate      float64 `toml:"failure_rate"`
	AppendIntervalMS int     `toml:"append_interval_ms"` // chat mode; 0 disables live appends
}

// UISettings represents UI-related configuration
type UISettings struct {
	Mode       string `toml:"mode"`
	RowHeight  int    `toml:"row_height"`
	Columns    int    `toml:"columns"`
	ShowStatus bool   `toml:"show_status"`
}

// QuietPeriod returns the is-scrolling quiet period
func (e EngineSettings) QuietPeriod() time.Duration {
	return time.Duration(e.QuietPeriodMS) * time.Millisecond
}

// Latency returns the simulated page latency
func (f FeedSettings) Latency() time.Duration {
	return time.Duration(f.LatencyMS) * time.Millisecond
}

// AppendInterval returns the live-append period of chat mode
func (f FeedSettings) AppendInterval() time.Duration {
	return time.Duration(f.AppendIntervalMS) * time.Millisecond
}

// Validate rejects settings the engine would refuse at attach time
func (c *Config) Validate() error {
	switch c.UI.Mode {
	case ModeList, ModeGrid, ModeChat:
	default:
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidConfig, c.UI.Mode)
	}
	if c.UI.RowHeight < 1 {
		return fmt.Errorf("%w: row_height must be at least 1, got %d", domain.ErrInvalidConfig, c.UI.RowHeight)
	}
	if c.UI.Columns < 1 {
		return fmt.Errorf("%w: columns must be at least 1, got %d", domain.ErrInvalidConfig, c.UI.Columns)
	}
	if c.Engine.Overscan < 0 {
		return fmt.Errorf("%w: overscan must not be negative, got %d", domain.ErrInvalidConfig, c.Engine.Overscan)
	}
	if c.Engine.QuietPeriodMS < 0 {
		return fmt.Errorf("%w: quiet_period_ms must not be negative, got %d", domain.ErrInvalidConfig, c.Engine.QuietPeriodMS)
	}
	if c.Engine.LoadThreshold < 0 || c.Engine.PinEpsilon < 0 {
		return fmt.Errorf("%w: load_threshold and pin_epsilon must not be negative", domain.ErrInvalidConfig)
	}
	if c.Feed.PageSize < 1 {
		return fmt.Errorf("%w: page_size must be at least 1, got %d", domain.ErrInvalidConfig, c.Feed.PageSize)
	}
	if c.Feed.InitialItems < 0 || c.Feed.MaxItems < 0 {
		return fmt.Errorf("%w: item counts must not be negative", domain.ErrInvalidConfig)
	}
	if c.Feed.FailureRate < 0 || c.Feed.FailureRate > 1 {
		return fmt.Errorf("%w: failure_rate must be within [0, 1], got %v", domain.ErrInvalidConfig, c.Feed.FailureRate)
	}
	if c.Feed.LatencyMS < 0 || c.Feed.AppendIntervalMS < 0 {
		return fmt.Errorf("%w: durations must not be negative", domain.ErrInvalidConfig)
	}
	return nil
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

// NewConfigService creates a config service backed by the user config directory
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

	return &configService{
		filePath: filepath.Join(configDir, "scrollwin", "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from the user config directory, falling back
// to defaults when the file does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.read(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	cs.publishLoaded(cs.filePath, cfg)
	return cfg, nil
}

// Save saves the configuration to the user config directory
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	cfg, err := cs.read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}

	cs.publishLoaded(path, cfg)
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return err
	}

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

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: path})
	}
	return nil
}

// read parses path over the defaults so a partial file keeps the remaining settings
func (cs *configService) read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (cs *configService) publishLoaded(path string, cfg *Config) {
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: path, Mode: cfg.UI.Mode})
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Engine: EngineSettings{
			Overscan:      3,
			QuietPeriodMS: 150,
			PinEpsilon:    1,
		},
		Feed: FeedSettings{
			Seed:             1,
			InitialItems:     60,
			PageSize:         40,
			MaxItems:         400,
			LatencyMS:        400,
			FailureRate:      0.1,
			AppendIntervalMS: 1500,
		},
		UI: UISettings{
			Mode:       ModeList,
			RowHeight:  1,
			Columns:    3,
			ShowStatus: true,
		},
	}
}

package core

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Environment variables that override the configuration file
const (
	EnvAssets   = "HELIX_ASSETS"
	EnvFPS      = "HELIX_FPS"
	EnvLogLevel = "HELIX_LOG_LEVEL"
	EnvWidth    = "HELIX_WIDTH"
	EnvHeight   = "HELIX_HEIGHT"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Renderer RendererConfiguration
	Assets   AssetsConfiguration
	Log      LogConfiguration
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the window event polling interval in milliseconds
	EventPollDelay int

	// MaxDelta clamps the per-frame delta time in seconds, 0 disables it
	MaxDelta float64
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	Title        string
	ScreenWidth  int
	ScreenHeight int

	// VSync waits for display refresh when swapping buffers
	VSync bool
}

// AssetsConfiguration tells where shader sources are fetched from
type AssetsConfiguration struct {
	// Source is a base URL, a directory, a .kar archive or "embedded"
	Source string

	VertexSource   string
	FragmentSource string
}

// LogConfiguration is used to configure logging
type LogConfiguration struct {
	Level string
}

// DefaultConfiguration returns the configuration used when nothing is overridden
func DefaultConfiguration() Configuration {
	return Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: 60,
			EventPollDelay:  50,
		},
		Renderer: RendererConfiguration{
			Title:        "Helix",
			ScreenWidth:  800,
			ScreenHeight: 600,
			VSync:        true,
		},
		Assets: AssetsConfiguration{
			Source:         "embedded",
			VertexSource:   "assets/datafiles/vsource.dat",
			FragmentSource: "assets/datafiles/fsource.dat",
		},
		Log: LogConfiguration{
			Level: "info",
		},
	}
}

// LoadConfiguration reads the TOML file at path over the defaults, then
// applies environment overrides. A missing file is not an error, an
// empty path skips the file. Variables from a .env file in the working
// directory are loaded first.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("config %s: %w", path, err)
			}
			log.WithField("path", path).Debug("Configuration file not found, using defaults")
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("dotenv: %w", err)
	}
	if err := applyEnvironment(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the engine cannot run with
func (c Configuration) Validate() error {
	if c.Time.FramesPerSecond < 0 {
		return fmt.Errorf("frames per second must not be negative: %d", c.Time.FramesPerSecond)
	}
	if c.Time.MaxDelta < 0 {
		return fmt.Errorf("max delta must not be negative: %v", c.Time.MaxDelta)
	}
	return nil
}

func applyEnvironment(cfg *Configuration) error {
	envy.Reload()

	cfg.Assets.Source = envy.Get(EnvAssets, cfg.Assets.Source)
	cfg.Log.Level = envy.Get(EnvLogLevel, cfg.Log.Level)

	ints := []struct {
		key string
		dst *int
	}{
		{EnvFPS, &cfg.Time.FramesPerSecond},
		{EnvWidth, &cfg.Renderer.ScreenWidth},
		{EnvHeight, &cfg.Renderer.ScreenHeight},
	}
	for _, v := range ints {
		raw, err := envy.MustGet(v.key)
		if err != nil {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", v.key, err)
		}
		*v.dst = n
	}
	return nil
}

// LogLevel parses the configured level, falling back to info
func (c LogConfiguration) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

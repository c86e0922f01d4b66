// Package config loads the application configuration from environment
// variables and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the client.
type Config struct {
	Backend Backend `mapstructure:"backend"`
	Camera  Camera  `mapstructure:"camera"`
	Capture Capture `mapstructure:"capture"`
	View    View    `mapstructure:"view"`
	Cache   Cache   `mapstructure:"cache"`
	State   State   `mapstructure:"state"`
}

// Backend holds the detection/recommendation endpoints.
type Backend struct {
	BaseURL       string        `mapstructure:"base_url"`
	DetectURL     string        `mapstructure:"detect_url"`
	RecommendPath string        `mapstructure:"recommend_path"`
	ProbeInterval time.Duration `mapstructure:"probe_interval"`
}

// RecommendURL joins the base URL and the recommend path.
func (b Backend) RecommendURL() string {
	return strings.TrimRight(b.BaseURL, "/") + b.RecommendPath
}

// Camera holds video-device settings.
type Camera struct {
	Device string `mapstructure:"device"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// Capture holds settings for the file/drop capture paths.
type Capture struct {
	DropDir string `mapstructure:"drop_dir"`
	OutDir  string `mapstructure:"out_dir"` // annotated snapshots land here
}

// View holds rendering knobs.
type View struct {
	PageSize int `mapstructure:"page_size"`
}

// Cache holds the static-asset cache settings.
type Cache struct {
	Dir        string   `mapstructure:"dir"`
	Generation string   `mapstructure:"generation"`
	Essentials []string `mapstructure:"essentials"`
}

// State holds local persistence settings.
type State struct {
	File string `mapstructure:"file"`
}

// Load reads configuration from env vars (prefix SNAPBASKET) and an
// optional config.yaml, applying defaults for everything else.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("SNAPBASKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
		// No file is fine -- env vars and defaults carry the day.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:5000")
	v.SetDefault("backend.detect_url", "http://localhost:5000/detect")
	v.SetDefault("backend.recommend_path", "/recommend")
	v.SetDefault("backend.probe_interval", "10s")

	v.SetDefault("camera.device", "/dev/video0")
	v.SetDefault("camera.width", 0) // 0 = let the device pick, capture falls back to 640x480
	v.SetDefault("camera.height", 0)

	v.SetDefault("capture.drop_dir", ".snapbasket/drop")
	v.SetDefault("capture.out_dir", ".snapbasket/snaps")

	v.SetDefault("view.page_size", 12)

	v.SetDefault("cache.dir", ".snapbasket/cache")
	v.SetDefault("cache.generation", "snapbasket-static-v1")
	v.SetDefault("cache.essentials", []string{
		"/",
		"/static/css/app.css",
		"/static/js/app.js",
		"/static/manifest.json",
		"/static/icons/icon-192.png",
		"/static/icons/icon-512.png",
		"https://cdn.jsdelivr.net/npm/bootstrap@5.3.2/dist/css/bootstrap.min.css",
	})

	v.SetDefault("state.file", ".snapbasket/state.json")
}

func validate(cfg *Config) error {
	if cfg.Backend.DetectURL == "" {
		return fmt.Errorf("backend detect URL is required (set SNAPBASKET_BACKEND_DETECT_URL)")
	}
	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required (set SNAPBASKET_BACKEND_BASE_URL)")
	}
	if cfg.View.PageSize <= 0 {
		return fmt.Errorf("view page size must be positive, got %d", cfg.View.PageSize)
	}
	return nil
}

// Package config loads the daemon's TOML configuration, layered over
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all murmur configuration.
type Config struct {
	SegmentsDir string `toml:"segments_dir"`
	SocketPath  string `toml:"socket_path"`

	Audio       AudioConfig       `toml:"audio"`
	Duck        DuckConfig        `toml:"duck"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Transcriber TranscriberConfig `toml:"transcriber"`
	Planner     PlannerConfig     `toml:"planner"`
	Bus         BusConfig         `toml:"bus"`
	Cues        CueConfig         `toml:"cues"`
}

type AudioConfig struct {
	SpeechThreshold float64 `toml:"speech_threshold"`
	MaxSilenceMS    int     `toml:"max_silence_ms"`
	Backlog         int     `toml:"backlog"`
}

type DuckConfig struct {
	Enabled bool    `toml:"enabled"`
	Factor  float64 `toml:"factor"`
	FadeMS  int     `toml:"fade_ms"`
}

type CatalogConfig struct {
	Path string `toml:"path"`
}

type TranscriberConfig struct {
	Backend   string `toml:"backend"` // "whisper" or "cli"
	ModelPath string `toml:"model_path"`
	CLIPath   string `toml:"cli_path"`
	Language  string `toml:"language"`
	Threads   int    `toml:"threads"`
}

type PlannerConfig struct {
	Mode           string `toml:"mode"` // "http", "openai" or "off"
	URL            string `toml:"url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	SocksProxy     string `toml:"socks_proxy"`
}

type BusConfig struct {
	URL string `toml:"url"`
}

type CueConfig struct {
	Start string `toml:"start"`
	Stop  string `toml:"stop"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SegmentsDir: "~/.local/share/murmur/segments",
		SocketPath:  "/tmp/murmur.sock",
		Audio: AudioConfig{
			SpeechThreshold: 0.015,
			MaxSilenceMS:    1000,
			Backlog:         8,
		},
		Duck: DuckConfig{
			Enabled: false,
			Factor:  0.3,
			FadeMS:  200,
		},
		Transcriber: TranscriberConfig{
			Backend:   "whisper",
			ModelPath: "~/.local/share/murmur/models/ggml-base.en.bin",
			CLIPath:   "whisper-cli",
			Language:  "auto",
		},
		Planner: PlannerConfig{
			Mode:           "http",
			URL:            "http://127.0.0.1:5005/plan",
			TimeoutSeconds: 20,
		},
	}
}

// Load reads config from path, falling back to defaults when the file is
// missing. An empty path uses only defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.SegmentsDir = expandHome(cfg.SegmentsDir)
	cfg.Catalog.Path = expandHome(cfg.Catalog.Path)
	cfg.Transcriber.ModelPath = expandHome(cfg.Transcriber.ModelPath)
	cfg.Cues.Start = expandHome(cfg.Cues.Start)
	cfg.Cues.Stop = expandHome(cfg.Cues.Stop)

	return cfg, nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

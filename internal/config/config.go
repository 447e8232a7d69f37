package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the only persisted config file schema.
type Config struct {
	Provider string `toml:"provider"` // "anthropic", "openai" or "echo"
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	Token    string `toml:"token"`
	LogPath  string `toml:"log_path"`

	// MouseScrollLines is how many rows one wheel notch moves.
	MouseScrollLines int `toml:"mouse_scroll_lines"`

	Source string `toml:"-"`
}

func Default() Config {
	return Config{
		Provider:         "anthropic",
		MouseScrollLines: 3,
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".glyph", "config.toml")
}

// Load reads the config file, falling back to defaults when it does not
// exist. Environment variables override the file in both cases.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	if cfg.MouseScrollLines <= 0 {
		cfg.MouseScrollLines = 3
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("GLYPH_PROVIDER")); env != "" {
		cfg.Provider = env
	}
	if env := strings.TrimSpace(os.Getenv("GLYPH_MODEL")); env != "" {
		cfg.Model = env
	}
	if env := strings.TrimSpace(os.Getenv("ANTHROPIC_BASE_URL")); env != "" {
		cfg.BaseURL = env
	}
	if env := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); env != "" {
		cfg.Token = env
	}
}

// Package config resolves runtime settings for every whiteboard binary:
// built-in defaults, then an optional TOML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"whiteboard/internal/domain"
)

const (
	// DefaultBoardName names the board when none is configured
	DefaultBoardName = "default"

	// DefaultHTTPAddr is where whiteboard-server listens
	DefaultHTTPAddr = "127.0.0.1:8420"

	// Environment overrides
	EnvConfig   = "WHITEBOARD_CONFIG"
	EnvStore    = "WHITEBOARD_STORE"
	EnvDatabase = "WHITEBOARD_DB"
	EnvStoreURL = "WHITEBOARD_STORE_URL"
	EnvBoard    = "WHITEBOARD_BOARD"
	EnvLogLevel = "WHITEBOARD_LOG"
)

// Store backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the resolved configuration
type Config struct {
	Board     BoardConfig          `toml:"board"`
	Store     StoreConfig          `toml:"store"`
	Generator GeneratorConfig      `toml:"generator"`
	Shape     domain.ShapeDefaults `toml:"shape"`
	Edge      domain.EdgeDefaults  `toml:"edge"`
	UI        domain.UIPreferences `toml:"ui"`
	HTTP      HTTPConfig           `toml:"http"`
	Log       LogConfig            `toml:"log"`
}

type BoardConfig struct {
	Name         string `toml:"name" validate:"required,max=64"`
	OrphanPolicy string `toml:"orphan_policy" validate:"oneof=promote cascade"`
}

type StoreConfig struct {
	Backend string `toml:"backend" validate:"oneof=sqlite file memory redis mongo"`
	// Path is the database file for sqlite or the directory for file.
	// Empty means the per-board location under XDG_DATA_HOME.
	Path string `toml:"path"`
	// URL is the server address for redis and mongo
	URL string `toml:"url"`
	// AutosaveDelay batches rapid edits before writing
	AutosaveDelay Duration `toml:"autosave_delay"`
}

type GeneratorConfig struct {
	ChunkSize int      `toml:"chunk_size" validate:"min=1,max=10000"`
	Cols      int      `toml:"cols" validate:"min=1,max=1000"`
	FrameTime Duration `toml:"frame_time"`
	// MaxCount caps a single generation run
	MaxCount int `toml:"max_count" validate:"min=1,max=1000000"`
}

type HTTPConfig struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
}

type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Duration decodes TOML strings like "16ms"
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Board: BoardConfig{Name: DefaultBoardName, OrphanPolicy: "promote"},
		Store: StoreConfig{
			Backend:       BackendSQLite,
			AutosaveDelay: Duration{250 * time.Millisecond},
		},
		Generator: GeneratorConfig{
			ChunkSize: 300,
			Cols:      100,
			FrameTime: Duration{16 * time.Millisecond},
			MaxCount:  100_000,
		},
		Shape: domain.DefaultShapeDefaults(),
		Edge:  domain.DefaultEdgeDefaults(),
		UI:    domain.DefaultUIPreferences(),
		HTTP:  HTTPConfig{Addr: DefaultHTTPAddr},
		Log:   LogConfig{Level: "info"},
	}
}

// Load resolves the configuration. The file named by WHITEBOARD_CONFIG is
// read if set, otherwise ~/.config/whiteboard/config.toml if it exists.
func Load() (Config, error) {
	path := os.Getenv(EnvConfig)
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	return LoadFile(path, explicit)
}

// LoadFile resolves the configuration using path as the TOML source. A
// missing file is an error only when required is set.
func LoadFile(path string, required bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(ExpandHome(path))
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	applyEnv(&cfg)
	if r, err := domain.ParseRoutingType(string(cfg.Edge.Routing)); err == nil {
		cfg.Edge.Routing = r
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section
func (c Config) Validate() error {
	v := validator.New()
	for name, section := range map[string]any{
		"board":     c.Board,
		"store":     c.Store,
		"generator": c.Generator,
		"shape":     c.Shape,
		"edge":      c.Edge,
		"http":      c.HTTP,
		"log":       c.Log,
	} {
		if err := v.Struct(section); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				fe := verrs[0]
				return fmt.Errorf("config [%s] %s: failed %q (got %v)", name, strings.ToLower(fe.Field()), fe.Tag(), fe.Value())
			}
			return fmt.Errorf("config [%s]: %w", name, err)
		}
	}
	if (c.Store.Backend == BackendRedis || c.Store.Backend == BackendMongo) && c.Store.URL == "" {
		return fmt.Errorf("config [store] url: required for the %s backend", c.Store.Backend)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if env := os.Getenv(EnvStore); env != "" {
		cfg.Store.Backend = strings.ToLower(env)
	}
	if env := os.Getenv(EnvDatabase); env != "" {
		cfg.Store.Path = env
	}
	if env := os.Getenv(EnvStoreURL); env != "" {
		cfg.Store.URL = env
	}
	if env := os.Getenv(EnvBoard); env != "" {
		cfg.Board.Name = env
	}
	if env := os.Getenv(EnvLogLevel); env != "" {
		cfg.Log.Level = strings.ToLower(env)
	}
}

// DefaultPath returns ~/.config/whiteboard/config.toml, honoring XDG_CONFIG_HOME
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "whiteboard", "config.toml")
}

// DataDir returns the directory whiteboard keeps its stores in
func DataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "whiteboard")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

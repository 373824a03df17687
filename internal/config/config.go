package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ServerConfig groups the listeners.
type ServerConfig struct {
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
}

// WebSocketConfig configures the game transport.
type WebSocketConfig struct {
	Address        string        `mapstructure:"address"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// GRPCConfig configures the health service listener.
type GRPCConfig struct {
	Address string `mapstructure:"address"`
	Enabled bool   `mapstructure:"enabled"`
}

// GameConfig holds match and lobby settings.
type GameConfig struct {
	CompactionDelay time.Duration `mapstructure:"compaction_delay"`
	MinPlayers      int           `mapstructure:"min_players"`
	MaxPlayers      int           `mapstructure:"max_players"`
	CodeLength      int           `mapstructure:"code_length"`
}

// LoggingConfig selects log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig configures the match results store. An empty URL
// disables it.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.websocket.address", ":3001")
	v.SetDefault("server.websocket.read_limit", 64*1024)
	v.SetDefault("server.websocket.write_timeout", 5*time.Second)
	v.SetDefault("server.websocket.allowed_origins", []string{})
	v.SetDefault("server.grpc.address", ":3002")
	v.SetDefault("server.grpc.enabled", true)

	v.SetDefault("game.compaction_delay", 800*time.Millisecond)
	v.SetDefault("game.min_players", 3)
	v.SetDefault("game.max_players", 8)
	v.SetDefault("game.code_length", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
}

// Load builds the configuration from defaults, the YAML file at path and
// SUSPECT_ environment variables, later sources winning. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SUSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values for consistency.
func (c *Config) Validate() error {
	if c.Server.WebSocket.Address == "" {
		return fmt.Errorf("server.websocket.address must be set")
	}
	if c.Server.WebSocket.ReadLimit <= 0 {
		return fmt.Errorf("server.websocket.read_limit must be positive, got %d", c.Server.WebSocket.ReadLimit)
	}
	if c.Server.WebSocket.WriteTimeout <= 0 {
		return fmt.Errorf("server.websocket.write_timeout must be positive, got %s", c.Server.WebSocket.WriteTimeout)
	}
	if c.Server.GRPC.Enabled && c.Server.GRPC.Address == "" {
		return fmt.Errorf("server.grpc.address must be set when grpc is enabled")
	}
	if c.Game.CompactionDelay < 0 {
		return fmt.Errorf("game.compaction_delay must not be negative, got %s", c.Game.CompactionDelay)
	}
	if c.Game.MinPlayers < 3 {
		return fmt.Errorf("game.min_players must be at least 3, got %d", c.Game.MinPlayers)
	}
	if c.Game.MaxPlayers < c.Game.MinPlayers || c.Game.MaxPlayers > 8 {
		return fmt.Errorf("game.max_players must be between %d and 8, got %d", c.Game.MinPlayers, c.Game.MaxPlayers)
	}
	if c.Game.CodeLength < 4 {
		return fmt.Errorf("game.code_length must be at least 4, got %d", c.Game.CodeLength)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Database.URL != "" && c.Database.MaxConns <= 0 {
		return fmt.Errorf("database.max_conns must be positive, got %d", c.Database.MaxConns)
	}
	return nil
}

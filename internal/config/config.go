// Package config loads server configuration from (lowest to highest
// precedence) a config file, HOSTDASH_-prefixed environment variables, and
// command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	DefaultPort     = 3000
	DefaultAttempts = 5
	// MaxAttempts is the hard cap on the port fallback range.
	MaxAttempts = 50
)

// Config is the typed view of everything the server consumes.
type Config struct {
	Server struct {
		Host string
		// Port is the base port; binding falls back through
		// Port..Port+Attempts-1.
		Port     int
		Attempts int
	}
	Platform struct {
		// Override forces the detected platform (standard-linux, alpine,
		// termux).
		Override string
		// Prefix overrides the filesystem root for marker probes and
		// pseudo-file reads.
		Prefix string
	}
	Exec struct {
		Timeout time.Duration
	}
	Web struct {
		// Root is the directory static assets are served from.
		Root string
	}
	Audit struct {
		// Path of the sqlite audit database. Empty string is replaced by
		// the default; "off" disables auditing.
		Path string
	}
	Log struct {
		Level string
	}
}

// Load builds a Config. flagSet may be nil; configFile may be empty.
// The plain PORT environment variable is honored as a second name for
// server.port when no HOSTDASH_SERVER_PORT is set.
func Load(flagSet *pflag.FlagSet, configFile string) (Config, error) {
	k := koanf.New(".")

	if configFile != "" {
		parser, err := parserForFile(configFile)
		if err != nil {
			return Config{}, fmt.Errorf("config: unsupported config file format: %w", err)
		}
		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", configFile, err)
		}
	}

	// HOSTDASH_SERVER_PORT -> server.port, etc.
	k.Load(env.Provider("HOSTDASH_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "HOSTDASH_")), "_", ".", -1)
	}), nil)

	if flagSet != nil {
		k.Load(posflag.Provider(flagSet, ".", k), nil)
	}

	var cfg Config
	cfg.Server.Host = k.String("server.host")

	port := k.Int("server.port")
	if port == 0 {
		if raw := os.Getenv("PORT"); raw != "" {
			p, err := strconv.Atoi(raw)
			if err != nil {
				return Config{}, fmt.Errorf("config: PORT is not numeric: %q", raw)
			}
			port = p
		}
	}
	if port == 0 {
		port = DefaultPort
	}
	if port < 1 || port > 65535 {
		return Config{}, fmt.Errorf("config: port %d out of range 1-65535", port)
	}
	cfg.Server.Port = port

	attempts := k.Int("server.attempts")
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if attempts > MaxAttempts {
		attempts = MaxAttempts
	}
	cfg.Server.Attempts = attempts

	cfg.Platform.Override = k.String("platform.override")
	cfg.Platform.Prefix = k.String("platform.prefix")

	cfg.Exec.Timeout = k.Duration("exec.timeout")
	if cfg.Exec.Timeout <= 0 {
		cfg.Exec.Timeout = 30 * time.Second
	}

	cfg.Web.Root = k.String("web.root")
	if cfg.Web.Root == "" {
		cfg.Web.Root = "web"
	}

	cfg.Audit.Path = k.String("audit.path")
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = "hostdash.db"
	}

	cfg.Log.Level = k.String("log.level")
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func parserForFile(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".env":
		return dotenv.Parser(), nil
	default:
		return nil, fmt.Errorf("unknown file extension: %s", ext)
	}
}

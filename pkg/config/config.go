// Package config loads gasket's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/gasket/config.toml (falling back to
// ~/.config/gasket/config.toml) unless a path is given explicitly. Every key
// is optional; absent keys keep the values from [Default]. Command-line
// flags override the file.
//
//	[generate]
//	depth = 5
//	policy = "reflect"
//	formats = ["json", "dot"]
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//	write_timeout = "1m"
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/gasket"
	"github.com/matzehuels/gasket/pkg/pipeline"
)

const appName = "gasket"

// Backend names shared by [CacheConfig] and [StoreConfig].
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the root of the configuration file.
type Config struct {
	Generate GenerateConfig `toml:"generate"`
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
	Server   ServerConfig   `toml:"server"`
}

// GenerateConfig holds defaults for the generate command and API requests.
type GenerateConfig struct {
	Depth      int      `toml:"depth"`
	Policy     string   `toml:"policy"`
	Attempts   int      `toml:"attempts"`
	Radius     float64  `toml:"radius"`
	MaxCircles int      `toml:"max_circles"`
	Formats    []string `toml:"formats"`
}

// CacheConfig selects the cache backend. Backend is one of none, file,
// redis or mongo. An empty Dir means the XDG cache directory.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	MongoURI string `toml:"mongo_uri"`
	Prefix   string `toml:"prefix"`
}

// StoreConfig selects the run store. Backend is one of memory, file, redis
// or mongo. TTL only applies to redis.
type StoreConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	MongoURI string   `toml:"mongo_uri"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig configures `gasket serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	Metrics      bool     `toml:"metrics"`

	// MaxDepth caps the depth API clients may request.
	MaxDepth int `toml:"max_depth"`
}

// Duration is a time.Duration written as a string ("30s", "1h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Generate: GenerateConfig{
			Depth:    gasket.DefaultMaxDepth,
			Policy:   gasket.PolicyOuter.String(),
			Attempts: gasket.DefaultAttempts,
			Radius:   pipeline.DefaultRadius,
			Formats:  []string{pipeline.FormatJSON},
		},
		Cache: CacheConfig{
			Backend: BackendFile,
		},
		Store: StoreConfig{
			Backend: BackendFile,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			Metrics:      true,
			MaxDepth:     8,
		},
	}
}

// DefaultPath returns the config file location following the XDG base
// directory convention.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path. An empty path means [DefaultPath],
// and a missing default file yields [Default]. An explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	} else if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	return Parse(string(data))
}

// Parse decodes TOML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and backend settings.
func (c *Config) Validate() error {
	g := c.Generate
	if _, err := gasket.ParsePolicy(g.Policy); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "generate.policy")
	}
	if g.Depth < 0 || g.Depth > gasket.MaxDepthLimit {
		return errors.New(errors.ErrCodeInvalidConfig, "generate.depth %d out of range [0, %d]", g.Depth, gasket.MaxDepthLimit)
	}
	if g.Attempts < 0 || g.Radius < 0 || g.MaxCircles < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "generate: attempts, radius and max_circles must not be negative")
	}
	if err := pipeline.ValidateFormats(g.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "generate.formats")
	}

	if err := validateBackend("cache", c.Cache.Backend, c.Cache.RedisURL, c.Cache.MongoURI,
		BackendNone, BackendFile, BackendRedis, BackendMongo); err != nil {
		return err
	}
	if err := validateBackend("store", c.Store.Backend, c.Store.RedisURL, c.Store.MongoURI,
		BackendMemory, BackendFile, BackendRedis, BackendMongo); err != nil {
		return err
	}
	if c.Store.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "store.ttl must not be negative")
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	if c.Server.MaxDepth < 0 || c.Server.MaxDepth > gasket.MaxDepthLimit {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_depth %d out of range [0, %d]", c.Server.MaxDepth, gasket.MaxDepthLimit)
	}
	return nil
}

func validateBackend(section, backend, redisURL, mongoURI string, allowed ...string) error {
	ok := false
	for _, a := range allowed {
		if backend == a {
			ok = true
			break
		}
	}
	if !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "%s.backend %q must be one of: %s", section, backend, strings.Join(allowed, ", "))
	}
	switch backend {
	case BackendRedis:
		if err := errors.ValidateRedisURL(redisURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s.redis_url", section)
		}
	case BackendMongo:
		if err := errors.ValidateMongoURI(mongoURI); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s.mongo_uri", section)
		}
	}
	return nil
}

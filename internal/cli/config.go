package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/qswap/pkg/errors"
)

// Config is the optional configuration file. Every field mirrors a command
// flag; flags given on the command line win.
//
//	[solve]
//	lattice = "hex"
//	iterations = 5000
//	workers = 4
//
//	[cache]
//	backend = "badger"
type Config struct {
	Solve  SolveConfig  `toml:"solve" yaml:"solve"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Server ServerConfig `toml:"server" yaml:"server"`
}

// SolveConfig holds defaults for "qswap solve".
type SolveConfig struct {
	Lattice        string  `toml:"lattice" yaml:"lattice" flag:"lattice"`
	Iterations     int     `toml:"iterations" yaml:"iterations" flag:"iterations"`
	EntangleScaler float64 `toml:"entangle_scaler" yaml:"entangle_scaler" flag:"entangle-scaler"`
	DistanceScaler float64 `toml:"distance_scaler" yaml:"distance_scaler" flag:"distance-scaler"`
	NoTruncate     bool    `toml:"no_truncate" yaml:"no_truncate" flag:"no-truncate"`
	Seed           uint64  `toml:"seed" yaml:"seed" flag:"seed"`
	MaxAttempts    int     `toml:"max_attempts" yaml:"max_attempts" flag:"max-attempts"`
	StrikeLimit    int     `toml:"strike_limit" yaml:"strike_limit" flag:"strike-limit"`
	Workers        int     `toml:"workers" yaml:"workers" flag:"workers"`
}

// CacheConfig selects the solution cache.
type CacheConfig struct {
	Disabled  bool   `toml:"disabled" yaml:"disabled" flag:"no-cache"`
	Backend   string `toml:"backend" yaml:"backend" flag:"cache-backend"`
	RedisAddr string `toml:"redis_addr" yaml:"redis_addr" flag:"redis-addr"`
	Dir       string `toml:"dir" yaml:"dir" flag:"cache-dir"`
}

// ServerConfig holds defaults for "qswap serve".
type ServerConfig struct {
	Addr      string  `toml:"addr" yaml:"addr" flag:"addr"`
	Store     string  `toml:"store" yaml:"store" flag:"store"`
	StoreDir  string  `toml:"store_dir" yaml:"store_dir" flag:"store-dir"`
	MongoURI  string  `toml:"mongo_uri" yaml:"mongo_uri" flag:"mongo-uri"`
	RateLimit float64 `toml:"rate_limit" yaml:"rate_limit" flag:"rate-limit"`
	Burst     int     `toml:"burst" yaml:"burst" flag:"burst"`
}

// defaultConfigPath returns $XDG_CONFIG_HOME/qswap/config.toml.
func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// loadConfig reads the config file at path. With an empty path the default
// location is tried and a missing file yields an empty config.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
	default:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undec[0].String())
		}
	}
	return &cfg, nil
}

// applyConfig copies non-zero fields of section onto cmd's flags, using each
// field's `flag` tag, unless the flag was set on the command line.
func applyConfig(cmd *cobra.Command, section any) error {
	v := reflect.ValueOf(section)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()
	for i := range t.NumField() {
		name := t.Field(i).Tag.Get("flag")
		if name == "" || v.Field(i).IsZero() {
			continue
		}
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		if err := cmd.Flags().Set(name, fmt.Sprint(v.Field(i).Interface())); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config value for --%s", name)
		}
	}
	return nil
}

// configure loads the file named by --config and applies the given sections.
func configure(cmd *cobra.Command, sections func(*Config) []any) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	for _, s := range sections(cfg) {
		if err := applyConfig(cmd, s); err != nil {
			return err
		}
	}
	return nil
}

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "config file, .toml or .yaml (default: $XDG_CONFIG_HOME/qswap/config.toml)")
}

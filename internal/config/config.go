// Package config holds the runtime settings of the scenery demo
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const sceneSuffix = ".scn.yaml"

// Config is filled from defaults, an optional YAML file and command line
// flags, in that order
type Config struct {
	Assets    string `yaml:"assets"`
	Scene     string `yaml:"scene"`
	Watch     bool   `yaml:"watch"`
	IOWorkers int    `yaml:"io_workers"`
	LogLevel  string `yaml:"log_level"`
	LogDev    bool   `yaml:"log_dev"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Inspector bool   `yaml:"inspector"`
}

func Default() Config {
	return Config{
		Assets:    "assets",
		Scene:     "scenes/load_scene_example.scn.yaml",
		IOWorkers: 4,
		LogLevel:  "info",
		Width:     1280,
		Height:    720,
	}
}

// RegisterFlags binds every setting to a flag on fs
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Assets, "assets", c.Assets, "assets directory")
	fs.StringVar(&c.Scene, "scene", c.Scene, "scene file saved with S and loaded with L, relative to -assets")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "reload changed assets and respawn scenes built from them")
	fs.IntVar(&c.IOWorkers, "io-workers", c.IOWorkers, "maximum concurrent file reads and writes")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&c.LogDev, "log-dev", c.LogDev, "human readable console logs")
	fs.IntVar(&c.Width, "width", c.Width, "window width")
	fs.IntVar(&c.Height, "height", c.Height, "window height")
	fs.BoolVar(&c.Inspector, "inspector", c.Inspector, "show the world inspector")
}

// Validate reports every invalid setting at once
func (c Config) Validate() error {
	var errs []error
	if c.Assets == "" {
		errs = append(errs, errors.New("assets directory must be set"))
	}
	if !strings.HasSuffix(c.Scene, sceneSuffix) {
		errs = append(errs, fmt.Errorf("scene %q must end in %s", c.Scene, sceneSuffix))
	}
	if filepath.IsAbs(c.Scene) || strings.HasPrefix(filepath.Clean(c.Scene), "..") {
		errs = append(errs, fmt.Errorf("scene %q must be inside the assets directory", c.Scene))
	}
	if c.IOWorkers < 1 {
		errs = append(errs, fmt.Errorf("io-workers must be at least 1, got %d", c.IOWorkers))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log-level: %w", err))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	return errors.Join(errs...)
}

// ScenePath returns the scene file location on disk
func (c Config) ScenePath() string {
	return filepath.Join(c.Assets, filepath.FromSlash(c.Scene))
}

// ReadFile returns the defaults overlaid with the settings in a YAML file
func ReadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Load parses args. A -config file replaces the defaults and flags given
// explicitly on the command line override the file.
func Load(name string, args []string) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	file := fs.String("config", "", "YAML config file")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *file != "" {
		fromFile, err := ReadFile(*file)
		if err != nil {
			return cfg, err
		}

		overrides := flag.NewFlagSet(name, flag.ContinueOnError)
		fromFile.RegisterFlags(overrides)
		var setErr error
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "config" || setErr != nil {
				return
			}
			setErr = overrides.Set(f.Name, f.Value.String())
		})
		if setErr != nil {
			return cfg, setErr
		}
		cfg = fromFile
	}

	return cfg, cfg.Validate()
}

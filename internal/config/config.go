// Package config loads reader settings from the config file, environment
// and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"

	"github.com/metcalfc/pacer/internal/define"
	"github.com/metcalfc/pacer/internal/library"
	"github.com/metcalfc/pacer/internal/playback"
	"github.com/metcalfc/pacer/internal/segment"
)

// Name is used for the config file, env prefix and app directories.
const Name = "pacer"

// Settings is the decoded configuration file.
type Settings struct {
	Mode          string   `yaml:"mode" mapstructure:"mode"`
	GroupSize     int      `yaml:"group_size" mapstructure:"group_size"`
	WPM           int      `yaml:"wpm" mapstructure:"wpm"`
	Abbreviations []string `yaml:"abbreviations" mapstructure:"abbreviations"`
	Store         Store    `yaml:"store" mapstructure:"store"`
	Define        Define   `yaml:"define" mapstructure:"define"`
}

// Store selects the library backend.
type Store struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// Define configures definition lookups.
type Define struct {
	Enabled  bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string  `yaml:"endpoint" mapstructure:"endpoint"`
	Rate     float64 `yaml:"rate" mapstructure:"rate"`
	Timeout  string  `yaml:"timeout" mapstructure:"timeout"`
}

// Env holds process-level settings read from the environment.
type Env struct {
	Debug   bool   `env:"PACER_DEBUG"`
	LogFile string `env:"PACER_LOG_FILE"`
	Editor  string `env:"EDITOR"`
}

// ReadEnv parses Env from the process environment.
func ReadEnv() (Env, error) {
	return env.ParseAs[Env]()
}

// Default returns the built-in settings.
func Default() Settings {
	pb := playback.DefaultConfig()
	return Settings{
		Mode:          pb.Mode.String(),
		GroupSize:     pb.GroupSize,
		WPM:           pb.WordsPerMinute,
		Abbreviations: append([]string(nil), segment.DefaultAbbreviations...),
		Store: Store{
			Backend: library.BackendJSON,
		},
		Define: Define{
			Enabled:  true,
			Endpoint: define.DefaultEndpoint,
			Rate:     2,
			Timeout:  "5s",
		},
	}
}

// SetDefaults registers every key of Default on v so environment
// variables and flags can override them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("mode", d.Mode)
	v.SetDefault("group_size", d.GroupSize)
	v.SetDefault("wpm", d.WPM)
	v.SetDefault("abbreviations", d.Abbreviations)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("define.enabled", d.Define.Enabled)
	v.SetDefault("define.endpoint", d.Define.Endpoint)
	v.SetDefault("define.rate", d.Define.Rate)
	v.SetDefault("define.timeout", d.Define.Timeout)
}

// SearchDirs returns the config directories in lookup order:
// $PACER_CONFIG_HOME, $XDG_CONFIG_HOME/pacer, then the platform defaults.
func SearchDirs() ([]string, error) {
	scope := gap.NewScope(gap.User, Name)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("find configuration directory: %w", err)
	}
	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, Name)}, dirs...)
	}
	if c := os.Getenv("PACER_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs, nil
}

// DefaultFile returns where a new config file is created.
func DefaultFile() (string, error) {
	dirs, err := SearchDirs()
	if err != nil {
		return "", err
	}
	if len(dirs) == 0 {
		return "", errors.New("no configuration directory available")
	}
	return filepath.Join(dirs[0], Name+".yml"), nil
}

// Load reads file, or the first pacer.yml found in SearchDirs when file
// is empty, into v and decodes the result. A missing default file is not
// an error.
func Load(v *viper.Viper, file string) (Settings, error) {
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		dirs, err := SearchDirs()
		if err != nil {
			return Settings{}, err
		}
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(Name)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
	}
	return Decode(v)
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// FieldError reports an invalid setting outside the playback group.
type FieldError struct {
	Field string
	Value any
	Cause error
}

func (e *FieldError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid setting %s=%v: %v", e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid setting %s=%v", e.Field, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Cause }

// Validate checks every field. Playback fields report a
// *playback.ConfigError, the rest a *FieldError.
func (s Settings) Validate() error {
	if _, err := s.Playback(); err != nil {
		return err
	}
	switch s.Store.Backend {
	case library.BackendJSON, library.BackendSQLite:
	default:
		return &FieldError{Field: "store.backend", Value: s.Store.Backend, Cause: library.ErrUnknownBackend}
	}
	if s.Define.Rate < 0 {
		return &FieldError{Field: "define.rate", Value: s.Define.Rate}
	}
	if _, err := s.DefineTimeout(); err != nil {
		return &FieldError{Field: "define.timeout", Value: s.Define.Timeout, Cause: err}
	}
	return nil
}

// Playback converts the grouping and rate settings.
func (s Settings) Playback() (playback.Config, error) {
	mode, err := segment.ParseMode(s.Mode)
	if err != nil {
		return playback.Config{}, &playback.ConfigError{Field: "mode", Value: s.Mode, Cause: err}
	}
	cfg := playback.Config{Mode: mode, GroupSize: s.GroupSize, WordsPerMinute: s.WPM}
	if err := cfg.Validate(); err != nil {
		return playback.Config{}, err
	}
	return cfg, nil
}

// Segmenter builds a segmenter using the configured abbreviations.
func (s Settings) Segmenter() *segment.Segmenter {
	if s.Abbreviations == nil {
		return segment.New()
	}
	return segment.New(segment.WithAbbreviations(s.Abbreviations...))
}

// DefineTimeout parses define.timeout. Empty means no timeout.
func (s Settings) DefineTimeout() (time.Duration, error) {
	if s.Define.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Define.Timeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative timeout %s", d)
	}
	return d, nil
}

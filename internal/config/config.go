package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "DESK"
)

// Settings mirrors config.yaml.
type Settings struct {
	DataDir   string         `mapstructure:"data_dir" json:"data_dir" yaml:"data_dir"`
	Database  string         `mapstructure:"database" json:"database" yaml:"database"`
	Timezone  string         `mapstructure:"timezone" json:"timezone" yaml:"timezone"`
	LogLevel  string         `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
	LogFormat string         `mapstructure:"log_format" json:"log_format" yaml:"log_format"`
	Report    ReportSettings `mapstructure:"report" json:"report" yaml:"report"`
	Server    ServerSettings `mapstructure:"server" json:"server" yaml:"server"`
}

// ReportSettings holds reporting defaults.
type ReportSettings struct {
	DefaultDays int    `mapstructure:"default_days" json:"default_days" yaml:"default_days"`
	Period      string `mapstructure:"period" json:"period" yaml:"period"`
	FillGaps    bool   `mapstructure:"fill_gaps" json:"fill_gaps" yaml:"fill_gaps"`
}

// ServerSettings holds HTTP server settings.
type ServerSettings struct {
	Addr string `mapstructure:"addr" json:"addr" yaml:"addr"`
}

// Defaults returns the settings used when config.yaml is absent.
func Defaults() Settings {
	return Settings{
		Database:  "desk.db",
		Timezone:  "UTC",
		LogLevel:  "info",
		LogFormat: "text",
		Report: ReportSettings{
			DefaultDays: 7,
			Period:      "daily",
			FillGaps:    true,
		},
		Server: ServerSettings{Addr: ":8080"},
	}
}

// Options carries directory overrides from command-line flags.
type Options struct {
	ConfigDir string
	DataDir   string
}

// Config is the resolved, validated configuration.
type Config struct {
	Settings

	ConfigDir string
	DataDir   string
	Location  *time.Location
}

// DatabasePath returns the SQLite file path inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.Database)
}

// ConfigFile returns the path of config.yaml.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.ConfigDir, configFileExt)
}

// Error reports a setting that failed validation.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load resolves directories, reads config.yaml (if present) with DESK_*
// environment overrides, and validates the result.
// A missing config.yaml is not an error.
func Load(opts Options) (*Config, error) {
	configDir, err := ResolveConfigDir(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v := newViper(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := Validate(s); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, &Error{Path: "timezone", Err: err}
	}

	dataDir, err := ResolveDataDir(opts.DataDir, s.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	return &Config{
		Settings:  s,
		ConfigDir: configDir,
		DataDir:   dataDir,
		Location:  loc,
	}, nil
}

func newViper(configDir string) *viper.Viper {
	v := viper.New()

	d := Defaults()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("database", d.Database)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("report.default_days", d.Report.DefaultDays)
	v.SetDefault("report.period", d.Report.Period)
	v.SetDefault("report.fill_gaps", d.Report.FillGaps)
	v.SetDefault("server.addr", d.Server.Addr)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Validate checks s against the embedded CUE schema. The first violation
// is returned as an *Error naming the offending key.
func Validate(s Settings) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := schema.LookupPath(cue.ParsePath("#Settings")).Unify(ctx.Encode(s))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return firstSchemaError(err)
	}
	return nil
}

func firstSchemaError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Path: "(root)", Err: err}
	}
	first := errs[0]
	elems := first.Path()
	if len(elems) > 0 && strings.HasPrefix(elems[0], "#") {
		elems = elems[1:]
	}
	path := strings.Join(elems, ".")
	if path == "" {
		path = "(root)"
	}
	format, args := first.Msg()
	return &Error{Path: path, Err: fmt.Errorf(format, args...)}
}

// WriteDefault writes config.yaml with default settings into configDir if
// it does not already exist. Returns true when a file was written.
func WriteDefault(configDir string) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}

	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	body, err := yaml.Marshal(Defaults())
	if err != nil {
		return false, fmt.Errorf("encode default config: %w", err)
	}

	content := append([]byte("# desk configuration\n# Environment variables DESK_<KEY> override these values.\n\n"), body...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("write config file: %w", err)
	}
	return true, nil
}

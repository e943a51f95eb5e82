// Package config loads afgraph connection files.
//
// A connection file is TOML:
//
//	[connection]
//	location = "mongodb://localhost:27017"
//	database = "genomes"
//	username = "reader"
//	password = "secret"
//
//	[engine]
//	k = 4
//	cache = "file"          # none, file or redis
//	redis_addr = "localhost:6379"
//	cache_ttl = "24h"
//
//	[render]
//	layout = "eades"        # eades, neato, fdp or circle
//	width = 800
//	height = 480
//
// Files ending in .json are read as JSON with the same keys, which keeps
// older credentials.json files working. A location that is not a MongoDB
// connection string is taken as the path of a FASTA file.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/afgraph/pkg/errors"
)

// Config is a complete connection file.
type Config struct {
	Connection Connection `toml:"connection" json:"connection"`
	Engine     Engine     `toml:"engine" json:"engine"`
	Render     Render     `toml:"render" json:"render"`
}

// Connection selects the sequence store.
type Connection struct {
	Location string `toml:"location" json:"location" validate:"required"`
	Database string `toml:"database" json:"database" validate:"required_if_mongo"`
	Username string `toml:"username" json:"username"`
	Password string `toml:"password" json:"password" validate:"excluded_without=Username"`
}

// Engine tunes the reference engine.
type Engine struct {
	K         int      `toml:"k" json:"k" validate:"omitempty,min=2"`
	Cache     string   `toml:"cache" json:"cache" validate:"omitempty,oneof=none file redis"`
	RedisAddr string   `toml:"redis_addr" json:"redis_addr" validate:"required_if=Cache redis"`
	CacheTTL  Duration `toml:"cache_ttl" json:"cache_ttl"`
}

// Render sets drawing defaults.
type Render struct {
	Layout string `toml:"layout" json:"layout" validate:"omitempty,oneof=eades neato fdp circle"`
	Width  int    `toml:"width" json:"width" validate:"omitempty,min=100,max=10000"`
	Height int    `toml:"height" json:"height" validate:"omitempty,min=100,max=10000"`
}

// IsMongo reports whether the connection points at MongoDB.
func (c Connection) IsMongo() bool { return errors.IsMongoURI(c.Location) }

// Duration is a time.Duration written as a string such as "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("required_if_mongo", func(fl validator.FieldLevel) bool {
		conn, ok := fl.Parent().Interface().(Connection)
		return !ok || !conn.IsMongo() || fl.Field().String() != ""
	}, true)
	return v
}

// Validate checks c and returns an INVALID_CONFIG error naming the first
// bad field.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if err := errors.ValidateLocation(c.Connection.Location); err != nil {
		return err
	}
	if c.Connection.IsMongo() {
		return errors.ValidateDatabaseName(c.Connection.Database)
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	e := verrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required", "required_if", "required_if_mongo":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: field is required", field)
	case "min":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be at least %s", field, e.Param())
	case "max":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must not exceed %s", field, e.Param())
	case "oneof":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be one of %s", field, e.Param())
	case "excluded_without":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: set only together with %s", field, e.Param())
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
	}
}

// Parse decodes data as TOML, or as JSON when format is "json".
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse json config")
		}
	case "toml", "":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml config")
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undec[0].String())
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported config format %q", format)
	}
	return &cfg, nil
}

// Load reads and validates the file at path. The format follows the
// extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read config")
	}
	format := "toml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Candidates are the file names Discover looks for, in order.
var Candidates = []string{"credentials.toml", "credentials.json"}

// Discover returns the first candidate file present in dir, or "" if there
// is none.
func Discover(dir string) string {
	for _, name := range Candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Write encodes cfg as TOML to path with owner-only permissions.
func Write(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

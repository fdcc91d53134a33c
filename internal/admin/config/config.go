// Package config resolves the admin console and stub backend settings from defaults, an optional
// TOML file, a .env file, the process environment and explicit overrides.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"finitefield.org/catalog-admin/internal/admin/catalog"
)

const (
	defaultEnvFile          = ".env"
	defaultAddress          = ":3000"
	defaultBasePath         = "/admin"
	defaultEnvironment      = "Development"
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultLogLevel         = "info"
	defaultPlaceholderImage = "https://via.placeholder.com/200x150?text=Sem+Imagem"
	defaultDescriptionLimit = 60
	defaultCurrencySymbol   = "R$"
	defaultStubAddress      = ":8080"

	configFileKey = "CATALOG_CONFIG_FILE"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Catalog CatalogConfig
	Stub    StubConfig
	// File is the TOML file that was read, if any.
	File string
}

// ServerConfig configures the admin HTTP server.
type ServerConfig struct {
	Address          string
	BasePath         string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CSRFCookieSecure bool
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string
}

// CatalogConfig points the console at the product backend and tunes how products are displayed.
type CatalogConfig struct {
	APIBaseURL       string
	EndpointStyle    catalog.EndpointStyle
	PlaceholderImage string
	EditDefaultImage string
	DescriptionLimit int
	CurrencySymbol   string
	StaticBackend    bool
}

// StubConfig configures the local stub backend.
type StubConfig struct {
	Address string
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map that takes precedence over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration. Sources are consulted from highest to lowest precedence:
// explicit map, process environment, .env file, TOML file, built-in defaults.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	envLookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	configFile := strings.TrimSpace(stringWithDefault(envLookup, configFileKey, ""))
	fileValues, err := loadTOML(configFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if value, ok := envLookup(key); ok {
			return value, true
		}
		value, ok := fileValues[key]
		return value, ok
	}

	cfg := Config{
		Server: ServerConfig{
			Address:          stringWithDefault(lookup, "ADMIN_HTTP_ADDR", defaultAddress),
			BasePath:         stringWithDefault(lookup, "ADMIN_BASE_PATH", defaultBasePath),
			Environment:      stringWithDefault(lookup, "ADMIN_ENVIRONMENT", defaultEnvironment),
			ReadTimeout:      durationWithDefault(lookup, "ADMIN_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:     durationWithDefault(lookup, "ADMIN_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:      durationWithDefault(lookup, "ADMIN_IDLE_TIMEOUT", defaultIdleTimeout),
			CSRFCookieSecure: boolWithDefault(lookup, "ADMIN_CSRF_COOKIE_SECURE", false),
		},
		Log: LogConfig{
			Level: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
		},
		Catalog: CatalogConfig{
			APIBaseURL:       stringWithDefault(lookup, "CATALOG_API_BASE_URL", catalog.DefaultBaseURL),
			PlaceholderImage: stringWithDefault(lookup, "CATALOG_PLACEHOLDER_IMAGE", defaultPlaceholderImage),
			EditDefaultImage: stringWithDefault(lookup, "CATALOG_EDIT_DEFAULT_IMAGE", ""),
			DescriptionLimit: intWithDefault(lookup, "CATALOG_DESCRIPTION_LIMIT", defaultDescriptionLimit),
			CurrencySymbol:   stringWithDefault(lookup, "CATALOG_CURRENCY_SYMBOL", defaultCurrencySymbol),
			StaticBackend:    boolWithDefault(lookup, "CATALOG_STATIC_BACKEND", false),
		},
		Stub: StubConfig{
			Address: stringWithDefault(lookup, "STUB_HTTP_ADDR", defaultStubAddress),
		},
		File: configFile,
	}

	var invalid []string
	style, styleErr := catalog.ParseEndpointStyle(stringWithDefault(lookup, "CATALOG_API_ENDPOINT_STYLE", string(catalog.EndpointStylePathID)))
	if styleErr != nil {
		invalid = append(invalid, "Catalog.EndpointStyle")
	}
	cfg.Catalog.EndpointStyle = style

	if err := validateConfig(cfg, invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	if strings.TrimSpace(cfg.Server.Address) == "" {
		invalid = append(invalid, "Server.Address")
	}
	if !strings.HasPrefix(cfg.Server.BasePath, "/") {
		invalid = append(invalid, "Server.BasePath")
	}
	if cfg.Server.ReadTimeout <= 0 {
		invalid = append(invalid, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		invalid = append(invalid, "Server.WriteTimeout")
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		invalid = append(invalid, "Log.Level")
	}
	if !cfg.Catalog.StaticBackend {
		if u, err := url.Parse(cfg.Catalog.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			invalid = append(invalid, "Catalog.APIBaseURL")
		}
	}
	if cfg.Catalog.DescriptionLimit <= 0 {
		invalid = append(invalid, "Catalog.DescriptionLimit")
	}
	if strings.TrimSpace(cfg.Stub.Address) == "" {
		invalid = append(invalid, "Stub.Address")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

// fileConfig mirrors the TOML layout. Every section maps onto the environment keys above.
type fileConfig struct {
	Server struct {
		Addr             string `toml:"addr"`
		BasePath         string `toml:"base_path"`
		Environment      string `toml:"environment"`
		ReadTimeout      string `toml:"read_timeout"`
		WriteTimeout     string `toml:"write_timeout"`
		IdleTimeout      string `toml:"idle_timeout"`
		CSRFCookieSecure *bool  `toml:"csrf_cookie_secure"`
	} `toml:"server"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
	Catalog struct {
		APIBaseURL       string `toml:"api_base_url"`
		EndpointStyle    string `toml:"endpoint_style"`
		PlaceholderImage string `toml:"placeholder_image"`
		EditDefaultImage string `toml:"edit_default_image"`
		DescriptionLimit *int   `toml:"description_limit"`
		CurrencySymbol   string `toml:"currency_symbol"`
		StaticBackend    *bool  `toml:"static_backend"`
	} `toml:"catalog"`
	Stub struct {
		Addr string `toml:"addr"`
	} `toml:"stub"`
}

func (fc fileConfig) values() map[string]string {
	values := make(map[string]string)
	set := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			values[key] = value
		}
	}
	setBool := func(key string, value *bool) {
		if value != nil {
			values[key] = strconv.FormatBool(*value)
		}
	}

	set("ADMIN_HTTP_ADDR", fc.Server.Addr)
	set("ADMIN_BASE_PATH", fc.Server.BasePath)
	set("ADMIN_ENVIRONMENT", fc.Server.Environment)
	set("ADMIN_READ_TIMEOUT", fc.Server.ReadTimeout)
	set("ADMIN_WRITE_TIMEOUT", fc.Server.WriteTimeout)
	set("ADMIN_IDLE_TIMEOUT", fc.Server.IdleTimeout)
	setBool("ADMIN_CSRF_COOKIE_SECURE", fc.Server.CSRFCookieSecure)
	set("LOG_LEVEL", fc.Log.Level)
	set("CATALOG_API_BASE_URL", fc.Catalog.APIBaseURL)
	set("CATALOG_API_ENDPOINT_STYLE", fc.Catalog.EndpointStyle)
	set("CATALOG_PLACEHOLDER_IMAGE", fc.Catalog.PlaceholderImage)
	set("CATALOG_EDIT_DEFAULT_IMAGE", fc.Catalog.EditDefaultImage)
	if fc.Catalog.DescriptionLimit != nil {
		values["CATALOG_DESCRIPTION_LIMIT"] = strconv.Itoa(*fc.Catalog.DescriptionLimit)
	}
	set("CATALOG_CURRENCY_SYMBOL", fc.Catalog.CurrencySymbol)
	setBool("CATALOG_STATIC_BACKEND", fc.Catalog.StaticBackend)
	set("STUB_HTTP_ADDR", fc.Stub.Addr)
	return values
}

func loadTOML(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}

	var fc fileConfig
	decoder := toml.NewDecoder(bytes.NewReader(content))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&fc); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("config: failed parsing %s at line %d, column %d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("config: failed parsing %s: %w", path, err)
	}
	return fc.values(), nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

// Package config loads the invoice service settings. Values are layered with
// koanf: built-in defaults, then configs/base.yaml, then configs/<profile>.yaml
// and finally APP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "APP_"
	configDir = "configs"
)

// Config is the whole service configuration.
type Config struct {
	App       AppConfig       `koanf:"app" validate:"required"`
	Server    ServerConfig    `koanf:"server" validate:"required"`
	Log       LogConfig       `koanf:"log" validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client" validate:"required"`
	Invoice   InvoiceConfig   `koanf:"invoice" validate:"required"`
	Workspace WorkspaceConfig `koanf:"workspace"`
	Logo      LogoConfig      `koanf:"logo"`
	Export    ExportConfig    `koanf:"export"`
}

// AppConfig names the deployment.
type AppConfig struct {
	Name        string `koanf:"name" validate:"required"`
	Version     string `koanf:"version" validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig tunes the HTTP listener. MaxRequestSize caps every body,
// line-item uploads included.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required,min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// Addr is the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string        `koanf:"level" validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig adds a rotated JSON log file next to the console output.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path" validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size" validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,max=100"`
	MaxAgeDays int    `koanf:"max_age" validate:"omitempty,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig points the OTLP exporters at a collector.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint" validate:"required_if=Enabled true,omitempty,url"`
	Insecure     bool    `koanf:"insecure"`
	ServiceName  string  `koanf:"service_name" validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig tunes the client that fetches remote logos.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout" validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry" validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport" validate:"required"`
}

// RetryConfig is the backoff between logo fetch attempts.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts" validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval" validate:"required,min=100ms,gtefield=InitialInterval"`
	Multiplier      float64       `koanf:"multiplier" validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor" validate:"min=0,max=1"`
}

// CircuitBreakerConfig decides when a failing logo host is left alone.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures" validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout" validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig sizes the idle connection pool.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns" validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1,ltefield=MaxIdleConns"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout" validate:"required,min=1s"`
}

// InvoiceConfig holds the values a new document starts with. Tax rate and
// discount are applied as given, the same as values typed into the form.
type InvoiceConfig struct {
	DocumentType string        `koanf:"document_type" validate:"required"`
	Currency     string        `koanf:"currency" validate:"required,len=3,alpha"`
	TaxRate      float64       `koanf:"tax_rate"`
	Discount     float64       `koanf:"discount"`
	Notes        string        `koanf:"notes"`
	Company      CompanyConfig `koanf:"company"`
	Payment      PaymentConfig `koanf:"payment"`
}

// CompanyConfig is the issuing company block.
type CompanyConfig struct {
	Name    string `koanf:"name"`
	Tagline string `koanf:"tagline"`
	Address string `koanf:"address"`
	Email   string `koanf:"email" validate:"omitempty,email"`
	Phone   string `koanf:"phone"`
	Website string `koanf:"website"`
}

// PaymentConfig overrides the bank details printed on documents.
type PaymentConfig struct {
	BankName      string `koanf:"bank_name"`
	AccountNumber string `koanf:"account_number"`
}

// WorkspaceConfig configures the in-memory working document.
type WorkspaceConfig struct {
	SeedSampleItems  bool `koanf:"seed_sample_items"`
	SubscriberBuffer int  `koanf:"subscriber_buffer" validate:"omitempty,min=1,max=1024"`
}

// LogoConfig configures the background logo fetch. Location is a file path,
// an http(s) URL or an s3:// URL.
type LogoConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Location string        `koanf:"location" validate:"required_if=Enabled true"`
	Timeout  time.Duration `koanf:"timeout" validate:"omitempty,min=100ms"`
	S3Region string        `koanf:"s3_region"`
}

// ExportConfig configures document exporters.
type ExportConfig struct {
	Compress bool `koanf:"compress"`
}

// Load builds the configuration for profile. Missing YAML files are skipped;
// a file that exists but does not parse is an error. The result is not
// validated, call Validate before using it.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), ""), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	for _, path := range yamlLayers(profile) {
		if err := loadYAML(k, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading %s* environment: %w", envPrefix, err)
	}

	cfg := new(Config)
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

func yamlLayers(profile string) []string {
	layers := []string{filepath.Join(configDir, "base.yaml")}
	if profile != "" {
		layers = append(layers, filepath.Join(configDir, profile+".yaml"))
	}

	return layers
}

func loadYAML(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}

// envKeyMapper turns APP_LOGO_S3_REGION into logo.s3_region. A variable
// matching a known key keeps that key's underscores; anything else has every
// underscore read as a level separator.
func envKeyMapper(known []string) func(string) string {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name string) string {
		name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key, ok := byEnv[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

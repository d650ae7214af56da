package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig
	GitHub        GitHubConfig
	Netlify       NetlifyConfig
	Upstream      UpstreamConfig
	Audit         AuditConfig
	App           AppConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true"`
	Host            string        `envconfig:"SERVER_HOST" required:"true"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" required:"true"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" required:"true"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" required:"true"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// GitHubConfig locates the catalog file of the commit workflow.
type GitHubConfig struct {
	Token       string `envconfig:"GITHUB_TOKEN" required:"true"`
	Repo        string `envconfig:"GITHUB_REPO" required:"true"` // owner/repo
	APIURL      string `envconfig:"GITHUB_API_URL" default:"https://api.github.com"`
	CatalogPath string `envconfig:"GITHUB_CATALOG_PATH" default:"catalog.json"`
	Branch      string `envconfig:"GITHUB_BRANCH"`
}

// Validate validates the GitHub configuration.
func (c *GitHubConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if _, _, err := splitRepo(c.Repo); err != nil {
		return err
	}
	if err := validateHTTPURL(c.APIURL); err != nil {
		return fmt.Errorf("API URL: %w", err)
	}
	if strings.Trim(c.CatalogPath, "/") == "" {
		return fmt.Errorf("catalog path cannot be empty")
	}
	return nil
}

// Owner returns the owner part of Repo.
func (c *GitHubConfig) Owner() string {
	owner, _, _ := splitRepo(c.Repo)
	return owner
}

// Name returns the repository part of Repo.
func (c *GitHubConfig) Name() string {
	_, name, _ := splitRepo(c.Repo)
	return name
}

func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q (want owner/repo)", repo)
	}
	return owner, name, nil
}

// NetlifyConfig holds the site and deploy settings shared by both workflows.
type NetlifyConfig struct {
	AccessToken        string        `envconfig:"NETLIFY_ACCESS_TOKEN" required:"true"`
	SiteID             string        `envconfig:"NETLIFY_SITE_ID" required:"true"`
	CatalogURL         string        `envconfig:"NETLIFY_CATALOG_URL" required:"true"`
	APIURL             string        `envconfig:"NETLIFY_API_URL" default:"https://api.netlify.com/api/v1"`
	CatalogPath        string        `envconfig:"NETLIFY_CATALOG_PATH" default:"/catalog.json"`
	DeployPollInterval time.Duration `envconfig:"NETLIFY_DEPLOY_POLL_INTERVAL" default:"2s"`
	DeployPollTimeout  time.Duration `envconfig:"NETLIFY_DEPLOY_POLL_TIMEOUT" default:"30s"`
}

// Validate validates the Netlify configuration.
func (c *NetlifyConfig) Validate() error {
	if c.AccessToken == "" {
		return fmt.Errorf("access token cannot be empty")
	}
	if c.SiteID == "" {
		return fmt.Errorf("site ID cannot be empty")
	}
	if err := validateHTTPURL(c.CatalogURL); err != nil {
		return fmt.Errorf("catalog URL: %w", err)
	}
	if err := validateHTTPURL(c.APIURL); err != nil {
		return fmt.Errorf("API URL: %w", err)
	}
	if !strings.HasPrefix(c.CatalogPath, "/") || len(c.CatalogPath) < 2 {
		return fmt.Errorf("catalog path must be an absolute site path, got %q", c.CatalogPath)
	}
	if c.DeployPollInterval <= 0 {
		return fmt.Errorf("deploy poll interval must be positive")
	}
	if c.DeployPollTimeout < 0 {
		return fmt.Errorf("deploy poll timeout cannot be negative")
	}
	return nil
}

// UpstreamConfig bounds every outbound API call.
type UpstreamConfig struct {
	Timeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"30s"`
}

// Validate validates the upstream configuration.
func (c *UpstreamConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// Audit drivers.
const (
	AuditNone     = "none"
	AuditMemory   = "memory"
	AuditPostgres = "postgres"
	AuditSQLite   = "sqlite"
)

// AuditConfig selects the change-history backend.
type AuditConfig struct {
	Driver   string `envconfig:"AUDIT_DRIVER" default:"none"`
	DSN      string `envconfig:"AUDIT_DSN"` // Postgres connection string or SQLite file path
	MaxConns int32  `envconfig:"AUDIT_MAX_CONNS" default:"5"`
	MinConns int32  `envconfig:"AUDIT_MIN_CONNS" default:"1"`
}

// Validate validates the audit configuration.
func (c *AuditConfig) Validate() error {
	switch c.Driver {
	case AuditNone, AuditMemory:
		return nil
	case AuditPostgres, AuditSQLite:
	default:
		return fmt.Errorf("invalid driver: %s (must be one of: none, memory, postgres, sqlite)", c.Driver)
	}

	if c.DSN == "" {
		return fmt.Errorf("DSN is required for the %s driver", c.Driver)
	}
	if c.Driver == AuditPostgres {
		if c.MaxConns <= 0 {
			return fmt.Errorf("max connections must be positive")
		}
		if c.MinConns < 0 {
			return fmt.Errorf("min connections cannot be negative")
		}
		if c.MinConns > c.MaxConns {
			return fmt.Errorf("min connections (%d) cannot be greater than max connections (%d)", c.MinConns, c.MaxConns)
		}
	}
	return nil
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" required:"true"`   // development, staging, production, test
	LogLevel    string `envconfig:"LOG_LEVEL" required:"true"` // debug, info, warn, error
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Environment)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// ObservabilityConfig holds tracing configuration. Spans are written to
// stdout when enabled.
type ObservabilityConfig struct {
	Enabled           bool    `envconfig:"OTEL_ENABLED" default:"false"`
	ServiceName       string  `envconfig:"OTEL_SERVICE_NAME" default:"brandcatalog"`
	ServiceVersion    string  `envconfig:"OTEL_SERVICE_VERSION" default:"dev"`
	TracingSampleRate float64 `envconfig:"OTEL_TRACING_SAMPLE_RATE" default:"1.0"`
}

// Validate validates the observability configuration.
func (c *ObservabilityConfig) Validate() error {
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return fmt.Errorf("tracing sample rate must be between 0 and 1, got %f", c.TracingSampleRate)
	}
	if c.Enabled && c.ServiceName == "" {
		return fmt.Errorf("service name is required when observability is enabled")
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	return nil
}

type validator interface {
	Validate() error
}

// Load loads configuration from environment variables only.
// (.env loading happens in internal/app for development and test.)
func Load() (*Config, error) {
	cfg := &Config{}

	sections := []struct {
		name string
		spec validator
	}{
		{"Server", &cfg.Server},
		{"GitHub", &cfg.GitHub},
		{"Netlify", &cfg.Netlify},
		{"Upstream", &cfg.Upstream},
		{"Audit", &cfg.Audit},
		{"App", &cfg.App},
		{"Observability", &cfg.Observability},
	}

	for _, s := range sections {
		if err := envconfig.Process("", s.spec); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.name, err)
		}
		if err := s.spec.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s config: %w", s.name, err)
		}
	}

	// A request waits for the deploy poll, so the poll must end before the
	// server gives up on the response.
	if cfg.Netlify.DeployPollTimeout >= cfg.Server.WriteTimeout {
		return nil, fmt.Errorf("invalid config: NETLIFY_DEPLOY_POLL_TIMEOUT (%s) must be shorter than SERVER_WRITE_TIMEOUT (%s)",
			cfg.Netlify.DeployPollTimeout, cfg.Server.WriteTimeout)
	}

	return cfg, nil
}

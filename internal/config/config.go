package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"law-ai-api/internal/identity"
	"law-ai-api/pkg/lambda"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	Service     ServiceConfig
	Gateway     GatewayConfig
	Identity    IdentityConfig
	RateLimit   RateLimitConfig
}

// ServiceConfig identifies the service in health and root responses
type ServiceConfig struct {
	Name    string
	Version string
}

// GatewayConfig holds HTTP gateway configuration
type GatewayConfig struct {
	Stage              string
	StagePrefixes      []string
	EventFormat        lambda.EventFormat
	CORSAllowOrigin    string
	AdminRoutesEnabled bool
}

// IdentityConfig holds identity provider configuration
type IdentityConfig struct {
	Region         string
	UserPoolID     string
	ClientID       string
	ClientSecret   string
	ListMaxResults int
}

// RateLimitConfig holds rate limiting configuration for the local server
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up Viper
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVICE_NAME", "law-ai-api")
	viper.SetDefault("SERVICE_VERSION", "1.0.0")
	viper.SetDefault("STAGE", "dev")
	viper.SetDefault("GATEWAY_EVENT_FORMAT", "auto")
	viper.SetDefault("CORS_ALLOW_ORIGIN", "*")
	viper.SetDefault("ADMIN_ROUTES_ENABLED", false)
	viper.SetDefault("COGNITO_LIST_MAX_RESULTS", 60)
	viper.SetDefault("RATE_LIMIT_RPS", 20.0)
	viper.SetDefault("RATE_LIMIT_BURST", 40)

	eventFormat, err := lambda.ParseEventFormat(viper.GetString("GATEWAY_EVENT_FORMAT"))
	if err != nil {
		return nil, err
	}

	stage := strings.Trim(viper.GetString("STAGE"), "/ ")

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		Service: ServiceConfig{
			Name:    viper.GetString("SERVICE_NAME"),
			Version: viper.GetString("SERVICE_VERSION"),
		},
		Gateway: GatewayConfig{
			Stage:              stage,
			StagePrefixes:      stagePrefixes(stage, viper.GetString("STAGE_PREFIXES")),
			EventFormat:        eventFormat,
			CORSAllowOrigin:    viper.GetString("CORS_ALLOW_ORIGIN"),
			AdminRoutesEnabled: viper.GetBool("ADMIN_ROUTES_ENABLED"),
		},
		Identity: IdentityConfig{
			Region:         firstSet(viper.GetString("COGNITO_REGION"), viper.GetString("AWS_REGION")),
			UserPoolID:     viper.GetString("COGNITO_USER_POOL_ID"),
			ClientID:       viper.GetString("COGNITO_CLIENT_ID"),
			ClientSecret:   viper.GetString("COGNITO_CLIENT_SECRET"),
			ListMaxResults: viper.GetInt("COGNITO_LIST_MAX_RESULTS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that have a fixed domain
func (c *Config) Validate() error {
	if c.Identity.ListMaxResults < 1 || c.Identity.ListMaxResults > 60 {
		return fmt.Errorf("invalid COGNITO_LIST_MAX_RESULTS %d: must be between 1 and 60", c.Identity.ListMaxResults)
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT_RPS %v: must be positive", c.RateLimit.RequestsPerSecond)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("invalid RATE_LIMIT_BURST %d: must be at least 1", c.RateLimit.Burst)
	}
	for _, p := range c.Gateway.StagePrefixes {
		if !strings.HasPrefix(p, "/") || p == "/" {
			return fmt.Errorf("invalid stage prefix %q", p)
		}
	}
	return nil
}

// RequireIdentity checks the settings needed to reach the identity provider.
// It runs only for entry points that call the provider.
func (c *Config) RequireIdentity() error {
	if strings.TrimSpace(c.Identity.Region) == "" {
		return identity.NewConfigurationError("AWS_REGION")
	}
	if strings.TrimSpace(c.Identity.UserPoolID) == "" {
		return identity.NewConfigurationError("COGNITO_USER_POOL_ID")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// stagePrefixes returns "/<stage>" followed by any extra comma-separated prefixes
func stagePrefixes(stage, extra string) []string {
	var prefixes []string
	seen := map[string]bool{}

	add := func(p string) {
		p = strings.TrimSpace(p)
		p = strings.TrimRight(p, "/")
		if p == "" {
			return
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		if !seen[p] {
			seen[p] = true
			prefixes = append(prefixes, p)
		}
	}

	add(stage)
	for _, p := range strings.Split(extra, ",") {
		add(p)
	}
	return prefixes
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

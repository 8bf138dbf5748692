package server

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"law-ai-api/internal/config"
	"law-ai-api/internal/handlers"
	"law-ai-api/internal/identity"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Admin      *identity.Admin
	Cors       handlers.CorsPolicy
	Dispatcher *handlers.Dispatcher
}

type containerOptions struct {
	provider        identity.Provider
	requireIdentity bool
	logger          *logrus.Logger
}

// ContainerOption configures NewContainer
type ContainerOption func(*containerOptions)

// WithProvider injects an identity provider instead of building a Cognito client
func WithProvider(provider identity.Provider) ContainerOption {
	return func(o *containerOptions) {
		o.provider = provider
	}
}

// WithLogger injects the logger instead of building one from configuration
func WithLogger(logger *logrus.Logger) ContainerOption {
	return func(o *containerOptions) {
		o.logger = logger
	}
}

// RequireIdentity makes the identity settings mandatory. Entry points that
// only serve health and root requests leave them optional.
func RequireIdentity() ContainerOption {
	return func(o *containerOptions) {
		o.requireIdentity = true
	}
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, opts ...ContainerOption) (*Container, error) {
	options := &containerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.requireIdentity {
		if err := cfg.RequireIdentity(); err != nil {
			return nil, err
		}
	}

	logger := options.logger
	if logger == nil {
		logger = NewLogger(cfg)
	}

	container := &Container{
		Config: cfg,
		Logger: logger,
		Cors:   handlers.DefaultCorsPolicy(cfg.Gateway.CORSAllowOrigin),
	}

	needsIdentity := options.requireIdentity || cfg.Gateway.AdminRoutesEnabled
	if needsIdentity {
		provider := options.provider
		if provider == nil {
			cognito, err := identity.NewCognitoProvider(ctx, cfg.Identity.Region)
			if err != nil {
				return nil, err
			}
			provider = cognito
		}

		container.Admin = identity.NewAdmin(provider, identity.AdminConfig{
			ListMaxResults: int32(cfg.Identity.ListMaxResults),
			ClientID:       cfg.Identity.ClientID,
			ClientSecret:   cfg.Identity.ClientSecret,
		}, logger)
	}

	var routes []handlers.Route
	if cfg.Gateway.AdminRoutesEnabled {
		routes = handlers.NewAdminHandler(container.Admin, cfg.Identity.UserPoolID).Routes()
	}

	container.Dispatcher = handlers.NewDispatcher(handlers.DispatcherConfig{
		ServiceName:   cfg.Service.Name,
		Version:       cfg.Service.Version,
		Cors:          container.Cors,
		StagePrefixes: cfg.Gateway.StagePrefixes,
		Routes:        routes,
	},
		handlers.WithLogger(logger),
		handlers.WithSecrets(cfg.Identity.ClientSecret),
	)

	logger.WithFields(logrus.Fields{
		"environment":     cfg.Environment,
		"deployment_mode": config.GetDeploymentMode(),
		"admin_routes":    cfg.Gateway.AdminRoutesEnabled,
		"event_format":    cfg.Gateway.EventFormat,
	}).Debug("Container initialized")

	return container, nil
}

// NewLogger builds the application logger. JSON output is used in production
// and on Lambda, where log lines are indexed.
func NewLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.IsProduction() || config.IsServerlessMode() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

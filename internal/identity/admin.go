package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"law-ai-api/internal/secrethash"
)

// AdminConfig holds configuration for the administrative operations
type AdminConfig struct {
	// ListMaxResults bounds the client listing page; 0 means DefaultListMaxResults
	ListMaxResults int32

	// ClientID and ClientSecret identify the app client used for sign-in
	// parameters. ClientSecret is empty for public clients.
	ClientID     string
	ClientSecret string
}

// ClientReport is the result of a client configuration check
type ClientReport struct {
	UserPoolID    string           `json:"user_pool_id"`
	ClientID      string           `json:"client_id"`
	Found         bool             `json:"found"`
	ListedClients int              `json:"listed_clients"`
	Client        ClientDescriptor `json:"client"`
}

// Admin performs administrative operations against an identity provider
type Admin struct {
	provider Provider
	config   AdminConfig
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewAdmin creates a new Admin around an injected provider
func NewAdmin(provider Provider, config AdminConfig, logger *logrus.Logger) *Admin {
	if config.ListMaxResults <= 0 || config.ListMaxResults > DefaultListMaxResults {
		config.ListMaxResults = DefaultListMaxResults
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Admin{
		provider: provider,
		config:   config,
		validate: validator.New(),
		logger:   logger,
	}
}

// SetPermanentPassword sets a user's password and marks it permanent, so the
// account is not left in a force-change state. The call is made once and
// never retried.
func (a *Admin) SetPermanentPassword(ctx context.Context, userPoolID, username, newPassword string) error {
	if strings.TrimSpace(userPoolID) == "" {
		return NewConfigurationError("COGNITO_USER_POOL_ID")
	}

	req := &SetPasswordRequest{
		UserPoolID: userPoolID,
		Username:   username,
		Password:   newPassword,
		Permanent:  true,
	}
	if err := a.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	log := a.logger.WithFields(logrus.Fields{
		"operation":    "AdminSetUserPassword",
		"user_pool_id": userPoolID,
		"username":     username,
	})
	log.Info("Setting permanent password")

	if err := a.provider.AdminSetUserPassword(ctx, req); err != nil {
		providerErr := NewProviderError("AdminSetUserPassword", err)
		log.WithFields(logrus.Fields{
			"error_code":  providerErr.Code,
			"request_id":  providerErr.RequestID,
			"http_status": providerErr.HTTPStatus,
		}).Error("Identity provider rejected password set")
		return providerErr
	}

	log.Info("Permanent password set")
	return nil
}

// DescribeClientConfiguration lists the pool's clients, describes the target
// client and reports whether the client appears in the listing. Any provider
// failure aborts the whole check.
func (a *Admin) DescribeClientConfiguration(ctx context.Context, userPoolID, clientID string) (*ClientReport, error) {
	if strings.TrimSpace(userPoolID) == "" {
		return nil, NewConfigurationError("COGNITO_USER_POOL_ID")
	}
	if strings.TrimSpace(clientID) == "" {
		return nil, NewConfigurationError("COGNITO_CLIENT_ID")
	}

	log := a.logger.WithFields(logrus.Fields{
		"user_pool_id": userPoolID,
		"client_id":    clientID,
	})

	clients, err := a.provider.ListUserPoolClients(ctx, &ListClientsRequest{
		UserPoolID: userPoolID,
		MaxResults: a.config.ListMaxResults,
	})
	if err != nil {
		providerErr := NewProviderError("ListUserPoolClients", err)
		log.WithField("error_code", providerErr.Code).Error("Failed to list user pool clients")
		return nil, providerErr
	}

	descriptor, err := a.provider.DescribeUserPoolClient(ctx, &DescribeClientRequest{
		UserPoolID: userPoolID,
		ClientID:   clientID,
	})
	if err != nil {
		providerErr := NewProviderError("DescribeUserPoolClient", err)
		log.WithField("error_code", providerErr.Code).Error("Failed to describe user pool client")
		return nil, providerErr
	}

	found := false
	for _, c := range clients {
		if c.ClientID == clientID {
			found = true
			break
		}
	}

	report := &ClientReport{
		UserPoolID:    userPoolID,
		ClientID:      clientID,
		Found:         found,
		ListedClients: len(clients),
	}
	if descriptor != nil {
		report.Client = *descriptor
	}

	fields := logrus.Fields{
		"found":          found,
		"listed_clients": len(clients),
		"has_secret":     report.Client.HasSecret,
	}
	if found {
		log.WithFields(fields).Info("Client configuration described")
	} else {
		log.WithFields(fields).Warn("Client not present in user pool listing")
	}

	return report, nil
}

// AuthParameters builds the parameters a USER_PASSWORD_AUTH sign-in needs for
// the configured app client, including SECRET_HASH when the client has a
// secret.
func (a *Admin) AuthParameters(username, password string) map[string]string {
	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	}
	if a.config.ClientSecret != "" {
		params["SECRET_HASH"] = secrethash.Compute(username, a.config.ClientID, a.config.ClientSecret)
	}
	return params
}

// Package identity implements administrative operations against a user-pool
// identity provider such as Amazon Cognito.
package identity

import "context"

// DefaultListMaxResults is the largest page the Cognito ListUserPoolClients API accepts
const DefaultListMaxResults = 60

// SetPasswordRequest is the input of an administrative password set
type SetPasswordRequest struct {
	UserPoolID string `json:"user_pool_id" validate:"required"`
	Username   string `json:"username" validate:"required,max=128"`
	Password   string `json:"-" validate:"required,max=256"`
	Permanent  bool   `json:"permanent"`
}

// ListClientsRequest is the input of a client listing
type ListClientsRequest struct {
	UserPoolID string `json:"user_pool_id"`
	MaxResults int32  `json:"max_results"`
}

// DescribeClientRequest is the input of a client lookup
type DescribeClientRequest struct {
	UserPoolID string `json:"user_pool_id"`
	ClientID   string `json:"client_id"`
}

// ClientSummary is one entry of a client listing
type ClientSummary struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	UserPoolID string `json:"user_pool_id"`
}

// ClientDescriptor is a read-only projection of an app client's configuration
type ClientDescriptor struct {
	ClientID           string   `json:"client_id"`
	ClientName         string   `json:"client_name"`
	HasSecret          bool     `json:"has_secret"`
	AllowedOAuthFlows  []string `json:"allowed_oauth_flows"`
	ExplicitAuthFlows  []string `json:"explicit_auth_flows"`
	AllowedOAuthScopes []string `json:"allowed_oauth_scopes"`
	CallbackURLs       []string `json:"callback_urls"`
	LogoutURLs         []string `json:"logout_urls"`
}

// Provider is the capability the administrative operations need from an
// identity backend. Implementations return the backend's own errors; callers
// wrap them into ProviderError.
type Provider interface {
	// AdminSetUserPassword sets a user's password as an administrator
	AdminSetUserPassword(ctx context.Context, req *SetPasswordRequest) error

	// ListUserPoolClients returns one page of app clients of a user pool
	ListUserPoolClients(ctx context.Context, req *ListClientsRequest) ([]ClientSummary, error)

	// DescribeUserPoolClient returns the configuration of one app client
	DescribeUserPoolClient(ctx context.Context, req *DescribeClientRequest) (*ClientDescriptor, error)
}

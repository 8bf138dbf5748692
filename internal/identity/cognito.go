package identity

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// CognitoAPI is the subset of the Cognito user pools client used here
type CognitoAPI interface {
	AdminSetUserPassword(ctx context.Context, params *cip.AdminSetUserPasswordInput, optFns ...func(*cip.Options)) (*cip.AdminSetUserPasswordOutput, error)
	ListUserPoolClients(ctx context.Context, params *cip.ListUserPoolClientsInput, optFns ...func(*cip.Options)) (*cip.ListUserPoolClientsOutput, error)
	DescribeUserPoolClient(ctx context.Context, params *cip.DescribeUserPoolClientInput, optFns ...func(*cip.Options)) (*cip.DescribeUserPoolClientOutput, error)
}

// CognitoProvider implements Provider on Amazon Cognito user pools
type CognitoProvider struct {
	client CognitoAPI
}

// NewCognitoProvider creates a provider using the default AWS credential chain
func NewCognitoProvider(ctx context.Context, region string) (*CognitoProvider, error) {
	if region == "" {
		return nil, NewConfigurationError("AWS_REGION")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &CognitoProvider{client: cip.NewFromConfig(cfg)}, nil
}

// NewCognitoProviderWithClient creates a provider around an existing client
func NewCognitoProviderWithClient(client CognitoAPI) *CognitoProvider {
	return &CognitoProvider{client: client}
}

// AdminSetUserPassword implements Provider
func (p *CognitoProvider) AdminSetUserPassword(ctx context.Context, req *SetPasswordRequest) error {
	_, err := p.client.AdminSetUserPassword(ctx, &cip.AdminSetUserPasswordInput{
		UserPoolId: aws.String(req.UserPoolID),
		Username:   aws.String(req.Username),
		Password:   aws.String(req.Password),
		Permanent:  req.Permanent,
	})
	return err
}

// ListUserPoolClients implements Provider
func (p *CognitoProvider) ListUserPoolClients(ctx context.Context, req *ListClientsRequest) ([]ClientSummary, error) {
	out, err := p.client.ListUserPoolClients(ctx, &cip.ListUserPoolClientsInput{
		UserPoolId: aws.String(req.UserPoolID),
		MaxResults: aws.Int32(req.MaxResults),
	})
	if err != nil {
		return nil, err
	}

	clients := make([]ClientSummary, 0, len(out.UserPoolClients))
	for _, c := range out.UserPoolClients {
		clients = append(clients, ClientSummary{
			ClientID:   aws.ToString(c.ClientId),
			ClientName: aws.ToString(c.ClientName),
			UserPoolID: aws.ToString(c.UserPoolId),
		})
	}
	return clients, nil
}

// DescribeUserPoolClient implements Provider
func (p *CognitoProvider) DescribeUserPoolClient(ctx context.Context, req *DescribeClientRequest) (*ClientDescriptor, error) {
	out, err := p.client.DescribeUserPoolClient(ctx, &cip.DescribeUserPoolClientInput{
		UserPoolId: aws.String(req.UserPoolID),
		ClientId:   aws.String(req.ClientID),
	})
	if err != nil {
		return nil, err
	}
	if out.UserPoolClient == nil {
		return nil, fmt.Errorf("describe user pool client %s: empty response", req.ClientID)
	}

	c := out.UserPoolClient
	descriptor := &ClientDescriptor{
		ClientID:           aws.ToString(c.ClientId),
		ClientName:         aws.ToString(c.ClientName),
		HasSecret:          aws.ToString(c.ClientSecret) != "",
		AllowedOAuthScopes: stringSet(c.AllowedOAuthScopes),
		CallbackURLs:       append([]string{}, c.CallbackURLs...),
		LogoutURLs:         append([]string{}, c.LogoutURLs...),
	}

	flows := make([]string, 0, len(c.AllowedOAuthFlows))
	for _, f := range c.AllowedOAuthFlows {
		flows = append(flows, string(f))
	}
	descriptor.AllowedOAuthFlows = stringSet(flows)

	authFlows := make([]string, 0, len(c.ExplicitAuthFlows))
	for _, f := range c.ExplicitAuthFlows {
		authFlows = append(authFlows, string(f))
	}
	descriptor.ExplicitAuthFlows = stringSet(authFlows)

	return descriptor, nil
}

// stringSet returns the sorted, de-duplicated values
func stringSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

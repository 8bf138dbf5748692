package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"law-ai-api/internal/cli"
	"law-ai-api/internal/config"
	"law-ai-api/internal/identity"
)

type fakeProvider struct {
	requests []identity.SetPasswordRequest
	err      error
}

func (f *fakeProvider) AdminSetUserPassword(ctx context.Context, req *identity.SetPasswordRequest) error {
	f.requests = append(f.requests, *req)
	return f.err
}

func (f *fakeProvider) ListUserPoolClients(ctx context.Context, req *identity.ListClientsRequest) ([]identity.ClientSummary, error) {
	return nil, errors.New("unexpected call")
}

func (f *fakeProvider) DescribeUserPoolClient(ctx context.Context, req *identity.DescribeClientRequest) (*identity.ClientDescriptor, error) {
	return nil, errors.New("unexpected call")
}

func factory(provider identity.Provider, userPoolID string) cli.AdminFactory {
	return func(ctx context.Context) (*identity.Admin, *config.Config, error) {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		cfg := &config.Config{Identity: config.IdentityConfig{Region: "us-east-1", UserPoolID: userPoolID}}
		return identity.NewAdmin(provider, identity.AdminConfig{}, logger), cfg, nil
	}
}

func run(t *testing.T, newAdmin cli.AdminFactory, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCLISetPassword(newAdmin, &stdout).NewCommand()
	code := cli.Execute(context.Background(), cmd, args, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestSetPasswordDefaults(t *testing.T) {
	provider := &fakeProvider{}

	code, stdout, stderr := run(t, factory(provider, "us-east-1_pool"))

	assert.Equal(t, cli.ExitOK, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, `"test"`)
	require.Len(t, provider.requests, 1)
	assert.Equal(t, identity.SetPasswordRequest{
		UserPoolID: "us-east-1_pool",
		Username:   "test",
		Password:   defaultPassword,
		Permanent:  true,
	}, provider.requests[0])
}

func TestSetPasswordArguments(t *testing.T) {
	provider := &fakeProvider{}

	code, stdout, _ := run(t, factory(provider, "us-east-1_pool"), "alice", "N3wPassword!")

	assert.Equal(t, cli.ExitOK, code)
	assert.NotContains(t, stdout, "N3wPassword!")
	require.Len(t, provider.requests, 1)
	assert.Equal(t, "alice", provider.requests[0].Username)
	assert.Equal(t, "N3wPassword!", provider.requests[0].Password)
	assert.True(t, provider.requests[0].Permanent)
}

func TestSetPasswordMissingPool(t *testing.T) {
	provider := &fakeProvider{}

	code, _, stderr := run(t, factory(provider, ""), "alice", "N3wPassword!")

	assert.Equal(t, cli.ExitConfiguration, code)
	assert.Contains(t, stderr, "COGNITO_USER_POOL_ID")
	assert.Equal(t, 1, strings.Count(stderr, "\n"))
	assert.Empty(t, provider.requests)
}

func TestSetPasswordProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: &smithy.GenericAPIError{
		Code:    "InvalidPasswordException",
		Message: "Password does not conform to policy",
		Fault:   smithy.FaultClient,
	}}

	code, _, stderr := run(t, factory(provider, "us-east-1_pool"), "alice", "short")

	assert.Equal(t, cli.ExitProvider, code)
	assert.Contains(t, stderr, "InvalidPasswordException")
	assert.Contains(t, stderr, "Password does not conform to policy")
	assert.NotContains(t, stderr, "short")
	assert.Len(t, provider.requests, 1)
}

func TestSetPasswordTooManyArguments(t *testing.T) {
	provider := &fakeProvider{}

	code, _, _ := run(t, factory(provider, "us-east-1_pool"), "a", "b", "c")

	assert.Equal(t, cli.ExitConfiguration, code)
	assert.Empty(t, provider.requests)
}

// Package cli holds the exit code policy shared by the administrative commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"law-ai-api/internal/config"
	"law-ai-api/internal/identity"
	"law-ai-api/pkg/server"
)

// Process exit codes
const (
	ExitOK            = 0
	ExitConfiguration = 1
	ExitProvider      = 2
)

// ExitCode maps an error onto a process exit code. Only failures reported
// by the identity provider use code 2; missing configuration, invalid input
// and usage errors all fail before a provider call and use code 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case identity.IsProviderError(err):
		return ExitProvider
	default:
		return ExitConfiguration
	}
}

// Diagnostic renders err as a single line
func Diagnostic(err error) string {
	var msg string

	var providerErr *identity.ProviderError
	if errors.As(err, &providerErr) {
		msg = fmt.Sprintf("error: %s: %s (operation %s", providerErr.Code, providerErr.Message, providerErr.Op)
		if providerErr.RequestID != "" {
			msg += ", request id " + providerErr.RequestID
		}
		if providerErr.HTTPStatus != 0 {
			msg += fmt.Sprintf(", http status %d", providerErr.HTTPStatus)
		}
		msg += ")"
	} else {
		msg = "error: " + err.Error()
	}

	return strings.Join(strings.Fields(msg), " ")
}

// Execute runs cmd, prints a one-line diagnostic on failure and returns the
// exit code for the process.
func Execute(ctx context.Context, cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, Diagnostic(err))
	}
	return ExitCode(err)
}

// AdminFactory builds the identity admin together with the loaded configuration
type AdminFactory func(ctx context.Context) (*identity.Admin, *config.Config, error)

// NewAdminFromEnv loads configuration and wires a Cognito-backed admin.
// A missing region or user pool fails before any provider call.
func NewAdminFromEnv(ctx context.Context) (*identity.Admin, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	container, err := server.NewContainer(ctx, cfg, server.RequireIdentity())
	if err != nil {
		return nil, nil, err
	}

	return container.Admin, cfg, nil
}

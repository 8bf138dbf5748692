package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"law-ai-api/internal/cli"
)

type cliDescribeClient struct {
	newAdmin cli.AdminFactory
	out      io.Writer
}

func NewCLIDescribeClient(newAdmin cli.AdminFactory, out io.Writer) *cliDescribeClient {
	return &cliDescribeClient{newAdmin: newAdmin, out: out}
}

func (c *cliDescribeClient) describe(ctx context.Context, clientID string) error {
	admin, cfg, err := c.newAdmin(ctx)
	if err != nil {
		return err
	}

	if clientID == "" {
		clientID = cfg.Identity.ClientID
	}

	report, err := admin.DescribeClientConfiguration(ctx, cfg.Identity.UserPoolID, clientID)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, string(out))
	return nil
}

func (c *cliDescribeClient) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe-client [clientId]",
		Short: "Check an app client against the user pool's client listing",
		Long: `Describe an app client and report whether it appears in the user pool's
client listing. The client ID defaults to COGNITO_CLIENT_ID.
Exit codes: 0 on success, 1 on missing configuration, 2 on provider failure.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var clientID string
			if len(args) > 0 {
				clientID = args[0]
			}
			return c.describe(cmd.Context(), clientID)
		},
	}

	return cmd
}

func main() {
	cmd := NewCLIDescribeClient(cli.NewAdminFromEnv, os.Stdout).NewCommand()
	os.Exit(cli.Execute(context.Background(), cmd, os.Args[1:], os.Stderr))
}

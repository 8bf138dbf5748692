package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"law-ai-api/internal/cli"
)

const (
	defaultUsername = "test"
	// defaultPassword is a placeholder; real use passes the password explicitly
	defaultPassword = "TempPassw0rd!"
)

type cliSetPassword struct {
	newAdmin cli.AdminFactory
	out      io.Writer
}

func NewCLISetPassword(newAdmin cli.AdminFactory, out io.Writer) *cliSetPassword {
	return &cliSetPassword{newAdmin: newAdmin, out: out}
}

func (c *cliSetPassword) setPassword(ctx context.Context, username, password string) error {
	admin, cfg, err := c.newAdmin(ctx)
	if err != nil {
		return err
	}

	if err := admin.SetPermanentPassword(ctx, cfg.Identity.UserPoolID, username, password); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Password for user %q set permanently\n", username)
	return nil
}

func (c *cliSetPassword) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-password [username] [newPassword]",
		Short: "Set a permanent password for a user pool user",
		Long: `Set a permanent password for a user in the configured user pool.

The user pool is read from COGNITO_USER_POOL_ID and the region from AWS_REGION.
Exit codes: 0 on success, 1 on missing configuration, 2 on provider failure.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password := defaultUsername, defaultPassword
			if len(args) > 0 {
				username = args[0]
			}
			if len(args) > 1 {
				password = args[1]
			}
			return c.setPassword(cmd.Context(), username, password)
		},
	}

	return cmd
}

func main() {
	cmd := NewCLISetPassword(cli.NewAdminFromEnv, os.Stdout).NewCommand()
	os.Exit(cli.Execute(context.Background(), cmd, os.Args[1:], os.Stderr))
}

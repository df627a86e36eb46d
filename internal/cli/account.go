package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/config"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entrypoint"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func newAccountCmd(load func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account administration",
	}

	cmd.AddCommand(newAccountCreateCmd(load))
	cmd.AddCommand(newAccountDeleteCmd(load))
	cmd.AddCommand(newAccountShowCmd(load))

	return cmd
}

func newAccountCreateCmd(load func() *config.Config) *cobra.Command {
	var email, kind string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account without a profile",
		Long: `Create an account. The password is prompted for on the terminal, or read
from the first line of stdin with --password-stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}

			return withCore(cmd.Context(), load(), func(ctx context.Context, core *entrypoint.Core) error {
				account, err := core.Accounts.Register(ctx, auth.RegisterInput{
					Email:    email,
					Password: password,
					Kind:     entities.AccountKind(kind),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s account %s (%s)\n", account.Kind, account.PublicID, account.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&kind, "kind", string(entities.AccountKindArchaeologist), "archaeologist or company")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newAccountDeleteCmd(load func() *config.Config) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an account with its profile and excavations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd.Context(), load(), func(ctx context.Context, core *entrypoint.Core) error {
				account, err := core.Accounts.DeleteAccount(ctx, email)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted account %s\n", account.PublicID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newAccountShowCmd(load func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <email>",
		Short: "Show an account and its lockout state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd.Context(), load(), func(ctx context.Context, core *entrypoint.Core) error {
				account, err := core.Accounts.Account(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:      %s\n", account.PublicID)
				fmt.Fprintf(out, "Email:   %s\n", account.Email)
				fmt.Fprintf(out, "Kind:    %s\n", account.Kind)
				fmt.Fprintf(out, "Created: %s\n", account.CreatedAt.Format("2006-01-02 15:04:05"))
				if account.LockedUntil != nil {
					fmt.Fprintf(out, "Locked until: %s\n", account.LockedUntil.Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}
}

// promptPassword reads a password from stdin or, on a terminal, without echo.
func promptPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal, use --password-stdin")
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pw, err := readPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

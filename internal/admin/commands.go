package admin

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/cobra"
)

// validatePassword applies the registration password policy.
func validatePassword(password string) error {
	err := validation.Validate(password,
		validation.Required,
		validation.RuneLength(common.MinPasswordLength, common.MaxPasswordLength),
	)
	if err != nil {
		return common.NewValidationError("password", err.Error())
	}
	return nil
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.env.Manager.RunMigrations(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func (c *cli) createUserCmd() *cobra.Command {
	var (
		email         string
		role          string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an active account",
		Long: `Create an active account with the given role. The password is read
from the terminal without echo, or from the first line of stdin with
--password-stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				password string
				err      error
			)
			if passwordStdin {
				password, err = readLine(cmd.InOrStdin())
			} else {
				password, err = promptPassword(cmd.ErrOrStderr())
			}
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if err := validatePassword(password); err != nil {
				return err
			}

			u, err := c.env.Users.CreateAccount(cmd.Context(), email, password, models.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s, %s)\n", u.ID, u.Email, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&role, "role", string(models.RoleUser), "account role: user or admin")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) setRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <email> <role>",
		Short: "Change an account's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := models.Role(args[1])
			u, err := c.env.Users.UpdateByEmail(cmd.Context(), args[0], models.UserUpdate{Role: &role})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, u.Role)
			return nil
		},
	}
}

func (c *cli) setActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-active <email> <true|false>",
		Short: "Activate or deactivate an account",
		Long: `Activate or deactivate an account. Deactivation blocks login and
refresh; access tokens already issued stay valid until they expire.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid active flag %q: %w", args[1], err)
			}
			u, err := c.env.Users.UpdateByEmail(cmd.Context(), args[0], models.UserUpdate{IsActive: &active})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s active=%t\n", u.Email, u.IsActive)
			return nil
		},
	}
}

func (c *cli) pruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune-revocations",
		Short: "Delete revocation entries for tokens that have already expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.env.Sessions.PruneRevocations(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d entries\n", n)
			return nil
		},
	}
}

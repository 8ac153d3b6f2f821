package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axonops/authadm/internal/auth"
	apperrors "github.com/axonops/authadm/pkg/errors"
)

const maxPasswordTries = 3

func newChangePasswordCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "changepassword [username]",
		Short: "Change a user's password",
		Long: `Change the password of the given user. When no username is given the
password of the current system user is changed.

The new password is prompted for twice; after three mismatched or
rejected attempts the command aborts without touching the account.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.ensureStore(); err != nil {
				return err
			}
			ctx := cmd.Context()

			username := auth.SystemUsername()
			if len(args) > 0 {
				username = args[0]
			}

			user, err := rt.Store.GetUserByUsername(ctx, username)
			if err != nil {
				var notFound *apperrors.NotFoundError
				if errors.As(err, &notFound) {
					return apperrors.NewCommandError("user '%s' does not exist", username)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Changing password for user '%s'\n", user.Username)

			password := ""
			for tries := 0; tries < maxPasswordTries; tries++ {
				first, err := rt.Prompt.ReadPassword("Password: ")
				if err != nil {
					return err
				}
				second, err := rt.Prompt.ReadPassword("Password (again): ")
				if err != nil {
					return err
				}

				if first != second {
					fmt.Fprintln(cmd.ErrOrStderr(), "Passwords do not match. Please try again.")
					continue
				}
				if err := auth.ValidatePassword(first, rt.Config.Password.MinLength); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
					continue
				}

				password = first
				break
			}

			if password == "" {
				return apperrors.NewCommandError(
					"Aborting password change for user '%s' after %d attempts", user.Username, maxPasswordTries)
			}

			hash, err := auth.HashPassword(password, rt.Config.Password.BcryptCost)
			if err != nil {
				return err
			}
			if err := rt.Store.UpdatePassword(ctx, user.ID, hash); err != nil {
				return err
			}

			rt.Logger.WithField("username", user.Username).Info("Password changed")
			fmt.Fprintf(out, "Password changed successfully for user '%s'\n", user.Username)
			return nil
		},
	}
}

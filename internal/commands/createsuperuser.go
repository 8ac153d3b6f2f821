package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axonops/authadm/internal/auth"
	"github.com/axonops/authadm/internal/store"
	apperrors "github.com/axonops/authadm/pkg/errors"
)

func newCreateSuperuserCommand(rt *Runtime) *cobra.Command {
	var (
		username   string
		email      string
		noInput    bool
		verbosity  int
		fieldFlags []string
	)

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a superuser account",
		Long: `Create a superuser account in the auth database.

By default the command prompts for the username, any required fields of
the configured user model, and a password. With --noinput all values
must be supplied as flags and the account is created with an unusable
password that must be set separately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.ensureStore(); err != nil {
				return err
			}
			ctx := cmd.Context()

			model := rt.Config.UserModel
			required, ok := model.RequiredFieldsList()
			if !ok {
				return apperrors.NewCommandError("The required_fields setting must be a list.")
			}

			values := make(map[string]string)
			if username != "" {
				values["username"] = username
			}
			if email != "" {
				values["email"] = email
			}
			for _, raw := range fieldFlags {
				name, value, found := strings.Cut(raw, "=")
				if !found || name == "" {
					return apperrors.NewCommandError("invalid --field value '%s', expected name=value", raw)
				}
				values[name] = value
			}

			var password string
			if noInput {
				if err := collectNonInteractive(ctx, rt, model.UsernameField, required, values); err != nil {
					return err
				}
				password = ""
			} else {
				var err error
				password, err = collectInteractive(ctx, rt, cmd, model.UsernameField, required, values)
				if err != nil {
					return err
				}
			}

			hash := auth.MakeUnusablePassword()
			if password != "" {
				var err error
				hash, err = auth.HashPassword(password, rt.Config.Password.BcryptCost)
				if err != nil {
					return err
				}
			}

			user := &store.User{
				Username:    values[model.UsernameField],
				Email:       values["email"],
				Password:    hash,
				IsStaff:     true,
				IsSuperuser: true,
				IsActive:    true,
			}
			if model.UsernameField == "email" && user.Email == "" {
				user.Email = user.Username
			}

			extra := make(map[string]string)
			for name, value := range values {
				if name == "username" || name == "email" {
					continue
				}
				extra[name] = value
			}
			if err := user.SetExtra(extra); err != nil {
				return err
			}

			if err := rt.Store.CreateUser(ctx, user); err != nil {
				return err
			}

			rt.Logger.WithField(model.UsernameField, user.Username).Info("Superuser created")
			if verbosity >= 1 {
				fmt.Fprintln(cmd.OutOrStdout(), "Superuser created successfully.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username for the new superuser")
	cmd.Flags().StringVar(&email, "email", "", "email address for the new superuser")
	cmd.Flags().BoolVar(&noInput, "noinput", false, "do not prompt for input; required values must be passed as flags")
	cmd.Flags().IntVar(&verbosity, "verbosity", 1, "output verbosity: 0=silent, 1=normal")
	cmd.Flags().StringArrayVar(&fieldFlags, "field", nil, "extra user model field as name=value, repeatable")

	return cmd
}

// capitalize uppercases the first rune of a prompt label
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// flagHint names the flag that supplies a user model field
func flagHint(field string) string {
	switch field {
	case "username", "email":
		return field
	default:
		return fmt.Sprintf("field %s=<value>", field)
	}
}

// collectNonInteractive validates that every required value arrived via
// flags and that the natural key is free
func collectNonInteractive(ctx context.Context, rt *Runtime, usernameField string, required []string, values map[string]string) error {
	natural := values[usernameField]
	if natural == "" {
		return apperrors.NewCommandError("You must use --%s with --noinput.", flagHint(usernameField))
	}
	if !auth.ValidUsername(natural) {
		return apperrors.NewCommandError("Enter a valid %s.", usernameField)
	}

	for _, field := range required {
		if field == usernameField {
			continue
		}
		if values[field] == "" {
			return apperrors.NewCommandError("You must use --%s with --noinput.", flagHint(field))
		}
	}

	taken, err := rt.Store.UsernameExists(ctx, natural)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.NewCommandError("Error: That %s is already taken.", usernameField)
	}
	return nil
}

// collectInteractive prompts for the natural key, the required fields
// and a password, filling values in place and returning the password
func collectInteractive(ctx context.Context, rt *Runtime, cmd *cobra.Command, usernameField string, required []string, values map[string]string) (string, error) {
	errOut := cmd.ErrOrStderr()

	if values[usernameField] == "" {
		defaultName := ""
		if usernameField == "username" {
			defaultName = auth.DefaultUsername(func(candidate string) bool {
				taken, err := rt.Store.UsernameExists(ctx, candidate)
				return err == nil && taken
			})
		}

		for {
			prompt := fmt.Sprintf("%s: ", capitalize(usernameField))
			if defaultName != "" {
				prompt = fmt.Sprintf("Username (leave blank to use '%s'): ", defaultName)
			}
			input, err := rt.Prompt.ReadString(prompt)
			if err != nil {
				return "", err
			}
			if input == "" {
				input = defaultName
			}
			if !auth.ValidUsername(input) {
				fmt.Fprintf(errOut, "Error: Enter a valid %s.\n", usernameField)
				continue
			}
			taken, err := rt.Store.UsernameExists(ctx, input)
			if err != nil {
				return "", err
			}
			if taken {
				fmt.Fprintf(errOut, "Error: That %s is already taken.\n", usernameField)
				continue
			}
			values[usernameField] = input
			break
		}
	}

	for _, field := range required {
		if field == usernameField || values[field] != "" {
			continue
		}
		for {
			input, err := rt.Prompt.ReadString(fmt.Sprintf("%s: ", capitalize(field)))
			if err != nil {
				return "", err
			}
			if input == "" {
				fmt.Fprintf(errOut, "Error: %s cannot be blank.\n", field)
				continue
			}
			values[field] = input
			break
		}
	}

	for {
		first, err := rt.Prompt.ReadPassword("Password: ")
		if err != nil {
			return "", err
		}
		second, err := rt.Prompt.ReadPassword("Password (again): ")
		if err != nil {
			return "", err
		}
		if first != second {
			fmt.Fprintln(errOut, "Error: Your passwords didn't match.")
			continue
		}
		if first == "" {
			fmt.Fprintln(errOut, "Error: Blank passwords aren't allowed.")
			continue
		}
		if err := auth.ValidatePassword(first, rt.Config.Password.MinLength); err != nil {
			fmt.Fprintln(errOut, err.Error())
			continue
		}
		return first, nil
	}
}

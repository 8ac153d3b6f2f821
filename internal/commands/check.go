package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axonops/authadm/internal/auth"
	apperrors "github.com/axonops/authadm/pkg/errors"
)

func newCheckCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the configured user model and permission declarations",
		Long: `Validate the configured user model and the permission declarations of
every registered model without touching the database. Each finding is
printed and the command exits non-zero when any exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.ensureConfig(); err != nil {
				return err
			}

			found := auth.CheckModels(rt.Config, cmd.ErrOrStderr())
			if len(found) > 0 {
				return apperrors.NewCommandError("System check identified %d issue(s).", len(found))
			}

			fmt.Fprintln(cmd.OutOrStdout(), "System check identified no issues.")
			return nil
		},
	}
}

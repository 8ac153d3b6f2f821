package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axonops/authadm/internal/auth"
)

func newMigrateCommand(rt *Runtime) *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the auth schema",
		Long: `Create or update the auth database schema, then synchronize model
permissions so freshly migrated models receive their default set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.ensureStore(); err != nil {
				return err
			}

			if err := rt.Store.Migrate(); err != nil {
				return err
			}
			if verbosity >= 1 {
				fmt.Fprintln(cmd.OutOrStdout(), "Auth schema is up to date.")
			}

			models := auth.ModelsFromConfig(rt.Config)
			created, err := auth.SyncPermissions(cmd.Context(), rt.Store, models, rt.Logger, auth.SyncOptions{
				Verbosity: verbosity,
				Out:       cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			if verbosity >= 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %d permissions.\n", created)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&verbosity, "verbosity", 1, "output verbosity: 0=silent, 1=normal")

	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axonops/authadm/internal/auth"
)

func newSyncPermsCommand(rt *Runtime) *cobra.Command {
	var (
		dryRun    bool
		verbosity int
	)

	cmd := &cobra.Command{
		Use:   "syncperms",
		Short: "Synchronize model permissions into the database",
		Long: `Ensure every registered model has its default and custom permissions
in the auth database. Only missing permissions are created; existing
rows are never modified or removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.ensureStore(); err != nil {
				return err
			}

			models := auth.ModelsFromConfig(rt.Config)
			created, err := auth.SyncPermissions(cmd.Context(), rt.Store, models, rt.Logger, auth.SyncOptions{
				Verbosity: verbosity,
				DryRun:    dryRun,
				Out:       cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			if verbosity >= 1 {
				if dryRun {
					fmt.Fprintf(cmd.OutOrStdout(), "Would create %d permissions.\n", created)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Created %d permissions.\n", created)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list missing permissions without creating them")
	cmd.Flags().IntVar(&verbosity, "verbosity", 1, "output verbosity: 0=silent, 1=summary, 2=per permission")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mart/internal/sqlite"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the mart store",
		Long:  "Create the configuration and data directories, apply the schema and seed the store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := storeConfig(a.cfg, a.dirs.Data)
			if err != nil {
				return systemError(err)
			}
			store, err := sqlite.Open(ctx, cfg)
			if err != nil {
				return systemError(fmt.Errorf("initialize store: %w", err))
			}
			version, err := sqlite.SchemaVersion(ctx, store.DB())
			if cerr := store.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return systemError(fmt.Errorf("finalize store: %w", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mart initialized at %s (schema version %d)\n", store.Path(), version)
			return nil
		},
	}
}

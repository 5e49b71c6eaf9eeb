package ctl

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx); err != nil {
				return err
			}
			if err := a.rm.RunMigrations(ctx, a.db); err != nil {
				return fmt.Errorf("migration error: %w", err)
			}
			fmt.Fprintln(a.out, "migrations applied")
			return nil
		},
	}
}

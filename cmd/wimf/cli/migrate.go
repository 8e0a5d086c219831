package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  "Create or update the WIMF tables on the configured database. Safe to run repeatedly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
	return cmd
}

func runMigrate() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	fmt.Println("schema up to date")
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long: `Create or update the tables the board persists into.

The key-value records and the waveform cache are migrated with GORM
auto migration. Running it again is a no-op.`,
		RunE: runMigrate,
	}
	cmd.Flags().Bool("dry-run", false, "show what would be done without making changes")
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		for _, m := range migrationModels() {
			fmt.Fprintf(out, "  would migrate %T\n", m)
		}
		return nil
	}

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(out, "Database %s migrated (%d tables)\n", displayPath(cfg.Database.Path), len(migrationModels()))
	return nil
}

func displayPath(p string) string {
	if p == "" {
		return ":memory:"
	}
	return p
}

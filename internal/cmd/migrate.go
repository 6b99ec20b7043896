package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neuroforge/doc-forge/internal/discovery"
)

func newMigrateCmd() *cobra.Command {
	var (
		skipExisting bool
		includeAuto  bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move loose documents into the category layout",
		Long: `Copies markdown documents found outside the category structure into
user_docs. Well-known filenames go to their fixed section; everything else is
placed by keyword classification. Sources are left in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace()
			if err != nil {
				return err
			}

			m := discovery.NewMigrator(ws)
			m.SkipExisting = skipExisting
			m.IncludeAuto = includeAuto

			migration, err := m.Run()
			if err != nil {
				return err
			}

			for _, rel := range migration.Migrated {
				fmt.Printf("  migrated %s\n", rel)
			}
			for _, rel := range migration.Created {
				fmt.Printf("  created %s\n", rel)
			}
			if len(migration.Migrated) == 0 && len(migration.Created) == 0 {
				fmt.Println("Nothing to migrate")
				return nil
			}
			color.Green("Migrated %d documents (%d skipped, %d placeholders created)",
				len(migration.Migrated), len(migration.Skipped), len(migration.Created))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Never overwrite an existing target document")
	cmd.Flags().BoolVar(&includeAuto, "include-auto", false, "Also migrate generated documents")
	return cmd
}

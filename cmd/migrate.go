package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio/config"
	"github.com/rpupo63/portfolio/database"
	"github.com/rpupo63/portfolio/models"
)

func newMigrateCmd() *cobra.Command {
	var report bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Connects to the configured database and auto-migrates the project,
project tag and admin tables. With --report it also lists columns present in
the database that no model field maps to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := database.Open(config.New())
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			if sqlDB, err := gormDB.DB(); err == nil {
				defer sqlDB.Close()
			}
			printSuccess(cmd, "✅ Schema is up to date")

			if !report {
				return nil
			}

			mismatches, err := models.ColumnMismatchReport(gormDB)
			if err != nil {
				return err
			}
			tables := make([]string, 0, len(mismatches))
			for table := range mismatches {
				tables = append(tables, table)
			}
			sort.Strings(tables)

			for _, table := range tables {
				columns := mismatches[table]
				if len(columns) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", table, successColor.Sprint("OK"))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", table, warnColor.Sprint("UNMAPPED"))
				for _, column := range columns {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", column)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&report, "report", false, "List database columns no model maps to")

	return cmd
}

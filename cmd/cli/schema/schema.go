package schema

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crucial707/todoism/cmd/cli/root"
	"github.com/crucial707/todoism/internal/db"
)

// Swapped in tests; migrations need a real postgres.
var (
	migrateUp   = db.Run
	migrateDown = db.Drop
)

// Init registers initdb and deploy.
func Init(rootCmd *cobra.Command) {
	rootCmd.AddCommand(initDBCmd(), deployCmd())
}

// ==========================
// INITDB
// ==========================
func initDBCmd() *cobra.Command {
	var drop, yes bool

	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Create the database schema",
		Long:  "Create all tables. With --drop, every table and row is removed first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := root.DatabaseURL()
			if drop {
				if !yes && !confirm(cmd, "This operation will delete the database, do you want to continue?") {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
				if err := migrateDown(url); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Drop tables.")
			}
			if err := migrateUp(url); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Initialized database.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "drop all tables first")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// ==========================
// DEPLOY
// ==========================
func deployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := migrateUp(root.DatabaseURL()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date.")
			return nil
		},
	}
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

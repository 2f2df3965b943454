package root

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/crucial707/todoism/internal/config"
	"github.com/crucial707/todoism/internal/db"
)

// databaseURL is bound to --database-url and defaults to DATABASE_URL.
var databaseURL string

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "todoism",
	Short:         "Todoism admin CLI",
	Long:          "Administrative commands for the Todoism database: schema setup, users and items.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", config.Load().DatabaseURL,
		"postgres DSN (defaults to DATABASE_URL)")
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}

// DatabaseURL is the DSN the commands operate on.
func DatabaseURL() string {
	return databaseURL
}

// OpenDB connects to DatabaseURL. Tests replace it with a sqlmock pool.
var OpenDB = func() (*sql.DB, error) {
	return db.Connect(databaseURL, 2, 1)
}

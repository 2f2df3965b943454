package users

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crucial707/todoism/cmd/cli/output"
	"github.com/crucial707/todoism/cmd/cli/root"
	"github.com/crucial707/todoism/internal/repo"
)

// ==========================
// CLI Command Init
// ==========================
func Init(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect and remove user accounts",
	}
	usersCmd.AddCommand(listUsersCmd(), deleteUserCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// LIST
// ==========================
func listUsersCmd() *cobra.Command {
	var limit, offset int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := root.OpenDB()
			if err != nil {
				return err
			}
			defer pool.Close()

			repository := repo.NewUserRepo(pool)
			users, err := repository.List(cmd.Context(), limit, offset)
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), users)
			}
			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.Username, u.LocaleOr("-"), u.CreatedAt.Format("2006-01-02 15:04")})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Username", "Locale", "Created"}, rows)

			total, err := repository.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("count users: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d users\n", len(users), total)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of users")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of users to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// ==========================
// DELETE
// ==========================

// deleteUserCmd removes an account. Its items and sessions go with it.
func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user and everything they own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := root.OpenDB()
			if err != nil {
				return err
			}
			defer pool.Close()

			users := repo.NewUserRepo(pool)
			user, err := users.GetByUsername(cmd.Context(), args[0])
			if errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("user %q not found", args[0])
			}
			if err != nil {
				return err
			}
			if err := users.Delete(cmd.Context(), user.ID); err != nil {
				return fmt.Errorf("delete user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s.\n", user.Username)
			return nil
		},
	}
}

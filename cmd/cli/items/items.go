package items

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crucial707/todoism/cmd/cli/output"
	"github.com/crucial707/todoism/cmd/cli/root"
	"github.com/crucial707/todoism/internal/models"
	"github.com/crucial707/todoism/internal/repo"
)

// Init registers the items command.
func Init(rootCmd *cobra.Command) {
	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "Inspect a user's items",
	}
	itemsCmd.AddCommand(listItemsCmd())
	rootCmd.AddCommand(itemsCmd)
}

func listItemsCmd() *cobra.Command {
	var filter string
	var limit, offset int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <username>",
		Short: "List the items of one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := models.ParseItemFilter(filter)
			if !ok {
				return fmt.Errorf("unknown filter %q (want all, active or done)", filter)
			}

			pool, err := root.OpenDB()
			if err != nil {
				return err
			}
			defer pool.Close()

			user, err := repo.NewUserRepo(pool).GetByUsername(cmd.Context(), args[0])
			if errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("user %q not found", args[0])
			}
			if err != nil {
				return err
			}

			items, err := repo.NewItemRepo(pool).List(cmd.Context(), user.ID, f, limit, offset)
			if err != nil {
				return fmt.Errorf("list items: %w", err)
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), items)
			}
			rows := make([][]interface{}, 0, len(items))
			for _, it := range items {
				mark := " "
				if it.Done {
					mark = "x"
				}
				rows = append(rows, []interface{}{it.ID, mark, it.Body})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Done", "Body"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "all, active or done")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of items")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of items to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

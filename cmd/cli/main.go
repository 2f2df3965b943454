package main

import (
	"fmt"
	"os"

	"github.com/crucial707/todoism/cmd/cli/items"
	"github.com/crucial707/todoism/cmd/cli/root"
	"github.com/crucial707/todoism/cmd/cli/schema"
	"github.com/crucial707/todoism/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	schema.Init(rootCmd)
	users.Init(rootCmd)
	items.Init(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

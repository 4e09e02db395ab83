package main

import (
	"fmt"

	"servertrain/cmd/servertrain/ui"

	"github.com/spf13/cobra"
)

// modulesCmd prints the module catalog
var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the training modules offered by the backend",
	Args:  cobra.NoArgs,
	RunE:  listModules,
}

func listModules(cmd *cobra.Command, args []string) error {
	ctx, cancel := requestContext()
	defer cancel()

	modules, err := newClient().ListModules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}

	table := ui.NewSimpleTable("Training modules", []string{"ID", "Title", "Minutes", "Default scenario"})
	table.RightAlign = map[int]bool{2: true}
	table.Empty = "The backend offers no modules."
	for _, m := range modules {
		table.AddRow(m.ID, m.Title, m.Minutes(), m.DefaultScenarioID)
	}

	fmt.Fprint(cmd.OutOrStdout(), table.View(newStyles()))
	return nil
}

package main

import (
	"fmt"
	"io"
	"strings"

	"servertrain/cmd/servertrain/ui"
	"servertrain/internal/client"
	"servertrain/internal/engine"
	"servertrain/internal/render"

	"github.com/spf13/cobra"
)

var showRaw bool

// showCmd prints a scenario the way the walk would present it
var showCmd = &cobra.Command{
	Use:   "show <module_id> [scenario_id]",
	Short: "Print every step of a scenario in order",
	Long: `Fetches a scenario and prints each step's view, advancing until the
scenario completes or a step cannot be shown. Without scenario_id the
module's default scenario is used.

With --raw the module file is printed exactly as the backend stores it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: showScenario,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the raw module JSON instead")
}

func showScenario(cmd *cobra.Command, args []string) error {
	c := newClient()
	moduleID := args[0]
	out := cmd.OutOrStdout()

	if showRaw {
		ctx, cancel := requestContext()
		defer cancel()
		raw, err := c.RawModule(ctx, moduleID)
		if err != nil {
			return fmt.Errorf("failed to load module %s: %w", moduleID, err)
		}
		_, err = fmt.Fprintln(out, string(raw))
		return err
	}

	var scenarioID string
	if len(args) == 2 {
		scenarioID = args[1]
	} else {
		id, err := defaultScenarioID(c, moduleID)
		if err != nil {
			return err
		}
		scenarioID = id
	}

	ctx, cancel := requestContext()
	defer cancel()
	env, err := c.GetScenario(ctx, moduleID, scenarioID)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	styles := newStyles()
	fmt.Fprintln(out, styles.Title.Render(fmt.Sprintf("%s / %s", env.Title, scenarioID)))

	e := engine.New()
	e.Reset(env.Scenario)
	return printWalk(out, e, styles)
}

// defaultScenarioID looks up a module's default scenario in the catalog.
func defaultScenarioID(c *client.Client, moduleID string) (string, error) {
	ctx, cancel := requestContext()
	defer cancel()

	modules, err := c.ListModules(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load modules: %w", err)
	}
	for _, m := range modules {
		if m.ID == moduleID {
			return m.DefaultScenarioID, nil
		}
	}
	return "", fmt.Errorf("module %q is not in the catalog", moduleID)
}

// printWalk renders the engine's current view and advances while the view
// offers Next. It stops at completion or at a step that offers no Next.
func printWalk(w io.Writer, e *engine.Engine, styles ui.Styles) error {
	for {
		vm := render.Render(e.Current())
		printViewModel(w, vm, styles)
		if vm.Err != nil {
			return vm.Err
		}
		if vm.Primary == nil || vm.Primary.Action != render.ActionAdvance {
			return nil
		}
		e.Advance()
	}
}

func printViewModel(w io.Writer, vm render.ViewModel, styles ui.Styles) {
	var sb strings.Builder

	label := string(vm.Kind)
	if vm.Kind != render.KindCompleted && vm.Total > 0 {
		label = fmt.Sprintf("%d/%d %s", vm.Index+1, vm.Total, vm.Kind)
	}
	sb.WriteString(styles.Badge.Render(label))
	if vm.Heading != "" {
		sb.WriteString(" " + styles.Bold.Render(vm.Heading))
	}
	sb.WriteString("\n")

	for _, line := range []string{vm.Body, vm.Question, vm.Note} {
		if line != "" {
			sb.WriteString(line + "\n")
		}
	}
	if vm.Detail != "" {
		sb.WriteString(styles.Muted.Render(vm.Detail) + "\n")
	}
	if vm.Input {
		sb.WriteString(styles.Muted.Render("[ "+vm.Placeholder+" ]") + "\n")
	}
	if vm.Primary != nil {
		sb.WriteString("-> " + vm.Primary.Label + "\n")
	}
	sb.WriteString("\n")

	fmt.Fprint(w, sb.String())
}

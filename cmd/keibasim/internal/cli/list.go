package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hkondo/keibasim/internal/bankroll"
	"github.com/hkondo/keibasim/internal/strategy"
)

// newListCmd prints the registered strategy and bankroll method names by
// introspecting their registries, mirroring the teacher's
// strategy.Registry/Register/Get pattern generalized to 14 strategies
// plus composite instead of one.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print available strategies and bankroll methods",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	strategies := strategy.NewRegistry().Names()
	sort.Strings(strategies)
	fmt.Println("strategies:")
	for _, name := range strategies {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("  composite (set composite_strategy.enabled and list members above)")

	methods := bankroll.NewRegistry().Names()
	sort.Strings(methods)
	fmt.Println("\nbankroll methods:")
	for _, name := range methods {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

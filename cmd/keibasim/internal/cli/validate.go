package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hkondo/keibasim/internal/dataset"
)

// newValidateCmd is the dataset-only counterpart to the teacher's
// --validate flag: load the dataset, report row/race rejection counts,
// and exit non-zero on any fatal dataset error, without touching
// strategy or bankroll configuration.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a dataset file without running a simulation",
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	_, rpt, err := dataset.New().Load(context.Background(), flagDataset)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	fmt.Printf("rows read:      %d\n", rpt.RowsRead)
	fmt.Printf("rows rejected:  %d\n", rpt.RowsRejected)
	fmt.Printf("races built:    %d\n", rpt.RacesBuilt)
	fmt.Printf("races rejected: %d\n", rpt.RacesRejected)
	for _, w := range rpt.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	return nil
}

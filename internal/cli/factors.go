package cli

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/greenledger/emfactor/internal/factor"
	"github.com/greenledger/emfactor/internal/ingest"
)

// NewFactorsCmd creates the "factors" command group for dataset inspection.
func NewFactorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factors",
		Short: "Inspect and validate the reference factor dataset",
	}

	cmd.AddCommand(newFactorsListCmd())
	cmd.AddCommand(newFactorsValidateCmd())

	return cmd
}

// factorsListParams holds the flag values for "factors list".
type factorsListParams struct {
	activity string
	region   string
}

func newFactorsListCmd() *cobra.Command {
	var params factorsListParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded factor records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeFactorsList(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.activity, "activity", "", "Only show records for this activity")
	cmd.Flags().StringVar(&params.region, "region", "", "Only show records for this region")

	return cmd
}

func executeFactorsList(cmd *cobra.Command, params factorsListParams) error {
	cfg := contextConfig(cmd)
	dataset, err := ingest.LoadFiles(cfg.Dataset.Paths)
	if err != nil {
		return err
	}
	store, err := dataset.BuildStore()
	if err != nil {
		return err
	}

	wantActivity := factor.NormalizeActivity(params.activity)
	wantRegion := factor.NormalizeRegion(params.region)

	rows := [][]string{{"ACTIVITY", "REGION", "UNIT", "VALUE", "SOURCE", "YEAR", "PRIORITY", "TIER"}}
	for _, rec := range store.Records() {
		if params.activity != "" && rec.ActivityKey != wantActivity {
			continue
		}
		if params.region != "" && factor.NormalizeRegion(rec.Region) != wantRegion {
			continue
		}
		rows = append(rows, []string{
			rec.ActivityKey,
			rec.Region,
			rec.Unit,
			formatFactorValue(rec.Value),
			rec.Source,
			strconv.Itoa(rec.VintageYear),
			strconv.Itoa(rec.Priority),
			rec.QualityTier.String(),
		})
	}
	if len(rows) == 1 {
		rows = nil
	}

	styled := false
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		styled = isTerminal(f)
	}
	cmd.Print(renderFactorTable(rows, styled))
	return nil
}

func newFactorsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate dataset files without loading them into an engine",
		Args:  cobra.MinimumNArgs(1),
		RunE:  executeFactorsValidate,
	}
}

func executeFactorsValidate(cmd *cobra.Command, args []string) error {
	dataset, err := ingest.LoadFiles(args)
	if err != nil {
		return err
	}
	store, err := dataset.BuildStore()
	if err != nil {
		return err
	}

	cmd.Printf("OK: %s (%d records, %d activities)\n",
		dataset.Manifest.Name, store.Len(), len(store.Activities()))
	return nil
}

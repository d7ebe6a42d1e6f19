package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/greenledger/emfactor/internal/resolver"
)

// resolveParams holds the flag values for the resolve command.
type resolveParams struct {
	region     string
	freeText   string
	jsonOutput bool
}

const resolveExample = `  emfactor resolve diesel 100 litre
  emfactor resolve electricity 2500 kwh --region India
  emfactor resolve "freight truck heavy" 1200 tonne-km --context "outbound logistics, Sep 2026"`

// NewResolveCmd creates the "resolve" subcommand.
//
// It takes a positional activity, quantity and unit, resolves them against
// the loaded dataset and prints the result. Exit status is non-zero when
// resolution fails at every layer.
func NewResolveCmd() *cobra.Command {
	var params resolveParams

	cmd := &cobra.Command{
		Use:     "resolve <activity> <quantity> <unit>",
		Short:   "Resolve an activity to a CO2e mass",
		Example: resolveExample,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeResolve(cmd, args, params)
		},
	}

	cmd.Flags().StringVar(&params.region, "region", "", "Region to resolve against (default from config)")
	cmd.Flags().StringVar(&params.freeText, "context", "", "Free-text context passed to the estimation layer")
	cmd.Flags().BoolVar(&params.jsonOutput, "json", false, "Emit the full result as JSON")

	return cmd
}

func executeResolve(cmd *cobra.Command, args []string, params resolveParams) error {
	quantity, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("quantity %q is not a number: %w", args[1], err)
	}

	cfg := contextConfig(cmd)
	engine, _, err := buildEngine(cmd, cfg)
	if err != nil {
		return err
	}

	result := engine.Resolve(cmd.Context(), resolver.Request{
		ActivityType:    args[0],
		Quantity:        quantity,
		Unit:            args[2],
		Region:          params.region,
		FreeTextContext: params.freeText,
	})

	if params.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		styled := false
		if f, ok := cmd.OutOrStdout().(*os.File); ok {
			styled = isTerminal(f)
		}
		cmd.Print(renderResult(result, styled))
	}

	if !result.OK() {
		return fmt.Errorf("resolution failed: %s", result.Failure.Error)
	}
	return nil
}

// Package cmd - totals command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dive-pricing/api"
)

// totalsCmd represents the totals command
var totalsCmd = &cobra.Command{
	Use:   "totals <lines.json>",
	Short: "Aggregate pricing lines into per-diver totals",
	Long: `Aggregate a set of pricing lines (shared and per-diver) into the
cost/charge/margin breakdown. The input file uses the API request shape:

  {
    "lines": [
      {
        "key": "boat",
        "allocation": "shared",
        "shop_cost_amount": "1800.00",
        "shop_cost_currency": "MXN",
        "customer_charge_amount": "2400.00",
        "customer_charge_currency": "MXN"
      }
    ],
    "diver_count": 4,
    "currency": "MXN"
  }

Example:
  dive-pricing totals trip.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTotals,
}

func runTotals(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	var wire api.TotalsRequest
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decoding input file: %w", err)
	}
	req, err := wire.ToEngine()
	if err != nil {
		return err
	}

	backend, err := newBackend()
	if err != nil {
		return err
	}

	result, err := backend.Totals(context.Background(), req)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(result)
	}

	fmt.Printf("Totals for %d divers\n", result.DiverCount)
	fmt.Printf("  Shared cost:             %s\n", result.SharedCost)
	fmt.Printf("  Shared charge:           %s\n", result.SharedCharge)
	fmt.Printf("  Per-diver cost:          %s\n", result.PerDiverCost)
	fmt.Printf("  Per-diver charge:        %s\n", result.PerDiverCharge)
	fmt.Printf("  Total cost per diver:    %s\n", result.TotalCostPerDiver)
	fmt.Printf("  Total charge per diver:  %s\n", result.TotalChargePerDiver)
	fmt.Printf("  Margin per diver:        %s\n", result.MarginPerDiver)
	return nil
}

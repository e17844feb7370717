// Package cmd - gas-fills command
package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"dive-pricing/core/engine"
)

var (
	gasType           string
	gasFills          int
	gasChargeOverride string
	gasAsOf           string
)

// gasFillsCmd represents the gas-fills command
var gasFillsCmd = &cobra.Command{
	Use:   "gas-fills <dive-shop-id>",
	Short: "Calculate gas fill cost and charge for a dive shop",
	Long: `Calculate per-fill cost and customer charge for a gas type under the
shop's gas vendor agreement.

Examples:
  dive-pricing gas-fills 9f6d1c7e-3b2a-4e8d-b5c4-7a1f0e9d8c3b --gas air --fills 2
  dive-pricing gas-fills 9f6d1c7e-3b2a-4e8d-b5c4-7a1f0e9d8c3b --gas ean32 --fills 1 --charge 175.00`,
	Args: cobra.ExactArgs(1),
	RunE: runGasFills,
}

func init() {
	gasFillsCmd.Flags().StringVarP(&gasType, "gas", "g", "air", "gas type (air, ean32, ...)")
	gasFillsCmd.Flags().IntVarP(&gasFills, "fills", "n", 1, "number of fills")
	gasFillsCmd.Flags().StringVar(&gasChargeOverride, "charge", "", "override the per-fill customer charge")
	gasFillsCmd.Flags().StringVar(&gasAsOf, "as-of", "", "pricing instant (RFC3339, default now)")
}

func runGasFills(cmd *cobra.Command, args []string) error {
	shopID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("malformed dive shop id: %w", err)
	}
	asOf, err := parseAsOfFlag(gasAsOf)
	if err != nil {
		return err
	}

	var override *decimal.Decimal
	if gasChargeOverride != "" {
		d, err := decimal.NewFromString(gasChargeOverride)
		if err != nil {
			return fmt.Errorf("malformed --charge: %w", err)
		}
		override = &d
	}

	backend, err := newBackend()
	if err != nil {
		return err
	}

	result, err := backend.GasFills(context.Background(), engine.GasFillsRequest{
		DiveShopID:     shopID,
		GasType:        gasType,
		FillsCount:     gasFills,
		ChargeOverride: override,
		AsOf:           asOf,
	})
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(result)
	}

	fmt.Printf("%d x %s fill\n", result.FillsCount, result.GasType)
	fmt.Printf("  Cost per fill:    %s\n", result.CostPerFill)
	fmt.Printf("  Charge per fill:  %s\n", result.ChargePerFill)
	fmt.Printf("  Total cost:       %s\n", result.TotalCost)
	fmt.Printf("  Total charge:     %s\n", result.TotalCharge)
	return nil
}

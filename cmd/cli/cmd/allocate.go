// Package cmd - allocate command
package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"dive-pricing/core/engine"
	"dive-pricing/core/money"
)

var (
	allocateDivers   int
	allocateCurrency string
)

// allocateCmd represents the allocate command
var allocateCmd = &cobra.Command{
	Use:   "allocate <shared-total>",
	Short: "Split a shared cost penny-exact across divers",
	Long: `Split a shared amount evenly across divers so the per-diver amounts
sum back to the total exactly. Remainder pennies go to the first divers.

Examples:
  dive-pricing allocate 100.00 --divers 3
  dive-pricing allocate 1800.00 --divers 7 --currency MXN`,
	Args: cobra.ExactArgs(1),
	RunE: runAllocate,
}

func init() {
	allocateCmd.Flags().IntVarP(&allocateDivers, "divers", "n", 1, "number of divers")
	allocateCmd.Flags().StringVar(&allocateCurrency, "currency", "MXN", "currency code")
}

func runAllocate(cmd *cobra.Command, args []string) error {
	total, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("malformed shared total: %w", err)
	}

	backend, err := newBackend()
	if err != nil {
		return err
	}

	result, err := backend.Allocate(context.Background(), engine.AllocateRequest{
		SharedTotal: total,
		DiverCount:  allocateDivers,
		Currency:    money.Currency(allocateCurrency),
	})
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(result)
	}

	fmt.Printf("Per diver: %s\n", result.PerDiver)
	for i, amount := range result.Amounts {
		fmt.Printf("  Diver %d: %s\n", i+1, amount)
	}
	return nil
}

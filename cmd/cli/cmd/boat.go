// Package cmd - boat-cost command
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"dive-pricing/core/engine"
)

var (
	boatDivers int
	boatAsOf   string
)

// boatCostCmd represents the boat-cost command
var boatCostCmd = &cobra.Command{
	Use:   "boat-cost <dive-site-id>",
	Short: "Calculate tiered boat charter cost for a dive site",
	Long: `Calculate the boat charter cost for an excursion using the vendor
agreement covering the dive site: a base cost covers the included
divers, and each diver beyond that adds the overage rate.

Examples:
  dive-pricing boat-cost 5bd3a2b6-25ab-4c3b-8a1e-0f6a3d1c9e42 --divers 6
  dive-pricing boat-cost 5bd3a2b6-25ab-4c3b-8a1e-0f6a3d1c9e42 --divers 4 --as-of 2026-06-01T12:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: runBoatCost,
}

func init() {
	boatCostCmd.Flags().IntVarP(&boatDivers, "divers", "n", 4, "number of divers on the excursion")
	boatCostCmd.Flags().StringVar(&boatAsOf, "as-of", "", "pricing instant (RFC3339, default now)")
}

func parseAsOfFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("malformed --as-of: %w", err)
	}
	return &t, nil
}

func runBoatCost(cmd *cobra.Command, args []string) error {
	siteID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("malformed dive site id: %w", err)
	}
	asOf, err := parseAsOfFlag(boatAsOf)
	if err != nil {
		return err
	}

	backend, err := newBackend()
	if err != nil {
		return err
	}

	result, err := backend.BoatCost(context.Background(), engine.BoatCostRequest{
		DiveSiteID: siteID,
		DiverCount: boatDivers,
		AsOf:       asOf,
	})
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(result)
	}

	fmt.Printf("Boat charter for %d divers\n", result.DiverCount)
	fmt.Printf("  Base cost (%d included):  %s\n", result.IncludedDivers, result.BaseCost)
	if result.OverageCount > 0 {
		fmt.Printf("  Overage (%d x %s)\n", result.OverageCount, result.OveragePerDiver)
	}
	fmt.Printf("  Total:                    %s\n", result.Total)
	fmt.Printf("  Per diver:                %s\n", result.PerDiver)
	return nil
}

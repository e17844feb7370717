// Package cmd - resolve command
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"dive-pricing/core/pricing"
)

var (
	resolveOrg       string
	resolveParty     string
	resolveAgreement string
	resolveAsOf      string
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <catalog-item-id>",
	Short: "Resolve the effective price for a catalog item",
	Long: `Resolve a catalog item's price through the scope hierarchy:
agreement beats party beats organization beats global. Within a tier the
highest priority wins, then the most recent validity start.

Examples:
  dive-pricing resolve 1c9e42f6-8a1e-4c3b-a2b6-5bd325ab0f6a
  dive-pricing resolve 1c9e42f6-8a1e-4c3b-a2b6-5bd325ab0f6a --org 9f6d1c7e-3b2a-4e8d-b5c4-7a1f0e9d8c3b`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveOrg, "org", "", "organization (dive shop) scope")
	resolveCmd.Flags().StringVar(&resolveParty, "party", "", "party scope")
	resolveCmd.Flags().StringVar(&resolveAgreement, "agreement", "", "agreement scope")
	resolveCmd.Flags().StringVar(&resolveAsOf, "as-of", "", "pricing instant (RFC3339, default now)")
}

func optionalUUIDFlag(s, name string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("malformed --%s: %w", name, err)
	}
	return &id, nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	itemID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("malformed catalog item id: %w", err)
	}

	req := pricing.ResolveRequest{CatalogItemID: itemID}
	if req.OrganizationID, err = optionalUUIDFlag(resolveOrg, "org"); err != nil {
		return err
	}
	if req.PartyID, err = optionalUUIDFlag(resolveParty, "party"); err != nil {
		return err
	}
	if req.AgreementID, err = optionalUUIDFlag(resolveAgreement, "agreement"); err != nil {
		return err
	}
	if resolveAsOf != "" {
		t, err := time.Parse(time.RFC3339, resolveAsOf)
		if err != nil {
			return fmt.Errorf("malformed --as-of: %w", err)
		}
		req.AsOf = t
	}

	backend, err := newBackend()
	if err != nil {
		return err
	}

	result, err := backend.Resolve(context.Background(), req)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(result)
	}

	fmt.Printf("Charge:      %s %s\n", result.ChargeAmount, result.ChargeCurrency)
	if result.HasCost {
		fmt.Printf("Cost:        %s %s\n", result.CostAmount, result.CostCurrency)
	}
	fmt.Printf("Price rule:  %s\n", result.PriceRuleID)
	return nil
}

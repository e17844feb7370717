package calc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dive-pricing/core/money"
	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

// BoatCost calculates tiered boat pricing for a shared vessel charter.
//
// The vendor agreement for (vendor_pricing, DiveSite:<id>) valid at asOf
// supplies the tier: a base cost covering up to included_divers, plus a
// flat overage rate for each diver beyond that.
func (c *Calculator) BoatCost(ctx context.Context, diveSiteID uuid.UUID, diverCount int, asOf *time.Time) (*types.BoatCostResult, error) {
	if diverCount <= 0 {
		return nil, errors.InvalidInput("diver count must be positive")
	}

	checkTime := orNow(asOf)
	scopeRef := "DiveSite:" + diveSiteID.String()

	agreement, err := c.store.FindByScope(ctx, types.ScopeVendorPricing, scopeRef, checkTime)
	if err != nil {
		return nil, err
	}
	if agreement == nil {
		return nil, errors.MissingVendorAgreement(types.ScopeVendorPricing, scopeRef)
	}

	tier, err := types.ParseBoatCharterTerms(agreement)
	if err != nil {
		return nil, err
	}

	overageCount := diverCount - tier.IncludedDivers
	if overageCount < 0 {
		overageCount = 0
	}

	total := money.New(tier.BaseCost, tier.Currency)
	if overageCount > 0 {
		overage := money.New(tier.OveragePerDiver, tier.Currency).MulInt(overageCount)
		total, err = total.Add(overage)
		if err != nil {
			return nil, err
		}
	}

	perDiver := total.DivInt(diverCount).Round()

	agreementID := agreement.ID
	return &types.BoatCostResult{
		Total:           total,
		PerDiver:        perDiver,
		BaseCost:        money.New(tier.BaseCost, tier.Currency),
		OverageCount:    overageCount,
		OveragePerDiver: money.New(tier.OveragePerDiver, tier.Currency),
		IncludedDivers:  tier.IncludedDivers,
		DiverCount:      diverCount,
		AgreementID:     &agreementID,
	}, nil
}

package calc

import (
	"github.com/shopspring/decimal"

	"dive-pricing/core/money"
	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

// Totals aggregates pricing lines and equipment rentals into the final
// cost/charge/margin breakdown.
//
// Shared lines are summed and divided into a per-diver rate, rounded
// once. Unlike AllocateSharedCosts this is a rate, not a penny-exact
// split across named divers, so no remainder redistribution applies.
// Per-diver lines and rentals are charged individually.
func Totals(
	lines []types.PricingLine,
	diverCount int,
	currency money.Currency,
	rentals []types.EquipmentRental,
) (*types.TotalsResult, error) {
	sharedCost := money.Zero(currency)
	sharedCharge := money.Zero(currency)
	perDiverCost := money.Zero(currency)
	perDiverCharge := money.Zero(currency)

	var err error
	for _, line := range lines {
		switch line.Allocation {
		case types.AllocationShared:
			if sharedCost, err = sharedCost.Add(line.ShopCost); err != nil {
				return nil, err
			}
			if sharedCharge, err = sharedCharge.Add(line.CustomerCharge); err != nil {
				return nil, err
			}
		case types.AllocationPerDiver:
			if perDiverCost, err = perDiverCost.Add(line.ShopCost); err != nil {
				return nil, err
			}
			if perDiverCharge, err = perDiverCharge.Add(line.CustomerCharge); err != nil {
				return nil, err
			}
		default:
			return nil, errors.InvalidInput("unknown allocation mode " + line.Allocation + " for line " + line.Key)
		}
	}

	// Rentals are always charged per diver
	for _, rental := range rentals {
		if perDiverCost, err = perDiverCost.Add(rental.UnitCost.MulInt(rental.Quantity)); err != nil {
			return nil, err
		}
		if perDiverCharge, err = perDiverCharge.Add(rental.UnitCharge.MulInt(rental.Quantity)); err != nil {
			return nil, err
		}
	}

	sharedCostPerDiver := money.Zero(currency)
	sharedChargePerDiver := money.Zero(currency)
	if diverCount > 0 {
		n := decimal.NewFromInt(int64(diverCount))
		sharedCostPerDiver = money.New(money.Round(sharedCost.Amount.Div(n), 2), currency)
		sharedChargePerDiver = money.New(money.Round(sharedCharge.Amount.Div(n), 2), currency)
	}

	totalCostPerDiver, err := sharedCostPerDiver.Add(perDiverCost)
	if err != nil {
		return nil, err
	}
	totalChargePerDiver, err := sharedChargePerDiver.Add(perDiverCharge)
	if err != nil {
		return nil, err
	}
	marginPerDiver, err := totalChargePerDiver.Sub(totalCostPerDiver)
	if err != nil {
		return nil, err
	}

	return &types.TotalsResult{
		SharedCost:           sharedCost,
		SharedCharge:         sharedCharge,
		PerDiverCost:         perDiverCost,
		PerDiverCharge:       perDiverCharge,
		SharedCostPerDiver:   sharedCostPerDiver,
		SharedChargePerDiver: sharedChargePerDiver,
		TotalCostPerDiver:    totalCostPerDiver,
		TotalChargePerDiver:  totalChargePerDiver,
		MarginPerDiver:       marginPerDiver,
		DiverCount:           diverCount,
		Currency:             currency,
	}, nil
}

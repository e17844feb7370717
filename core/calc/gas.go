package calc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dive-pricing/core/money"
	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

// GasFills calculates per-fill gas costs from the dive shop's gas vendor
// agreement. chargeOverride, when supplied, replaces the agreement's
// customer charge (e.g. fills included in a package).
//
// Inputs are already at minor-unit precision and fillsCount is integral,
// so the totals are plain multiplications with no intermediate rounding.
func (c *Calculator) GasFills(
	ctx context.Context,
	diveShopID uuid.UUID,
	gasType string,
	fillsCount int,
	chargeOverride *decimal.Decimal,
	asOf *time.Time,
) (*types.GasFillResult, error) {
	if fillsCount <= 0 {
		return nil, errors.InvalidInput("fills count must be positive")
	}

	checkTime := orNow(asOf)
	partyA := "Organization:" + diveShopID.String()

	agreement, err := c.store.FindByPartyA(ctx, types.ScopeGasVendorPricing, partyA, checkTime)
	if err != nil {
		return nil, err
	}
	if agreement == nil {
		return nil, errors.MissingVendorAgreement(types.ScopeGasVendorPricing, partyA)
	}

	rate, err := types.ParseGasFillRate(agreement, gasType)
	if err != nil {
		return nil, err
	}

	chargePerFill := rate.Charge
	if chargeOverride != nil {
		chargePerFill = *chargeOverride
	}

	costPerFill := money.New(rate.Cost, rate.Currency)
	charge := money.New(chargePerFill, rate.Currency)

	agreementID := agreement.ID
	return &types.GasFillResult{
		CostPerFill:   costPerFill,
		ChargePerFill: charge,
		TotalCost:     costPerFill.MulInt(fillsCount),
		TotalCharge:   charge.MulInt(fillsCount),
		FillsCount:    fillsCount,
		GasType:       gasType,
		AgreementID:   &agreementID,
	}, nil
}

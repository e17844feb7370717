package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dive-pricing/core/money"
	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

func line(key, allocation, cost, charge string) types.PricingLine {
	return types.PricingLine{
		Key:            key,
		Allocation:     allocation,
		ShopCost:       money.New(dec(cost), money.CurrencyMXN),
		CustomerCharge: money.New(dec(charge), money.CurrencyMXN),
	}
}

func TestTotalsSharedOnly(t *testing.T) {
	lines := []types.PricingLine{line("boat", types.AllocationShared, "1000", "1200")}

	got, err := Totals(lines, 4, money.CurrencyMXN, nil)
	require.NoError(t, err)

	assert.True(t, got.SharedCost.Amount.Equal(dec("1000")))
	assert.True(t, got.SharedCharge.Amount.Equal(dec("1200")))
	assert.True(t, got.SharedCostPerDiver.Amount.Equal(dec("250")))
	assert.True(t, got.SharedChargePerDiver.Amount.Equal(dec("300")))
	assert.True(t, got.PerDiverCost.Amount.IsZero())
	assert.True(t, got.TotalCostPerDiver.Amount.Equal(dec("250")))
	assert.True(t, got.TotalChargePerDiver.Amount.Equal(dec("300")))
	assert.True(t, got.MarginPerDiver.Amount.Equal(dec("50")))
}

func TestTotalsMixedLines(t *testing.T) {
	lines := []types.PricingLine{
		line("boat", types.AllocationShared, "1000", "1200"),
		line("gas", types.AllocationPerDiver, "50", "0"),
	}

	got, err := Totals(lines, 4, money.CurrencyMXN, nil)
	require.NoError(t, err)

	assert.True(t, got.PerDiverCost.Amount.Equal(dec("50")))
	assert.True(t, got.TotalCostPerDiver.Amount.Equal(dec("300")))
	assert.True(t, got.TotalChargePerDiver.Amount.Equal(dec("300")))
	assert.True(t, got.MarginPerDiver.Amount.IsZero())
}

func TestTotalsEquipmentRentalsArePerDiver(t *testing.T) {
	lines := []types.PricingLine{line("boat", types.AllocationShared, "1000", "1200")}
	rentals := []types.EquipmentRental{
		{
			UnitCost:   money.New(dec("10"), money.CurrencyMXN),
			UnitCharge: money.New(dec("25"), money.CurrencyMXN),
			Quantity:   2,
		},
	}

	got, err := Totals(lines, 4, money.CurrencyMXN, rentals)
	require.NoError(t, err)

	assert.True(t, got.PerDiverCost.Amount.Equal(dec("20")))
	assert.True(t, got.PerDiverCharge.Amount.Equal(dec("50")))
	assert.True(t, got.TotalCostPerDiver.Amount.Equal(dec("270")))
	assert.True(t, got.TotalChargePerDiver.Amount.Equal(dec("350")))
	assert.True(t, got.MarginPerDiver.Amount.Equal(dec("80")))
}

func TestTotalsZeroDivers(t *testing.T) {
	lines := []types.PricingLine{line("boat", types.AllocationShared, "1000", "1200")}

	got, err := Totals(lines, 0, money.CurrencyMXN, nil)
	require.NoError(t, err)

	assert.True(t, got.SharedCostPerDiver.Amount.IsZero())
	assert.True(t, got.SharedChargePerDiver.Amount.IsZero())
	assert.Equal(t, 0, got.DiverCount)
}

func TestTotalsSharedRateIsRoundedOnce(t *testing.T) {
	// 1000/3 = 333.333... -> rate 333.33; no remainder redistribution here.
	lines := []types.PricingLine{line("boat", types.AllocationShared, "1000", "1000")}

	got, err := Totals(lines, 3, money.CurrencyMXN, nil)
	require.NoError(t, err)
	assert.True(t, got.SharedCostPerDiver.Amount.Equal(dec("333.33")))
}

func TestTotalsNegativeMargin(t *testing.T) {
	lines := []types.PricingLine{line("gas", types.AllocationPerDiver, "50", "0")}

	got, err := Totals(lines, 4, money.CurrencyMXN, nil)
	require.NoError(t, err)
	assert.True(t, got.MarginPerDiver.Amount.Equal(dec("-50")))
}

func TestTotalsCurrencyMismatchFails(t *testing.T) {
	bad := types.PricingLine{
		Key:            "boat",
		Allocation:     types.AllocationShared,
		ShopCost:       money.New(dec("1000"), money.CurrencyUSD),
		CustomerCharge: money.New(dec("1200"), money.CurrencyUSD),
	}

	_, err := Totals([]types.PricingLine{bad}, 4, money.CurrencyMXN, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeCurrencyMismatch))
}

func TestTotalsUnknownAllocationRejected(t *testing.T) {
	bad := line("boat", "split_three_ways", "10", "10")

	_, err := Totals([]types.PricingLine{bad}, 4, money.CurrencyMXN, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput))
}

package calc

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dive-pricing/core/money"
	"dive-pricing/core/pricing"
	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

func TestBoatCostWithOverage(t *testing.T) {
	siteID := uuid.New()
	store, agreementID := newBoatStore(siteID)
	calc := New(store)

	got, err := calc.BoatCost(context.Background(), siteID, 6, &asOf)
	require.NoError(t, err)

	// base 1800 + 2 overage divers * 150 = 2100; 2100/6 = 350
	assert.Equal(t, 2, got.OverageCount)
	assert.True(t, got.Total.Amount.Equal(dec("2100")))
	assert.True(t, got.PerDiver.Amount.Equal(dec("350")))
	assert.True(t, got.BaseCost.Amount.Equal(dec("1800")))
	assert.Equal(t, 4, got.IncludedDivers)
	assert.Equal(t, 6, got.DiverCount)
	assert.Equal(t, money.CurrencyMXN, got.Total.Currency)
	require.NotNil(t, got.AgreementID)
	assert.Equal(t, agreementID, *got.AgreementID)
}

func TestBoatCostNoOverage(t *testing.T) {
	siteID := uuid.New()
	store, _ := newBoatStore(siteID)
	calc := New(store)

	got, err := calc.BoatCost(context.Background(), siteID, 3, &asOf)
	require.NoError(t, err)

	assert.Equal(t, 0, got.OverageCount)
	assert.True(t, got.Total.Amount.Equal(dec("1800")))
	assert.True(t, got.PerDiver.Amount.Equal(dec("600")))
}

func TestBoatCostPerDiverUsesBankersRounding(t *testing.T) {
	siteID := uuid.New()
	store, _ := newBoatStore(siteID)
	calc := New(store)

	// 1800 + 3*150 = 2250; 2250/7 = 321.428571... -> 321.43
	got, err := calc.BoatCost(context.Background(), siteID, 7, &asOf)
	require.NoError(t, err)
	assert.True(t, got.PerDiver.Amount.Equal(dec("321.43")))
}

func TestBoatCostInvalidDiverCount(t *testing.T) {
	siteID := uuid.New()
	store, _ := newBoatStore(siteID)
	calc := New(store)

	for _, n := range []int{0, -3} {
		_, err := calc.BoatCost(context.Background(), siteID, n, &asOf)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeInvalidInput))
	}
}

func TestBoatCostMissingAgreementIsFatal(t *testing.T) {
	calc := New(pricing.NewMemoryStore())

	_, err := calc.BoatCost(context.Background(), uuid.New(), 4, &asOf)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeMissingVendorAgreement))

	perr := err.(*errors.Error)
	assert.Equal(t, types.ScopeVendorPricing, perr.Context["scope_type"])
	assert.Contains(t, perr.Context["scope_ref"], "DiveSite:")
}

func TestBoatCostExpiredAgreementIsInvisible(t *testing.T) {
	siteID := uuid.New()
	store, _ := newBoatStore(siteID)
	calc := New(store)

	before := asOf.AddDate(-2, 0, 0)
	_, err := calc.BoatCost(context.Background(), siteID, 4, &before)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeMissingVendorAgreement))
}

func TestBoatCostMalformedTerms(t *testing.T) {
	siteID := uuid.New()
	store := pricing.NewMemoryStore()
	store.AddAgreement(types.Agreement{
		ID:        uuid.New(),
		ScopeType: types.ScopeVendorPricing,
		ScopeRef:  "DiveSite:" + siteID.String(),
		ValidFrom: asOf.AddDate(-1, 0, 0),
		Terms: map[string]interface{}{
			"boat_charter": map[string]interface{}{
				"base_cost": "not-a-decimal",
			},
		},
	})
	calc := New(store)

	_, err := calc.BoatCost(context.Background(), siteID, 4, &asOf)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfiguration))
	assert.Equal(t, "boat_charter.base_cost", err.(*errors.Error).Context["field_path"])
}

func TestBoatCostMissingTierSection(t *testing.T) {
	siteID := uuid.New()
	store := pricing.NewMemoryStore()
	store.AddAgreement(types.Agreement{
		ID:        uuid.New(),
		ScopeType: types.ScopeVendorPricing,
		ScopeRef:  "DiveSite:" + siteID.String(),
		ValidFrom: asOf.AddDate(-1, 0, 0),
		Terms:     map[string]interface{}{},
	})
	calc := New(store)

	_, err := calc.BoatCost(context.Background(), siteID, 4, &asOf)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfiguration))
}

func TestBoatCostIdempotent(t *testing.T) {
	siteID := uuid.New()
	store, _ := newBoatStore(siteID)
	calc := New(store)

	first, err := calc.BoatCost(context.Background(), siteID, 6, &asOf)
	require.NoError(t, err)
	second, err := calc.BoatCost(context.Background(), siteID, 6, &asOf)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

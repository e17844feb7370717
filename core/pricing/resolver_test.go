package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dive-pricing/core/money"
	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

var asOf = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func price(item uuid.UUID, amount string, priority int, mutate func(*types.Price)) types.Price {
	p := types.Price{
		ID:            uuid.New(),
		CatalogItemID: item,
		Amount:        dec(amount),
		Currency:      money.CurrencyMXN,
		ValidFrom:     asOf.AddDate(-1, 0, 0),
		Priority:      priority,
	}
	if mutate != nil {
		mutate(&p)
	}
	return p
}

func TestResolvePartyBeatsOrganization(t *testing.T) {
	item := uuid.New()
	orgID := uuid.New()
	partyID := uuid.New()

	store := NewMemoryStore()
	store.AddPrice(price(item, "500.00", 0, func(p *types.Price) { p.OrganizationID = &orgID }))
	store.AddPrice(price(item, "450.00", 0, func(p *types.Price) { p.PartyID = &partyID }))

	resolver := NewResolver(store)
	got, err := resolver.Resolve(context.Background(), ResolveRequest{
		CatalogItemID:  item,
		OrganizationID: &orgID,
		PartyID:        &partyID,
		AsOf:           asOf,
	})
	require.NoError(t, err)
	assert.True(t, got.ChargeAmount.Equal(dec("450.00")), "party tier must win over organization tier")
}

func TestResolveAgreementBeatsEverything(t *testing.T) {
	item := uuid.New()
	orgID := uuid.New()
	partyID := uuid.New()
	agreementID := uuid.New()

	store := NewMemoryStore()
	store.AddPrice(price(item, "500.00", 10, func(p *types.Price) { p.OrganizationID = &orgID }))
	store.AddPrice(price(item, "450.00", 10, func(p *types.Price) { p.PartyID = &partyID }))
	store.AddPrice(price(item, "400.00", 0, func(p *types.Price) { p.AgreementID = &agreementID }))

	resolver := NewResolver(store)
	got, err := resolver.Resolve(context.Background(), ResolveRequest{
		CatalogItemID:  item,
		OrganizationID: &orgID,
		PartyID:        &partyID,
		AgreementID:    &agreementID,
		AsOf:           asOf,
	})
	require.NoError(t, err)
	assert.True(t, got.ChargeAmount.Equal(dec("400.00")))
}

func TestResolveGlobalFallback(t *testing.T) {
	item := uuid.New()

	store := NewMemoryStore()
	store.AddPrice(price(item, "600.00", 0, nil))

	resolver := NewResolver(store)
	got, err := resolver.Resolve(context.Background(), ResolveRequest{CatalogItemID: item, AsOf: asOf})
	require.NoError(t, err)
	assert.True(t, got.ChargeAmount.Equal(dec("600.00")))
	assert.False(t, got.HasCost)
	assert.Equal(t, money.CurrencyMXN, got.CostCurrency, "cost currency defaults to charge currency")
}

func TestResolveMissingPrice(t *testing.T) {
	store := NewMemoryStore()
	resolver := NewResolver(store)

	_, err := resolver.Resolve(context.Background(), ResolveRequest{CatalogItemID: uuid.New(), AsOf: asOf})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeMissingPrice))
}

func TestResolvePriorityThenRecency(t *testing.T) {
	item := uuid.New()

	store := NewMemoryStore()
	store.AddPrice(price(item, "100.00", 1, nil))
	store.AddPrice(price(item, "90.00", 5, nil))
	newer := price(item, "80.00", 5, nil)
	newer.ValidFrom = asOf.AddDate(0, -1, 0)
	store.AddPrice(newer)

	resolver := NewResolver(store)
	got, err := resolver.Resolve(context.Background(), ResolveRequest{CatalogItemID: item, AsOf: asOf})
	require.NoError(t, err)
	assert.True(t, got.ChargeAmount.Equal(dec("80.00")), "highest priority then most recent valid_from wins")
}

func TestResolveExpiredPriceSkipped(t *testing.T) {
	item := uuid.New()

	expired := price(item, "100.00", 0, nil)
	end := asOf.AddDate(0, -1, 0)
	expired.ValidTo = &end

	store := NewMemoryStore()
	store.AddPrice(expired)

	resolver := NewResolver(store)
	_, err := resolver.Resolve(context.Background(), ResolveRequest{CatalogItemID: item, AsOf: asOf})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeMissingPrice))
}

func TestResolveCostFields(t *testing.T) {
	item := uuid.New()

	withCost := price(item, "250.00", 0, func(p *types.Price) {
		p.CostAmount = decPtr("180.00")
		p.CostCurrency = money.CurrencyUSD
	})

	store := NewMemoryStore()
	store.AddPrice(withCost)

	resolver := NewResolver(store)
	got, err := resolver.Resolve(context.Background(), ResolveRequest{CatalogItemID: item, AsOf: asOf})
	require.NoError(t, err)
	assert.True(t, got.HasCost)
	require.NotNil(t, got.CostAmount)
	assert.True(t, got.CostAmount.Equal(dec("180.00")))
	assert.Equal(t, money.CurrencyUSD, got.CostCurrency)
}

func TestMemoryStoreAgreementRecencyWins(t *testing.T) {
	ref := "DiveSite:" + uuid.NewString()

	older := types.Agreement{
		ID:        uuid.New(),
		ScopeType: types.ScopeVendorPricing,
		ScopeRef:  ref,
		ValidFrom: asOf.AddDate(-2, 0, 0),
	}
	newer := types.Agreement{
		ID:        uuid.New(),
		ScopeType: types.ScopeVendorPricing,
		ScopeRef:  ref,
		ValidFrom: asOf.AddDate(0, -1, 0),
	}

	store := NewMemoryStore()
	store.AddAgreement(older)
	store.AddAgreement(newer)

	got, err := store.FindByScope(context.Background(), types.ScopeVendorPricing, ref, asOf)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)
}

func TestMemoryStoreDeletedAgreementInvisible(t *testing.T) {
	ref := "DiveSite:" + uuid.NewString()
	deleted := asOf.AddDate(0, -1, 0)

	store := NewMemoryStore()
	store.AddAgreement(types.Agreement{
		ID:        uuid.New(),
		ScopeType: types.ScopeVendorPricing,
		ScopeRef:  ref,
		ValidFrom: asOf.AddDate(-1, 0, 0),
		DeletedAt: &deleted,
	})

	got, err := store.FindByScope(context.Background(), types.ScopeVendorPricing, ref, asOf)
	require.NoError(t, err)
	assert.Nil(t, got)
}

package engine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dive-pricing/core/money"
	"dive-pricing/core/pricing"
	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

// scriptedBackend fails every call with a fixed error, or succeeds with
// canned results when err is nil. It lets the delegation policy be
// tested without either real implementation.
type scriptedBackend struct {
	name  string
	err   error
	calls int
}

func (s *scriptedBackend) Name() string { return s.name }

func (s *scriptedBackend) BoatCost(ctx context.Context, req BoatCostRequest) (*types.BoatCostResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &types.BoatCostResult{DiverCount: req.DiverCount}, nil
}

func (s *scriptedBackend) GasFills(ctx context.Context, req GasFillsRequest) (*types.GasFillResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &types.GasFillResult{FillsCount: req.FillsCount}, nil
}

func (s *scriptedBackend) Resolve(ctx context.Context, req pricing.ResolveRequest) (*types.ResolvedPrice, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &types.ResolvedPrice{PriceRuleID: uuid.New()}, nil
}

func (s *scriptedBackend) Allocate(ctx context.Context, req AllocateRequest) (types.AllocationResult, error) {
	s.calls++
	if s.err != nil {
		return types.AllocationResult{}, s.err
	}
	return types.AllocationResult{PerDiver: money.Zero(req.Currency), Amounts: []money.Money{}}, nil
}

func (s *scriptedBackend) Totals(ctx context.Context, req TotalsRequest) (*types.TotalsResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &types.TotalsResult{DiverCount: req.DiverCount}, nil
}

func (s *scriptedBackend) Health(ctx context.Context) error {
	return s.err
}

func TestFallbackOnUnavailable(t *testing.T) {
	primary := &scriptedBackend{name: "remote", err: errors.Unavailable("connection refused", nil)}
	fallback := &scriptedBackend{name: "local"}
	eng := New(primary, fallback, nil)

	got, err := eng.BoatCost(context.Background(), BoatCostRequest{DiveSiteID: uuid.New(), DiverCount: 6})
	require.NoError(t, err, "unavailability must never surface when a fallback exists")
	assert.Equal(t, 6, got.DiverCount)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestApplicationErrorsPassThrough(t *testing.T) {
	primary := &scriptedBackend{
		name: "remote",
		err:  errors.MissingVendorAgreement(types.ScopeVendorPricing, "DiveSite:abc"),
	}
	fallback := &scriptedBackend{name: "local"}
	eng := New(primary, fallback, nil)

	_, err := eng.BoatCost(context.Background(), BoatCostRequest{DiveSiteID: uuid.New(), DiverCount: 6})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeMissingVendorAgreement))
	assert.Equal(t, 0, fallback.calls, "application errors must not trigger fallback")
}

func TestNoFallbackConfigured(t *testing.T) {
	primary := &scriptedBackend{name: "remote", err: errors.Unavailable("connection refused", nil)}
	eng := New(primary, nil, nil)

	_, err := eng.GasFills(context.Background(), GasFillsRequest{DiveShopID: uuid.New(), GasType: "air", FillsCount: 1})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeUnavailable))
}

func TestAllocateFallsBackOnAnyError(t *testing.T) {
	primary := &scriptedBackend{name: "remote", err: errors.Internal("remote exploded", nil)}
	fallback := &scriptedBackend{name: "local"}
	eng := New(primary, fallback, nil)

	_, err := eng.Allocate(context.Background(), AllocateRequest{
		SharedTotal: decimal.NewFromInt(100),
		DiverCount:  3,
		Currency:    money.CurrencyMXN,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.calls)
}

func TestHealthPrefersPrimary(t *testing.T) {
	primary := &scriptedBackend{name: "remote"}
	fallback := &scriptedBackend{name: "local"}
	eng := New(primary, fallback, nil)
	assert.NoError(t, eng.Health(context.Background()))

	primary.err = errors.Unavailable("down", nil)
	assert.NoError(t, eng.Health(context.Background()), "healthy fallback keeps the engine healthy")
}

func TestLocalBackendEndToEnd(t *testing.T) {
	store := pricing.NewMemoryStore()
	local := NewLocal(store)
	eng := New(local, nil, nil)

	got, err := eng.Allocate(context.Background(), AllocateRequest{
		SharedTotal: decimal.NewFromInt(100),
		DiverCount:  3,
		Currency:    money.CurrencyMXN,
	})
	require.NoError(t, err)
	require.Len(t, got.Amounts, 3)
	assert.Equal(t, "33.34", got.Amounts[0].Amount.String())
}

package engine

import (
	"context"

	"dive-pricing/core/calc"
	"dive-pricing/core/pricing"
	"dive-pricing/core/types"
)

// Local is the in-process Backend: it runs the calculators directly
// over a reference-data store.
type Local struct {
	calc *calc.Calculator
}

// NewLocal creates a local backend over a reference-data store
func NewLocal(store pricing.Store) *Local {
	return &Local{calc: calc.New(store)}
}

// Name implements Backend
func (l *Local) Name() string {
	return "local"
}

// BoatCost implements Backend
func (l *Local) BoatCost(ctx context.Context, req BoatCostRequest) (*types.BoatCostResult, error) {
	return l.calc.BoatCost(ctx, req.DiveSiteID, req.DiverCount, req.AsOf)
}

// GasFills implements Backend
func (l *Local) GasFills(ctx context.Context, req GasFillsRequest) (*types.GasFillResult, error) {
	return l.calc.GasFills(ctx, req.DiveShopID, req.GasType, req.FillsCount, req.ChargeOverride, req.AsOf)
}

// Resolve implements Backend
func (l *Local) Resolve(ctx context.Context, req pricing.ResolveRequest) (*types.ResolvedPrice, error) {
	return l.calc.Resolver().Resolve(ctx, req)
}

// Allocate implements Backend
func (l *Local) Allocate(ctx context.Context, req AllocateRequest) (types.AllocationResult, error) {
	return calc.AllocateSharedCosts(req.SharedTotal, req.DiverCount, req.Currency), nil
}

// Totals implements Backend
func (l *Local) Totals(ctx context.Context, req TotalsRequest) (*types.TotalsResult, error) {
	return calc.Totals(req.Lines, req.DiverCount, req.Currency, req.Rentals)
}

// Health implements Backend. The local backend is always available.
func (l *Local) Health(ctx context.Context) error {
	return nil
}

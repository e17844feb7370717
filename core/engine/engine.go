// Package engine provides the pricing service facade: a strategy
// interface over interchangeable calculation backends and the
// health-check-then-fallback delegation policy between them.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dive-pricing/core/money"
	"dive-pricing/core/pricing"
	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

// BoatCostRequest asks for tiered boat pricing for one excursion.
type BoatCostRequest struct {
	DiveSiteID uuid.UUID
	DiverCount int
	AsOf       *time.Time
}

// GasFillsRequest asks for per-fill gas pricing.
type GasFillsRequest struct {
	DiveShopID     uuid.UUID
	GasType        string
	FillsCount     int
	ChargeOverride *decimal.Decimal
	AsOf           *time.Time
}

// AllocateRequest asks for a penny-exact even split.
type AllocateRequest struct {
	SharedTotal decimal.Decimal
	DiverCount  int
	Currency    money.Currency
}

// TotalsRequest asks for the aggregated cost/charge/margin breakdown.
type TotalsRequest struct {
	Lines      []types.PricingLine
	DiverCount int
	Currency   money.Currency
	Rentals    []types.EquipmentRental
}

// Backend is a complete pricing calculation implementation. The local
// in-process calculators and the remote service client both satisfy it;
// callers observe identical semantics, including the error taxonomy,
// regardless of which one serves a request.
type Backend interface {
	Name() string
	BoatCost(ctx context.Context, req BoatCostRequest) (*types.BoatCostResult, error)
	GasFills(ctx context.Context, req GasFillsRequest) (*types.GasFillResult, error)
	Resolve(ctx context.Context, req pricing.ResolveRequest) (*types.ResolvedPrice, error)
	Allocate(ctx context.Context, req AllocateRequest) (types.AllocationResult, error)
	Totals(ctx context.Context, req TotalsRequest) (*types.TotalsResult, error)
	Health(ctx context.Context) error
}

// Engine fronts a primary backend with an optional fallback. When the
// primary fails with SERVICE_UNAVAILABLE the call is transparently
// re-run on the fallback and a warning is logged; the caller never sees
// the unavailability. Structured application errors pass through
// unchanged.
type Engine struct {
	primary  Backend
	fallback Backend
	log      *zap.Logger
}

// New creates an engine. fallback may be nil, in which case primary
// errors always surface.
func New(primary, fallback Backend, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{primary: primary, fallback: fallback, log: log}
}

// shouldFallBack reports whether err warrants retrying on the fallback
// backend. Only unreachability qualifies: application errors mean the
// calculation itself failed and would fail identically anywhere.
func (e *Engine) shouldFallBack(err error) bool {
	return e.fallback != nil && errors.IsType(err, errors.TypeUnavailable)
}

func (e *Engine) warnFallback(op string, err error) {
	e.log.Warn("pricing backend unavailable, falling back",
		zap.String("op", op),
		zap.String("primary", e.primary.Name()),
		zap.String("fallback", e.fallback.Name()),
		zap.Error(err),
	)
}

// Name implements Backend
func (e *Engine) Name() string {
	return "delegating"
}

// BoatCost implements Backend
func (e *Engine) BoatCost(ctx context.Context, req BoatCostRequest) (*types.BoatCostResult, error) {
	result, err := e.primary.BoatCost(ctx, req)
	if err != nil && e.shouldFallBack(err) {
		e.warnFallback("boat-cost", err)
		return e.fallback.BoatCost(ctx, req)
	}
	return result, err
}

// GasFills implements Backend
func (e *Engine) GasFills(ctx context.Context, req GasFillsRequest) (*types.GasFillResult, error) {
	result, err := e.primary.GasFills(ctx, req)
	if err != nil && e.shouldFallBack(err) {
		e.warnFallback("gas-fills", err)
		return e.fallback.GasFills(ctx, req)
	}
	return result, err
}

// Resolve implements Backend
func (e *Engine) Resolve(ctx context.Context, req pricing.ResolveRequest) (*types.ResolvedPrice, error) {
	result, err := e.primary.Resolve(ctx, req)
	if err != nil && e.shouldFallBack(err) {
		e.warnFallback("resolve", err)
		return e.fallback.Resolve(ctx, req)
	}
	return result, err
}

// Allocate implements Backend. Allocation is pure arithmetic, so any
// primary failure at all falls back, not just unreachability.
func (e *Engine) Allocate(ctx context.Context, req AllocateRequest) (types.AllocationResult, error) {
	result, err := e.primary.Allocate(ctx, req)
	if err != nil && e.fallback != nil {
		e.warnFallback("allocate", err)
		return e.fallback.Allocate(ctx, req)
	}
	return result, err
}

// Totals implements Backend
func (e *Engine) Totals(ctx context.Context, req TotalsRequest) (*types.TotalsResult, error) {
	result, err := e.primary.Totals(ctx, req)
	if err != nil && e.shouldFallBack(err) {
		e.warnFallback("totals", err)
		return e.fallback.Totals(ctx, req)
	}
	return result, err
}

// Health implements Backend. The engine is healthy when either backend is.
func (e *Engine) Health(ctx context.Context) error {
	err := e.primary.Health(ctx)
	if err != nil && e.fallback != nil {
		return e.fallback.Health(ctx)
	}
	return err
}

package calc

import (
	"github.com/shopspring/decimal"

	"dive-pricing/core/money"
	"dive-pricing/core/types"
)

var penny = decimal.New(1, -2) // 0.01

// AllocateSharedCosts splits a shared total evenly across diverCount
// divers with penny-exact remainder handling: the rounded per-diver
// share is computed once, and the leftover cents land on the
// lowest-indexed divers first. The returned amounts always sum to
// sharedTotal exactly.
//
// A non-positive diver count yields (0, []) rather than an error; the
// boat and gas calculators reject the same input, but historical callers
// of the allocator rely on the permissive shape.
func AllocateSharedCosts(sharedTotal decimal.Decimal, diverCount int, currency money.Currency) types.AllocationResult {
	if diverCount <= 0 {
		return types.AllocationResult{
			PerDiver: money.Zero(currency),
			Amounts:  []money.Money{},
		}
	}

	n := decimal.NewFromInt(int64(diverCount))
	perDiver := money.Round(sharedTotal.Div(n), 2)
	allocated := perDiver.Mul(n)
	remainder := sharedTotal.Sub(allocated)

	amounts := make([]money.Money, diverCount)
	for i := range amounts {
		amounts[i] = money.New(perDiver, currency)
	}

	if !remainder.IsZero() {
		increment := penny
		if remainder.IsNegative() {
			increment = penny.Neg()
		}
		adjustments := int(remainder.Abs().Div(penny).IntPart())
		if adjustments > diverCount {
			adjustments = diverCount
		}
		for i := 0; i < adjustments; i++ {
			amounts[i].Amount = amounts[i].Amount.Add(increment)
		}
	}

	return types.AllocationResult{
		PerDiver: money.New(perDiver, currency),
		Amounts:  amounts,
	}
}

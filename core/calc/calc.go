// Package calc implements the pricing calculators: tiered boat cost,
// gas fills, shared-cost allocation, and totals aggregation.
//
// Every calculation is a pure function over its inputs plus read-only
// reference data; identical inputs against identical reference data
// always produce identical results.
package calc

import (
	"time"

	"dive-pricing/core/pricing"
)

// Calculator runs pricing calculations over a reference-data store.
type Calculator struct {
	store    pricing.Store
	resolver *pricing.Resolver
}

// New creates a calculator over a reference-data store
func New(store pricing.Store) *Calculator {
	return &Calculator{
		store:    store,
		resolver: pricing.NewResolver(store),
	}
}

// Resolver exposes the price resolution engine
func (c *Calculator) Resolver() *pricing.Resolver {
	return c.resolver
}

func orNow(asOf *time.Time) time.Time {
	if asOf != nil {
		return *asOf
	}
	return time.Now().UTC()
}

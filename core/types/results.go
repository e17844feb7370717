package types

import (
	"github.com/google/uuid"

	"dive-pricing/core/money"
)

// Allocation modes for a pricing line
const (
	AllocationShared   = "shared"
	AllocationPerDiver = "per_diver"
)

// BoatCostResult is the outcome of a tiered boat-cost calculation.
// Invariants: Total == BaseCost + OverageCount * OveragePerDiver and
// OverageCount == max(0, DiverCount - IncludedDivers).
type BoatCostResult struct {
	Total           money.Money `json:"total"`
	PerDiver        money.Money `json:"per_diver"`
	BaseCost        money.Money `json:"base_cost"`
	OverageCount    int         `json:"overage_count"`
	OveragePerDiver money.Money `json:"overage_per_diver"`
	IncludedDivers  int         `json:"included_divers"`
	DiverCount      int         `json:"diver_count"`
	AgreementID     *uuid.UUID  `json:"agreement_id,omitempty"`
}

// GasFillResult is the outcome of a gas-fill calculation.
// Invariant: TotalCost == CostPerFill * FillsCount (same for charge).
type GasFillResult struct {
	CostPerFill   money.Money `json:"cost_per_fill"`
	ChargePerFill money.Money `json:"charge_per_fill"`
	TotalCost     money.Money `json:"total_cost"`
	TotalCharge   money.Money `json:"total_charge"`
	FillsCount    int         `json:"fills_count"`
	GasType       string      `json:"gas_type"`
	AgreementID   *uuid.UUID  `json:"agreement_id,omitempty"`
	PriceRuleID   *uuid.UUID  `json:"price_rule_id,omitempty"`
}

// AllocationResult is a penny-exact even split of a shared total.
// Invariant: the amounts sum to the shared total exactly, and
// len(Amounts) == diver count.
type AllocationResult struct {
	PerDiver money.Money   `json:"per_diver"`
	Amounts  []money.Money `json:"amounts"`
}

// PricingLine is one input line for the totals aggregation.
type PricingLine struct {
	Key            string      `json:"key"`
	Allocation     string      `json:"allocation"`
	ShopCost       money.Money `json:"shop_cost"`
	CustomerCharge money.Money `json:"customer_charge"`
}

// EquipmentRental is a per-diver rental line for the totals aggregation.
type EquipmentRental struct {
	UnitCost   money.Money `json:"unit_cost"`
	UnitCharge money.Money `json:"unit_charge"`
	Quantity   int         `json:"quantity"`
}

// TotalsResult is the aggregated cost/charge/margin breakdown.
//
// The per-diver fields here are rates, not penny-exact splits: shared
// amounts are divided and rounded once, without the allocator's
// remainder redistribution.
type TotalsResult struct {
	SharedCost           money.Money    `json:"shared_cost"`
	SharedCharge         money.Money    `json:"shared_charge"`
	PerDiverCost         money.Money    `json:"per_diver_cost"`
	PerDiverCharge       money.Money    `json:"per_diver_charge"`
	SharedCostPerDiver   money.Money    `json:"shared_cost_per_diver"`
	SharedChargePerDiver money.Money    `json:"shared_charge_per_diver"`
	TotalCostPerDiver    money.Money    `json:"total_cost_per_diver"`
	TotalChargePerDiver  money.Money    `json:"total_charge_per_diver"`
	MarginPerDiver       money.Money    `json:"margin_per_diver"`
	DiverCount           int            `json:"diver_count"`
	Currency             money.Currency `json:"currency"`
}

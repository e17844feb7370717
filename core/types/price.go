package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dive-pricing/core/money"
)

// Price is a priced entry for a catalog item, scoped to exactly one of
// {agreement, party, organization, global}. The resolution query enforces
// the mutual exclusivity of the scope dimensions; the record itself only
// carries them.
type Price struct {
	ID            uuid.UUID `json:"id"`
	CatalogItemID uuid.UUID `json:"catalog_item_id"`

	// Amount and Currency are the customer charge
	Amount   decimal.Decimal `json:"amount"`
	Currency money.Currency  `json:"currency"`

	// CostAmount and CostCurrency are the optional shop cost. CostCurrency
	// defaults to Currency at resolution time when absent.
	CostAmount   *decimal.Decimal `json:"cost_amount,omitempty"`
	CostCurrency money.Currency   `json:"cost_currency,omitempty"`

	// Scope dimensions; at most one populated per resolution tier
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	PartyID        *uuid.UUID `json:"party_id,omitempty"`
	AgreementID    *uuid.UUID `json:"agreement_id,omitempty"`

	ValidFrom time.Time  `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`

	// Priority breaks ties within a tier; higher wins
	Priority int `json:"priority"`
}

// CurrentAt reports whether the price is valid at t (half-open window).
func (p *Price) CurrentAt(t time.Time) bool {
	if t.Before(p.ValidFrom) {
		return false
	}
	if p.ValidTo != nil && !t.Before(*p.ValidTo) {
		return false
	}
	return true
}

// HasCost reports whether the price carries a shop cost
func (p *Price) HasCost() bool {
	return p.CostAmount != nil
}

// ResolvedPrice is the outcome of price resolution for a catalog item.
type ResolvedPrice struct {
	ChargeAmount   decimal.Decimal  `json:"charge_amount"`
	ChargeCurrency money.Currency   `json:"charge_currency"`
	CostAmount     *decimal.Decimal `json:"cost_amount,omitempty"`
	CostCurrency   money.Currency   `json:"cost_currency"`
	PriceRuleID    uuid.UUID        `json:"price_rule_id"`
	HasCost        bool             `json:"has_cost"`
}

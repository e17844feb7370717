// Package types defines the domain records and result values of the
// pricing engine. All result types are immutable: constructed once per
// calculation and never mutated.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dive-pricing/core/money"
	"dive-pricing/internal/errors"
)

// Agreement scope types used by the calculators
const (
	ScopeVendorPricing    = "vendor_pricing"
	ScopeGasVendorPricing = "gas_vendor_pricing"
)

// Agreement is a scoped, time-bounded contract record. The engine treats
// it as an immutable snapshot: it only reads the terms valid at a given
// instant and never writes.
type Agreement struct {
	ID uuid.UUID `json:"id"`

	// ScopeType names the kind of contract (vendor_pricing, gas_vendor_pricing)
	ScopeType string `json:"scope_type"`

	// ScopeRef identifies what the agreement covers (e.g. "DiveSite:<uuid>")
	ScopeRef string `json:"scope_ref,omitempty"`

	// PartyA and PartyB identify the contracting parties (e.g. "Organization:<uuid>")
	PartyA string `json:"party_a,omitempty"`
	PartyB string `json:"party_b,omitempty"`

	// Terms is the raw nested terms mapping as stored. Calculators never
	// read it directly; they go through the typed parsers below.
	Terms map[string]interface{} `json:"terms"`

	ValidFrom time.Time  `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// ValidAt reports whether the agreement is in force at t.
// The validity window is half-open: valid_from <= t < valid_to.
func (a *Agreement) ValidAt(t time.Time) bool {
	if a.DeletedAt != nil {
		return false
	}
	if t.Before(a.ValidFrom) {
		return false
	}
	if a.ValidTo != nil && !t.Before(*a.ValidTo) {
		return false
	}
	return true
}

// BoatCharterTerms is the typed tier structure for a vendor_pricing
// agreement. Parsed and validated once at the boundary where the
// agreement is read.
type BoatCharterTerms struct {
	BaseCost        decimal.Decimal
	IncludedDivers  int
	OveragePerDiver decimal.Decimal
	Currency        money.Currency
}

// GasFillRate is the typed per-fill pricing for one gas type under a
// gas_vendor_pricing agreement.
type GasFillRate struct {
	Cost     decimal.Decimal
	Charge   decimal.Decimal
	Currency money.Currency
}

// ParseBoatCharterTerms extracts the boat_charter tier from an
// agreement's terms. Missing or malformed fields fail with a
// configuration error naming the offending field path; the engine never
// silently defaults to a zero cost.
func ParseBoatCharterTerms(a *Agreement) (*BoatCharterTerms, error) {
	raw, ok := a.Terms["boat_charter"]
	if !ok {
		return nil, errors.Configuration(
			fmt.Sprintf("agreement %s missing 'boat_charter' in terms", a.ID),
			"boat_charter",
		)
	}
	tier, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.Configuration(
			fmt.Sprintf("agreement %s has non-mapping 'boat_charter' terms", a.ID),
			"boat_charter",
		)
	}

	baseCost, err := termDecimal(tier, "base_cost", "boat_charter.base_cost", a.ID)
	if err != nil {
		return nil, err
	}
	overage, err := termDecimal(tier, "overage_per_diver", "boat_charter.overage_per_diver", a.ID)
	if err != nil {
		return nil, err
	}
	included, err := termInt(tier, "included_divers", 4, "boat_charter.included_divers", a.ID)
	if err != nil {
		return nil, err
	}

	return &BoatCharterTerms{
		BaseCost:        baseCost,
		IncludedDivers:  included,
		OveragePerDiver: overage,
		Currency:        termCurrency(tier),
	}, nil
}

// ParseGasFillRate extracts the per-fill pricing for gasType from a
// gas_vendor_pricing agreement. Gas types are matched case-insensitively.
func ParseGasFillRate(a *Agreement, gasType string) (*GasFillRate, error) {
	raw, ok := a.Terms["gas_fills"]
	if !ok {
		return nil, errors.Configuration(
			fmt.Sprintf("agreement %s missing 'gas_fills' in terms", a.ID),
			"gas_fills",
		)
	}
	fills, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.Configuration(
			fmt.Sprintf("agreement %s has non-mapping 'gas_fills' terms", a.ID),
			"gas_fills",
		)
	}

	key := strings.ToLower(gasType)
	path := "gas_fills." + key
	entry, ok := fills[key].(map[string]interface{})
	if !ok {
		return nil, errors.Configuration(
			fmt.Sprintf("agreement %s missing pricing for gas type %q", a.ID, gasType),
			path,
		)
	}

	cost, err := termDecimal(entry, "cost", path+".cost", a.ID)
	if err != nil {
		return nil, err
	}
	charge, err := termDecimal(entry, "charge", path+".charge", a.ID)
	if err != nil {
		return nil, err
	}

	return &GasFillRate{
		Cost:     cost,
		Charge:   charge,
		Currency: termCurrency(entry),
	}, nil
}

func termDecimal(m map[string]interface{}, key, path string, agreementID uuid.UUID) (decimal.Decimal, error) {
	raw, ok := m[key]
	if !ok {
		return decimal.Zero, errors.Configuration(
			fmt.Sprintf("agreement %s missing %q in terms", agreementID, path),
			path,
		)
	}
	switch v := raw.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, errors.Configuration(
				fmt.Sprintf("agreement %s has malformed %q: %v", agreementID, path, err),
				path,
			)
		}
		return d, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, errors.Configuration(
				fmt.Sprintf("agreement %s has malformed %q: %v", agreementID, path, err),
				path,
			)
		}
		return d, nil
	default:
		return decimal.Zero, errors.Configuration(
			fmt.Sprintf("agreement %s has non-decimal %q (%T)", agreementID, path, raw),
			path,
		)
	}
}

func termInt(m map[string]interface{}, key string, def int, path string, agreementID uuid.UUID) (int, error) {
	raw, ok := m[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, errors.Configuration(
				fmt.Sprintf("agreement %s has non-integer %q: %v", agreementID, path, err),
				path,
			)
		}
		return int(n), nil
	default:
		return 0, errors.Configuration(
			fmt.Sprintf("agreement %s has non-integer %q (%T)", agreementID, path, raw),
			path,
		)
	}
}

func termCurrency(m map[string]interface{}) money.Currency {
	if v, ok := m["currency"].(string); ok && v != "" {
		return money.Currency(v)
	}
	return money.CurrencyMXN
}

package calc

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dive-pricing/core/pricing"
	"dive-pricing/core/types"
)

var asOf = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newBoatStore seeds a store with a vendor agreement for siteID using the
// standard tier: 1800 base, 4 included, 150 per overage diver.
func newBoatStore(siteID uuid.UUID) (*pricing.MemoryStore, uuid.UUID) {
	agreementID := uuid.New()
	store := pricing.NewMemoryStore()
	store.AddAgreement(types.Agreement{
		ID:        agreementID,
		ScopeType: types.ScopeVendorPricing,
		ScopeRef:  "DiveSite:" + siteID.String(),
		ValidFrom: asOf.AddDate(-1, 0, 0),
		Terms: map[string]interface{}{
			"boat_charter": map[string]interface{}{
				"base_cost":         "1800.00",
				"included_divers":   4,
				"overage_per_diver": "150.00",
				"currency":          "MXN",
			},
		},
	})
	return store, agreementID
}

// newGasStore seeds a store with a gas vendor agreement for shopID
// pricing air at cost 50 / charge 100 per fill.
func newGasStore(shopID uuid.UUID) (*pricing.MemoryStore, uuid.UUID) {
	agreementID := uuid.New()
	store := pricing.NewMemoryStore()
	store.AddAgreement(types.Agreement{
		ID:        agreementID,
		ScopeType: types.ScopeGasVendorPricing,
		PartyA:    "Organization:" + shopID.String(),
		ValidFrom: asOf.AddDate(-1, 0, 0),
		Terms: map[string]interface{}{
			"gas_fills": map[string]interface{}{
				"air": map[string]interface{}{
					"cost":     "50.00",
					"charge":   "100.00",
					"currency": "MXN",
				},
				"ean32": map[string]interface{}{
					"cost":     "80.00",
					"charge":   "150.00",
					"currency": "MXN",
				},
			},
		},
	})
	return store, agreementID
}

// Package api - HTTP facade for the pricing engine.
// The API is only responsible for input ingestion, engine delegation,
// and output serialization. It never performs pricing logic.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dive-pricing/core/engine"
	"dive-pricing/core/money"
	"dive-pricing/core/pricing"
	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

// MoneyPayload carries an amount as an exact decimal string. Binary
// floats never cross the wire.
type MoneyPayload struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func moneyPayload(m money.Money) MoneyPayload {
	return MoneyPayload{Amount: m.Amount.String(), Currency: string(m.Currency)}
}

func (p MoneyPayload) toMoney() (money.Money, error) {
	return money.FromString(p.Amount, money.Currency(p.Currency))
}

// BoatCostRequest is the payload for POST /boat-cost
type BoatCostRequest struct {
	DiveSiteID string  `json:"dive_site_id"`
	DiverCount int     `json:"diver_count"`
	AsOf       *string `json:"as_of,omitempty"`
}

// BoatCostResponse mirrors types.BoatCostResult on the wire
type BoatCostResponse struct {
	Total           MoneyPayload `json:"total"`
	PerDiver        MoneyPayload `json:"per_diver"`
	BaseCost        MoneyPayload `json:"base_cost"`
	OverageCount    int          `json:"overage_count"`
	OveragePerDiver MoneyPayload `json:"overage_per_diver"`
	IncludedDivers  int          `json:"included_divers"`
	DiverCount      int          `json:"diver_count"`
	AgreementID     *string      `json:"agreement_id,omitempty"`
}

// GasFillsRequest is the payload for POST /gas-fills
type GasFillsRequest struct {
	DiveShopID             string  `json:"dive_shop_id"`
	GasType                string  `json:"gas_type"`
	FillsCount             int     `json:"fills_count"`
	CustomerChargeOverride *string `json:"customer_charge_override,omitempty"`
	AsOf                   *string `json:"as_of,omitempty"`
}

// GasFillsResponse mirrors types.GasFillResult on the wire
type GasFillsResponse struct {
	CostPerFill   MoneyPayload `json:"cost_per_fill"`
	ChargePerFill MoneyPayload `json:"charge_per_fill"`
	TotalCost     MoneyPayload `json:"total_cost"`
	TotalCharge   MoneyPayload `json:"total_charge"`
	FillsCount    int          `json:"fills_count"`
	GasType       string       `json:"gas_type"`
	AgreementID   *string      `json:"agreement_id,omitempty"`
	PriceRuleID   *string      `json:"price_rule_id,omitempty"`
}

// ResolveRequest is the payload for POST /resolve
type ResolveRequest struct {
	CatalogItemID string  `json:"catalog_item_id"`
	DiveShopID    *string `json:"dive_shop_id,omitempty"`
	PartyID       *string `json:"party_id,omitempty"`
	AgreementID   *string `json:"agreement_id,omitempty"`
	AsOf          *string `json:"as_of,omitempty"`
}

// ResolveResponse mirrors types.ResolvedPrice on the wire
type ResolveResponse struct {
	ChargeAmount   string  `json:"charge_amount"`
	ChargeCurrency string  `json:"charge_currency"`
	CostAmount     *string `json:"cost_amount,omitempty"`
	CostCurrency   string  `json:"cost_currency"`
	PriceRuleID    string  `json:"price_rule_id"`
	HasCost        bool    `json:"has_cost"`
}

// AllocateRequest is the payload for POST /allocate
type AllocateRequest struct {
	SharedTotal string `json:"shared_total"`
	DiverCount  int    `json:"diver_count"`
	Currency    string `json:"currency"`
}

// AllocateResponse mirrors types.AllocationResult on the wire
type AllocateResponse struct {
	PerDiver MoneyPayload   `json:"per_diver"`
	Amounts  []MoneyPayload `json:"amounts"`
}

// PricingLinePayload is one totals input line on the wire
type PricingLinePayload struct {
	Key                    string `json:"key"`
	Allocation             string `json:"allocation"`
	ShopCostAmount         string `json:"shop_cost_amount"`
	ShopCostCurrency       string `json:"shop_cost_currency"`
	CustomerChargeAmount   string `json:"customer_charge_amount"`
	CustomerChargeCurrency string `json:"customer_charge_currency"`
}

// EquipmentRentalPayload is one rental line on the wire
type EquipmentRentalPayload struct {
	UnitCostAmount   string `json:"unit_cost_amount"`
	UnitChargeAmount string `json:"unit_charge_amount"`
	Quantity         int    `json:"quantity"`
}

// TotalsRequest is the payload for POST /totals
type TotalsRequest struct {
	Lines            []PricingLinePayload     `json:"lines"`
	DiverCount       int                      `json:"diver_count"`
	Currency         string                   `json:"currency"`
	EquipmentRentals []EquipmentRentalPayload `json:"equipment_rentals,omitempty"`
}

// TotalsResponse mirrors types.TotalsResult on the wire
type TotalsResponse struct {
	SharedCost           MoneyPayload `json:"shared_cost"`
	SharedCharge         MoneyPayload `json:"shared_charge"`
	PerDiverCost         MoneyPayload `json:"per_diver_cost"`
	PerDiverCharge       MoneyPayload `json:"per_diver_charge"`
	SharedCostPerDiver   MoneyPayload `json:"shared_cost_per_diver"`
	SharedChargePerDiver MoneyPayload `json:"shared_charge_per_diver"`
	TotalCostPerDiver    MoneyPayload `json:"total_cost_per_diver"`
	TotalChargePerDiver  MoneyPayload `json:"total_charge_per_diver"`
	MarginPerDiver       MoneyPayload `json:"margin_per_diver"`
	DiverCount           int          `json:"diver_count"`
	Currency             string       `json:"currency"`
}

// ErrorResponse is the error envelope for every endpoint
type ErrorResponse struct {
	ErrorType string                 `json:"error_type"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// HealthResponse is the payload for GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// ---- request conversion ----

func parseUUID(s, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.InvalidInput("malformed " + field + ": " + s)
	}
	return id, nil
}

func parseOptionalUUID(s *string, field string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := parseUUID(*s, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseAsOf(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, errors.InvalidInput("malformed as_of: " + *s)
	}
	return &t, nil
}

func parseDecimal(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.InvalidInput("malformed " + field + ": " + s)
	}
	return d, nil
}

func (r BoatCostRequest) ToEngine() (engine.BoatCostRequest, error) {
	siteID, err := parseUUID(r.DiveSiteID, "dive_site_id")
	if err != nil {
		return engine.BoatCostRequest{}, err
	}
	asOf, err := parseAsOf(r.AsOf)
	if err != nil {
		return engine.BoatCostRequest{}, err
	}
	return engine.BoatCostRequest{DiveSiteID: siteID, DiverCount: r.DiverCount, AsOf: asOf}, nil
}

func (r GasFillsRequest) ToEngine() (engine.GasFillsRequest, error) {
	shopID, err := parseUUID(r.DiveShopID, "dive_shop_id")
	if err != nil {
		return engine.GasFillsRequest{}, err
	}
	asOf, err := parseAsOf(r.AsOf)
	if err != nil {
		return engine.GasFillsRequest{}, err
	}
	var override *decimal.Decimal
	if r.CustomerChargeOverride != nil {
		d, err := parseDecimal(*r.CustomerChargeOverride, "customer_charge_override")
		if err != nil {
			return engine.GasFillsRequest{}, err
		}
		override = &d
	}
	return engine.GasFillsRequest{
		DiveShopID:     shopID,
		GasType:        r.GasType,
		FillsCount:     r.FillsCount,
		ChargeOverride: override,
		AsOf:           asOf,
	}, nil
}

func (r ResolveRequest) ToEngine() (pricing.ResolveRequest, error) {
	itemID, err := parseUUID(r.CatalogItemID, "catalog_item_id")
	if err != nil {
		return pricing.ResolveRequest{}, err
	}
	orgID, err := parseOptionalUUID(r.DiveShopID, "dive_shop_id")
	if err != nil {
		return pricing.ResolveRequest{}, err
	}
	partyID, err := parseOptionalUUID(r.PartyID, "party_id")
	if err != nil {
		return pricing.ResolveRequest{}, err
	}
	agreementID, err := parseOptionalUUID(r.AgreementID, "agreement_id")
	if err != nil {
		return pricing.ResolveRequest{}, err
	}
	asOf, err := parseAsOf(r.AsOf)
	if err != nil {
		return pricing.ResolveRequest{}, err
	}
	req := pricing.ResolveRequest{
		CatalogItemID:  itemID,
		OrganizationID: orgID,
		PartyID:        partyID,
		AgreementID:    agreementID,
	}
	if asOf != nil {
		req.AsOf = *asOf
	}
	return req, nil
}

func (r AllocateRequest) ToEngine() (engine.AllocateRequest, error) {
	total, err := parseDecimal(r.SharedTotal, "shared_total")
	if err != nil {
		return engine.AllocateRequest{}, err
	}
	currency := money.Currency(r.Currency)
	if currency == "" {
		currency = money.CurrencyMXN
	}
	return engine.AllocateRequest{SharedTotal: total, DiverCount: r.DiverCount, Currency: currency}, nil
}

func (r TotalsRequest) ToEngine() (engine.TotalsRequest, error) {
	currency := money.Currency(r.Currency)
	if currency == "" {
		currency = money.CurrencyMXN
	}

	lines := make([]types.PricingLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		cost, err := MoneyPayload{Amount: l.ShopCostAmount, Currency: l.ShopCostCurrency}.toMoney()
		if err != nil {
			return engine.TotalsRequest{}, err
		}
		charge, err := MoneyPayload{Amount: l.CustomerChargeAmount, Currency: l.CustomerChargeCurrency}.toMoney()
		if err != nil {
			return engine.TotalsRequest{}, err
		}
		lines = append(lines, types.PricingLine{
			Key:            l.Key,
			Allocation:     l.Allocation,
			ShopCost:       cost,
			CustomerCharge: charge,
		})
	}

	rentals := make([]types.EquipmentRental, 0, len(r.EquipmentRentals))
	for _, er := range r.EquipmentRentals {
		cost, err := parseDecimal(er.UnitCostAmount, "unit_cost_amount")
		if err != nil {
			return engine.TotalsRequest{}, err
		}
		charge, err := parseDecimal(er.UnitChargeAmount, "unit_charge_amount")
		if err != nil {
			return engine.TotalsRequest{}, err
		}
		rentals = append(rentals, types.EquipmentRental{
			UnitCost:   money.New(cost, currency),
			UnitCharge: money.New(charge, currency),
			Quantity:   er.Quantity,
		})
	}

	return engine.TotalsRequest{
		Lines:      lines,
		DiverCount: r.DiverCount,
		Currency:   currency,
		Rentals:    rentals,
	}, nil
}

// ---- response conversion ----

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func boatCostResponse(r *types.BoatCostResult) BoatCostResponse {
	return BoatCostResponse{
		Total:           moneyPayload(r.Total),
		PerDiver:        moneyPayload(r.PerDiver),
		BaseCost:        moneyPayload(r.BaseCost),
		OverageCount:    r.OverageCount,
		OveragePerDiver: moneyPayload(r.OveragePerDiver),
		IncludedDivers:  r.IncludedDivers,
		DiverCount:      r.DiverCount,
		AgreementID:     uuidPtrString(r.AgreementID),
	}
}

func gasFillsResponse(r *types.GasFillResult) GasFillsResponse {
	return GasFillsResponse{
		CostPerFill:   moneyPayload(r.CostPerFill),
		ChargePerFill: moneyPayload(r.ChargePerFill),
		TotalCost:     moneyPayload(r.TotalCost),
		TotalCharge:   moneyPayload(r.TotalCharge),
		FillsCount:    r.FillsCount,
		GasType:       r.GasType,
		AgreementID:   uuidPtrString(r.AgreementID),
		PriceRuleID:   uuidPtrString(r.PriceRuleID),
	}
}

func resolveResponse(r *types.ResolvedPrice) ResolveResponse {
	resp := ResolveResponse{
		ChargeAmount:   r.ChargeAmount.String(),
		ChargeCurrency: string(r.ChargeCurrency),
		CostCurrency:   string(r.CostCurrency),
		PriceRuleID:    r.PriceRuleID.String(),
		HasCost:        r.HasCost,
	}
	if r.CostAmount != nil {
		s := r.CostAmount.String()
		resp.CostAmount = &s
	}
	return resp
}

func allocateResponse(r types.AllocationResult) AllocateResponse {
	amounts := make([]MoneyPayload, len(r.Amounts))
	for i, m := range r.Amounts {
		amounts[i] = moneyPayload(m)
	}
	return AllocateResponse{PerDiver: moneyPayload(r.PerDiver), Amounts: amounts}
}

func totalsResponse(r *types.TotalsResult) TotalsResponse {
	return TotalsResponse{
		SharedCost:           moneyPayload(r.SharedCost),
		SharedCharge:         moneyPayload(r.SharedCharge),
		PerDiverCost:         moneyPayload(r.PerDiverCost),
		PerDiverCharge:       moneyPayload(r.PerDiverCharge),
		SharedCostPerDiver:   moneyPayload(r.SharedCostPerDiver),
		SharedChargePerDiver: moneyPayload(r.SharedChargePerDiver),
		TotalCostPerDiver:    moneyPayload(r.TotalCostPerDiver),
		TotalChargePerDiver:  moneyPayload(r.TotalChargePerDiver),
		MarginPerDiver:       moneyPayload(r.MarginPerDiver),
		DiverCount:           r.DiverCount,
		Currency:             string(r.Currency),
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dive-pricing/core/engine"
	"dive-pricing/core/money"
	"dive-pricing/core/pricing"
	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

const maxResponseBytes = 1 << 20

// Client is a remote pricing Backend speaking the API wire contract.
// Transport failures surface as SERVICE_UNAVAILABLE so the engine can
// fall back; structured application errors from the remote service are
// reconstructed into the same taxonomy local calculators use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a remote backend client. A zero timeout defaults
// to ten seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Name implements engine.Backend
func (c *Client) Name() string {
	return "remote"
}

// BoatCost implements engine.Backend
func (c *Client) BoatCost(ctx context.Context, req engine.BoatCostRequest) (*types.BoatCostResult, error) {
	wire := BoatCostRequest{
		DiveSiteID: req.DiveSiteID.String(),
		DiverCount: req.DiverCount,
		AsOf:       formatAsOf(req.AsOf),
	}
	var resp BoatCostResponse
	if err := c.post(ctx, "/boat-cost", wire, &resp); err != nil {
		return nil, err
	}
	return boatCostResult(resp)
}

// GasFills implements engine.Backend
func (c *Client) GasFills(ctx context.Context, req engine.GasFillsRequest) (*types.GasFillResult, error) {
	wire := GasFillsRequest{
		DiveShopID: req.DiveShopID.String(),
		GasType:    req.GasType,
		FillsCount: req.FillsCount,
		AsOf:       formatAsOf(req.AsOf),
	}
	if req.ChargeOverride != nil {
		s := req.ChargeOverride.String()
		wire.CustomerChargeOverride = &s
	}
	var resp GasFillsResponse
	if err := c.post(ctx, "/gas-fills", wire, &resp); err != nil {
		return nil, err
	}
	return gasFillResult(resp)
}

// Resolve implements engine.Backend
func (c *Client) Resolve(ctx context.Context, req pricing.ResolveRequest) (*types.ResolvedPrice, error) {
	wire := ResolveRequest{
		CatalogItemID: req.CatalogItemID.String(),
		DiveShopID:    uuidPtrString(req.OrganizationID),
		PartyID:       uuidPtrString(req.PartyID),
		AgreementID:   uuidPtrString(req.AgreementID),
	}
	if !req.AsOf.IsZero() {
		s := req.AsOf.UTC().Format(time.RFC3339)
		wire.AsOf = &s
	}
	var resp ResolveResponse
	if err := c.post(ctx, "/resolve", wire, &resp); err != nil {
		return nil, err
	}
	return resolvedPrice(resp)
}

// Allocate implements engine.Backend
func (c *Client) Allocate(ctx context.Context, req engine.AllocateRequest) (types.AllocationResult, error) {
	wire := AllocateRequest{
		SharedTotal: req.SharedTotal.String(),
		DiverCount:  req.DiverCount,
		Currency:    string(req.Currency),
	}
	var resp AllocateResponse
	if err := c.post(ctx, "/allocate", wire, &resp); err != nil {
		return types.AllocationResult{}, err
	}
	return allocationResult(resp)
}

// Totals implements engine.Backend
func (c *Client) Totals(ctx context.Context, req engine.TotalsRequest) (*types.TotalsResult, error) {
	wire := TotalsRequest{
		DiverCount: req.DiverCount,
		Currency:   string(req.Currency),
		Lines:      make([]PricingLinePayload, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		wire.Lines = append(wire.Lines, PricingLinePayload{
			Key:                    l.Key,
			Allocation:             l.Allocation,
			ShopCostAmount:         l.ShopCost.Amount.String(),
			ShopCostCurrency:       string(l.ShopCost.Currency),
			CustomerChargeAmount:   l.CustomerCharge.Amount.String(),
			CustomerChargeCurrency: string(l.CustomerCharge.Currency),
		})
	}
	for _, r := range req.Rentals {
		wire.EquipmentRentals = append(wire.EquipmentRentals, EquipmentRentalPayload{
			UnitCostAmount:   r.UnitCost.Amount.String(),
			UnitChargeAmount: r.UnitCharge.Amount.String(),
			Quantity:         r.Quantity,
		})
	}
	var resp TotalsResponse
	if err := c.post(ctx, "/totals", wire, &resp); err != nil {
		return nil, err
	}
	return totalsResult(resp)
}

// Health implements engine.Backend
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return errors.Internal("building health request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Unavailable("pricing service unreachable", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode != http.StatusOK {
		return errors.Unavailable(fmt.Sprintf("pricing service unhealthy: status %d", resp.StatusCode), nil)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.Internal("encoding request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Internal("building request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Unavailable("pricing service unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Unavailable("reading pricing service response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return remoteError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Internal("decoding pricing service response", err)
	}
	return nil
}

// remoteError reconstructs a taxonomy error from the wire envelope.
// Responses that do not carry the envelope (proxies, crashes) map by
// status class instead.
func remoteError(status int, body []byte) error {
	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.ErrorType != "" {
		e := errors.New(errors.Type(envelope.ErrorType), envelope.Message)
		for k, v := range envelope.Details {
			e = e.WithContext(k, v)
		}
		return e
	}
	if status >= http.StatusInternalServerError {
		return errors.Unavailable(fmt.Sprintf("pricing service returned status %d", status), nil)
	}
	return errors.Internal(fmt.Sprintf("pricing service returned status %d", status), nil)
}

func formatAsOf(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// ---- wire-to-domain conversion ----

func parseWireMoney(p MoneyPayload, field string) (money.Money, error) {
	m, err := money.FromString(p.Amount, money.Currency(p.Currency))
	if err != nil {
		return money.Money{}, errors.Internal("malformed "+field+" in remote response", err)
	}
	return m, nil
}

func parseWireUUID(s *string, field string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, errors.Internal("malformed "+field+" in remote response", err)
	}
	return &id, nil
}

func boatCostResult(resp BoatCostResponse) (*types.BoatCostResult, error) {
	total, err := parseWireMoney(resp.Total, "total")
	if err != nil {
		return nil, err
	}
	perDiver, err := parseWireMoney(resp.PerDiver, "per_diver")
	if err != nil {
		return nil, err
	}
	baseCost, err := parseWireMoney(resp.BaseCost, "base_cost")
	if err != nil {
		return nil, err
	}
	overage, err := parseWireMoney(resp.OveragePerDiver, "overage_per_diver")
	if err != nil {
		return nil, err
	}
	agreementID, err := parseWireUUID(resp.AgreementID, "agreement_id")
	if err != nil {
		return nil, err
	}
	return &types.BoatCostResult{
		Total:           total,
		PerDiver:        perDiver,
		BaseCost:        baseCost,
		OverageCount:    resp.OverageCount,
		OveragePerDiver: overage,
		IncludedDivers:  resp.IncludedDivers,
		DiverCount:      resp.DiverCount,
		AgreementID:     agreementID,
	}, nil
}

func gasFillResult(resp GasFillsResponse) (*types.GasFillResult, error) {
	costPerFill, err := parseWireMoney(resp.CostPerFill, "cost_per_fill")
	if err != nil {
		return nil, err
	}
	chargePerFill, err := parseWireMoney(resp.ChargePerFill, "charge_per_fill")
	if err != nil {
		return nil, err
	}
	totalCost, err := parseWireMoney(resp.TotalCost, "total_cost")
	if err != nil {
		return nil, err
	}
	totalCharge, err := parseWireMoney(resp.TotalCharge, "total_charge")
	if err != nil {
		return nil, err
	}
	agreementID, err := parseWireUUID(resp.AgreementID, "agreement_id")
	if err != nil {
		return nil, err
	}
	priceRuleID, err := parseWireUUID(resp.PriceRuleID, "price_rule_id")
	if err != nil {
		return nil, err
	}
	return &types.GasFillResult{
		CostPerFill:   costPerFill,
		ChargePerFill: chargePerFill,
		TotalCost:     totalCost,
		TotalCharge:   totalCharge,
		FillsCount:    resp.FillsCount,
		GasType:       resp.GasType,
		AgreementID:   agreementID,
		PriceRuleID:   priceRuleID,
	}, nil
}

func resolvedPrice(resp ResolveResponse) (*types.ResolvedPrice, error) {
	charge, err := decimal.NewFromString(resp.ChargeAmount)
	if err != nil {
		return nil, errors.Internal("malformed charge_amount in remote response", err)
	}
	ruleID, err := uuid.Parse(resp.PriceRuleID)
	if err != nil {
		return nil, errors.Internal("malformed price_rule_id in remote response", err)
	}
	result := &types.ResolvedPrice{
		ChargeAmount:   charge,
		ChargeCurrency: money.Currency(resp.ChargeCurrency),
		CostCurrency:   money.Currency(resp.CostCurrency),
		PriceRuleID:    ruleID,
		HasCost:        resp.HasCost,
	}
	if resp.CostAmount != nil {
		cost, err := decimal.NewFromString(*resp.CostAmount)
		if err != nil {
			return nil, errors.Internal("malformed cost_amount in remote response", err)
		}
		result.CostAmount = &cost
	}
	return result, nil
}

func allocationResult(resp AllocateResponse) (types.AllocationResult, error) {
	perDiver, err := parseWireMoney(resp.PerDiver, "per_diver")
	if err != nil {
		return types.AllocationResult{}, err
	}
	amounts := make([]money.Money, 0, len(resp.Amounts))
	for _, p := range resp.Amounts {
		m, err := parseWireMoney(p, "amounts")
		if err != nil {
			return types.AllocationResult{}, err
		}
		amounts = append(amounts, m)
	}
	return types.AllocationResult{PerDiver: perDiver, Amounts: amounts}, nil
}

func totalsResult(resp TotalsResponse) (*types.TotalsResult, error) {
	result := &types.TotalsResult{
		DiverCount: resp.DiverCount,
		Currency:   money.Currency(resp.Currency),
	}
	fields := map[string]struct {
		payload MoneyPayload
		dst     *money.Money
	}{
		"shared_cost":             {resp.SharedCost, &result.SharedCost},
		"shared_charge":           {resp.SharedCharge, &result.SharedCharge},
		"per_diver_cost":          {resp.PerDiverCost, &result.PerDiverCost},
		"per_diver_charge":        {resp.PerDiverCharge, &result.PerDiverCharge},
		"shared_cost_per_diver":   {resp.SharedCostPerDiver, &result.SharedCostPerDiver},
		"shared_charge_per_diver": {resp.SharedChargePerDiver, &result.SharedChargePerDiver},
		"total_cost_per_diver":    {resp.TotalCostPerDiver, &result.TotalCostPerDiver},
		"total_charge_per_diver":  {resp.TotalChargePerDiver, &result.TotalChargePerDiver},
		"margin_per_diver":        {resp.MarginPerDiver, &result.MarginPerDiver},
	}
	for name, f := range fields {
		m, err := parseWireMoney(f.payload, name)
		if err != nil {
			return nil, err
		}
		*f.dst = m
	}
	return result, nil
}

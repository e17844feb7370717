package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

// ResolveRequest scopes a price resolution for one catalog item.
// Every scope field is optional; absent scopes skip their tier.
type ResolveRequest struct {
	CatalogItemID  uuid.UUID
	OrganizationID *uuid.UUID
	PartyID        *uuid.UUID
	AgreementID    *uuid.UUID
	AsOf           time.Time
}

// Resolver resolves the single most specific applicable price for a
// catalog item through the scope hierarchy:
//
//	agreement > party > organization > global
//
// The first tier with a match wins; tiers are never merged.
type Resolver struct {
	prices PriceStore
}

// NewResolver creates a resolver over a price store
func NewResolver(prices PriceStore) *Resolver {
	return &Resolver{prices: prices}
}

// Resolve walks the scope hierarchy and returns the winning price.
// Exhausting every tier is a hard failure, never a silent zero.
func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) (*types.ResolvedPrice, error) {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	var price *types.Price
	var err error

	if req.AgreementID != nil {
		price, err = r.prices.ByAgreement(ctx, req.CatalogItemID, *req.AgreementID, asOf)
		if err != nil {
			return nil, err
		}
	}
	if price == nil && req.PartyID != nil {
		price, err = r.prices.ByParty(ctx, req.CatalogItemID, *req.PartyID, asOf)
		if err != nil {
			return nil, err
		}
	}
	if price == nil && req.OrganizationID != nil {
		price, err = r.prices.ByOrganization(ctx, req.CatalogItemID, *req.OrganizationID, asOf)
		if err != nil {
			return nil, err
		}
	}
	if price == nil {
		price, err = r.prices.Global(ctx, req.CatalogItemID, asOf)
		if err != nil {
			return nil, err
		}
	}

	if price == nil {
		return nil, errors.MissingPrice(req.CatalogItemID.String(), "no price found at any scope level")
	}

	costCurrency := price.CostCurrency
	if costCurrency == "" {
		costCurrency = price.Currency
	}

	return &types.ResolvedPrice{
		ChargeAmount:   price.Amount,
		ChargeCurrency: price.Currency,
		CostAmount:     price.CostAmount,
		CostCurrency:   costCurrency,
		PriceRuleID:    price.ID,
		HasCost:        price.HasCost(),
	}, nil
}

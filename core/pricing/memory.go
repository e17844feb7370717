package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"dive-pricing/core/types"
)

// MemoryStore is an in-memory Store. It backs the CLI, the standalone
// server, and tests; records are loaded once and then only read.
type MemoryStore struct {
	mu         sync.RWMutex
	agreements []types.Agreement
	prices     []types.Price
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AddAgreement registers an agreement record
func (s *MemoryStore) AddAgreement(a types.Agreement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agreements = append(s.agreements, a)
}

// AddPrice registers a price record
func (s *MemoryStore) AddPrice(p types.Price) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices = append(s.prices, p)
}

// FindByScope implements AgreementStore
func (s *MemoryStore) FindByScope(ctx context.Context, scopeType, scopeRef string, asOf time.Time) (*types.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *types.Agreement
	for i := range s.agreements {
		a := &s.agreements[i]
		if a.ScopeType != scopeType || a.ScopeRef != scopeRef || !a.ValidAt(asOf) {
			continue
		}
		if best == nil || a.ValidFrom.After(best.ValidFrom) {
			best = a
		}
	}
	return cloneAgreement(best), nil
}

// FindByPartyA implements AgreementStore
func (s *MemoryStore) FindByPartyA(ctx context.Context, scopeType, partyA string, asOf time.Time) (*types.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *types.Agreement
	for i := range s.agreements {
		a := &s.agreements[i]
		if a.ScopeType != scopeType || a.PartyA != partyA || !a.ValidAt(asOf) {
			continue
		}
		if best == nil || a.ValidFrom.After(best.ValidFrom) {
			best = a
		}
	}
	return cloneAgreement(best), nil
}

// ByAgreement implements PriceStore
func (s *MemoryStore) ByAgreement(ctx context.Context, catalogItemID, agreementID uuid.UUID, asOf time.Time) (*types.Price, error) {
	return s.bestPrice(catalogItemID, asOf, func(p *types.Price) bool {
		return p.AgreementID != nil && *p.AgreementID == agreementID
	}), nil
}

// ByParty implements PriceStore. Agreement-scoped rows are excluded:
// a party price must not also be bound to an agreement.
func (s *MemoryStore) ByParty(ctx context.Context, catalogItemID, partyID uuid.UUID, asOf time.Time) (*types.Price, error) {
	return s.bestPrice(catalogItemID, asOf, func(p *types.Price) bool {
		return p.PartyID != nil && *p.PartyID == partyID && p.AgreementID == nil
	}), nil
}

// ByOrganization implements PriceStore. Party- and agreement-scoped rows
// are excluded.
func (s *MemoryStore) ByOrganization(ctx context.Context, catalogItemID, organizationID uuid.UUID, asOf time.Time) (*types.Price, error) {
	return s.bestPrice(catalogItemID, asOf, func(p *types.Price) bool {
		return p.OrganizationID != nil && *p.OrganizationID == organizationID &&
			p.PartyID == nil && p.AgreementID == nil
	}), nil
}

// Global implements PriceStore. Only rows with no scope dimension qualify.
func (s *MemoryStore) Global(ctx context.Context, catalogItemID uuid.UUID, asOf time.Time) (*types.Price, error) {
	return s.bestPrice(catalogItemID, asOf, func(p *types.Price) bool {
		return p.OrganizationID == nil && p.PartyID == nil && p.AgreementID == nil
	}), nil
}

// bestPrice selects the tier winner: highest priority, then most recent
// valid_from.
func (s *MemoryStore) bestPrice(catalogItemID uuid.UUID, asOf time.Time, match func(*types.Price) bool) *types.Price {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *types.Price
	for i := range s.prices {
		p := &s.prices[i]
		if p.CatalogItemID != catalogItemID || !p.CurrentAt(asOf) || !match(p) {
			continue
		}
		if best == nil ||
			p.Priority > best.Priority ||
			(p.Priority == best.Priority && p.ValidFrom.After(best.ValidFrom)) {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	cp := *best
	return &cp
}

func cloneAgreement(a *types.Agreement) *types.Agreement {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// Package pricing provides the reference-data boundary and the price
// resolution engine. Stores are read-only: the engine never writes, so
// calculations need no locks or transactions of their own.
package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dive-pricing/core/types"
)

// AgreementStore supplies agreement snapshots valid at a point in time.
type AgreementStore interface {
	// FindByScope returns the agreement for (scopeType, scopeRef) valid
	// at asOf, or nil when none applies. Among multiple candidates the
	// most recent valid_from wins.
	FindByScope(ctx context.Context, scopeType, scopeRef string, asOf time.Time) (*types.Agreement, error)

	// FindByPartyA returns the agreement for scopeType where partyA is
	// the named party, valid at asOf, or nil when none applies.
	FindByPartyA(ctx context.Context, scopeType, partyA string, asOf time.Time) (*types.Agreement, error)
}

// PriceStore supplies price records for one resolution tier at a time.
// Each method returns the single best candidate for its tier — highest
// priority first, then most recent valid_from — or nil when the tier is
// empty. Scope dimensions outside the tier must be unpopulated.
type PriceStore interface {
	ByAgreement(ctx context.Context, catalogItemID, agreementID uuid.UUID, asOf time.Time) (*types.Price, error)
	ByParty(ctx context.Context, catalogItemID, partyID uuid.UUID, asOf time.Time) (*types.Price, error)
	ByOrganization(ctx context.Context, catalogItemID, organizationID uuid.UUID, asOf time.Time) (*types.Price, error)
	Global(ctx context.Context, catalogItemID uuid.UUID, asOf time.Time) (*types.Price, error)
}

// Store bundles both reference-data interfaces.
type Store interface {
	AgreementStore
	PriceStore
}

// Package storage loads pricing reference data (vendor agreements and
// price rules) from fixture files into an in-memory store. Both HCL and
// JSON documents are supported; the HCL form is the one operators edit.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	"dive-pricing/core/money"
	"dive-pricing/core/pricing"
	"dive-pricing/core/types"
	"dive-pricing/internal/errors"
)

// Loader parses reference-data files
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a loader
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads the file at path and returns a populated store. The format
// is chosen by extension: .hcl is parsed as HCL, anything else as JSON.
func (l *Loader) Load(path string) (*pricing.MemoryStore, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfiguration, "reading reference data file", err).
			WithContext("path", path)
	}
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return l.LoadHCL(src, path)
	}
	return l.LoadJSON(src)
}

// referenceData is the JSON document shape
type referenceData struct {
	Agreements []types.Agreement `json:"agreements"`
	Prices     []types.Price     `json:"prices"`
}

// LoadJSON decodes a JSON reference-data document. Numbers inside
// agreement terms are kept as json.Number so decimal amounts survive
// without a float round-trip.
func (l *Loader) LoadJSON(src []byte) (*pricing.MemoryStore, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()

	var data referenceData
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.TypeConfiguration, "decoding reference data", err)
	}

	store := pricing.NewMemoryStore()
	for _, a := range data.Agreements {
		store.AddAgreement(a)
	}
	for _, p := range data.Prices {
		store.AddPrice(p)
	}
	return store, nil
}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "agreement"},
		{Type: "price"},
	},
}

var agreementSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "id"},
		{Name: "scope_type", Required: true},
		{Name: "scope_ref"},
		{Name: "party_a"},
		{Name: "party_b"},
		{Name: "valid_from", Required: true},
		{Name: "valid_to"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "boat_charter"},
		{Type: "gas", LabelNames: []string{"type"}},
	},
}

// LoadHCL parses an HCL reference-data document. The fixture grammar:
//
//	agreement {
//	  scope_type = "vendor_pricing"
//	  scope_ref  = "DiveSite:<uuid>"
//	  valid_from = "2026-01-01T00:00:00Z"
//
//	  boat_charter {
//	    base_cost         = "1800.00"
//	    included_divers   = 4
//	    overage_per_diver = "150.00"
//	    currency          = "MXN"
//	  }
//	}
//
// Gas vendor agreements carry one gas "<type>" block per gas type, and
// price blocks mirror the Price record attribute for attribute.
func (l *Loader) LoadHCL(src []byte, filename string) (*pricing.MemoryStore, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeConfiguration, "parsing reference data", diags).
			WithContext("path", filename)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeConfiguration, "reading reference data blocks", diags).
			WithContext("path", filename)
	}

	store := pricing.NewMemoryStore()
	for _, block := range content.Blocks {
		switch block.Type {
		case "agreement":
			a, err := decodeAgreement(block)
			if err != nil {
				return nil, err
			}
			store.AddAgreement(*a)
		case "price":
			p, err := decodePrice(block)
			if err != nil {
				return nil, err
			}
			store.AddPrice(*p)
		}
	}
	return store, nil
}

func decodeAgreement(block *hcl.Block) (*types.Agreement, error) {
	content, diags := block.Body.Content(agreementSchema)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeConfiguration, "reading agreement block", diags)
	}
	attrs := content.Attributes

	a := &types.Agreement{Terms: map[string]interface{}{}}

	id, err := attrOptionalString(attrs, "id")
	if err != nil {
		return nil, err
	}
	if id != "" {
		a.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, errors.Configuration("malformed agreement id: "+id, "agreement.id")
		}
	} else {
		a.ID = uuid.New()
	}

	if a.ScopeType, err = attrString(attrs, "scope_type", "agreement.scope_type"); err != nil {
		return nil, err
	}
	if a.ScopeRef, err = attrOptionalString(attrs, "scope_ref"); err != nil {
		return nil, err
	}
	if a.PartyA, err = attrOptionalString(attrs, "party_a"); err != nil {
		return nil, err
	}
	if a.PartyB, err = attrOptionalString(attrs, "party_b"); err != nil {
		return nil, err
	}

	if a.ValidFrom, err = attrTime(attrs, "valid_from", "agreement.valid_from"); err != nil {
		return nil, err
	}
	if a.ValidTo, err = attrOptionalTime(attrs, "valid_to", "agreement.valid_to"); err != nil {
		return nil, err
	}

	gasFills := map[string]interface{}{}
	for _, inner := range content.Blocks {
		switch inner.Type {
		case "boat_charter":
			terms, err := decodeTermMap(inner.Body, "boat_charter")
			if err != nil {
				return nil, err
			}
			a.Terms["boat_charter"] = terms
		case "gas":
			gasType := strings.ToLower(inner.Labels[0])
			terms, err := decodeTermMap(inner.Body, "gas_fills."+gasType)
			if err != nil {
				return nil, err
			}
			gasFills[gasType] = terms
		}
	}
	if len(gasFills) > 0 {
		a.Terms["gas_fills"] = gasFills
	}

	return a, nil
}

var priceSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "id"},
		{Name: "catalog_item_id", Required: true},
		{Name: "amount", Required: true},
		{Name: "currency"},
		{Name: "cost_amount"},
		{Name: "cost_currency"},
		{Name: "organization_id"},
		{Name: "party_id"},
		{Name: "agreement_id"},
		{Name: "valid_from", Required: true},
		{Name: "valid_to"},
		{Name: "priority"},
	},
}

func decodePrice(block *hcl.Block) (*types.Price, error) {
	content, diags := block.Body.Content(priceSchema)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeConfiguration, "reading price block", diags)
	}
	attrs := content.Attributes

	p := &types.Price{}

	id, err := attrOptionalString(attrs, "id")
	if err != nil {
		return nil, err
	}
	if id != "" {
		p.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, errors.Configuration("malformed price id: "+id, "price.id")
		}
	} else {
		p.ID = uuid.New()
	}

	itemID, err := attrString(attrs, "catalog_item_id", "price.catalog_item_id")
	if err != nil {
		return nil, err
	}
	if p.CatalogItemID, err = uuid.Parse(itemID); err != nil {
		return nil, errors.Configuration("malformed catalog_item_id: "+itemID, "price.catalog_item_id")
	}

	if p.Amount, err = attrDecimal(attrs, "amount", "price.amount"); err != nil {
		return nil, err
	}
	currency, err := attrOptionalString(attrs, "currency")
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = string(money.CurrencyMXN)
	}
	p.Currency = money.Currency(currency)

	if _, ok := attrs["cost_amount"]; ok {
		cost, err := attrDecimal(attrs, "cost_amount", "price.cost_amount")
		if err != nil {
			return nil, err
		}
		p.CostAmount = &cost
	}
	costCurrency, err := attrOptionalString(attrs, "cost_currency")
	if err != nil {
		return nil, err
	}
	p.CostCurrency = money.Currency(costCurrency)

	if p.OrganizationID, err = attrOptionalUUID(attrs, "organization_id", "price.organization_id"); err != nil {
		return nil, err
	}
	if p.PartyID, err = attrOptionalUUID(attrs, "party_id", "price.party_id"); err != nil {
		return nil, err
	}
	if p.AgreementID, err = attrOptionalUUID(attrs, "agreement_id", "price.agreement_id"); err != nil {
		return nil, err
	}

	if p.ValidFrom, err = attrTime(attrs, "valid_from", "price.valid_from"); err != nil {
		return nil, err
	}
	if p.ValidTo, err = attrOptionalTime(attrs, "valid_to", "price.valid_to"); err != nil {
		return nil, err
	}
	if p.Priority, err = attrInt(attrs, "priority", "price.priority"); err != nil {
		return nil, err
	}

	return p, nil
}

// decodeTermMap converts an HCL body with plain attributes into the
// terms mapping the typed parsers in core/types consume. Strings stay
// strings, whole numbers become int64, and everything else is rejected
// so malformed fixtures fail at load rather than at calculation.
func decodeTermMap(body hcl.Body, path string) (map[string]interface{}, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeConfiguration, "reading "+path+" terms", diags)
	}

	terms := make(map[string]interface{}, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, errors.Wrap(errors.TypeConfiguration, "evaluating "+path+"."+name, diags)
		}
		converted, err := ctyTerm(val, path+"."+name)
		if err != nil {
			return nil, err
		}
		terms[name] = converted
	}
	return terms, nil
}

func ctyTerm(val cty.Value, path string) (interface{}, error) {
	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Number:
		bf := val.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i, nil
		}
		return json.Number(bf.Text('f', -1)), nil
	case cty.Bool:
		return val.True(), nil
	default:
		return nil, errors.Configuration(
			fmt.Sprintf("unsupported value type %s", val.Type().FriendlyName()),
			path,
		)
	}
}

// ---- attribute helpers ----

func attrValue(attrs hcl.Attributes, name string) (cty.Value, bool, error) {
	attr, ok := attrs[name]
	if !ok {
		return cty.NilVal, false, nil
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, false, errors.Wrap(errors.TypeConfiguration, "evaluating "+name, diags)
	}
	return val, true, nil
}

func attrString(attrs hcl.Attributes, name, path string) (string, error) {
	val, ok, err := attrValue(attrs, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.Configuration("missing required attribute "+name, path)
	}
	if val.Type() != cty.String {
		return "", errors.Configuration(name+" must be a string", path)
	}
	return val.AsString(), nil
}

func attrOptionalString(attrs hcl.Attributes, name string) (string, error) {
	val, ok, err := attrValue(attrs, name)
	if err != nil || !ok {
		return "", err
	}
	if val.Type() != cty.String {
		return "", errors.Configuration(name+" must be a string", name)
	}
	return val.AsString(), nil
}

func attrDecimal(attrs hcl.Attributes, name, path string) (decimal.Decimal, error) {
	s, err := attrString(attrs, name, path)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Configuration("malformed decimal "+name+": "+s, path)
	}
	return d, nil
}

func attrInt(attrs hcl.Attributes, name, path string) (int, error) {
	val, ok, err := attrValue(attrs, name)
	if err != nil || !ok {
		return 0, err
	}
	if val.Type() != cty.Number {
		return 0, errors.Configuration(name+" must be a number", path)
	}
	i, acc := val.AsBigFloat().Int64()
	if acc != big.Exact {
		return 0, errors.Configuration(name+" must be a whole number", path)
	}
	return int(i), nil
}

func attrTime(attrs hcl.Attributes, name, path string) (time.Time, error) {
	s, err := attrString(attrs, name, path)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Configuration("malformed timestamp "+name+": "+s, path)
	}
	return t, nil
}

func attrOptionalTime(attrs hcl.Attributes, name, path string) (*time.Time, error) {
	s, err := attrOptionalString(attrs, name)
	if err != nil || s == "" {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, errors.Configuration("malformed timestamp "+name+": "+s, path)
	}
	return &t, nil
}

func attrOptionalUUID(attrs hcl.Attributes, name, path string) (*uuid.UUID, error) {
	s, err := attrOptionalString(attrs, name)
	if err != nil || s == "" {
		return nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, errors.Configuration("malformed "+name+": "+s, path)
	}
	return &id, nil
}

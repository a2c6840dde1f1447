// Package provider defines the adapter contract for enrichment vendors
// and the registry that tracks which adapters are configured and what
// lookups they support.
package provider

import (
	"context"
	"strings"

	"github.com/sells-group/enrich-cli/internal/model"
)

// Capability is a declared ability of an adapter to resolve a specific
// kind of lookup.
type Capability string

const (
	CapPersonByEmail    Capability = "person_by_email"
	CapPersonByLinkedIn Capability = "person_by_linkedin"
	CapPersonByName     Capability = "person_by_name"
	CapPersonByTaxID    Capability = "person_by_tax_id"
	CapPersonSearch     Capability = "person_search"
	CapCompanyByDomain  Capability = "company_by_domain"
	CapCompanyByTaxID   Capability = "company_by_tax_id"
	CapCompanySearch    Capability = "company_search"
)

// PersonCapabilities lists every capability applicable to person lookups.
func PersonCapabilities() []Capability {
	return []Capability{
		CapPersonByEmail, CapPersonByLinkedIn, CapPersonByName,
		CapPersonByTaxID, CapPersonSearch,
	}
}

// CompanyCapabilities lists every capability applicable to company lookups.
func CompanyCapabilities() []Capability {
	return []Capability{CapCompanyByDomain, CapCompanyByTaxID, CapCompanySearch}
}

// Kind returns the entity kind a capability resolves.
func (c Capability) Kind() model.EntityKind {
	if strings.HasPrefix(string(c), "person") {
		return model.KindPerson
	}
	return model.KindCompany
}

// Adapter translates canonical enrichment requests into vendor-specific
// calls and vendor payloads into canonical partial records.
//
// Expected failure modes (timeouts, 4xx, quota exhaustion, refs missing
// a required field) are returned as *Error values so the orchestrator
// can continue with the remaining providers; adapters never panic on
// malformed vendor payloads.
type Adapter interface {
	// Name returns the stable provider identifier.
	Name() string
	// Capabilities returns the static set of lookups this adapter supports.
	Capabilities() []Capability
	// Configured reports whether the required credential fields are set.
	Configured() bool
	// EnrichPerson resolves a person ref into a partial record.
	EnrichPerson(ctx context.Context, ref model.PersonRef) (*model.PartialRecord, *Error)
	// EnrichCompany resolves a company ref into a partial record.
	EnrichCompany(ctx context.Context, ref model.CompanyRef) (*model.PartialRecord, *Error)
}

// Package model defines the canonical enrichment schema shared by the
// provider adapters, merger, scorer, and stores.
package model

// EntityKind distinguishes person and company subjects.
type EntityKind string

const (
	KindPerson  EntityKind = "person"
	KindCompany EntityKind = "company"
)

// PersonRef is the caller-supplied partial identity of a person. Any
// subset of fields may be set; at least one must be non-empty for an
// enrichment to be dispatched.
type PersonRef struct {
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	FullName      string `json:"full_name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	LinkedInURL   string `json:"linkedin_url,omitempty"`
	TaxID         string `json:"tax_id,omitempty"`
	CompanyDomain string `json:"company_domain,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
}

// HasIdentifier reports whether the ref carries at least one identifying field.
func (r PersonRef) HasIdentifier() bool {
	return r.FirstName != "" || r.LastName != "" || r.FullName != "" ||
		r.Email != "" || r.Phone != "" || r.LinkedInURL != "" ||
		r.TaxID != "" || r.CompanyDomain != "" || r.CompanyName != ""
}

// CompanyRef is the caller-supplied partial identity of a company.
type CompanyRef struct {
	Name        string `json:"name,omitempty"`
	Domain      string `json:"domain,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
	Ticker      string `json:"ticker,omitempty"`
}

// HasIdentifier reports whether the ref carries at least one identifying field.
func (r CompanyRef) HasIdentifier() bool {
	return r.Name != "" || r.Domain != "" || r.LinkedInURL != "" ||
		r.TaxID != "" || r.Ticker != ""
}

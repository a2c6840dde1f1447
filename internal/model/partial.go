package model

import "time"

// FieldProvenance records which provider(s) contributed a field and at
// what confidence. For scalar fields the merger keeps the winner only;
// list entries carry their contributing providers inline.
type FieldProvenance struct {
	Providers   []string  `json:"providers"`
	Confidence  float64   `json:"confidence"` // 0-100
	RetrievedAt time.Time `json:"retrieved_at"`
}

// PartialRecord is a single provider's sparse normalized contribution
// for one subject. It is created by exactly one adapter invocation and
// treated as immutable by the merger.
type PartialRecord struct {
	Provider    string                     `json:"provider"`
	Kind        EntityKind                 `json:"kind"`
	Person      *PersonRecord              `json:"person,omitempty"`
	Company     *CompanyRecord             `json:"company,omitempty"`
	Provenance  map[string]FieldProvenance `json:"provenance"`
	RetrievedAt time.Time                  `json:"retrieved_at"`
}

// NewPartial creates an empty PartialRecord for the given provider and kind.
func NewPartial(provider string, kind EntityKind, now time.Time) *PartialRecord {
	p := &PartialRecord{
		Provider:    provider,
		Kind:        kind,
		Provenance:  make(map[string]FieldProvenance),
		RetrievedAt: now,
	}
	switch kind {
	case KindPerson:
		p.Person = &PersonRecord{}
	case KindCompany:
		p.Company = &CompanyRecord{}
	}
	return p
}

// Attest records provenance for a populated scalar field at the given
// confidence, attributed to this partial's provider.
func (p *PartialRecord) Attest(fieldKey string, confidence float64) {
	p.Provenance[fieldKey] = FieldProvenance{
		Providers:   []string{p.Provider},
		Confidence:  confidence,
		RetrievedAt: p.RetrievedAt,
	}
}

// Package merge deterministically combines per-provider partial records
// into one canonical record with per-field provenance.
//
// Scalar conflicts resolve to the highest confidence; ties go to the
// partial appearing earliest in the input, so callers must pass partials
// in registry order. List fields are deduplicated by normalized keys and
// keep first-seen order, which makes the merge independent of the order
// providers happened to respond in.
package merge

import (
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/normalize"
)

// Merged is the consolidated output of one enrichment.
type Merged struct {
	Person     *model.PersonRecord              `json:"person,omitempty"`
	Company    *model.CompanyRecord             `json:"company,omitempty"`
	Provenance map[string]model.FieldProvenance `json:"provenance"`
}

// Merge combines partial records of the given kind. Partials of the
// wrong kind or with a nil payload are skipped. An empty input yields an
// empty record, not nil.
func Merge(kind model.EntityKind, partials []*model.PartialRecord) *Merged {
	m := &Merged{Provenance: make(map[string]model.FieldProvenance)}
	switch kind {
	case model.KindPerson:
		m.Person = &model.PersonRecord{}
		for _, p := range partials {
			if p == nil || p.Kind != model.KindPerson || p.Person == nil {
				continue
			}
			m.mergePerson(p)
		}
	case model.KindCompany:
		m.Company = &model.CompanyRecord{}
		for _, p := range partials {
			if p == nil || p.Kind != model.KindCompany || p.Company == nil {
				continue
			}
			m.mergeCompany(p)
		}
	}
	return m
}

// takeScalar resolves one scalar conflict: a populated value wins over
// absence, and a strictly greater confidence wins over the incumbent.
// Ties keep the incumbent, which is why input order matters.
func (m *Merged) takeScalar(key string, p *model.PartialRecord, set func()) {
	prov, attested := p.Provenance[key]
	if !attested {
		return
	}
	if cur, ok := m.Provenance[key]; ok && prov.Confidence <= cur.Confidence {
		return
	}
	set()
	m.Provenance[key] = prov
}

func (m *Merged) mergePerson(p *model.PartialRecord) {
	rec := p.Person
	out := m.Person

	m.takeScalar(model.FieldFullName, p, func() { out.FullName = rec.FullName })
	m.takeScalar(model.FieldJobTitle, p, func() { out.JobTitle = rec.JobTitle })
	m.takeScalar(model.FieldCompanyName, p, func() { out.CompanyName = rec.CompanyName })
	m.takeScalar(model.FieldCompanyDomain, p, func() { out.CompanyDomain = rec.CompanyDomain })
	m.takeScalar(model.FieldLocation, p, func() { out.Location = rec.Location })
	m.takeScalar(model.FieldLinkedInURL, p, func() { out.LinkedInURL = rec.LinkedInURL })

	out.Emails = mergeEmails(out.Emails, rec.Emails, p.Provider)
	out.Phones = mergePhones(out.Phones, rec.Phones, p.Provider)
	out.Skills = mergeSkills(out.Skills, rec.Skills)
	out.Education = mergeEducation(out.Education, rec.Education)
}

func (m *Merged) mergeCompany(p *model.PartialRecord) {
	rec := p.Company
	out := m.Company

	m.takeScalar(model.FieldName, p, func() { out.Name = rec.Name })
	m.takeScalar(model.FieldDomain, p, func() { out.Domain = rec.Domain })
	m.takeScalar(model.FieldIndustry, p, func() { out.Industry = rec.Industry })
	m.takeScalar(model.FieldEmployeeCount, p, func() { out.EmployeeCount = rec.EmployeeCount })
	m.takeScalar(model.FieldSizeRange, p, func() { out.SizeRange = rec.SizeRange })
	m.takeScalar(model.FieldRevenue, p, func() { out.Revenue = rec.Revenue })
	m.takeScalar(model.FieldLocation, p, func() { out.Location = rec.Location })
	m.takeScalar(model.FieldFoundedYear, p, func() { out.FoundedYear = rec.FoundedYear })
	m.takeScalar(model.FieldLinkedInURL, p, func() { out.LinkedInURL = rec.LinkedInURL })

	out.KeyPeople = mergeKeyPeople(out.KeyPeople, rec.KeyPeople)
}

// mergeEmails folds new entries into the accumulated list, keyed by the
// normalized address. A duplicate accumulates the provider and keeps the
// higher-confidence variant's metadata.
func mergeEmails(acc []model.EmailAddress, incoming []model.EmailAddress, providerName string) []model.EmailAddress {
	index := make(map[string]int, len(acc))
	for i, e := range acc {
		index[normalize.Email(e.Address)] = i
	}
	for _, e := range incoming {
		key := normalize.Email(e.Address)
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			entry := e
			entry.Address = key
			entry.Providers = []string{providerName}
			acc = append(acc, entry)
			index[key] = len(acc) - 1
			continue
		}
		cur := &acc[i]
		cur.Providers = appendProvider(cur.Providers, providerName)
		if e.Confidence > cur.Confidence {
			cur.Confidence = e.Confidence
			if e.Type != "" {
				cur.Type = e.Type
			}
		} else if cur.Type == "" {
			cur.Type = e.Type
		}
	}
	return acc
}

// mergePhones works like mergeEmails, keyed by the number's digits.
func mergePhones(acc []model.PhoneNumber, incoming []model.PhoneNumber, providerName string) []model.PhoneNumber {
	index := make(map[string]int, len(acc))
	for i, ph := range acc {
		index[normalize.Phone(ph.Number)] = i
	}
	for _, ph := range incoming {
		key := normalize.Phone(ph.Number)
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			entry := ph
			entry.Providers = []string{providerName}
			acc = append(acc, entry)
			index[key] = len(acc) - 1
			continue
		}
		cur := &acc[i]
		cur.Providers = appendProvider(cur.Providers, providerName)
		if ph.Confidence > cur.Confidence {
			cur.Confidence = ph.Confidence
			cur.Number = ph.Number
			if ph.Type != "" {
				cur.Type = ph.Type
			}
		} else if cur.Type == "" {
			cur.Type = ph.Type
		}
	}
	return acc
}

// mergeSkills deduplicates case-insensitively, keeping the first-seen
// spelling.
func mergeSkills(acc []string, incoming []string) []string {
	seen := make(map[string]bool, len(acc))
	for _, s := range acc {
		seen[normalize.Fold(s)] = true
	}
	for _, s := range incoming {
		key := normalize.Fold(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		acc = append(acc, s)
	}
	return acc
}

// mergeEducation deduplicates by school, preferring the most complete
// entry for each school.
func mergeEducation(acc []model.Education, incoming []model.Education) []model.Education {
	index := make(map[string]int, len(acc))
	for i, e := range acc {
		index[normalize.Fold(e.School)] = i
	}
	for _, e := range incoming {
		key := normalize.Fold(e.School)
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			acc = append(acc, e)
			index[key] = len(acc) - 1
			continue
		}
		cur := &acc[i]
		if cur.Degree == "" {
			cur.Degree = e.Degree
		}
		if cur.Field == "" {
			cur.Field = e.Field
		}
	}
	return acc
}

// mergeKeyPeople deduplicates by name, filling gaps from later entries.
func mergeKeyPeople(acc []model.KeyPerson, incoming []model.KeyPerson) []model.KeyPerson {
	index := make(map[string]int, len(acc))
	for i, kp := range acc {
		index[normalize.Fold(kp.Name)] = i
	}
	for _, kp := range incoming {
		key := normalize.Fold(kp.Name)
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			acc = append(acc, kp)
			index[key] = len(acc) - 1
			continue
		}
		cur := &acc[i]
		if cur.Title == "" {
			cur.Title = kp.Title
		}
		if cur.Document == "" {
			cur.Document = kp.Document
		}
		if cur.Participation == 0 {
			cur.Participation = kp.Participation
		}
	}
	return acc
}

func appendProvider(providers []string, name string) []string {
	for _, p := range providers {
		if p == name {
			return providers
		}
	}
	return append(providers, name)
}

package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/enrich-cli/internal/config"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/normalize"
	"github.com/sells-group/enrich-cli/pkg/surfe"
)

const surfeConfidence = 80

// SurfeAdapter resolves person and company lookups through the Surfe
// enrichment API. Surfe's endpoints are batch-shaped; the adapter sends
// single-subject batches and reads the first result back.
type SurfeAdapter struct {
	cfg     config.SurfeConfig
	client  surfe.Client
	limiter *rate.Limiter
}

// NewSurfeAdapter creates the adapter. A nil client or limiter selects
// defaults built from the config.
func NewSurfeAdapter(cfg config.SurfeConfig, client surfe.Client, limiter *rate.Limiter) *SurfeAdapter {
	if client == nil {
		var opts []surfe.Option
		if cfg.BaseURL != "" {
			opts = append(opts, surfe.WithBaseURL(cfg.BaseURL))
		}
		client = surfe.NewClient(cfg.Key, opts...)
	}
	if limiter == nil {
		limiter = newLimiter(cfg.RequestsPerSecond)
	}
	return &SurfeAdapter{cfg: cfg, client: client, limiter: limiter}
}

// Name implements Adapter.
func (a *SurfeAdapter) Name() string { return "surfe" }

// Capabilities implements Adapter.
func (a *SurfeAdapter) Capabilities() []Capability {
	return []Capability{CapPersonByLinkedIn, CapPersonByName, CapCompanyByDomain}
}

// Configured implements Adapter.
func (a *SurfeAdapter) Configured() bool { return a.cfg.Key != "" }

// EnrichPerson implements Adapter. The ref must carry a LinkedIn URL or
// a first/last name with a company domain or name.
func (a *SurfeAdapter) EnrichPerson(ctx context.Context, ref model.PersonRef) (*model.PartialRecord, *Error) {
	first, last := ref.FirstName, ref.LastName
	if first == "" && last == "" {
		first, last = splitName(ref.FullName)
	}
	domain := normalize.Domain(ref.CompanyDomain)

	query := surfe.PersonQuery{}
	switch {
	case normalize.ValidLinkedInURL(ref.LinkedInURL):
		query.LinkedInURL = ref.LinkedInURL
	case first != "" && last != "" && normalize.ValidDomain(domain):
		query.FirstName = first
		query.LastName = last
		query.CompanyDomain = domain
	case first != "" && last != "" && ref.CompanyName != "":
		query.FirstName = first
		query.LastName = last
		query.CompanyName = ref.CompanyName
	default:
		return nil, Unsupported(a.Name(), "requires a linkedin_url, or first/last name with a company domain or name")
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, Classify(a.Name(), err)
	}

	resp, err := a.client.EnrichPeople(ctx, surfe.PeopleEnrichRequest{
		Include: surfe.Include{Email: true, Mobile: true, LinkedIn: true},
		People:  []surfe.PersonQuery{query},
	})
	if err != nil {
		return nil, Classify(a.Name(), err)
	}

	p := model.NewPartial(a.Name(), model.KindPerson, time.Now().UTC())
	if len(resp.People) == 0 {
		// No match is not a failure: the partial simply contributes nothing.
		return p, nil
	}
	person := resp.People[0]

	full := person.FullName
	if full == "" && person.FirstName != "" && person.LastName != "" {
		full = person.FirstName + " " + person.LastName
	}
	if full != "" {
		p.Person.FullName = full
		p.Attest(model.FieldFullName, surfeConfidence)
	}
	if person.JobTitle != "" {
		p.Person.JobTitle = person.JobTitle
		p.Attest(model.FieldJobTitle, surfeConfidence)
	}
	if person.Location != "" {
		p.Person.Location = person.Location
		p.Attest(model.FieldLocation, surfeConfidence)
	}
	if normalize.ValidLinkedInURL(person.LinkedInURL) {
		p.Person.LinkedInURL = person.LinkedInURL
		p.Attest(model.FieldLinkedInURL, surfeConfidence)
	}
	if person.Company != nil {
		if person.Company.Name != "" {
			p.Person.CompanyName = person.Company.Name
			p.Attest(model.FieldCompanyName, surfeConfidence)
		}
		if d := normalize.Domain(person.Company.Domain); normalize.ValidDomain(d) {
			p.Person.CompanyDomain = d
			p.Attest(model.FieldCompanyDomain, surfeConfidence)
		}
	}
	if person.Email != nil && normalize.ValidEmail(person.Email.Address) {
		p.Person.Emails = append(p.Person.Emails, model.EmailAddress{
			Address:    normalize.Email(person.Email.Address),
			Type:       emailType(person.Email.Type),
			Confidence: scaleConfidence(person.Email.Confidence, surfeConfidence),
		})
	}
	if person.Mobile != nil && normalize.Phone(person.Mobile.Number) != "" {
		p.Person.Phones = append(p.Person.Phones, model.PhoneNumber{
			Number:     person.Mobile.Number,
			Type:       "mobile",
			Confidence: scaleConfidence(person.Mobile.Confidence, surfeConfidence),
		})
	}
	if person.ProfileData != nil {
		p.Person.Skills = append(p.Person.Skills, person.ProfileData.Skills...)
		for _, edu := range person.ProfileData.Education {
			if edu.School == "" {
				continue
			}
			p.Person.Education = append(p.Person.Education, model.Education{
				School: edu.School,
				Degree: edu.Degree,
				Field:  edu.Field,
			})
		}
		if p.Person.JobTitle == "" && person.ProfileData.Headline != "" {
			p.Person.JobTitle = person.ProfileData.Headline
			p.Attest(model.FieldJobTitle, surfeConfidence)
		}
	}
	return p, nil
}

// EnrichCompany implements Adapter. The ref must carry a resolvable domain.
func (a *SurfeAdapter) EnrichCompany(ctx context.Context, ref model.CompanyRef) (*model.PartialRecord, *Error) {
	domain := normalize.Domain(ref.Domain)
	if !normalize.ValidDomain(domain) {
		return nil, Unsupported(a.Name(), "requires a company domain")
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, Classify(a.Name(), err)
	}

	resp, err := a.client.EnrichCompanies(ctx, surfe.CompanyEnrichRequest{
		Companies: []surfe.CompanyQuery{{Domain: domain}},
	})
	if err != nil {
		return nil, Classify(a.Name(), err)
	}

	p := model.NewPartial(a.Name(), model.KindCompany, time.Now().UTC())
	if len(resp.Companies) == 0 {
		return p, nil
	}
	company := resp.Companies[0]

	if company.Name != "" {
		p.Company.Name = company.Name
		p.Attest(model.FieldName, surfeConfidence)
	}
	d := normalize.Domain(company.Domain)
	if d == "" {
		d = domain
	}
	if normalize.ValidDomain(d) {
		p.Company.Domain = d
		p.Attest(model.FieldDomain, surfeConfidence)
	}
	if company.Industry != "" {
		p.Company.Industry = company.Industry
		p.Attest(model.FieldIndustry, surfeConfidence)
	}
	if company.Size != nil {
		if company.Size.Employees > 0 {
			p.Company.EmployeeCount = company.Size.Employees
			p.Attest(model.FieldEmployeeCount, surfeConfidence)
		}
		if company.Size.Range != "" {
			p.Company.SizeRange = company.Size.Range
			p.Attest(model.FieldSizeRange, surfeConfidence)
		}
	}
	if company.Revenue != nil && company.Revenue.Range != "" {
		p.Company.Revenue = company.Revenue.Range
		p.Attest(model.FieldRevenue, surfeConfidence)
	}
	if company.Location != nil {
		if loc := joinLocation(company.Location.City, company.Location.State, company.Location.Country); loc != "" {
			p.Company.Location = loc
			p.Attest(model.FieldLocation, surfeConfidence)
		}
	}
	if company.Founded > 0 {
		p.Company.FoundedYear = company.Founded
		p.Attest(model.FieldFoundedYear, surfeConfidence)
	}
	if normalize.ValidLinkedInURL(company.LinkedInURL) {
		p.Company.LinkedInURL = company.LinkedInURL
		p.Attest(model.FieldLinkedInURL, surfeConfidence)
	}
	return p, nil
}

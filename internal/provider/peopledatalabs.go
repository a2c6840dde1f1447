package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/enrich-cli/internal/config"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/normalize"
	"github.com/sells-group/enrich-cli/pkg/peopledatalabs"
)

// pdlFallbackConfidence applies when the vendor reports no likelihood.
const pdlFallbackConfidence = 60

// PeopleDataLabsAdapter resolves person and company lookups through the
// People Data Labs enrichment API. PDL's 0-10 match likelihood is scaled
// onto the common 0-100 confidence range.
type PeopleDataLabsAdapter struct {
	cfg     config.PeopleDataLabsConfig
	client  peopledatalabs.Client
	limiter *rate.Limiter
}

// NewPeopleDataLabsAdapter creates the adapter. A nil client or limiter
// selects defaults built from the config.
func NewPeopleDataLabsAdapter(cfg config.PeopleDataLabsConfig, client peopledatalabs.Client, limiter *rate.Limiter) *PeopleDataLabsAdapter {
	if client == nil {
		var opts []peopledatalabs.Option
		if cfg.BaseURL != "" {
			opts = append(opts, peopledatalabs.WithBaseURL(cfg.BaseURL))
		}
		client = peopledatalabs.NewClient(cfg.Key, opts...)
	}
	if limiter == nil {
		limiter = newLimiter(cfg.RequestsPerSecond)
	}
	return &PeopleDataLabsAdapter{cfg: cfg, client: client, limiter: limiter}
}

// Name implements Adapter.
func (a *PeopleDataLabsAdapter) Name() string { return "peopledatalabs" }

// Capabilities implements Adapter.
func (a *PeopleDataLabsAdapter) Capabilities() []Capability {
	return []Capability{
		CapPersonByEmail, CapPersonByLinkedIn, CapPersonByName, CapCompanyByDomain,
	}
}

// Configured implements Adapter.
func (a *PeopleDataLabsAdapter) Configured() bool { return a.cfg.Key != "" }

// likelihoodConfidence scales a 0-10 likelihood to 0-100.
func likelihoodConfidence(likelihood int) float64 {
	if likelihood <= 0 {
		return pdlFallbackConfidence
	}
	if likelihood > 10 {
		likelihood = 10
	}
	return float64(likelihood * 10)
}

// EnrichPerson implements Adapter. The ref must carry an email, a
// LinkedIn URL, or a first/last name with a company name or domain.
func (a *PeopleDataLabsAdapter) EnrichPerson(ctx context.Context, ref model.PersonRef) (*model.PartialRecord, *Error) {
	first, last := ref.FirstName, ref.LastName
	if first == "" && last == "" {
		first, last = splitName(ref.FullName)
	}
	company := ref.CompanyName
	if company == "" {
		company = normalize.Domain(ref.CompanyDomain)
	}

	params := peopledatalabs.PersonParams{MinLikelihood: a.cfg.MinLikelihood}
	switch {
	case normalize.ValidEmail(ref.Email):
		params.Email = normalize.Email(ref.Email)
	case normalize.ValidLinkedInURL(ref.LinkedInURL):
		params.Profile = ref.LinkedInURL
	case first != "" && last != "" && company != "":
		params.FirstName = first
		params.LastName = last
		params.Company = company
	default:
		return nil, Unsupported(a.Name(), "requires an email, a linkedin_url, or first/last name with a company")
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, Classify(a.Name(), err)
	}

	resp, err := a.client.EnrichPerson(ctx, params)
	if err != nil {
		return nil, Classify(a.Name(), err)
	}

	conf := likelihoodConfidence(resp.Likelihood)
	data := resp.Data

	p := model.NewPartial(a.Name(), model.KindPerson, time.Now().UTC())
	if data.FullName != "" {
		p.Person.FullName = data.FullName
		p.Attest(model.FieldFullName, conf)
	}
	if data.JobTitle != "" {
		p.Person.JobTitle = data.JobTitle
		p.Attest(model.FieldJobTitle, conf)
	}
	if data.JobCompanyName != "" {
		p.Person.CompanyName = data.JobCompanyName
		p.Attest(model.FieldCompanyName, conf)
	}
	if d := normalize.Domain(data.JobCompanyWebsite); normalize.ValidDomain(d) {
		p.Person.CompanyDomain = d
		p.Attest(model.FieldCompanyDomain, conf)
	}
	if data.LocationName != "" {
		p.Person.Location = data.LocationName
		p.Attest(model.FieldLocation, conf)
	}
	if normalize.ValidLinkedInURL(data.LinkedInURL) {
		p.Person.LinkedInURL = data.LinkedInURL
		p.Attest(model.FieldLinkedInURL, conf)
	}
	if normalize.ValidEmail(data.WorkEmail) {
		p.Person.Emails = append(p.Person.Emails, model.EmailAddress{
			Address:    normalize.Email(data.WorkEmail),
			Type:       "work",
			Confidence: conf,
		})
	}
	for _, e := range data.PersonalEmails {
		if !normalize.ValidEmail(e) {
			continue
		}
		p.Person.Emails = append(p.Person.Emails, model.EmailAddress{
			Address:    normalize.Email(e),
			Type:       "personal",
			Confidence: conf,
		})
	}
	for _, number := range data.PhoneNumbers {
		if normalize.Phone(number) == "" {
			continue
		}
		p.Person.Phones = append(p.Person.Phones, model.PhoneNumber{
			Number:     number,
			Confidence: conf,
		})
	}
	p.Person.Skills = append(p.Person.Skills, data.Skills...)
	for _, edu := range data.Education {
		if edu.School.Name == "" {
			continue
		}
		entry := model.Education{School: edu.School.Name}
		if len(edu.Degrees) > 0 {
			entry.Degree = edu.Degrees[0]
		}
		if len(edu.Majors) > 0 {
			entry.Field = edu.Majors[0]
		}
		p.Person.Education = append(p.Person.Education, entry)
	}
	return p, nil
}

// EnrichCompany implements Adapter. The ref must carry a domain, name,
// ticker, or LinkedIn URL.
func (a *PeopleDataLabsAdapter) EnrichCompany(ctx context.Context, ref model.CompanyRef) (*model.PartialRecord, *Error) {
	params := peopledatalabs.CompanyParams{}
	if d := normalize.Domain(ref.Domain); normalize.ValidDomain(d) {
		params.Website = d
	}
	if ref.Name != "" {
		params.Name = ref.Name
	}
	if ref.Ticker != "" {
		params.Ticker = ref.Ticker
	}
	if normalize.ValidLinkedInURL(ref.LinkedInURL) {
		params.Profile = ref.LinkedInURL
	}
	if params == (peopledatalabs.CompanyParams{}) {
		return nil, Unsupported(a.Name(), "requires a domain, name, ticker, or linkedin_url")
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, Classify(a.Name(), err)
	}

	resp, err := a.client.EnrichCompany(ctx, params)
	if err != nil {
		return nil, Classify(a.Name(), err)
	}

	conf := likelihoodConfidence(resp.Likelihood)

	p := model.NewPartial(a.Name(), model.KindCompany, time.Now().UTC())
	if resp.Name != "" {
		p.Company.Name = resp.Name
		p.Attest(model.FieldName, conf)
	}
	if d := normalize.Domain(resp.Website); normalize.ValidDomain(d) {
		p.Company.Domain = d
		p.Attest(model.FieldDomain, conf)
	}
	if resp.Industry != "" {
		p.Company.Industry = resp.Industry
		p.Attest(model.FieldIndustry, conf)
	}
	if resp.EmployeeCount > 0 {
		p.Company.EmployeeCount = resp.EmployeeCount
		p.Attest(model.FieldEmployeeCount, conf)
	}
	if resp.Size != "" {
		p.Company.SizeRange = resp.Size
		p.Attest(model.FieldSizeRange, conf)
	}
	if resp.Location.Name != "" {
		p.Company.Location = resp.Location.Name
		p.Attest(model.FieldLocation, conf)
	}
	if resp.Founded > 0 {
		p.Company.FoundedYear = resp.Founded
		p.Attest(model.FieldFoundedYear, conf)
	}
	if normalize.ValidLinkedInURL(resp.LinkedInURL) {
		p.Company.LinkedInURL = resp.LinkedInURL
		p.Attest(model.FieldLinkedInURL, conf)
	}
	return p, nil
}

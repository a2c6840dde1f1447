package provider

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/enrich-cli/internal/config"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/normalize"
	"github.com/sells-group/enrich-cli/pkg/wiza"
)

const wizaConfidence = 85

// WizaAdapter resolves LinkedIn profile and email-finder lookups through
// the Wiza API. Profile lookups need a LinkedIn URL; the email finder
// needs first name, last name, and a company domain.
type WizaAdapter struct {
	cfg     config.WizaConfig
	client  wiza.Client
	limiter *rate.Limiter
}

// NewWizaAdapter creates the adapter. A nil client or limiter selects
// defaults built from the config.
func NewWizaAdapter(cfg config.WizaConfig, client wiza.Client, limiter *rate.Limiter) *WizaAdapter {
	if client == nil {
		var opts []wiza.Option
		if cfg.BaseURL != "" {
			opts = append(opts, wiza.WithBaseURL(cfg.BaseURL))
		}
		client = wiza.NewClient(cfg.Key, opts...)
	}
	if limiter == nil {
		limiter = newLimiter(cfg.RequestsPerSecond)
	}
	return &WizaAdapter{cfg: cfg, client: client, limiter: limiter}
}

// Name implements Adapter.
func (a *WizaAdapter) Name() string { return "wiza" }

// Capabilities implements Adapter.
func (a *WizaAdapter) Capabilities() []Capability {
	return []Capability{CapPersonByLinkedIn, CapPersonByName, CapCompanyByDomain}
}

// Configured implements Adapter.
func (a *WizaAdapter) Configured() bool { return a.cfg.Key != "" }

// Credits returns the account's remaining credit balance.
func (a *WizaAdapter) Credits(ctx context.Context) (int, error) {
	return a.client.Credits(ctx)
}

// EnrichPerson implements Adapter. A LinkedIn URL selects the profile
// endpoint; otherwise the email finder is tried when the ref carries
// enough of a name plus a company domain.
func (a *WizaAdapter) EnrichPerson(ctx context.Context, ref model.PersonRef) (*model.PartialRecord, *Error) {
	if normalize.ValidLinkedInURL(ref.LinkedInURL) {
		return a.enrichByProfile(ctx, ref.LinkedInURL)
	}

	first, last := ref.FirstName, ref.LastName
	if first == "" && last == "" {
		first, last = splitName(ref.FullName)
	}
	domain := normalize.Domain(ref.CompanyDomain)
	if first == "" || last == "" || !normalize.ValidDomain(domain) {
		return nil, Unsupported(a.Name(), "requires a linkedin_url, or first/last name with company_domain")
	}
	return a.enrichByEmailFinder(ctx, first, last, domain, ref.LinkedInURL)
}

func (a *WizaAdapter) enrichByProfile(ctx context.Context, linkedinURL string) (*model.PartialRecord, *Error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, Classify(a.Name(), err)
	}

	resp, err := a.client.EnrichProfile(ctx, wiza.ProfileRequest{
		LinkedInURL:   linkedinURL,
		IncludeEmails: true,
		IncludePhone:  true,
	})
	if err != nil {
		return nil, Classify(a.Name(), err)
	}

	p := model.NewPartial(a.Name(), model.KindPerson, time.Now().UTC())
	if resp.FullName != "" {
		p.Person.FullName = resp.FullName
		p.Attest(model.FieldFullName, wizaConfidence)
	}
	title := resp.CurrentCompany.Title
	if title == "" {
		title = resp.Headline
	}
	if title != "" {
		p.Person.JobTitle = title
		p.Attest(model.FieldJobTitle, wizaConfidence)
	}
	if resp.CurrentCompany.Name != "" {
		p.Person.CompanyName = resp.CurrentCompany.Name
		p.Attest(model.FieldCompanyName, wizaConfidence)
	}
	if resp.Location != "" {
		p.Person.Location = resp.Location
		p.Attest(model.FieldLocation, wizaConfidence)
	}
	url := resp.LinkedInURL
	if url == "" {
		url = linkedinURL
	}
	if normalize.ValidLinkedInURL(url) {
		p.Person.LinkedInURL = url
		p.Attest(model.FieldLinkedInURL, wizaConfidence)
	}
	p.Person.Skills = append(p.Person.Skills, resp.Skills...)
	for _, edu := range resp.Education {
		if edu.School == "" {
			continue
		}
		p.Person.Education = append(p.Person.Education, model.Education{
			School: edu.School,
			Degree: edu.Degree,
			Field:  edu.FieldOfStudy,
		})
	}
	for _, e := range resp.Emails {
		if !normalize.ValidEmail(e.Email) {
			zap.L().Debug("dropping invalid email", zap.String("provider", a.Name()))
			continue
		}
		p.Person.Emails = append(p.Person.Emails, model.EmailAddress{
			Address:    normalize.Email(e.Email),
			Type:       emailType(e.Type),
			Confidence: scaleConfidence(e.Confidence, wizaConfidence),
		})
	}
	for _, ph := range resp.Phones {
		if normalize.Phone(ph.Number) == "" {
			continue
		}
		p.Person.Phones = append(p.Person.Phones, model.PhoneNumber{
			Number:     ph.Number,
			Type:       phoneType(ph.Type),
			Confidence: scaleConfidence(ph.Confidence, wizaConfidence),
		})
	}
	return p, nil
}

func (a *WizaAdapter) enrichByEmailFinder(ctx context.Context, first, last, domain, linkedinURL string) (*model.PartialRecord, *Error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, Classify(a.Name(), err)
	}

	resp, err := a.client.FindEmail(ctx, wiza.EmailFinderRequest{
		FirstName:     first,
		LastName:      last,
		CompanyDomain: domain,
		LinkedInURL:   linkedinURL,
	})
	if err != nil {
		return nil, Classify(a.Name(), err)
	}

	p := model.NewPartial(a.Name(), model.KindPerson, time.Now().UTC())
	for i, r := range resp.Emails {
		if normalize.ValidEmail(r.Email) {
			p.Person.Emails = append(p.Person.Emails, model.EmailAddress{
				Address:    normalize.Email(r.Email),
				Type:       emailType(r.Type),
				Confidence: scaleConfidence(r.Confidence, wizaConfidence),
			})
		}
		// Identity fields come from the best match only.
		if i > 0 {
			continue
		}
		if r.FirstName != "" && r.LastName != "" {
			p.Person.FullName = r.FirstName + " " + r.LastName
			p.Attest(model.FieldFullName, scaleConfidence(r.Confidence, wizaConfidence))
		}
		if r.Title != "" {
			p.Person.JobTitle = r.Title
			p.Attest(model.FieldJobTitle, scaleConfidence(r.Confidence, wizaConfidence))
		}
		if r.CompanyName != "" {
			p.Person.CompanyName = r.CompanyName
			p.Attest(model.FieldCompanyName, scaleConfidence(r.Confidence, wizaConfidence))
		}
		if normalize.ValidLinkedInURL(r.LinkedInURL) {
			p.Person.LinkedInURL = r.LinkedInURL
			p.Attest(model.FieldLinkedInURL, scaleConfidence(r.Confidence, wizaConfidence))
		}
	}
	if p.Person.CompanyDomain == "" && normalize.ValidDomain(domain) {
		p.Person.CompanyDomain = domain
		p.Attest(model.FieldCompanyDomain, wizaConfidence)
	}
	return p, nil
}

// EnrichCompany implements Adapter. The ref must carry a resolvable domain.
func (a *WizaAdapter) EnrichCompany(ctx context.Context, ref model.CompanyRef) (*model.PartialRecord, *Error) {
	domain := normalize.Domain(ref.Domain)
	if !normalize.ValidDomain(domain) {
		return nil, Unsupported(a.Name(), "requires a company domain")
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, Classify(a.Name(), err)
	}

	resp, err := a.client.EnrichCompany(ctx, wiza.CompanyRequest{CompanyDomain: domain})
	if err != nil {
		return nil, Classify(a.Name(), err)
	}

	p := model.NewPartial(a.Name(), model.KindCompany, time.Now().UTC())
	if resp.CompanyName != "" {
		p.Company.Name = resp.CompanyName
		p.Attest(model.FieldName, wizaConfidence)
	}
	d := normalize.Domain(resp.Domain)
	if d == "" {
		d = domain
	}
	if normalize.ValidDomain(d) {
		p.Company.Domain = d
		p.Attest(model.FieldDomain, wizaConfidence)
	}
	if resp.Industry != "" {
		p.Company.Industry = resp.Industry
		p.Attest(model.FieldIndustry, wizaConfidence)
	}
	if resp.EmployeeCount > 0 {
		p.Company.EmployeeCount = resp.EmployeeCount
		p.Attest(model.FieldEmployeeCount, wizaConfidence)
	}
	if resp.CompanySize != "" {
		p.Company.SizeRange = resp.CompanySize
		p.Attest(model.FieldSizeRange, wizaConfidence)
	}
	if resp.RevenueRange != "" {
		p.Company.Revenue = resp.RevenueRange
		p.Attest(model.FieldRevenue, wizaConfidence)
	}
	if loc := joinLocation(resp.Headquarters.City, resp.Headquarters.State, resp.Headquarters.Country); loc != "" {
		p.Company.Location = loc
		p.Attest(model.FieldLocation, wizaConfidence)
	}
	if resp.FoundedYear > 0 {
		p.Company.FoundedYear = resp.FoundedYear
		p.Attest(model.FieldFoundedYear, wizaConfidence)
	}
	if normalize.ValidLinkedInURL(resp.LinkedInURL) {
		p.Company.LinkedInURL = resp.LinkedInURL
		p.Attest(model.FieldLinkedInURL, wizaConfidence)
	}
	return p, nil
}

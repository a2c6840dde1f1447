package provider

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/enrich-cli/internal/config"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/normalize"
	"github.com/sells-group/enrich-cli/pkg/bigdatacorp"
)

// bigDataCorpConfidence applies when the vendor reports no per-field
// confidence. Registry-sourced data, so it ranks above the lookup vendors.
const bigDataCorpConfidence = 90

// BigDataCorpAdapter resolves Brazilian CPF/CNPJ lookups through the
// BigDataCorp platform API. It handles tax-id lookups only; refs without
// a valid document are rejected before any network call.
type BigDataCorpAdapter struct {
	cfg     config.BigDataCorpConfig
	client  bigdatacorp.Client
	limiter *rate.Limiter
}

// NewBigDataCorpAdapter creates the adapter. A nil client or limiter
// selects defaults built from the config.
func NewBigDataCorpAdapter(cfg config.BigDataCorpConfig, client bigdatacorp.Client, limiter *rate.Limiter) *BigDataCorpAdapter {
	if client == nil {
		var opts []bigdatacorp.Option
		if cfg.BaseURL != "" {
			opts = append(opts, bigdatacorp.WithBaseURL(cfg.BaseURL))
		}
		client = bigdatacorp.NewClient(cfg.Key, cfg.Secret, opts...)
	}
	if limiter == nil {
		limiter = newLimiter(cfg.RequestsPerSecond)
	}
	return &BigDataCorpAdapter{cfg: cfg, client: client, limiter: limiter}
}

// newLimiter builds a per-adapter rate limiter from a requests-per-second
// setting, defaulting to 1 rps when unset.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		rps = 1
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// Name implements Adapter.
func (a *BigDataCorpAdapter) Name() string { return "bigdatacorp" }

// Capabilities implements Adapter.
func (a *BigDataCorpAdapter) Capabilities() []Capability {
	return []Capability{CapPersonByTaxID, CapCompanyByTaxID}
}

// Configured implements Adapter.
func (a *BigDataCorpAdapter) Configured() bool {
	return a.cfg.Key != "" && a.cfg.Secret != ""
}

// EnrichPerson implements Adapter. The ref must carry a valid CPF.
func (a *BigDataCorpAdapter) EnrichPerson(ctx context.Context, ref model.PersonRef) (*model.PartialRecord, *Error) {
	cpf := normalize.CPF(ref.TaxID)
	if cpf == "" {
		return nil, Unsupported(a.Name(), "requires a valid CPF tax_id")
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, Classify(a.Name(), err)
	}

	resp, err := a.client.QueryPerson(ctx, cpf)
	if err != nil {
		return nil, Classify(a.Name(), err)
	}

	p := model.NewPartial(a.Name(), model.KindPerson, time.Now().UTC())
	if resp.BasicData.Name != "" {
		p.Person.FullName = resp.BasicData.Name
		p.Attest(model.FieldFullName, bigDataCorpConfidence)
	}
	if resp.ProfessionalData.Company != "" {
		p.Person.CompanyName = resp.ProfessionalData.Company
		p.Attest(model.FieldCompanyName, bigDataCorpConfidence)
	}
	if resp.ProfessionalData.Position != "" {
		p.Person.JobTitle = resp.ProfessionalData.Position
		p.Attest(model.FieldJobTitle, bigDataCorpConfidence)
	}
	if len(resp.Addresses) > 0 {
		addr := resp.Addresses[0]
		if loc := joinLocation(addr.City, addr.State); loc != "" {
			p.Person.Location = loc
			p.Attest(model.FieldLocation, bigDataCorpConfidence)
		}
	}
	for _, e := range resp.Emails {
		if !normalize.ValidEmail(e.Email) {
			zap.L().Debug("dropping invalid email", zap.String("provider", a.Name()))
			continue
		}
		p.Person.Emails = append(p.Person.Emails, model.EmailAddress{
			Address:    normalize.Email(e.Email),
			Type:       emailType(e.Type),
			Confidence: scaleConfidence(e.Confidence, bigDataCorpConfidence),
		})
	}
	for _, ph := range resp.Phones {
		if normalize.Phone(ph.Number) == "" {
			continue
		}
		p.Person.Phones = append(p.Person.Phones, model.PhoneNumber{
			Number:     ph.Number,
			Type:       phoneType(ph.Type),
			Confidence: scaleConfidence(ph.Confidence, bigDataCorpConfidence),
		})
	}
	return p, nil
}

// EnrichCompany implements Adapter. The ref must carry a valid CNPJ.
func (a *BigDataCorpAdapter) EnrichCompany(ctx context.Context, ref model.CompanyRef) (*model.PartialRecord, *Error) {
	cnpj := normalize.CNPJ(ref.TaxID)
	if cnpj == "" {
		return nil, Unsupported(a.Name(), "requires a valid CNPJ tax_id")
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, Classify(a.Name(), err)
	}

	resp, err := a.client.QueryCompany(ctx, cnpj)
	if err != nil {
		return nil, Classify(a.Name(), err)
	}

	p := model.NewPartial(a.Name(), model.KindCompany, time.Now().UTC())
	name := resp.BasicData.CompanyName
	if name == "" {
		name = resp.BasicData.TradeName
	}
	if name != "" {
		p.Company.Name = name
		p.Attest(model.FieldName, bigDataCorpConfidence)
	}
	if resp.BasicData.Industry != "" {
		p.Company.Industry = resp.BasicData.Industry
		p.Attest(model.FieldIndustry, bigDataCorpConfidence)
	}
	if year := registrationYear(resp.BasicData.RegistrationDate); year > 0 {
		p.Company.FoundedYear = year
		p.Attest(model.FieldFoundedYear, bigDataCorpConfidence)
	}
	if len(resp.Websites) > 0 {
		if d := normalize.Domain(resp.Websites[0].URL); normalize.ValidDomain(d) {
			p.Company.Domain = d
			p.Attest(model.FieldDomain, bigDataCorpConfidence)
		}
	}
	if len(resp.Addresses) > 0 {
		addr := resp.Addresses[0]
		if loc := joinLocation(addr.City, addr.State); loc != "" {
			p.Company.Location = loc
			p.Attest(model.FieldLocation, bigDataCorpConfidence)
		}
	}
	for _, s := range resp.Shareholders {
		if s.Name == "" {
			continue
		}
		p.Company.KeyPeople = append(p.Company.KeyPeople, model.KeyPerson{
			Name:          s.Name,
			Title:         "shareholder",
			Document:      s.Document,
			Participation: s.Participation,
		})
	}
	return p, nil
}

// registrationYear extracts the year from a YYYY-MM-DD registration date.
func registrationYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year < 1800 {
		return 0
	}
	return year
}

// emailType maps vendor email type labels onto the canonical set.
func emailType(t string) string {
	switch t {
	case "WORK", "work", "professional":
		return "work"
	case "PERSONAL", "personal":
		return "personal"
	default:
		return ""
	}
}

// phoneType maps vendor phone type labels onto the canonical set.
func phoneType(t string) string {
	switch t {
	case "MOBILE", "mobile", "cell":
		return "mobile"
	case "WORK", "work":
		return "work"
	case "HOME", "home":
		return "home"
	default:
		return ""
	}
}

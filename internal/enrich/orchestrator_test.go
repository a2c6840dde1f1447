package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/provider"
	"github.com/sells-group/enrich-cli/internal/scorer"
)

// stubAdapter scripts one adapter's behavior for fan-out tests.
type stubAdapter struct {
	name       string
	configured bool
	caps       []provider.Capability
	delay      time.Duration
	person     *model.PersonRecord
	personProv map[string]float64
	company    *model.CompanyRecord
	err        *provider.Error
}

func (s *stubAdapter) Name() string                        { return s.name }
func (s *stubAdapter) Capabilities() []provider.Capability { return s.caps }
func (s *stubAdapter) Configured() bool                    { return s.configured }

func (s *stubAdapter) EnrichPerson(ctx context.Context, _ model.PersonRef) (*model.PartialRecord, *provider.Error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, provider.Classify(s.name, ctx.Err())
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	p := model.NewPartial(s.name, model.KindPerson, time.Now().UTC())
	if s.person != nil {
		*p.Person = *s.person
		for key, conf := range s.personProv {
			p.Attest(key, conf)
		}
	}
	return p, nil
}

func (s *stubAdapter) EnrichCompany(ctx context.Context, _ model.CompanyRef) (*model.PartialRecord, *provider.Error) {
	if s.err != nil {
		return nil, s.err
	}
	p := model.NewPartial(s.name, model.KindCompany, time.Now().UTC())
	if s.company != nil {
		*p.Company = *s.company
		p.Attest(model.FieldName, 80)
	}
	return p, nil
}

func personStub(name string) *stubAdapter {
	return &stubAdapter{
		name:       name,
		configured: true,
		caps:       []provider.Capability{provider.CapPersonByEmail},
	}
}

func newTestOrchestrator(timeout time.Duration, adapters ...*stubAdapter) *Orchestrator {
	reg := provider.NewRegistry()
	for _, a := range adapters {
		reg.Register(a)
	}
	return NewOrchestrator(reg, scorer.New(scorer.DefaultWeights()), timeout, timeout)
}

func TestEnrichPersonInvalidRequest(t *testing.T) {
	o := newTestOrchestrator(time.Second, personStub("a"))

	r := o.EnrichPerson(context.Background(), model.PersonRef{})
	require.NotNil(t, r)
	assert.Equal(t, provider.ErrInvalidRequest, r.ProviderErrors[RequestErrorKey])
	assert.NotEmpty(t, r.Error)
	assert.Zero(t, r.Score)
	assert.Empty(t, r.ContributingProviders)
}

func TestEnrichCompanyInvalidRequest(t *testing.T) {
	o := newTestOrchestrator(time.Second, personStub("a"))

	r := o.EnrichCompany(context.Background(), model.CompanyRef{})
	assert.Equal(t, provider.ErrInvalidRequest, r.ProviderErrors[RequestErrorKey])
}

func TestEnrichPersonNoCapableProviders(t *testing.T) {
	unconfigured := personStub("a")
	unconfigured.configured = false
	companyOnly := &stubAdapter{
		name:       "b",
		configured: true,
		caps:       []provider.Capability{provider.CapCompanyByDomain},
	}
	o := newTestOrchestrator(time.Second, unconfigured, companyOnly)

	r := o.EnrichPerson(context.Background(), model.PersonRef{Email: "jane@acme.com"})
	assert.Equal(t, "no configured provider supports this lookup", r.Error)
	assert.Empty(t, r.ProviderErrors)
	assert.Zero(t, r.Score)
}

func TestEnrichPersonMergesAcrossProviders(t *testing.T) {
	a := personStub("a")
	a.person = &model.PersonRecord{FullName: "Jane Smith", JobTitle: "Engineer"}
	a.personProv = map[string]float64{model.FieldFullName: 85, model.FieldJobTitle: 70}

	b := personStub("b")
	b.person = &model.PersonRecord{JobTitle: "Staff Engineer", Location: "Austin, TX"}
	b.personProv = map[string]float64{model.FieldJobTitle: 90, model.FieldLocation: 60}

	o := newTestOrchestrator(time.Second, a, b)
	r := o.EnrichPerson(context.Background(), model.PersonRef{Email: "jane@acme.com"})

	require.NotNil(t, r.Person)
	assert.Equal(t, "Jane Smith", r.Person.FullName)
	assert.Equal(t, "Staff Engineer", r.Person.JobTitle, "higher confidence wins")
	assert.Equal(t, "Austin, TX", r.Person.Location)
	assert.Equal(t, []string{"a", "b"}, r.ContributingProviders)
	assert.Empty(t, r.ProviderErrors)
	assert.Positive(t, r.Score)
}

func TestEnrichPersonPartialFailure(t *testing.T) {
	ok := personStub("ok")
	ok.person = &model.PersonRecord{FullName: "Jane Smith"}
	ok.personProv = map[string]float64{model.FieldFullName: 85}

	down := personStub("down")
	down.err = &provider.Error{Provider: "down", Kind: provider.ErrUpstream, Message: "boom"}

	locked := personStub("locked")
	locked.err = &provider.Error{Provider: "locked", Kind: provider.ErrAuth, Message: "bad key"}

	o := newTestOrchestrator(time.Second, ok, down, locked)
	r := o.EnrichPerson(context.Background(), model.PersonRef{Email: "jane@acme.com"})

	assert.Equal(t, "Jane Smith", r.Person.FullName)
	assert.Equal(t, []string{"ok"}, r.ContributingProviders)
	assert.Equal(t, provider.ErrUpstream, r.ProviderErrors["down"])
	assert.Equal(t, provider.ErrAuth, r.ProviderErrors["locked"])
	assert.Empty(t, r.Error, "partial failure is not a request failure")
}

func TestEnrichPersonAllProvidersFail(t *testing.T) {
	down := personStub("down")
	down.err = &provider.Error{Provider: "down", Kind: provider.ErrUpstream}

	o := newTestOrchestrator(time.Second, down)
	r := o.EnrichPerson(context.Background(), model.PersonRef{Email: "jane@acme.com"})

	require.NotNil(t, r.Person)
	assert.Zero(t, r.Score)
	assert.Empty(t, r.ContributingProviders)
	assert.Equal(t, provider.ErrUpstream, r.ProviderErrors["down"])
}

func TestEnrichPersonTimeoutCeiling(t *testing.T) {
	fast := personStub("fast")
	fast.person = &model.PersonRecord{FullName: "Jane Smith"}
	fast.personProv = map[string]float64{model.FieldFullName: 85}

	slow := personStub("slow")
	slow.delay = 2 * time.Second

	o := newTestOrchestrator(50*time.Millisecond, fast, slow)

	started := time.Now()
	r := o.EnrichPerson(context.Background(), model.PersonRef{Email: "jane@acme.com"})
	elapsed := time.Since(started)

	assert.Less(t, elapsed, time.Second, "ceiling must not wait out the slow provider")
	assert.Equal(t, "Jane Smith", r.Person.FullName, "fast provider's data survives")
	assert.Equal(t, provider.ErrTimeout, r.ProviderErrors["slow"])
	assert.Equal(t, []string{"fast"}, r.ContributingProviders)
}

func TestEnrichPersonCallerCancellation(t *testing.T) {
	slow := personStub("slow")
	slow.delay = 2 * time.Second

	o := newTestOrchestrator(10*time.Second, slow)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	started := time.Now()
	r := o.EnrichPerson(ctx, model.PersonRef{Email: "jane@acme.com"})

	assert.Less(t, time.Since(started), time.Second)
	require.NotNil(t, r)
	assert.NotEmpty(t, r.ProviderErrors)
}

func TestEnrichPersonEmptyPartialDoesNotContribute(t *testing.T) {
	empty := personStub("empty")

	o := newTestOrchestrator(time.Second, empty)
	r := o.EnrichPerson(context.Background(), model.PersonRef{Email: "jane@acme.com"})

	assert.Empty(t, r.ContributingProviders, "an empty no-match partial is not a contributor")
	assert.Empty(t, r.ProviderErrors)
	assert.Zero(t, r.Score)
}

// Selection must cover every person capability, not just a common one,
// and keep registry order even when adapters declare disjoint abilities.
func TestEnrichPersonSelectsAcrossCapabilities(t *testing.T) {
	taxOnly := personStub("tax")
	taxOnly.caps = []provider.Capability{provider.CapPersonByTaxID}
	taxOnly.person = &model.PersonRecord{FullName: "Maria Silva"}
	taxOnly.personProv = map[string]float64{model.FieldFullName: 90}

	linkedinOnly := personStub("linkedin")
	linkedinOnly.caps = []provider.Capability{provider.CapPersonByLinkedIn}
	linkedinOnly.person = &model.PersonRecord{Location: "Austin, TX"}
	linkedinOnly.personProv = map[string]float64{model.FieldLocation: 85}

	o := newTestOrchestrator(time.Second, taxOnly, linkedinOnly)
	r := o.EnrichPerson(context.Background(), model.PersonRef{TaxID: "52998224725"})

	assert.Equal(t, []string{"tax", "linkedin"}, r.ContributingProviders)
	assert.Equal(t, "Maria Silva", r.Person.FullName)
	assert.Equal(t, "Austin, TX", r.Person.Location)
}

func TestEnrichCompany(t *testing.T) {
	a := &stubAdapter{
		name:       "a",
		configured: true,
		caps:       []provider.Capability{provider.CapCompanyByDomain},
		company:    &model.CompanyRecord{Name: "Acme Corp"},
	}

	o := newTestOrchestrator(time.Second, a)
	r := o.EnrichCompany(context.Background(), model.CompanyRef{Domain: "acme.com"})

	require.NotNil(t, r.Company)
	assert.Nil(t, r.Person)
	assert.Equal(t, "Acme Corp", r.Company.Name)
	assert.Equal(t, []string{"a"}, r.ContributingProviders)
}

func TestContributed(t *testing.T) {
	now := time.Now().UTC()

	empty := model.NewPartial("a", model.KindPerson, now)
	assert.False(t, contributed(empty))

	attested := model.NewPartial("a", model.KindPerson, now)
	attested.Person.FullName = "Jane"
	attested.Attest(model.FieldFullName, 85)
	assert.True(t, contributed(attested))

	listsOnly := model.NewPartial("a", model.KindPerson, now)
	listsOnly.Person.Skills = []string{"Go"}
	assert.True(t, contributed(listsOnly))
}

package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
)

func personPartial(providerName string, fill func(*model.PartialRecord)) *model.PartialRecord {
	p := model.NewPartial(providerName, model.KindPerson, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	fill(p)
	return p
}

func companyPartial(providerName string, fill func(*model.PartialRecord)) *model.PartialRecord {
	p := model.NewPartial(providerName, model.KindCompany, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	fill(p)
	return p
}

func TestMergeEmptyInput(t *testing.T) {
	m := Merge(model.KindPerson, nil)
	require.NotNil(t, m)
	require.NotNil(t, m.Person)
	assert.Nil(t, m.Company)
	assert.Empty(t, m.Provenance)
}

func TestMergeSkipsWrongKindAndNil(t *testing.T) {
	company := companyPartial("wiza", func(p *model.PartialRecord) {
		p.Company.Name = "Acme"
		p.Attest(model.FieldName, 85)
	})

	m := Merge(model.KindPerson, []*model.PartialRecord{nil, company})
	assert.Empty(t, m.Provenance)
	assert.Empty(t, m.Person.FullName)
}

func TestMergeHigherConfidenceWins(t *testing.T) {
	low := personPartial("surfe", func(p *model.PartialRecord) {
		p.Person.JobTitle = "Engineer"
		p.Attest(model.FieldJobTitle, 80)
	})
	high := personPartial("bigdatacorp", func(p *model.PartialRecord) {
		p.Person.JobTitle = "Staff Engineer"
		p.Attest(model.FieldJobTitle, 90)
	})

	m := Merge(model.KindPerson, []*model.PartialRecord{low, high})
	assert.Equal(t, "Staff Engineer", m.Person.JobTitle)
	assert.Equal(t, []string{"bigdatacorp"}, m.Provenance[model.FieldJobTitle].Providers)
	assert.InDelta(t, 90.0, m.Provenance[model.FieldJobTitle].Confidence, 0.001)
}

func TestMergeTieKeepsEarlierPartial(t *testing.T) {
	first := personPartial("wiza", func(p *model.PartialRecord) {
		p.Person.FullName = "Jane Smith"
		p.Attest(model.FieldFullName, 85)
	})
	second := personPartial("surfe", func(p *model.PartialRecord) {
		p.Person.FullName = "Jane A. Smith"
		p.Attest(model.FieldFullName, 85)
	})

	m := Merge(model.KindPerson, []*model.PartialRecord{first, second})
	assert.Equal(t, "Jane Smith", m.Person.FullName)
	assert.Equal(t, []string{"wiza"}, m.Provenance[model.FieldFullName].Providers)
}

func TestMergePresenceBeatsAbsence(t *testing.T) {
	empty := personPartial("wiza", func(p *model.PartialRecord) {})
	filled := personPartial("peopledatalabs", func(p *model.PartialRecord) {
		p.Person.Location = "Austin, TX"
		p.Attest(model.FieldLocation, 60)
	})

	m := Merge(model.KindPerson, []*model.PartialRecord{empty, filled})
	assert.Equal(t, "Austin, TX", m.Person.Location)
}

func TestMergeIgnoresUnattestedValues(t *testing.T) {
	// A populated field without an attestation must not leak through.
	sloppy := personPartial("wiza", func(p *model.PartialRecord) {
		p.Person.FullName = "Jane Smith"
	})

	m := Merge(model.KindPerson, []*model.PartialRecord{sloppy})
	assert.Empty(t, m.Person.FullName)
	assert.Empty(t, m.Provenance)
}

func TestMergeEmailsDeduplicateAndAccumulateProviders(t *testing.T) {
	a := personPartial("wiza", func(p *model.PartialRecord) {
		p.Person.Emails = []model.EmailAddress{
			{Address: "Jane@Acme.com", Type: "work", Confidence: 85},
		}
	})
	b := personPartial("peopledatalabs", func(p *model.PartialRecord) {
		p.Person.Emails = []model.EmailAddress{
			{Address: "jane@acme.com", Confidence: 90},
			{Address: "jane.s@gmail.com", Type: "personal", Confidence: 60},
		}
	})

	m := Merge(model.KindPerson, []*model.PartialRecord{a, b})
	require.Len(t, m.Person.Emails, 2)

	dup := m.Person.Emails[0]
	assert.Equal(t, "jane@acme.com", dup.Address)
	assert.Equal(t, []string{"wiza", "peopledatalabs"}, dup.Providers)
	assert.InDelta(t, 90.0, dup.Confidence, 0.001, "higher confidence kept")
	assert.Equal(t, "work", dup.Type, "type survives a typeless higher-confidence duplicate")

	assert.Equal(t, []string{"peopledatalabs"}, m.Person.Emails[1].Providers)
}

func TestMergePhonesDeduplicateByDigits(t *testing.T) {
	a := personPartial("bigdatacorp", func(p *model.PartialRecord) {
		p.Person.Phones = []model.PhoneNumber{
			{Number: "+55 11 91234-5678", Type: "mobile", Confidence: 90},
		}
	})
	b := personPartial("surfe", func(p *model.PartialRecord) {
		p.Person.Phones = []model.PhoneNumber{
			{Number: "5511912345678", Confidence: 80},
		}
	})

	m := Merge(model.KindPerson, []*model.PartialRecord{a, b})
	require.Len(t, m.Person.Phones, 1)
	assert.Equal(t, "+55 11 91234-5678", m.Person.Phones[0].Number)
	assert.Equal(t, []string{"bigdatacorp", "surfe"}, m.Person.Phones[0].Providers)
}

func TestMergeSkillsFoldCaseKeepFirstSpelling(t *testing.T) {
	a := personPartial("wiza", func(p *model.PartialRecord) {
		p.Person.Skills = []string{"Go", "Machine Learning"}
	})
	b := personPartial("peopledatalabs", func(p *model.PartialRecord) {
		p.Person.Skills = []string{"GO", "machine learning", "SQL"}
	})

	m := Merge(model.KindPerson, []*model.PartialRecord{a, b})
	assert.Equal(t, []string{"Go", "Machine Learning", "SQL"}, m.Person.Skills)
}

func TestMergeEducationFillsGaps(t *testing.T) {
	a := personPartial("wiza", func(p *model.PartialRecord) {
		p.Person.Education = []model.Education{{School: "UT Austin", Degree: "BS"}}
	})
	b := personPartial("peopledatalabs", func(p *model.PartialRecord) {
		p.Person.Education = []model.Education{{School: "ut austin", Field: "CS"}}
	})

	m := Merge(model.KindPerson, []*model.PartialRecord{a, b})
	require.Len(t, m.Person.Education, 1)
	assert.Equal(t, "UT Austin", m.Person.Education[0].School)
	assert.Equal(t, "BS", m.Person.Education[0].Degree)
	assert.Equal(t, "CS", m.Person.Education[0].Field)
}

func TestMergeCompany(t *testing.T) {
	bdc := companyPartial("bigdatacorp", func(p *model.PartialRecord) {
		p.Company.Name = "Empresa LTDA"
		p.Attest(model.FieldName, 90)
		p.Company.FoundedYear = 2012
		p.Attest(model.FieldFoundedYear, 90)
		p.Company.KeyPeople = []model.KeyPerson{{Name: "Maria Silva", Title: "shareholder"}}
	})
	wiza := companyPartial("wiza", func(p *model.PartialRecord) {
		p.Company.Name = "Empresa"
		p.Attest(model.FieldName, 85)
		p.Company.EmployeeCount = 120
		p.Attest(model.FieldEmployeeCount, 85)
		p.Company.KeyPeople = []model.KeyPerson{{Name: "maria silva", Document: "529*****25"}}
	})

	m := Merge(model.KindCompany, []*model.PartialRecord{bdc, wiza})
	require.NotNil(t, m.Company)
	assert.Nil(t, m.Person)

	assert.Equal(t, "Empresa LTDA", m.Company.Name)
	assert.Equal(t, 2012, m.Company.FoundedYear)
	assert.Equal(t, 120, m.Company.EmployeeCount)

	require.Len(t, m.Company.KeyPeople, 1)
	assert.Equal(t, "Maria Silva", m.Company.KeyPeople[0].Name)
	assert.Equal(t, "shareholder", m.Company.KeyPeople[0].Title)
	assert.Equal(t, "529*****25", m.Company.KeyPeople[0].Document)
}

// List fields must not depend on which provider answered first, beyond
// first-seen ordering of distinct entries.
func TestMergeListsStableUnderDuplicateOrder(t *testing.T) {
	build := func() (*model.PartialRecord, *model.PartialRecord) {
		a := personPartial("wiza", func(p *model.PartialRecord) {
			p.Person.Emails = []model.EmailAddress{{Address: "jane@acme.com", Confidence: 85}}
		})
		b := personPartial("surfe", func(p *model.PartialRecord) {
			p.Person.Emails = []model.EmailAddress{{Address: "JANE@ACME.COM", Confidence: 80}}
		})
		return a, b
	}

	a, b := build()
	forward := Merge(model.KindPerson, []*model.PartialRecord{a, b})

	a, b = build()
	reverse := Merge(model.KindPerson, []*model.PartialRecord{b, a})

	require.Len(t, forward.Person.Emails, 1)
	require.Len(t, reverse.Person.Emails, 1)
	assert.Equal(t, forward.Person.Emails[0].Address, reverse.Person.Emails[0].Address)
	assert.InDelta(t, forward.Person.Emails[0].Confidence, reverse.Person.Emails[0].Confidence, 0.001)
	assert.ElementsMatch(t, forward.Person.Emails[0].Providers, reverse.Person.Emails[0].Providers)
}

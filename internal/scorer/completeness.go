// Package scorer computes a 0-100 completeness score for merged records
// from a weighted field checklist.
package scorer

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/enrich-cli/internal/model"
)

// Weights maps checklist field keys to point values per entity kind.
// The built-in tables sum to 100; custom tables may sum to anything,
// the score is clamped either way.
type Weights struct {
	Person  map[string]int `yaml:"person"`
	Company map[string]int `yaml:"company"`
}

// checklist key for the presence of any email entry.
const fieldEmail = "email"

// Scorer's list checklist keys reuse the record's JSON field names.
const (
	fieldSkills    = "skills"
	fieldEducation = "education"
	fieldKeyPeople = "key_people"
)

// DefaultWeights returns the built-in weight tables.
func DefaultWeights() Weights {
	return Weights{
		Person: map[string]int{
			model.FieldFullName:    15,
			fieldEmail:             20,
			model.FieldJobTitle:    15,
			model.FieldCompanyName: 15,
			model.FieldLocation:    10,
			model.FieldLinkedInURL: 10,
			fieldSkills:            10,
			fieldEducation:         5,
		},
		Company: map[string]int{
			model.FieldName:          15,
			model.FieldDomain:        15,
			model.FieldIndustry:      10,
			model.FieldEmployeeCount: 10,
			model.FieldSizeRange:     5,
			model.FieldRevenue:       10,
			model.FieldLocation:      10,
			model.FieldFoundedYear:   5,
			model.FieldLinkedInURL:   10,
			fieldKeyPeople:           10,
		},
	}
}

// LoadWeights reads a YAML weight table from path, overlaying the
// defaults. Keys absent from the file keep their default weight; a key
// set to 0 removes the field from the checklist.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	if path == "" {
		return w, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, eris.Wrap(err, "scorer: read weights file")
	}
	var overlay Weights
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Weights{}, eris.Wrap(err, "scorer: parse weights file")
	}
	for key, v := range overlay.Person {
		w.Person[key] = v
	}
	for key, v := range overlay.Company {
		w.Company[key] = v
	}
	return w, nil
}

// Scorer scores merged records against its weight tables.
type Scorer struct {
	weights Weights
}

// New creates a Scorer with the given weights.
func New(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// ScorePerson returns the clamped checklist score for a person record.
// A nil record scores 0.
func (s *Scorer) ScorePerson(rec *model.PersonRecord) int {
	if rec == nil {
		return 0
	}
	total := 0
	add := func(key string, populated bool) {
		if populated {
			total += s.weights.Person[key]
		}
	}
	add(model.FieldFullName, rec.FullName != "")
	add(fieldEmail, len(rec.Emails) > 0)
	add(model.FieldJobTitle, rec.JobTitle != "")
	add(model.FieldCompanyName, rec.CompanyName != "")
	add(model.FieldLocation, rec.Location != "")
	add(model.FieldLinkedInURL, rec.LinkedInURL != "")
	add(fieldSkills, len(rec.Skills) > 0)
	add(fieldEducation, len(rec.Education) > 0)
	return clamp(total)
}

// ScoreCompany returns the clamped checklist score for a company record.
// A nil record scores 0.
func (s *Scorer) ScoreCompany(rec *model.CompanyRecord) int {
	if rec == nil {
		return 0
	}
	total := 0
	add := func(key string, populated bool) {
		if populated {
			total += s.weights.Company[key]
		}
	}
	add(model.FieldName, rec.Name != "")
	add(model.FieldDomain, rec.Domain != "")
	add(model.FieldIndustry, rec.Industry != "")
	add(model.FieldEmployeeCount, rec.EmployeeCount > 0)
	add(model.FieldSizeRange, rec.SizeRange != "")
	add(model.FieldRevenue, rec.Revenue != "")
	add(model.FieldLocation, rec.Location != "")
	add(model.FieldFoundedYear, rec.FoundedYear > 0)
	add(model.FieldLinkedInURL, rec.LinkedInURL != "")
	add(fieldKeyPeople, len(rec.KeyPeople) > 0)
	return clamp(total)
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

package model

// Canonical scalar field keys. Adapters populate provenance under these
// keys and the merger resolves conflicts per key; the scorer's checklist
// references the same keys.
const (
	FieldFullName      = "full_name"
	FieldJobTitle      = "job_title"
	FieldCompanyName   = "company_name"
	FieldCompanyDomain = "company_domain"
	FieldLocation      = "location"
	FieldLinkedInURL   = "linkedin_url"

	FieldName          = "name"
	FieldDomain        = "domain"
	FieldIndustry      = "industry"
	FieldEmployeeCount = "employee_count"
	FieldSizeRange     = "size_range"
	FieldRevenue       = "revenue"
	FieldFoundedYear   = "founded_year"
)

// EmailAddress is a canonical email entry. Providers is filled by the
// merger with every provider that contributed this address.
type EmailAddress struct {
	Address    string   `json:"address"`
	Type       string   `json:"type,omitempty"` // work | personal
	Confidence float64  `json:"confidence"`
	Providers  []string `json:"providers,omitempty"`
}

// PhoneNumber is a canonical phone entry.
type PhoneNumber struct {
	Number     string   `json:"number"`
	Type       string   `json:"type,omitempty"` // work | mobile | home
	Confidence float64  `json:"confidence"`
	Providers  []string `json:"providers,omitempty"`
}

// Education is a canonical education entry.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Field  string `json:"field,omitempty"`
}

// KeyPerson is a shareholder, officer, or other notable person attached
// to a company record.
type KeyPerson struct {
	Name          string  `json:"name"`
	Title         string  `json:"title,omitempty"`
	Document      string  `json:"document,omitempty"`
	Participation float64 `json:"participation,omitempty"`
}

// PersonRecord is the canonical normalized person schema.
type PersonRecord struct {
	FullName      string         `json:"full_name,omitempty"`
	JobTitle      string         `json:"job_title,omitempty"`
	CompanyName   string         `json:"company_name,omitempty"`
	CompanyDomain string         `json:"company_domain,omitempty"`
	Location      string         `json:"location,omitempty"`
	LinkedInURL   string         `json:"linkedin_url,omitempty"`
	Emails        []EmailAddress `json:"emails,omitempty"`
	Phones        []PhoneNumber  `json:"phones,omitempty"`
	Skills        []string       `json:"skills,omitempty"`
	Education     []Education    `json:"education,omitempty"`
}

// CompanyRecord is the canonical normalized company schema.
type CompanyRecord struct {
	Name          string      `json:"name,omitempty"`
	Domain        string      `json:"domain,omitempty"`
	Industry      string      `json:"industry,omitempty"`
	EmployeeCount int         `json:"employee_count,omitempty"`
	SizeRange     string      `json:"size_range,omitempty"`
	Revenue       string      `json:"revenue,omitempty"`
	Location      string      `json:"location,omitempty"`
	FoundedYear   int         `json:"founded_year,omitempty"`
	LinkedInURL   string      `json:"linkedin_url,omitempty"`
	KeyPeople     []KeyPerson `json:"key_people,omitempty"`
}

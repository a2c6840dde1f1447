// Package surfe is a minimal client for the Surfe v2 enrichment API.
// Surfe's enrich endpoints are batch-shaped; this client sends
// single-element batches on behalf of the adapter layer.
package surfe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.surfe.com/v2"

// Client performs enrichment calls against the Surfe API.
type Client interface {
	EnrichPeople(ctx context.Context, req PeopleEnrichRequest) (*PeopleEnrichResponse, error)
	EnrichCompanies(ctx context.Context, req CompanyEnrichRequest) (*CompanyEnrichResponse, error)
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("surfe: status %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// Include selects which contact channels to resolve.
type Include struct {
	Email    bool `json:"email"`
	Mobile   bool `json:"mobile"`
	LinkedIn bool `json:"linkedin"`
}

// PersonQuery identifies one person to enrich.
type PersonQuery struct {
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	CompanyName   string `json:"companyName,omitempty"`
	CompanyDomain string `json:"companyDomain,omitempty"`
	LinkedInURL   string `json:"linkedinUrl,omitempty"`
	ExternalID    string `json:"externalID,omitempty"`
}

// PeopleEnrichRequest is the body for POST /people/enrich.
type PeopleEnrichRequest struct {
	Include Include       `json:"include"`
	People  []PersonQuery `json:"people"`
}

// Experience is one entry of a person's profile experience.
type Experience struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}

// EducationEntry is one entry of a person's profile education.
type EducationEntry struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Field  string `json:"field"`
}

// Person is one enriched person result.
type Person struct {
	ExternalID  string `json:"externalID"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	FullName    string `json:"fullName"`
	LinkedInURL string `json:"linkedinUrl"`
	JobTitle    string `json:"jobTitle"`
	Location    string `json:"location"`
	Email       *struct {
		Address    string  `json:"address"`
		Confidence float64 `json:"confidence"`
		Type       string  `json:"type"`
	} `json:"email"`
	Mobile *struct {
		Number     string  `json:"number"`
		Confidence float64 `json:"confidence"`
		Type       string  `json:"type"`
	} `json:"mobile"`
	Company *struct {
		Name     string `json:"name"`
		Domain   string `json:"domain"`
		Industry string `json:"industry"`
		Size     string `json:"size"`
	} `json:"company"`
	ProfileData *struct {
		Headline   string           `json:"headline"`
		Skills     []string         `json:"skills"`
		Experience []Experience     `json:"experience"`
		Education  []EducationEntry `json:"education"`
	} `json:"profileData"`
}

// PeopleEnrichResponse is the parsed /people/enrich payload.
type PeopleEnrichResponse struct {
	People []Person `json:"people"`
}

// CompanyQuery identifies one company to enrich.
type CompanyQuery struct {
	Domain      string `json:"domain,omitempty"`
	Name        string `json:"name,omitempty"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
	ExternalID  string `json:"externalID,omitempty"`
}

// CompanyEnrichRequest is the body for POST /companies/enrich.
type CompanyEnrichRequest struct {
	Companies []CompanyQuery `json:"companies"`
}

// Company is one enriched company result.
type Company struct {
	ExternalID  string `json:"externalID"`
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
	LinkedInURL string `json:"linkedinUrl"`
	Location    *struct {
		City    string `json:"city"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"location"`
	Size *struct {
		Employees int    `json:"employees"`
		Range     string `json:"range"`
	} `json:"size"`
	Revenue *struct {
		Range string `json:"range"`
	} `json:"revenue"`
	Founded int `json:"founded"`
}

// CompanyEnrichResponse is the parsed /companies/enrich payload.
type CompanyEnrichResponse struct {
	Companies []Company `json:"companies"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Surfe API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) EnrichPeople(ctx context.Context, req PeopleEnrichRequest) (*PeopleEnrichResponse, error) {
	var result PeopleEnrichResponse
	if err := c.post(ctx, "/people/enrich", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) EnrichCompanies(ctx context.Context, req CompanyEnrichRequest) (*CompanyEnrichResponse, error) {
	var result CompanyEnrichResponse
	if err := c.post(ctx, "/companies/enrich", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return eris.Wrap(err, "surfe: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "surfe: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "surfe: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "surfe: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "surfe: unmarshal response")
	}
	return nil
}

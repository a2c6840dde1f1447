// Package peopledatalabs is a minimal client for the People Data Labs
// v5 enrichment API. PDL reports a 0-10 likelihood with each match; the
// adapter layer scales it onto the common 0-100 confidence range.
package peopledatalabs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.peopledatalabs.com/v5"

// Client performs enrichment calls against the PDL API.
type Client interface {
	EnrichPerson(ctx context.Context, params PersonParams) (*PersonResponse, error)
	EnrichCompany(ctx context.Context, params CompanyParams) (*CompanyResponse, error)
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("peopledatalabs: status %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// PersonParams are the query parameters for GET /person/enrich.
type PersonParams struct {
	Email         string
	Profile       string // LinkedIn URL
	FirstName     string
	LastName      string
	Company       string
	MinLikelihood int
}

// Values encodes the params as URL query values, omitting empty fields.
func (p PersonParams) Values() url.Values {
	v := url.Values{}
	if p.Email != "" {
		v.Set("email", p.Email)
	}
	if p.Profile != "" {
		v.Set("profile", p.Profile)
	}
	if p.FirstName != "" {
		v.Set("first_name", p.FirstName)
	}
	if p.LastName != "" {
		v.Set("last_name", p.LastName)
	}
	if p.Company != "" {
		v.Set("company", p.Company)
	}
	if p.MinLikelihood > 0 {
		v.Set("min_likelihood", fmt.Sprintf("%d", p.MinLikelihood))
	}
	return v
}

// EducationEntry is one education item of a person payload.
type EducationEntry struct {
	School struct {
		Name string `json:"name"`
	} `json:"school"`
	Degrees []string `json:"degrees"`
	Majors  []string `json:"majors"`
}

// PersonData is the data object of a person enrich payload.
type PersonData struct {
	FullName          string           `json:"full_name"`
	JobTitle          string           `json:"job_title"`
	JobCompanyName    string           `json:"job_company_name"`
	JobCompanyWebsite string           `json:"job_company_website"`
	LocationName      string           `json:"location_name"`
	LinkedInURL       string           `json:"linkedin_url"`
	WorkEmail         string           `json:"work_email"`
	PersonalEmails    []string         `json:"personal_emails"`
	PhoneNumbers      []string         `json:"phone_numbers"`
	Skills            []string         `json:"skills"`
	Education         []EducationEntry `json:"education"`
}

// PersonResponse is the parsed /person/enrich payload.
type PersonResponse struct {
	Status     int        `json:"status"`
	Likelihood int        `json:"likelihood"`
	Data       PersonData `json:"data"`
}

// CompanyParams are the query parameters for GET /company/enrich.
type CompanyParams struct {
	Website string
	Name    string
	Ticker  string
	Profile string // LinkedIn URL
}

// Values encodes the params as URL query values, omitting empty fields.
func (p CompanyParams) Values() url.Values {
	v := url.Values{}
	if p.Website != "" {
		v.Set("website", p.Website)
	}
	if p.Name != "" {
		v.Set("name", p.Name)
	}
	if p.Ticker != "" {
		v.Set("ticker", p.Ticker)
	}
	if p.Profile != "" {
		v.Set("profile", p.Profile)
	}
	return v
}

// CompanyResponse is the parsed /company/enrich payload. Company enrich
// responds with the record at the top level rather than under "data".
type CompanyResponse struct {
	Status        int    `json:"status"`
	Likelihood    int    `json:"likelihood"`
	Name          string `json:"name"`
	Website       string `json:"website"`
	Industry      string `json:"industry"`
	EmployeeCount int    `json:"employee_count"`
	Size          string `json:"size"`
	Founded       int    `json:"founded"`
	LinkedInURL   string `json:"linkedin_url"`
	Location      struct {
		Name string `json:"name"`
	} `json:"location"`
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

// NewClient creates a People Data Labs API client.
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

func (c *httpClient) EnrichPerson(ctx context.Context, params PersonParams) (*PersonResponse, error) {
	var result PersonResponse
	if err := c.get(ctx, "/person/enrich", params.Values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) EnrichCompany(ctx context.Context, params CompanyParams) (*CompanyResponse, error) {
	var result CompanyResponse
	if err := c.get(ctx, "/company/enrich", params.Values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "peopledatalabs: create request")
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "peopledatalabs: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "peopledatalabs: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "peopledatalabs: unmarshal response")
	}
	return nil
}

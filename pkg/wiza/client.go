// Package wiza is a minimal client for the Wiza enrichment API
// (LinkedIn profile enrichment, email finding, company enrichment).
package wiza

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

const defaultBaseURL = "https://api.wiza.co/api/v1"

// Client performs enrichment calls against the Wiza API.
type Client interface {
	EnrichProfile(ctx context.Context, req ProfileRequest) (*ProfileResponse, error)
	FindEmail(ctx context.Context, req EmailFinderRequest) (*EmailFinderResponse, error)
	EnrichCompany(ctx context.Context, req CompanyRequest) (*CompanyResponse, error)
	Credits(ctx context.Context) (int, error)
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wiza: status %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// ProfileRequest is the body for POST /enrich/profile.
type ProfileRequest struct {
	LinkedInURL   string `json:"linkedin_url"`
	IncludeEmails bool   `json:"include_emails"`
	IncludePhone  bool   `json:"include_phone"`
}

// EmailEntry is one email in a profile response.
type EmailEntry struct {
	Email      string  `json:"email"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// PhoneEntry is one phone in a profile response.
type PhoneEntry struct {
	Number     string  `json:"number"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// EducationEntry is one education item in a profile response.
type EducationEntry struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
}

// ProfileResponse is the parsed /enrich/profile payload.
type ProfileResponse struct {
	LinkedInURL    string `json:"linkedin_url"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	FullName       string `json:"full_name"`
	Headline       string `json:"headline"`
	Location       string `json:"location"`
	Industry       string `json:"industry"`
	CurrentCompany struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	} `json:"current_company"`
	Education        []EducationEntry `json:"education"`
	Skills           []string         `json:"skills"`
	Emails           []EmailEntry     `json:"emails"`
	Phones           []PhoneEntry     `json:"phones"`
	CreditsUsed      int              `json:"credits_used"`
	CreditsRemaining int              `json:"credits_remaining"`
}

// EmailFinderRequest is the body for POST /enrich/email.
type EmailFinderRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	CompanyDomain string `json:"company_domain"`
	LinkedInURL   string `json:"linkedin_url,omitempty"`
}

// EmailFinderResult is one found email.
type EmailFinderResult struct {
	Email              string  `json:"email"`
	Confidence         float64 `json:"confidence"`
	Type               string  `json:"type"`
	VerificationStatus string  `json:"verification_status"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	CompanyName        string  `json:"company_name"`
	Title              string  `json:"title"`
	LinkedInURL        string  `json:"linkedin_url"`
}

// EmailFinderResponse is the parsed /enrich/email payload.
type EmailFinderResponse struct {
	Emails           []EmailFinderResult `json:"emails"`
	CreditsUsed      int                 `json:"credits_used"`
	CreditsRemaining int                 `json:"credits_remaining"`
}

// CompanyRequest is the body for POST /enrich/company.
type CompanyRequest struct {
	CompanyDomain string `json:"company_domain,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
	LinkedInURL   string `json:"linkedin_url,omitempty"`
}

// CompanyResponse is the parsed /enrich/company payload.
type CompanyResponse struct {
	CompanyName  string `json:"company_name"`
	Domain       string `json:"domain"`
	LinkedInURL  string `json:"linkedin_url"`
	Website      string `json:"website"`
	Industry     string `json:"industry"`
	CompanySize  string `json:"company_size"`
	FoundedYear  int    `json:"founded_year"`
	Headquarters struct {
		City    string `json:"city"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"headquarters"`
	EmployeeCount    int    `json:"employee_count"`
	RevenueRange     string `json:"revenue_range"`
	CreditsUsed      int    `json:"credits_used"`
	CreditsRemaining int    `json:"credits_remaining"`
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

// NewClient creates a Wiza API client.
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

func (c *httpClient) EnrichProfile(ctx context.Context, req ProfileRequest) (*ProfileResponse, error) {
	var result ProfileResponse
	if err := c.post(ctx, "/enrich/profile", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) FindEmail(ctx context.Context, req EmailFinderRequest) (*EmailFinderResponse, error) {
	var result EmailFinderResponse
	if err := c.post(ctx, "/enrich/email", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) EnrichCompany(ctx context.Context, req CompanyRequest) (*CompanyResponse, error) {
	var result CompanyResponse
	if err := c.post(ctx, "/enrich/company", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) Credits(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/credits", nil)
	if err != nil {
		return 0, eris.Wrap(err, "wiza: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, eris.Wrap(err, "wiza: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, eris.Wrap(err, "wiza: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return 0, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result struct {
		Credits int `json:"credits"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, eris.Wrap(err, "wiza: unmarshal response")
	}
	return result.Credits, nil
}

func (c *httpClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return eris.Wrap(err, "wiza: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "wiza: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "wiza: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "wiza: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "wiza: unmarshal response")
	}
	return nil
}

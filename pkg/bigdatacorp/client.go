// Package bigdatacorp is a minimal client for the BigDataCorp platform
// API (Brazilian person/company registry data keyed by CPF/CNPJ).
package bigdatacorp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://plataforma.bigdatacorp.com.br/api/v1"

var defaultPersonDatasets = []string{
	"basic_data{name,birthdate}",
	"emails.filter(type=WORK).limit(3)",
	"phones.filter(type=MOBILE).limit(3)",
	"addresses.limit(1)",
	"professional_data",
}

var defaultCompanyDatasets = []string{
	"basic_data{company_name,trade_name,legal_form,industry,registration_date,status}",
	"emails.filter(type=WORK).limit(3)",
	"phones.limit(3)",
	"addresses.limit(1)",
	"shareholders.limit(5)",
	"websites.limit(1)",
}

// Client queries the BigDataCorp pessoas/empresas endpoints.
type Client interface {
	QueryPerson(ctx context.Context, document string) (*PersonResponse, error)
	QueryCompany(ctx context.Context, document string) (*CompanyResponse, error)
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bigdatacorp: status %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// EmailEntry is one email in a response dataset.
type EmailEntry struct {
	Email      string  `json:"email"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// PhoneEntry is one phone in a response dataset.
type PhoneEntry struct {
	Number     string  `json:"number"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// AddressEntry is one address in a response dataset.
type AddressEntry struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
	Type    string `json:"type"`
}

// PersonResponse is the parsed /pessoas payload.
type PersonResponse struct {
	BasicData struct {
		CPF       string `json:"cpf"`
		Name      string `json:"name"`
		Birthdate string `json:"birthdate"`
	} `json:"basic_data"`
	Emails           []EmailEntry   `json:"emails"`
	Phones           []PhoneEntry   `json:"phones"`
	Addresses        []AddressEntry `json:"addresses"`
	ProfessionalData struct {
		Company     string `json:"company"`
		Position    string `json:"position"`
		IncomeRange string `json:"income_range"`
	} `json:"professional_data"`
}

// Shareholder is one entry of the shareholders dataset.
type Shareholder struct {
	Name          string  `json:"name"`
	Document      string  `json:"document"`
	Participation float64 `json:"participation"`
}

// CompanyResponse is the parsed /empresas payload.
type CompanyResponse struct {
	BasicData struct {
		CNPJ             string `json:"cnpj"`
		CompanyName      string `json:"company_name"`
		TradeName        string `json:"trade_name"`
		LegalForm        string `json:"legal_form"`
		Industry         string `json:"industry"`
		RegistrationDate string `json:"registration_date"`
		Status           string `json:"status"`
	} `json:"basic_data"`
	Emails       []EmailEntry   `json:"emails"`
	Phones       []PhoneEntry   `json:"phones"`
	Addresses    []AddressEntry `json:"addresses"`
	Shareholders []Shareholder  `json:"shareholders"`
	Websites     []struct {
		URL string `json:"url"`
	} `json:"websites"`
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
	apiKey    string
	apiSecret string
	baseURL   string
	http      *http.Client
}

// NewClient creates a BigDataCorp API client.
func NewClient(apiKey, apiSecret string, opts ...Option) Client {
	c := &httpClient{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   defaultBaseURL,
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

func (c *httpClient) QueryPerson(ctx context.Context, document string) (*PersonResponse, error) {
	var result PersonResponse
	if err := c.query(ctx, "/pessoas", document, defaultPersonDatasets, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) QueryCompany(ctx context.Context, document string) (*CompanyResponse, error) {
	var result CompanyResponse
	if err := c.query(ctx, "/empresas", document, defaultCompanyDatasets, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) query(ctx context.Context, path, document string, datasets []string, out any) error {
	body, err := json.Marshal(map[string]string{
		"q":        fmt.Sprintf("doc{%s}", document),
		"datasets": strings.Join(datasets, ","),
	})
	if err != nil {
		return eris.Wrap(err, "bigdatacorp: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "bigdatacorp: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-API-Secret", c.apiSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "bigdatacorp: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "bigdatacorp: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "bigdatacorp: unmarshal response")
	}
	return nil
}

package wiza

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichProfile(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  string
		wantName string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{
				"full_name": "Jane Smith",
				"location": "Austin, TX",
				"current_company": {"name": "Acme Inc", "title": "CTO"},
				"skills": ["Go", "SQL"],
				"emails": [{"email": "jane@acme.com", "type": "work", "confidence": 0.95}],
				"credits_remaining": 40
			}`,
			wantName: "Jane Smith",
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"error": "invalid api key"}`,
			wantErr: "status 401",
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid json`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/enrich/profile", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

				var req ProfileRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "https://linkedin.com/in/jane", req.LinkedInURL)
				assert.True(t, req.IncludeEmails)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))
			resp, err := client.EnrichProfile(context.Background(), ProfileRequest{
				LinkedInURL:   "https://linkedin.com/in/jane",
				IncludeEmails: true,
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantName, resp.FullName)
			assert.Equal(t, "Acme Inc", resp.CurrentCompany.Name)
			require.Len(t, resp.Emails, 1)
			assert.InDelta(t, 0.95, resp.Emails[0].Confidence, 0.001)
		})
	}
}

func TestFindEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enrich/email", r.URL.Path)

		var req EmailFinderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Jane", req.FirstName)
		assert.Equal(t, "acme.com", req.CompanyDomain)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"emails": [{"email": "jane@acme.com", "confidence": 0.9, "type": "work", "first_name": "Jane", "last_name": "Smith"}],
			"credits_used": 1
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.FindEmail(context.Background(), EmailFinderRequest{
		FirstName:     "Jane",
		LastName:      "Smith",
		CompanyDomain: "acme.com",
	})
	require.NoError(t, err)
	require.Len(t, resp.Emails, 1)
	assert.Equal(t, "jane@acme.com", resp.Emails[0].Email)
}

func TestEnrichCompanyCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enrich/company", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"company_name": "Acme Inc",
			"domain": "acme.com",
			"industry": "Software",
			"company_size": "201-500",
			"employee_count": 250,
			"founded_year": 2010,
			"headquarters": {"city": "Austin", "state": "TX", "country": "US"}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.EnrichCompany(context.Background(), CompanyRequest{CompanyDomain: "acme.com"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", resp.CompanyName)
	assert.Equal(t, 250, resp.EmployeeCount)
	assert.Equal(t, "Austin", resp.Headquarters.City)
}

func TestCredits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/credits", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"credits": 123}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	credits, err := client.Credits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 123, credits)
}

func TestAPIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"out of credits"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Credits(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.HTTPStatus())
	assert.Contains(t, apiErr.Error(), "out of credits")
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()
	c := NewClient("my-key")
	hc := c.(*httpClient)
	assert.Equal(t, "my-key", hc.apiKey)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
	assert.NotNil(t, hc.http)
}

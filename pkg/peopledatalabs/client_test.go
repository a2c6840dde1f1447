package peopledatalabs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichPerson(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    string
		wantStatus int
		wantName   string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{
				"status": 200,
				"likelihood": 9,
				"data": {
					"full_name": "Jane Smith",
					"job_title": "cto",
					"work_email": "jane@acme.com",
					"skills": ["go", "sql"]
				}
			}`,
			wantName: "Jane Smith",
		},
		{
			name:       "not_found",
			status:     http.StatusNotFound,
			body:       `{"status": 404, "error": {"message": "no records found"}}`,
			wantErr:    "status 404",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "rate_limit",
			status:     http.StatusTooManyRequests,
			body:       `{"error": "rate limit exceeded"}`,
			wantErr:    "status 429",
			wantStatus: http.StatusTooManyRequests,
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
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/person/enrich", r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
				assert.Equal(t, "jane@acme.com", r.URL.Query().Get("email"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))
			resp, err := client.EnrichPerson(context.Background(), PersonParams{Email: "jane@acme.com"})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, resp)
				if tt.wantStatus != 0 {
					var apiErr *APIError
					require.True(t, errors.As(err, &apiErr))
					assert.Equal(t, tt.wantStatus, apiErr.HTTPStatus())
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, 9, resp.Likelihood)
			assert.Equal(t, tt.wantName, resp.Data.FullName)
			assert.Equal(t, []string{"go", "sql"}, resp.Data.Skills)
		})
	}
}

func TestEnrichCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company/enrich", r.URL.Path)
		assert.Equal(t, "acme.com", r.URL.Query().Get("website"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": 200,
			"likelihood": 10,
			"name": "Acme Inc",
			"website": "acme.com",
			"industry": "software",
			"employee_count": 250,
			"size": "201-500",
			"founded": 2010,
			"location": {"name": "austin, texas, united states"}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.EnrichCompany(context.Background(), CompanyParams{Website: "acme.com"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", resp.Name)
	assert.Equal(t, 250, resp.EmployeeCount)
	assert.Equal(t, 2010, resp.Founded)
	assert.Equal(t, "austin, texas, united states", resp.Location.Name)
}

func TestPersonParamsValues(t *testing.T) {
	v := PersonParams{
		Profile:       "https://linkedin.com/in/jane",
		MinLikelihood: 4,
	}.Values()
	assert.Equal(t, "https://linkedin.com/in/jane", v.Get("profile"))
	assert.Equal(t, "4", v.Get("min_likelihood"))
	assert.Empty(t, v.Get("email"))
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()
	c := NewClient("my-key")
	hc := c.(*httpClient)
	assert.Equal(t, "my-key", hc.apiKey)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
	assert.NotNil(t, hc.http)
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":200}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.EnrichPerson(ctx, PersonParams{Email: "a@b.co"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send request")
}

package provider

import (
	"context"
	"net/http"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/pkg/wiza"
)

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAuth},
		{"forbidden", http.StatusForbidden, ErrAuth},
		{"too_many_requests", http.StatusTooManyRequests, ErrRateLimited},
		{"request_timeout", http.StatusRequestTimeout, ErrTimeout},
		{"server_error", http.StatusInternalServerError, ErrUpstream},
		{"not_found", http.StatusNotFound, ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &wiza.APIError{StatusCode: tt.status, Body: "boom"}
			perr := Classify("wiza", err)
			require.NotNil(t, perr)
			assert.Equal(t, tt.want, perr.Kind)
			assert.Equal(t, "wiza", perr.Provider)
		})
	}
}

func TestClassifyWrappedStatusError(t *testing.T) {
	err := eris.Wrap(&wiza.APIError{StatusCode: http.StatusTooManyRequests}, "wiza: send request")
	perr := Classify("wiza", err)
	require.NotNil(t, perr)
	assert.Equal(t, ErrRateLimited, perr.Kind)
}

func TestClassifyDeadline(t *testing.T) {
	perr := Classify("surfe", context.DeadlineExceeded)
	require.NotNil(t, perr)
	assert.Equal(t, ErrTimeout, perr.Kind)
}

func TestClassifyCanceled(t *testing.T) {
	perr := Classify("surfe", context.Canceled)
	require.NotNil(t, perr)
	assert.Equal(t, ErrTimeout, perr.Kind)

	wrapped := eris.Wrap(context.Canceled, "surfe: send request")
	perr = Classify("surfe", wrapped)
	require.NotNil(t, perr)
	assert.Equal(t, ErrTimeout, perr.Kind)
}

func TestClassifyUnknown(t *testing.T) {
	perr := Classify("surfe", eris.New("something broke"))
	require.NotNil(t, perr)
	assert.Equal(t, ErrUpstream, perr.Kind)
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify("wiza", nil))
}

func TestUnsupported(t *testing.T) {
	perr := Unsupported("bigdatacorp", "requires a valid CPF tax_id")
	assert.Equal(t, ErrUnsupported, perr.Kind)
	assert.Contains(t, perr.Error(), "bigdatacorp")
	assert.Contains(t, perr.Error(), "unsupported_request")
}

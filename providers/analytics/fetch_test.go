package analytics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aura-report/config"
	"aura-report/providers"
)

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.Config{AnalyticsBaseURL: srv.URL + "/api/", AnalyticsAPIKey: "secret", AnalyticsTimeout: 5 * time.Second}
	return NewFetcher(cfg, zap.NewNop())
}

func TestFetchReports(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reports", r.URL.Path)
		assert.Equal(t, "user 1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"report_type":"vibe","timestamp":"2024-01-01T00:00:00Z","report_data":{"summary":"s"}},{"id":2,"report_data":null}]}`))
	})

	env, err := f.FetchReports(context.Background(), "user 1")
	require.NoError(t, err)
	assert.True(t, env.Success)
	require.Len(t, env.Data, 2)
	assert.Equal(t, 1, env.Data[0].ID)
	assert.JSONEq(t, `{"summary":"s"}`, string(env.Data[0].ReportData))
	assert.Equal(t, "analytics", f.Name())
}

func TestFetchReports_SingleObject(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":9,"report_data":{}}}`))
	})

	env, err := f.FetchReports(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, env.Data, 1)
	assert.Equal(t, 9, env.Data[0].ID)
}

func TestFetchReports_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{"server error", http.StatusInternalServerError, `oops`, providers.ErrNetworkFailure, "analytics request failed with status: 500"},
		{"error envelope", http.StatusUnauthorized, `{"success":false,"message":"invalid api key"}`, providers.ErrNetworkFailure, "invalid api key"},
		{"broken body", http.StatusOK, `{"success":tr`, providers.ErrMalformedPayload, ""},
		{"array body", http.StatusOK, `[]`, providers.ErrMalformedPayload, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			env, err := f.FetchReports(context.Background(), "u")
			require.Error(t, err)
			assert.Nil(t, env)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}
}

func TestFetchReports_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	f := NewFetcher(&config.Config{AnalyticsBaseURL: base}, zap.NewNop())
	_, err := f.FetchReports(context.Background(), "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrNetworkFailure))
}

func TestFetchReports_SuccessFalsePassesThrough(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"user not found"}`))
	})

	env, err := f.FetchReports(context.Background(), "u")
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, "user not found", env.Message)
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aura-report/models"
	"aura-report/providers"
)

type fakeProvider struct {
	env    *models.Envelope
	err    error
	userID string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) FetchReports(_ context.Context, userID string) (*models.Envelope, error) {
	p.userID = userID
	return p.env, p.err
}

func TestReportService_Build(t *testing.T) {
	env := &models.Envelope{Success: true, Data: models.ReportList{
		{ID: 1, ReportType: "vibe", ReportData: json.RawMessage(`{"report_title":"One","current_assessment":{"hz_frequency":"639 Hz"}}`)},
		{ID: 2, ReportType: "aura", ReportData: json.RawMessage(`{"summary":"two"}`)},
		{ID: 3, ReportType: "empty", ReportData: json.RawMessage(`null`)},
	}}
	provider := &fakeProvider{env: env}
	svc := NewReportService(provider, zap.NewNop())

	views, err := svc.Build(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", provider.userID)

	require.Len(t, views, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{views[0].ReportID, views[1].ReportID, views[2].ReportID})
	assert.Equal(t, "One", views[0].Document.Title)
	assert.Equal(t, 639.0, views[0].Metric.FrequencyHz)
	assert.Nil(t, views[0].ScoreGauge)
	assert.Equal(t, UntitledReport, views[2].Document.Title)
	assert.Empty(t, views[2].Document.Sections)
}

func TestReportService_ScoreGauge(t *testing.T) {
	env := &models.Envelope{Success: true, Data: models.ReportList{
		{ID: 1, ReportData: json.RawMessage(`{"current_assessment":{"vf_score":"528/1000"}}`)},
	}}
	views, err := NewReportService(&fakeProvider{env: env}, zap.NewNop()).Build(context.Background(), "u")
	require.NoError(t, err)
	require.NotNil(t, views[0].ScoreGauge)
	assert.Equal(t, 53, views[0].ScoreGauge.Percentage)
}

func TestReportService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     *models.Envelope
		err     error
		kind    error
		message string
	}{
		{
			name:    "success false keeps upstream message",
			env:     &models.Envelope{Success: false, Message: "quota exceeded"},
			kind:    providers.ErrNetworkFailure,
			message: "quota exceeded",
		},
		{
			name:    "empty data",
			env:     &models.Envelope{Success: true},
			kind:    providers.ErrNoData,
			message: "no data",
		},
		{
			name: "nil envelope",
			kind: providers.ErrMalformedPayload,
		},
		{
			name:    "malformed from provider",
			err:     providers.NewError(providers.ErrMalformedPayload, "malformed payload: bad json"),
			kind:    providers.ErrMalformedPayload,
			message: "malformed payload: bad json",
		},
		{
			name:    "plain transport error",
			err:     errors.New("dial tcp: connection refused"),
			kind:    providers.ErrNetworkFailure,
			message: "dial tcp: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewReportService(&fakeProvider{env: tt.env, err: tt.err}, zap.NewNop())

			views, err := svc.Build(context.Background(), "u")
			require.Error(t, err)
			assert.Nil(t, views)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}
}

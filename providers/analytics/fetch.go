package analytics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aura-report/config"
	"aura-report/models"
	"aura-report/providers"

	"go.uber.org/zap"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// maxBodySize begrenzt die gelesene Antwort des Analytics-Service.
const maxBodySize = 16 << 20

// Fetcher kapselt die Logik für den Analytics-Service.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	Client *http.Client
}

// NewFetcher erstellt einen neuen Analytics-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	client := httpClient
	if cfg.AnalyticsTimeout > 0 {
		client = &http.Client{Timeout: cfg.AnalyticsTimeout}
	}
	return &Fetcher{Config: cfg, Logger: logger, Client: client}
}

func (f *Fetcher) Name() string {
	return config.SourceAnalytics
}

// FetchReports holt alle Reports eines Nutzers über GET /reports?user_id=...
func (f *Fetcher) FetchReports(ctx context.Context, userID string) (*models.Envelope, error) {
	endpoint := fmt.Sprintf("%s/reports?user_id=%s", strings.TrimRight(f.Config.AnalyticsBaseURL, "/"), url.QueryEscape(userID))
	log := f.Logger.With(zap.String("user_id", userID), zap.String("url", endpoint))
	log.Debug("Rufe Analytics API auf.")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, providers.NewError(providers.ErrNetworkFailure, err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if f.Config.AnalyticsAPIKey != "" {
		req.Header.Set("X-API-KEY", f.Config.AnalyticsAPIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, providers.NewError(providers.ErrNetworkFailure, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, providers.NewError(providers.ErrNetworkFailure, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("analytics request failed with status: %d", resp.StatusCode)
		// der Service liefert auch Fehler meist als Envelope mit message
		if env, err := providers.DecodeEnvelope(body); err == nil && env.Message != "" {
			msg = env.Message
		}
		log.Warn("Analytics API antwortet mit Fehlerstatus.", zap.Int("status", resp.StatusCode))
		return nil, providers.NewError(providers.ErrNetworkFailure, msg)
	}

	env, err := providers.DecodeEnvelope(body)
	if err != nil {
		log.Warn("Antwort der Analytics API nicht lesbar.", zap.Error(err))
		return nil, err
	}
	log.Debug("Reports empfangen.", zap.Int("count", len(env.Data)), zap.Bool("success", env.Success))
	return env, nil
}

package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"aura-report/models"
	"aura-report/providers"
)

// ReportView bündelt das Document eines Reports mit seinem Metric und den Gauges.
type ReportView struct {
	ReportID       int             `json:"report_id"`
	ReportType     string          `json:"report_type"`
	Document       models.Document `json:"document"`
	Metric         models.Metric   `json:"metric"`
	FrequencyGauge Gauge           `json:"frequency_gauge"`
	ScoreGauge     *Gauge          `json:"score_gauge,omitempty"`
}

// ReportBuilder liefert die Views eines Nutzers.
type ReportBuilder interface {
	Build(ctx context.Context, userID string) ([]ReportView, error)
}

// ReportService kümmert sich um die Orchestrierung von Fetch und Normalisierung.
type ReportService struct {
	Provider providers.Provider
	Logger   *zap.Logger
}

// NewReportService erstellt eine neue Instanz des ReportService.
func NewReportService(provider providers.Provider, logger *zap.Logger) *ReportService {
	return &ReportService{Provider: provider, Logger: logger}
}

// Build führt die gesamte Pipeline fetch -> normalize aus. Für N Reports entstehen genau N Views.
// Bei einem Fehler wird keine einzige View zurückgegeben.
func (s *ReportService) Build(ctx context.Context, userID string) ([]ReportView, error) {
	log := s.Logger.With(zap.String("user_id", userID), zap.String("provider", s.Provider.Name()))

	env, err := s.Provider.FetchReports(ctx, userID)
	if err == nil {
		err = checkEnvelope(env)
	}
	if err != nil {
		if !errors.Is(err, providers.ErrMalformedPayload) && !errors.Is(err, providers.ErrNoData) && !errors.Is(err, providers.ErrNetworkFailure) {
			err = providers.NewError(providers.ErrNetworkFailure, err.Error())
		}
		kind := providers.Kind(err)
		pipelineFailures.WithLabelValues(kind).Inc()
		log.Warn("Report-Pipeline fehlgeschlagen", zap.String("kind", kind), zap.Error(err))
		return nil, err
	}

	views := make([]ReportView, 0, len(env.Data))
	for _, report := range env.Data {
		view, ex := BuildView(report)
		if fallbacks := ex.Fallbacks(); len(fallbacks) > 0 {
			for _, f := range fallbacks {
				metricFallbacks.WithLabelValues(f).Inc()
			}
			log.Debug("Metric teilweise aus Fallback abgeleitet",
				zap.Int("report_id", report.ID),
				zap.Strings("fields", fallbacks))
		}
		views = append(views, view)
	}
	documentsNormalized.Add(float64(len(views)))

	log.Info("Reports normalisiert", zap.Int("count", len(views)))
	return views, nil
}

// checkEnvelope bildet den Envelope auf die Fehler-Taxonomie ab.
func checkEnvelope(env *models.Envelope) error {
	switch {
	case env == nil:
		return providers.NewError(providers.ErrMalformedPayload, "malformed payload: empty response")
	case !env.Success:
		return providers.NewError(providers.ErrNetworkFailure, env.Message)
	case len(env.Data) == 0:
		return providers.NewError(providers.ErrNoData, env.Message)
	}
	return nil
}

// BuildView normalisiert einen Report und leitet Metric und Gauges ab.
func BuildView(r models.Report) (ReportView, Extraction) {
	ex := ExtractReport(r.ReportData)
	view := ReportView{
		ReportID:       r.ID,
		ReportType:     r.ReportType,
		Document:       NormalizeReport(r),
		Metric:         ex.Metric,
		FrequencyGauge: FrequencyGauge(ex.Metric),
	}
	if g, ok := ScoreGauge(ex.Metric); ok {
		view.ScoreGauge = &g
	}
	return view, ex
}

package registry

import (
	"context"
	"fmt"
	"io"

	"aura-report/config"
	"aura-report/providers"
	"aura-report/providers/analytics"
	"aura-report/providers/archive"
	"aura-report/providers/postgres"
	"aura-report/storage"

	"go.uber.org/zap"
)

// New wählt die Report-Quelle anhand von REPORT_SOURCE.
func New(ctx context.Context, cfg *config.Config, logging *zap.Logger) (providers.Provider, error) {
	return NewSource(ctx, cfg.ReportSource, cfg, logging)
}

// NewSource erstellt den Provider für eine explizit benannte Quelle.
func NewSource(ctx context.Context, source string, cfg *config.Config, logging *zap.Logger) (providers.Provider, error) {
	switch source {
	case config.SourceAnalytics:
		return analytics.NewFetcher(cfg, logging), nil
	case config.SourcePostgres:
		db, err := postgres.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to report database: %w", err)
		}
		logging.Info("Successfully connected to report database.")
		return postgres.NewFetcher(db, logging), nil
	case config.SourceArchive:
		s3Client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create s3 client: %w", err)
		}
		return archive.NewFetcher(s3Client, cfg, logging), nil
	default:
		return nil, fmt.Errorf("unknown report source %q", source)
	}
}

// Close gibt die Ressourcen eines Providers frei, falls er welche hält (z.B. den DB-Pool).
func Close(p providers.Provider) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

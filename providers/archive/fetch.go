package archive

import (
	"context"
	"errors"

	"aura-report/config"
	"aura-report/models"
	"aura-report/providers"
	"aura-report/storage"

	"go.uber.org/zap"
)

// Fetcher liest exportierte Envelopes aus einem S3-kompatiblen Bucket.
type Fetcher struct {
	Client storage.ObjectGetter
	Bucket string
	Prefix string
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen Archiv-Fetcher.
func NewFetcher(client storage.ObjectGetter, cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Client: client, Bucket: cfg.S3Bucket, Prefix: cfg.S3Prefix, Logger: logger}
}

func (f *Fetcher) Name() string {
	return config.SourceArchive
}

// FetchReports lädt <prefix><userID>.json. Ein fehlendes Objekt bedeutet: keine Reports.
func (f *Fetcher) FetchReports(ctx context.Context, userID string) (*models.Envelope, error) {
	key := storage.ReportKey(f.Prefix, userID)
	log := f.Logger.With(zap.String("user_id", userID), zap.String("bucket", f.Bucket), zap.String("key", key))

	raw, err := storage.ReadObject(ctx, f.Client, f.Bucket, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			log.Debug("Kein Archiv für Nutzer vorhanden.")
			return nil, providers.NewError(providers.ErrNoData, "")
		}
		log.Error("Archiv konnte nicht gelesen werden", zap.Error(err))
		return nil, providers.NewError(providers.ErrNetworkFailure, err.Error())
	}

	env, err := providers.DecodeEnvelope(raw)
	if err != nil {
		log.Warn("Archiv-Objekt ist kein gültiger Envelope.", zap.Error(err))
		return nil, err
	}
	return env, nil
}

package postgres

import (
	"context"

	"aura-report/config"
	"aura-report/models"
	"aura-report/providers"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open verbindet sich mit der Datenbank des Analytics-Service.
func Open(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// Fetcher liest Reports direkt aus der Tabelle analytics_reports. Es wird nie geschrieben.
type Fetcher struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen Postgres-Fetcher.
func NewFetcher(db *gorm.DB, logger *zap.Logger) *Fetcher {
	return &Fetcher{DB: db, Logger: logger}
}

func (f *Fetcher) Name() string {
	return config.SourcePostgres
}

// Close schließt den Connection-Pool.
func (f *Fetcher) Close() error {
	sqlDB, err := f.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// FetchReports liefert die Reports eines Nutzers, neueste zuerst, als erfolgreichen Envelope.
func (f *Fetcher) FetchReports(ctx context.Context, userID string) (*models.Envelope, error) {
	log := f.Logger.With(zap.String("user_id", userID))

	var records []models.ReportRecord
	if err := f.DB.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp DESC").Find(&records).Error; err != nil {
		log.Error("DB error fetching reports", zap.Error(err))
		return nil, providers.NewError(providers.ErrNetworkFailure, err.Error())
	}

	env := &models.Envelope{Success: true, Data: make(models.ReportList, 0, len(records))}
	for _, r := range records {
		env.Data = append(env.Data, r.ToReport())
	}
	log.Debug("Reports aus der Datenbank gelesen.", zap.Int("count", len(env.Data)))
	return env, nil
}

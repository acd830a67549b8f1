package main

import (
	"encoding/json"
	"fmt"

	"aura-report/config"
	"aura-report/providers"
	"aura-report/providers/registry"
	"aura-report/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type exportOptions struct {
	users  []string
	source string
}

func newExportCmd(root *renderOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Archive the report envelopes of users into the S3 bucket",
		Long: `export fetches the envelope of every given user (default: DIGEST_USER_IDS) from a live
source and stores it as <S3_PREFIX><user>.json, where the archive source can read it.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging := newLogger(root.verbose)
			defer logging.Sync()

			if opts.source == config.SourceArchive {
				return fmt.Errorf("cannot export from the archive into itself")
			}
			// validiert die Settings der Quelle, aus der exportiert wird
			cfg, err := loadConfig(opts.source)
			if err != nil {
				return err
			}
			if cfg.S3Bucket == "" || cfg.S3URL == "" {
				return fmt.Errorf("S3_URL and S3_BUCKET are required for export")
			}

			users := opts.users
			if len(users) == 0 {
				users = cfg.DigestUsers()
			}
			if len(users) == 0 {
				return fmt.Errorf("no users given (use --users or DIGEST_USER_IDS)")
			}

			provider, err := registry.NewSource(cmd.Context(), opts.source, cfg, logging)
			if err != nil {
				return err
			}
			defer func() {
				if err := registry.Close(provider); err != nil {
					logging.Warn("Provider close failed", zap.Error(err))
				}
			}()
			s3Client, err := storage.NewS3Client(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("create s3 client: %w", err)
			}

			exporter := &envelopeExporter{Provider: provider, Putter: s3Client, Config: cfg, Logger: logging}
			exported := exporter.Run(cmd, users)
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d envelopes exported to s3://%s/%s\n", exported, len(users), cfg.S3Bucket, cfg.S3Prefix)
			if exported < len(users) {
				return fmt.Errorf("%d exports failed", len(users)-exported)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.users, "users", nil, "user IDs to export (comma separated)")
	cmd.Flags().StringVar(&opts.source, "source", config.SourceAnalytics, "live source to export from (analytics or postgres)")
	return cmd
}

// envelopeExporter kopiert Envelopes einer Live-Quelle ins Archiv.
type envelopeExporter struct {
	Provider providers.Provider
	Putter   storage.ObjectPutter
	Config   *config.Config
	Logger   *zap.Logger
}

// Run exportiert jeden Nutzer einzeln. Fehler eines Nutzers brechen den Lauf nicht ab.
func (e *envelopeExporter) Run(cmd *cobra.Command, users []string) int {
	exported := 0
	for _, userID := range users {
		log := e.Logger.With(zap.String("user_id", userID))

		env, err := e.Provider.FetchReports(cmd.Context(), userID)
		if err != nil {
			log.Error("Fetch fehlgeschlagen", zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", userID, err)
			continue
		}
		if !env.Success || len(env.Data) == 0 {
			log.Warn("Keine exportierbaren Reports", zap.Bool("success", env.Success), zap.String("message", env.Message))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: nothing to export\n", userID)
			continue
		}

		data, err := json.Marshal(env)
		if err != nil {
			log.Error("Envelope nicht serialisierbar", zap.Error(err))
			continue
		}
		key := storage.ReportKey(e.Config.S3Prefix, userID)
		link, err := storage.UploadFile(cmd.Context(), e.Putter, e.Config.S3Bucket, key, data, e.Config)
		if err != nil {
			log.Error("Upload fehlgeschlagen", zap.String("key", key), zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", userID, err)
			continue
		}
		log.Info("Envelope archiviert", zap.String("link", link), zap.Int("reports", len(env.Data)))
		exported++
	}
	return exported
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aura-report/config"
	"aura-report/models"
	"aura-report/providers"
	"aura-report/providers/registry"
	"aura-report/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var digestRunsCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "report_digest_runs_total",
		Help: "Digest runs per user, by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(digestRunsCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, cfgErr := config.Load()

	logging, err := newLogger(cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	if cfgErr != nil {
		logging.Fatal("Config load error", zap.Error(cfgErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup Provider
	provider, err := registry.New(ctx, cfg, logging)
	if err != nil {
		logging.Fatal("Provider setup failed", zap.String("source", cfg.ReportSource), zap.Error(err))
	}
	logging.Info("Report source loaded", zap.String("provider", provider.Name()))
	defer func() {
		if err := registry.Close(provider); err != nil {
			logging.Error("Provider close failed", zap.Error(err))
		}
	}()

	reportService := services.NewReportService(provider, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	setupRoutes(router, cfg, reportService, logging)

	// Setup Cron
	cronScheduler := cron.New()
	if cfg.CronSchedule != "" {
		users := cfg.DigestUsers()
		_, err := cronScheduler.AddFunc(cfg.CronSchedule, func() {
			logging.Info("Running scheduled digest job...", zap.Int("users", len(users)))
			runDigest(context.Background(), reportService, users, logging)
		})
		if err != nil {
			logging.Fatal("Invalid CRON_SCHEDULE", zap.String("schedule", cfg.CronSchedule), zap.Error(err))
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown failed", zap.Error(err))
	}
}

func setupRoutes(router *gin.Engine, cfg *config.Config, builder services.ReportBuilder, log *zap.Logger) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/", apiKeyAuthMiddleware(cfg))
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))
	setupReportRoutes(api, builder, log)
	setupDocumentRoutes(api, log)
	setupAssessmentRoutes(api, log)
}

// errorStatus bildet die Fehler-Taxonomie auf HTTP-Statuscodes ab.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, providers.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, providers.ErrMalformedPayload):
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}

func setupReportRoutes(rg *gin.RouterGroup, builder services.ReportBuilder, log *zap.Logger) {
	// GET - Alle Reports eines Nutzers als normalisierte Views
	rg.GET("/reports/:userID", func(c *gin.Context) {
		userID := c.Param("userID")

		views, err := builder.Build(c.Request.Context(), userID)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error(), "kind": providers.Kind(err)})
			return
		}

		log.Info("Reports delivered", zap.String("user_id", userID), zap.Int("count", len(views)))
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "reports": views})
	})
}

func setupDocumentRoutes(rg *gin.RouterGroup, log *zap.Logger) {
	// POST - Normalisiert ein einzelnes report_data ohne Fetch
	rg.POST("/documents/normalize", func(c *gin.Context) {
		var request struct {
			ID         int             `json:"id"`
			ReportType string          `json:"report_type"`
			Timestamp  string          `json:"timestamp"`
			ReportData json.RawMessage `json:"report_data"`
		}

		if err := c.ShouldBindJSON(&request); err != nil {
			log.Error("Invalid request body for normalization", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'report_data' must be JSON."})
			return
		}

		view, _ := services.BuildView(models.Report{
			ID:         request.ID,
			ReportType: request.ReportType,
			Timestamp:  request.Timestamp,
			ReportData: request.ReportData,
		})
		c.JSON(http.StatusOK, view)
	})

	// POST - Schaltet einen Abschnitt um und liefert das neue Document
	rg.POST("/documents/toggle", func(c *gin.Context) {
		var request struct {
			Document models.Document `json:"document"`
			Path     []string        `json:"path" binding:"required"`
		}

		if err := c.ShouldBindJSON(&request); err != nil {
			log.Error("Invalid request body for toggle", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'document' and 'path' are required."})
			return
		}

		doc, ok := services.ToggleAt(request.Document, request.Path...)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Section not found", "path": request.Path})
			return
		}
		c.JSON(http.StatusOK, doc)
	})
}

func setupAssessmentRoutes(rg *gin.RouterGroup, log *zap.Logger) {
	// POST - Leitet Metric und Gauges aus einem Assessment (Objekt oder Freitext) ab
	rg.POST("/assessments/metric", func(c *gin.Context) {
		var request struct {
			Assessment json.RawMessage `json:"assessment"`
		}

		if err := c.ShouldBindJSON(&request); err != nil {
			log.Error("Invalid request body for metric extraction", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'assessment' must be JSON."})
			return
		}

		ex := services.Extract(gjson.ParseBytes(request.Assessment))
		response := gin.H{
			"metric":          ex.Metric,
			"fallbacks":       ex.Fallbacks(),
			"frequency_gauge": services.FrequencyGauge(ex.Metric),
		}
		if g, ok := services.ScoreGauge(ex.Metric); ok {
			response["score_gauge"] = g
		}
		c.JSON(http.StatusOK, response)
	})
}

// runDigest baut die Views aller konfigurierten Nutzer neu und loggt eine Zusammenfassung je Report.
// Fehler einzelner Nutzer brechen den Lauf nicht ab.
func runDigest(ctx context.Context, builder services.ReportBuilder, users []string, log *zap.Logger) int {
	succeeded := 0
	for _, userID := range users {
		views, err := builder.Build(ctx, userID)
		if err != nil {
			digestRunsCounter.WithLabelValues(providers.Kind(err)).Inc()
			log.Error("Digest failed for user", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		digestRunsCounter.WithLabelValues("ok").Inc()
		succeeded++

		for _, v := range views {
			fields := []zap.Field{
				zap.String("user_id", userID),
				zap.Int("report_id", v.ReportID),
				zap.String("title", v.Document.Title),
				zap.String("frequency", v.FrequencyGauge.Label),
				zap.Int("frequency_pct", v.FrequencyGauge.Percentage),
				zap.String("level", v.Metric.Level),
			}
			if v.ScoreGauge != nil {
				fields = append(fields, zap.String("score", v.ScoreGauge.Label), zap.Int("score_pct", v.ScoreGauge.Percentage))
			}
			log.Info("Digest", fields...)
		}
	}
	log.Info("Digest job completed", zap.Int("users", len(users)), zap.Int("succeeded", succeeded))
	return succeeded
}

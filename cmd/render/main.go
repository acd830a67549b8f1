package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"aura-report/config"
	"aura-report/models"
	"aura-report/providers"
	"aura-report/providers/registry"
	"aura-report/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type renderOptions struct {
	file    string
	userID  string
	source  string
	expand  []string
	asJSON  bool
	showAll bool
	verbose bool
}

// fileProvider liest einen Envelope aus einer Datei oder von stdin ("-").
type fileProvider struct {
	path  string
	stdin io.Reader
}

func (p *fileProvider) Name() string { return "file" }

func (p *fileProvider) FetchReports(_ context.Context, _ string) (*models.Envelope, error) {
	var (
		raw []byte
		err error
	)
	if p.path == "-" {
		raw, err = io.ReadAll(p.stdin)
	} else {
		raw, err = os.ReadFile(p.path)
	}
	if err != nil {
		return nil, providers.NewError(providers.ErrNetworkFailure, err.Error())
	}
	return providers.DecodeEnvelope(raw)
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logging, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logging
}

func newRootCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render analytics reports as readable documents",
		Long: `render fetches the reports of a user (or reads an exported envelope) and prints
every report as a normalized document with its frequency and score gauges.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read the envelope from a file ('-' for stdin)")
	cmd.Flags().StringVarP(&opts.userID, "user", "u", "", "fetch the reports of this user from the configured source")
	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "override REPORT_SOURCE (analytics, postgres, archive)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print canonical JSON instead of text")
	cmd.Flags().BoolVarP(&opts.showAll, "all", "a", false, "expand every section")
	cmd.Flags().StringArrayVarP(&opts.expand, "expand", "e", nil, "expand the section at this key path in every report (e.g. recommendations or current_assessment/tips); repeatable")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	cmd.MarkFlagsMutuallyExclusive("file", "user")
	cmd.MarkFlagsOneRequired("file", "user")

	cmd.AddCommand(newExportCmd(opts))
	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOptions) error {
	logging := newLogger(opts.verbose)
	defer logging.Sync()

	var provider providers.Provider
	if opts.file != "" {
		provider = &fileProvider{path: opts.file, stdin: cmd.InOrStdin()}
	} else {
		cfg, err := loadConfig(opts.source)
		if err != nil {
			return err
		}
		provider, err = registry.New(cmd.Context(), cfg, logging)
		if err != nil {
			return err
		}
		defer func() {
			if err := registry.Close(provider); err != nil {
				logging.Warn("Provider close failed", zap.Error(err))
			}
		}()
	}

	view := services.NewView(services.NewReportService(provider, logging), opts.userID)
	view.Load(cmd.Context())
	for _, path := range opts.expand {
		keys := strings.Split(path, "/")
		for i := range view.State().Reports {
			if !view.Toggle(i, keys...) {
				logging.Debug("Section not found", zap.Int("report", i), zap.String("path", path))
			}
		}
	}

	state := view.State()
	if state.Err != nil {
		return fmt.Errorf("%s: %w", state.ErrorKind(), state.Err)
	}
	views := state.Reports

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}
	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := services.RenderText(out, v, opts.showAll); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig lädt die Konfiguration, optional mit überschriebener Quelle.
func loadConfig(source string) (*config.Config, error) {
	if source != "" {
		if err := os.Setenv("REPORT_SOURCE", source); err != nil {
			return nil, err
		}
	}
	return config.Load()
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

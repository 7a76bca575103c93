// Command forest-rents runs the county forest rent estimation pipeline:
// combine state stumpage sources into a unified dataset, assemble the
// county-year panel, fit the Ricardian regression, backfill uncovered
// counties, and export the results.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forestecon/forest-rents/internal/adapter/httpserver"
	"github.com/forestecon/forest-rents/internal/config"
	"github.com/forestecon/forest-rents/internal/covariate"
	"github.com/forestecon/forest-rents/internal/export"
	"github.com/forestecon/forest-rents/internal/harmonize"
	"github.com/forestecon/forest-rents/internal/observability"
	"github.com/forestecon/forest-rents/internal/panel"
	"github.com/forestecon/forest-rents/internal/report"
	"github.com/forestecon/forest-rents/internal/ricardian"
	"github.com/forestecon/forest-rents/internal/store"
	"github.com/forestecon/forest-rents/internal/validate"
)

func main() {
	if err := run(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// app carries the wired dependencies shared by every subcommand.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	store   *store.Store

	mu        sync.Mutex
	lastStage httpserver.StageStatus
}

// finishStage records a completed pipeline stage for the status endpoints.
func (a *app) finishStage(stage string, rows int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastStage = httpserver.StageStatus{Stage: stage, Rows: rows, CompletedAt: time.Now().UTC()}
}

// PipelineStatus reports the last completed stage to the HTTP listener.
func (a *app) PipelineStatus(context.Context) (httpserver.StageStatus, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastStage.Stage == "" {
		return httpserver.StageStatus{}, errors.New("no pipeline stage has completed")
	}
	return a.lastStage, nil
}

func run() error {
	a := &app{}

	root := &cobra.Command{
		Use:           "forest-rents",
		Short:         "County forest land rent estimation pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.logger = observability.NewLogger(cfg)
			a.metrics = observability.NewMetrics()

			st, err := store.Open(cmd.Context(), cfg.DBPath, a.logger)
			if err != nil {
				return err
			}
			a.store = st
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.store != nil {
				return a.store.Close()
			}
			return nil
		},
	}

	root.AddCommand(
		combineCmd(a),
		panelCmd(a),
		estimateCmd(a),
		exportCmd(a),
		reportCmd(a),
		validateCmd(a),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return root.ExecuteContext(ctx)
}

// withMetricsServer runs fn with the health/metrics endpoint listening, when
// configured. Batch stages are short-lived, so the server is best-effort.
func withMetricsServer(a *app, ctx context.Context, fn func(context.Context) error) error {
	if a.cfg.MetricsAddr == "" {
		return fn(ctx)
	}

	srv := httpserver.NewServer(a.cfg.MetricsAddr, a, a.logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return fn(ctx)
}

func combineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "combine",
		Short: "Load all price sources and build the unified dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMetricsServer(a, cmd.Context(), func(ctx context.Context) error {
				h := harmonize.New(a.logger, a.metrics)
				res, err := h.Run(ctx, a.cfg.DataDir)
				if err != nil {
					return err
				}
				if err := a.store.SavePrices(ctx, res.Records); err != nil {
					return err
				}
				out := filepath.Join(a.cfg.OutDir, "stumpage_unified.csv")
				if err := export.WritePricesCSV(out, res.Records); err != nil {
					return err
				}
				a.finishStage("combine", len(res.Records))

				report.LoadingSummary(cmd.OutOrStdout(), res.Stats)
				report.RecordSummary(cmd.OutOrStdout(), res.Records)
				return nil
			})
		},
	}
}

func panelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Assemble the county-year rent panel from prices and covariates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMetricsServer(a, cmd.Context(), func(ctx context.Context) error {
				recs, err := a.store.LoadPrices(ctx)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					return errors.New("no prices in store; run combine first")
				}
				cov, err := covariate.Load(a.cfg.DataDir)
				if err != nil {
					return err
				}
				if err := a.store.SaveCounties(ctx, cov.Counties); err != nil {
					return err
				}

				b := panel.NewBuilder(cov, a.logger, a.metrics)
				p, err := b.Build(ctx, recs, a.cfg.StartYear, a.cfg.EndYear)
				if err != nil {
					return err
				}
				if err := a.store.SavePanel(ctx, p.Rows()); err != nil {
					return err
				}
				a.finishStage("panel", p.Len())

				report.PanelSummary(cmd.OutOrStdout(), p.Coverage())
				return nil
			})
		},
	}
}

func estimateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "estimate",
		Short: "Fit the rent regression and backfill uncovered county-years",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMetricsServer(a, cmd.Context(), func(ctx context.Context) error {
				cov, err := covariate.Load(a.cfg.DataDir)
				if err != nil {
					return err
				}
				p, err := loadPanel(ctx, a, cov)
				if err != nil {
					return err
				}

				est := ricardian.NewEstimator(a.logger, a.metrics)
				fit, err := est.FitPanel(p)
				if err != nil {
					return err
				}
				if err := a.store.SaveFit(ctx, fit); err != nil {
					return err
				}
				if _, err := est.Backfill(p, fit, cov); err != nil {
					return err
				}
				if err := a.store.SavePanel(ctx, p.Rows()); err != nil {
					return err
				}
				a.finishStage("estimate", p.Len())

				report.RegressionTable(cmd.OutOrStdout(), fit)
				report.PanelSummary(cmd.OutOrStdout(), p.Coverage())
				return nil
			})
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write panel and price exports, optionally publishing to Kafka",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMetricsServer(a, cmd.Context(), func(ctx context.Context) error {
				recs, err := a.store.LoadPrices(ctx)
				if err != nil {
					return err
				}
				rows, err := a.store.LoadPanel(ctx)
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					return errors.New("no panel in store; run panel first")
				}

				if err := export.WritePricesCSV(filepath.Join(a.cfg.OutDir, "stumpage_unified.csv"), recs); err != nil {
					return err
				}
				if err := export.WritePanelCSV(filepath.Join(a.cfg.OutDir, "forest_rents_panel.csv"), rows); err != nil {
					return err
				}
				if err := export.WritePanelJSON(filepath.Join(a.cfg.OutDir, "forest_rents_panel.json"), rows); err != nil {
					return err
				}

				if a.cfg.KafkaEnabled {
					pub := export.NewPublisher(a.cfg, a.logger)
					defer pub.Close()
					if err := pub.PublishPanel(ctx, rows); err != nil {
						return err
					}
				} else {
					a.logger.Info("kafka publishing disabled")
				}

				a.finishStage("export", len(rows))
				a.logger.Info("export complete", "out_dir", a.cfg.OutDir, "panel_rows", len(rows))
				return nil
			})
		},
	}
}

func reportCmd(a *app) *cobra.Command {
	var chartProduct string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render dataset, coverage, and model summaries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			recs, err := a.store.LoadPrices(ctx)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return errors.New("no prices in store; run combine first")
			}

			out := cmd.OutOrStdout()
			report.RecordSummary(out, recs)
			report.PriceStats(out, recs)
			report.CoverageGaps(out, recs)

			if rows, err := a.store.LoadPanel(ctx); err == nil && len(rows) > 0 {
				cov, err := covariate.Load(a.cfg.DataDir)
				if err == nil {
					if p, err := loadPanel(ctx, a, cov); err == nil {
						report.PanelSummary(out, p.Coverage())
					}
				}
			}
			if fit, err := a.store.LatestFit(ctx); err == nil && fit != nil {
				report.RegressionTable(out, fit)
			}

			chartPath := filepath.Join(a.cfg.OutDir, "price_trend.html")
			if err := report.TrendChart(chartPath, chartProduct, recs); err != nil {
				a.logger.Warn("trend chart skipped", "error", err)
			} else {
				a.logger.Info("trend chart written", "path", chartPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&chartProduct, "chart-product", "sawtimber", "product for the trend chart")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Run integrity checks over the dataset, panel, and fit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			recs, err := a.store.LoadPrices(ctx)
			if err != nil {
				return err
			}

			var p *panel.Panel
			if rows, err := a.store.LoadPanel(ctx); err == nil && len(rows) > 0 {
				cov, err := covariate.Load(a.cfg.DataDir)
				if err == nil {
					p = rebuildPanel(rows, cov, a.cfg.StartYear, a.cfg.EndYear)
				}
			}
			fit, err := a.store.LatestFit(ctx)
			if err != nil {
				return err
			}

			phases := validate.Run(recs, p, fit)
			out := cmd.OutOrStdout()
			for _, ph := range phases {
				status := "PASS"
				if !ph.Passed() {
					status = fmt.Sprintf("FAIL (%d errors)", len(ph.Errors))
				}
				fmt.Fprintf(out, "  %-24s %s\n", ph.Name, status)
				for _, e := range ph.Errors {
					fmt.Fprintf(out, "    - %s\n", e)
				}
			}
			if !validate.AllPassed(phases) {
				return errors.New("validation failed")
			}
			return nil
		},
	}
}

// loadPanel reconstructs a Panel from stored rows.
func loadPanel(ctx context.Context, a *app, cov *covariate.Set) (*panel.Panel, error) {
	rows, err := a.store.LoadPanel(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("no panel in store; run panel first")
	}
	return rebuildPanel(rows, cov, a.cfg.StartYear, a.cfg.EndYear), nil
}

func rebuildPanel(rows []panel.Row, cov *covariate.Set, startYear, endYear int) *panel.Panel {
	p := panel.NewPanel(cov.Counties, startYear, endYear)
	for _, r := range rows {
		// Rows outside the configured range or county table are dropped
		// on reload rather than failing the whole command.
		_ = p.Upsert(r)
	}
	return p
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/daniacca/qssa/internal/export"
	"github.com/daniacca/qssa/internal/metrics"
	"github.com/daniacca/qssa/internal/qssa"
	"github.com/daniacca/qssa/internal/qssa/notifiers"
	sim "github.com/daniacca/qssa/pkg/qssa"
)

func newRunCmd() *cobra.Command {
	resolvers := runResolvers()
	cmd := &cobra.Command{
		Use:   "run <params-file>",
		Short: "Simulate an ensemble and export the results",
		Long: `Run simulates Nc trajectories of shape steps each and writes the
requested artifacts. Every flag can also be set through the environment
variable shown in its description.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, resolvers)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			defer func() { _ = logger.Sync() }()

			jsonOut, _ := cmd.Flags().GetBool("json")
			return runSimulation(ctx, args[0], cfg, logger, cmd.OutOrStdout(), jsonOut)
		},
	}
	registerConfigFlags(cmd, resolvers)
	return cmd
}

// runReport is what the run command prints when it finishes.
type runReport struct {
	RunID     string            `json:"run_id"`
	Seed      uint64            `json:"seed"`
	Statuses  map[string]int    `json:"statuses"`
	Samples   int               `json:"samples"`
	Elapsed   string            `json:"elapsed"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

func runSimulation(ctx context.Context, paramsFile string, cfg RunConfig, logger *zap.SugaredLogger, out io.Writer, jsonOut bool) error {
	pcfg, err := sim.LoadParametersFile(paramsFile)
	if err != nil {
		return err
	}
	for _, w := range sim.Warnings(pcfg) {
		logger.Warnf("%s: %s", paramsFile, w)
	}
	if cfg.Trajectories > 0 {
		pcfg.Nc = &cfg.Trajectories
	}
	if cfg.Shape > 0 {
		pcfg.Shape = &cfg.Shape
	}
	params, err := qssa.NewParameters(pcfg)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	nm := qssa.NewNotificationManagerWithLogger(logger)
	defer func() {
		if err := nm.Close(); err != nil {
			logger.Warnf("closing notifiers: %v", err)
		}
	}()

	if cfg.WebhookURL != "" {
		if err := nm.RegisterNotifier(notifiers.NewWebhookNotifier("webhook", cfg.WebhookURL)); err != nil {
			return err
		}
	}
	if cfg.Listen != "" {
		progress := notifiers.NewWebSocketNotifier("progress")
		if err := nm.RegisterNotifier(progress); err != nil {
			return err
		}
		obs, err := startObserver(cfg.Listen, recorder, progress, logger)
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Listen, err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = obs.Shutdown(shutdownCtx)
		}()
	}

	opts := []qssa.Option{
		qssa.WithLogger(logger),
		qssa.WithMetrics(recorder),
		qssa.WithNotifications(nm),
		qssa.WithWorkers(cfg.Workers),
		qssa.WithDegeneratePolicy(cfg.Policy),
	}
	if cfg.Seeded {
		opts = append(opts, qssa.WithSeed(cfg.Seed))
	}
	ens := qssa.NewEnsemble(params, opts...)

	start := time.Now()
	recorder.EnsembleStarted()
	ds, runErr := ens.Run(ctx)
	recorder.EnsembleFinished()
	elapsed := time.Since(start)
	if ds == nil {
		return runErr
	}

	artifacts, err := writeArtifacts(ctx, ds, cfg, logger)
	if err != nil {
		return err
	}

	report := buildReport(ds, elapsed, artifacts)
	if jsonOut {
		if err := json.NewEncoder(out).Encode(report); err != nil {
			return err
		}
	} else {
		printReport(out, report)
	}
	if runErr != nil {
		return fmt.Errorf("run %s interrupted: %w", ds.RunID, runErr)
	}
	return nil
}

// writeArtifacts writes every requested output and returns a name -> location map.
func writeArtifacts(ctx context.Context, ds *qssa.Dataset, cfg RunConfig, logger *zap.SugaredLogger) (map[string]string, error) {
	artifacts := make(map[string]string)
	var files []string

	if cfg.OutCSV != "" {
		if err := export.WriteCSVFile(cfg.OutCSV, ds); err != nil {
			return nil, err
		}
		artifacts["csv"] = cfg.OutCSV
		files = append(files, cfg.OutCSV)
	}
	if cfg.OutJSON != "" {
		if err := export.WriteJSONFile(cfg.OutJSON, ds); err != nil {
			return nil, err
		}
		artifacts["json"] = cfg.OutJSON
		files = append(files, cfg.OutJSON)
	}
	if cfg.OutChart != "" {
		summary, err := export.Summarize(ds)
		if err != nil {
			logger.Warnf("skipping chart: %v", err)
		} else if err := export.RenderMeansChartFile(cfg.OutChart, summary); err != nil {
			return nil, err
		} else {
			artifacts["chart"] = cfg.OutChart
			files = append(files, cfg.OutChart)
		}
	}

	if cfg.SQLitePath != "" {
		if err := saveTo(ctx, ds, func() (*export.SQLStore, error) { return export.OpenSQLite(ctx, cfg.SQLitePath) }); err != nil {
			return nil, err
		}
		artifacts["sqlite"] = cfg.SQLitePath
	}
	if cfg.PostgresDSN != "" {
		if err := saveTo(ctx, ds, func() (*export.SQLStore, error) { return export.OpenPostgres(ctx, cfg.PostgresDSN) }); err != nil {
			return nil, err
		}
		artifacts["postgres"] = "runs/" + ds.RunID
	}

	if cfg.S3Bucket != "" && len(files) > 0 {
		up, err := export.NewS3Uploader(ctx, export.S3Config{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			key, err := up.UploadFile(ctx, ds.RunID, f)
			if err != nil {
				return nil, err
			}
			logger.Infof("uploaded s3://%s/%s", cfg.S3Bucket, key)
		}
		artifacts["s3"] = fmt.Sprintf("s3://%s/%s", cfg.S3Bucket, up.Key(ds.RunID, ""))
	}
	return artifacts, nil
}

func saveTo(ctx context.Context, ds *qssa.Dataset, open func() (*export.SQLStore, error)) error {
	store, err := open()
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveDataset(ctx, ds)
}

func buildReport(ds *qssa.Dataset, elapsed time.Duration, artifacts map[string]string) runReport {
	r := runReport{
		RunID:     ds.RunID,
		Seed:      ds.Seed,
		Statuses:  make(map[string]int),
		Elapsed:   elapsed.Round(time.Millisecond).String(),
		Artifacts: artifacts,
	}
	for _, row := range ds.Rows {
		if row.Trajectory == nil {
			r.Statuses[string(qssa.StatusFailed)]++
			continue
		}
		r.Statuses[string(row.Trajectory.Status)]++
		r.Samples += row.Trajectory.Len()
	}
	return r
}

func printReport(w io.Writer, r runReport) {
	total := 0
	for _, n := range r.Statuses {
		total += n
	}
	fmt.Fprintf(w, "run %s (seed %d)\n", r.RunID, r.Seed)
	fmt.Fprintf(w, "  trajectories: %s (%d completed, %d halted, %d failed)\n",
		humanize.Comma(int64(total)),
		r.Statuses[string(qssa.StatusCompleted)],
		r.Statuses[string(qssa.StatusHalted)],
		r.Statuses[string(qssa.StatusFailed)])
	fmt.Fprintf(w, "  samples: %s in %s\n", humanize.Comma(int64(r.Samples)), r.Elapsed)
	for _, name := range []string{"csv", "json", "chart", "sqlite", "postgres", "s3"} {
		if loc, ok := r.Artifacts[name]; ok {
			fmt.Fprintf(w, "  %s: %s\n", name, loc)
		}
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ccb-bridge/internal/config"
	"ccb-bridge/internal/domain"
	"ccb-bridge/internal/enroll"
	"ccb-bridge/internal/export"
	"ccb-bridge/internal/logging"
	"ccb-bridge/internal/metrics"
	"ccb-bridge/internal/providers"
	"ccb-bridge/internal/providers/ccb"
	"ccb-bridge/internal/providers/memdir"
	"ccb-bridge/internal/roster"
	"ccb-bridge/internal/sftpclient"
)

type options struct {
	in          string
	out         string
	queue       string
	note        string
	dryRun      bool
	resolveOnly bool
	uploadSFTP  bool
	configPath  string
	metricsFile string
	workers     int
}

func main() {
	var o options
	flag.StringVar(&o.in, "in", "", "roster csv path (required)")
	flag.StringVar(&o.out, "out", "enrollment_results.csv", "output csv path")
	flag.StringVar(&o.queue, "queue", "", "default process queue id for rows without queue_id")
	flag.StringVar(&o.note, "note", "", "default queue note for rows without note")
	flag.BoolVar(&o.dryRun, "dry-run", false, "resolve against an in-memory directory; never call CCB")
	flag.BoolVar(&o.resolveOnly, "resolve-only", false, "find or create people but skip queue enrollment")
	flag.BoolVar(&o.uploadSFTP, "sftp", false, "upload the results CSV via SFTP")
	flag.StringVar(&o.configPath, "config", "", "optional YAML config file (env overrides it)")
	flag.StringVar(&o.metricsFile, "metrics-file", "", "write prometheus textfile metrics here")
	flag.IntVar(&o.workers, "workers", 0, "parallel workers (0 = config WORKERS)")
	flag.Parse()

	if o.in == "" {
		log.Fatal("missing -in roster path")
	}

	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, closeLogs, err := logging.New(logging.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level})
	if err != nil {
		log.Fatal(err)
	}
	defer closeLogs()

	rootCtx, rootCancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer rootCancel()

	summary, err := run(rootCtx, o, cfg, logger)
	if err != nil {
		closeLogs()
		log.Fatal(err)
	}
	log.Printf(
		"wrote %d outcomes to %s (enrolled=%d, resolved=%d, lookup_failed=%d, enroll_failed=%d)",
		summary.Enrolled+summary.Resolved+summary.Failed(),
		o.out,
		summary.Enrolled,
		summary.Resolved,
		summary.LookupFailed,
		summary.EnrollFailed,
	)
}

func run(ctx context.Context, o options, cfg config.Config, logger *slog.Logger) (enroll.Summary, error) {
	applicants, err := readRoster(o)
	if err != nil {
		return enroll.Summary{}, err
	}

	m := metrics.New()
	dir, err := newDirectory(o, cfg, logger, m)
	if err != nil {
		return enroll.Summary{}, err
	}

	workers := o.workers
	if workers <= 0 {
		workers = cfg.Workers
	}
	r := &enroll.Runner{Dir: dir, Logger: logger, Workers: workers, ResolveOnly: o.resolveOnly}
	outcomes := r.Run(ctx, applicants)

	if err := writeOutcomes(o.out, outcomes); err != nil {
		return enroll.Summary{}, err
	}

	if o.metricsFile != "" {
		if err := m.WriteTextfile(o.metricsFile); err != nil {
			logger.Warn("could not write metrics textfile", "path", o.metricsFile, "error", err)
		}
	}

	if o.uploadSFTP {
		upCtx, upCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer upCancel()

		remoteName := filepath.Base(o.out)
		if err := sftpclient.UploadFile(upCtx, cfg.SFTP, o.out, remoteName); err != nil {
			return enroll.Summary{}, err
		}
		logger.Info("uploaded results", "host", cfg.SFTP.Host, "port", cfg.SFTP.Port, "path", cfg.SFTP.RemoteDir+"/"+remoteName)
	}

	return enroll.Summarize(outcomes), nil
}

func readRoster(o options) ([]domain.Applicant, error) {
	f, err := os.Open(o.in)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return roster.Read(f, domain.Applicant{QueueID: o.queue, Note: o.note})
}

func newDirectory(o options, cfg config.Config, logger *slog.Logger, m *metrics.Metrics) (providers.Directory, error) {
	if o.dryRun {
		d := memdir.New()
		d.Logger = logger
		if cfg.CCB.DefaultCampusID != "" {
			d.DefaultCampusID = cfg.CCB.DefaultCampusID
		}
		return d, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return ccb.NewFromConfig(cfg.CCB, logger, m), nil
}

func writeOutcomes(path string, outcomes []domain.Outcome) (err error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return export.WriteOutcomesCSV(f, outcomes)
}

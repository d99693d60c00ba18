// Package installer runs the full provisioning pipeline around the
// reconciler: keep-alive, source sync, reconciliation, journaling and the
// optional restore after failures.
package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/dotrig/dotrig/pkg/config"
	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/filesystem"
	"github.com/dotrig/dotrig/pkg/journal"
	"github.com/dotrig/dotrig/pkg/keepalive"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/paths"
	"github.com/dotrig/dotrig/pkg/reconcile"
	"github.com/dotrig/dotrig/pkg/sources"
	"github.com/dotrig/dotrig/pkg/types"
	"github.com/dotrig/dotrig/pkg/ui/confirmations"
)

// Syncer brings the managed source up to date
type Syncer interface {
	Sync(ctx context.Context, repo sources.Repo) (*sources.SyncResult, error)
}

// Options configure a Run
type Options struct {
	Config *config.Config

	// JournalPath is the bbolt journal; empty disables journaling
	JournalPath string

	// Confirmer decides whether to restore after failures. nil never restores.
	Confirmer confirmations.Confirmer

	FS            types.FS
	Syncer        Syncer
	KeepAliveTask keepalive.Task
	SkipSync      bool
	Now           func() time.Time
}

// Result aggregates the report of every phase that ran
type Result struct {
	Sync            *sources.SyncResult    `json:"sync,omitempty" yaml:"sync,omitempty"`
	Reconcile       *types.ReconcileReport `json:"reconcile,omitempty" yaml:"reconcile,omitempty"`
	Restore         *types.RestoreReport   `json:"restore,omitempty" yaml:"restore,omitempty"`
	RestoreDeclined bool                   `json:"restoreDeclined" yaml:"restoreDeclined"`
	KeepAliveRuns   int64                  `json:"keepAliveRuns" yaml:"keepAliveRuns"`
}

// Failed reports whether any target failed or a restore was cut short
func (r *Result) Failed() bool {
	if r.Reconcile != nil && r.Reconcile.HasFailures() {
		return true
	}
	return r.Restore != nil && r.Restore.Aborted
}

func (o *Options) defaults() {
	if o.FS == nil {
		o.FS = filesystem.NewOS()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Syncer == nil {
		o.Syncer = sources.NewSyncer(RetryPolicy(o.Config))
	}
}

// RetryPolicy maps the retry section of cfg onto a sources.RetryPolicy
func RetryPolicy(cfg *config.Config) sources.RetryPolicy {
	policy := sources.DefaultRetryPolicy()
	if cfg.Retry.Attempts > 0 {
		policy.Attempts = cfg.Retry.Attempts
	}
	if cfg.Retry.Delay > 0 {
		policy.Delay = cfg.Retry.Delay
	}
	if cfg.Retry.MaxDelay > 0 {
		policy.MaxDelay = cfg.Retry.MaxDelay
	}
	return policy
}

// Run executes the pipeline. Each phase hands its report to the next; the
// returned Result holds whatever ran, also when an error stops the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New(errors.ErrInvalidInput, "installer needs a configuration")
	}
	opts.defaults()
	cfg := opts.Config
	logger := logging.GetLogger("installer")
	result := &Result{}

	if cfg.KeepAlive.Enabled {
		ka := startKeepAlive(ctx, cfg, opts.KeepAliveTask)
		defer func() {
			if ka == nil {
				return
			}
			if err := ka.Stop(); err != nil {
				logger.Warn().Err(err).Msg("Keep-alive did not stop cleanly")
			}
			result.KeepAliveRuns = ka.Runs()
		}()
	}

	if !opts.SkipSync {
		syncResult, err := opts.Syncer.Sync(ctx, sources.Repo{
			URL:    cfg.Source.URL,
			Branch: cfg.Source.Branch,
			Path:   cfg.Source.Checkout,
		})
		result.Sync = syncResult
		if err != nil {
			return result, err
		}
	}

	backupRoot := paths.BackupRoot(opts.FS, cfg.Paths.Dest, cfg.Paths.Backup, opts.Now())
	report, err := reconcile.New(opts.FS).
		WithClock(opts.Now).
		Reconcile(cfg.Targets, cfg.SourceRoot(), cfg.Paths.Dest, backupRoot)
	result.Reconcile = report

	// Backups made before a fatal error still need to be findable
	if report != nil && len(report.Backups) > 0 && opts.JournalPath != "" {
		if jerr := recordRun(opts.JournalPath, report); jerr != nil {
			logger.Warn().Err(jerr).Msg("Could not record backup run in journal")
		}
	}
	if err != nil {
		return result, err
	}

	if !report.HasFailures() || len(report.Backups) == 0 {
		return result, nil
	}
	if !cfg.Restore.Prompt || opts.Confirmer == nil {
		logger.Info().Str("backup", report.BackupRoot).Msg("Targets failed; backup kept for manual restore")
		return result, nil
	}

	question := fmt.Sprintf("%d target(s) failed. Restore the backup from %s?", report.Counts.Failed, report.BackupRoot)
	restore, err := opts.Confirmer.Confirm(question, false)
	if err != nil {
		return result, errors.Wrap(err, errors.ErrInternal, "failed to read restore decision")
	}
	if !restore {
		result.RestoreDeclined = true
		logger.Info().Str("backup", report.BackupRoot).Msg("Restore declined")
		return result, nil
	}

	result.Restore, err = Restore(RestoreOptions{
		FS:          opts.FS,
		JournalPath: opts.JournalPath,
		BackupRoot:  report.BackupRoot,
		DestRoot:    cfg.Paths.Dest,
		Now:         opts.Now,
	})
	return result, err
}

func startKeepAlive(ctx context.Context, cfg *config.Config, task keepalive.Task) *keepalive.KeepAlive {
	logger := logging.GetLogger("installer")

	if task == nil {
		var err error
		if task, err = keepalive.CommandTask(cfg.KeepAlive.Command); err != nil {
			logger.Warn().Err(err).Msg("Keep-alive disabled")
			return nil
		}
	}

	ka, err := keepalive.Start(ctx, "privilege-refresh", cfg.KeepAlive.Interval, task)
	if err != nil {
		logger.Warn().Err(err).Msg("Keep-alive disabled")
		return nil
	}
	return ka
}

func recordRun(journalPath string, report *types.ReconcileReport) error {
	j, err := journal.Open(journalPath)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()
	return j.Record(journal.FromReport(report))
}

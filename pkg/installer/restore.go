package installer

import (
	"fmt"
	"time"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/filesystem"
	"github.com/dotrig/dotrig/pkg/journal"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/paths"
	"github.com/dotrig/dotrig/pkg/reconcile"
	"github.com/dotrig/dotrig/pkg/types"
	"github.com/dotrig/dotrig/pkg/ui/confirmations"
)

// RestoreOptions configure Restore
type RestoreOptions struct {
	FS          types.FS
	JournalPath string

	// BackupRoot to restore; empty means the latest unrestored run in the
	// journal
	BackupRoot string
	// DestRoot to restore into; empty means the run's recorded destination,
	// then DefaultDestRoot
	DestRoot        string
	DefaultDestRoot string

	// Confirmer, when set, is asked before anything moves
	Confirmer confirmations.Confirmer

	Now func() time.Time
}

// Restore moves a backup root back into place and marks its journal entry
// restored once every entry made it back. A declined confirmation returns a
// nil report and no error.
func Restore(opts RestoreOptions) (*types.RestoreReport, error) {
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := logging.GetLogger("installer")

	var j *journal.Journal
	if opts.JournalPath != "" {
		var err error
		if j, err = journal.Open(opts.JournalPath); err != nil {
			if opts.BackupRoot == "" {
				return nil, err
			}
			logger.Warn().Err(err).Msg("Journal unavailable, restoring without it")
		} else {
			defer func() { _ = j.Close() }()
		}
	}

	var run *journal.Run
	if opts.BackupRoot == "" {
		if j == nil {
			return nil, errors.New(errors.ErrInvalidInput, "no backup root given and no journal to look it up in")
		}
		latest, err := j.Latest()
		if err != nil {
			return nil, err
		}
		run = latest
		opts.BackupRoot = latest.BackupRoot
	} else if j != nil {
		backupRoot, err := paths.Normalize(opts.BackupRoot)
		if err != nil {
			return nil, err
		}
		opts.BackupRoot = backupRoot
		if found, err := j.FindByBackupRoot(backupRoot); err == nil {
			run = found
		}
	}

	if opts.DestRoot == "" && run != nil {
		opts.DestRoot = run.DestRoot
	}
	if opts.DestRoot == "" {
		opts.DestRoot = opts.DefaultDestRoot
	}
	if opts.DestRoot == "" {
		return nil, errors.Newf(errors.ErrInvalidInput, "destination root unknown for %s", opts.BackupRoot)
	}

	if opts.Confirmer != nil {
		ok, err := opts.Confirmer.Confirm(fmt.Sprintf("Restore %s into %s?", opts.BackupRoot, opts.DestRoot), false)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to read restore decision")
		}
		if !ok {
			logger.Info().Str("backup", opts.BackupRoot).Msg("Restore declined")
			return nil, nil
		}
	}
	report, err := reconcile.New(opts.FS).Restore(opts.BackupRoot, opts.DestRoot)
	if err != nil {
		return nil, err
	}

	if run != nil && !report.Aborted {
		if err := j.MarkRestored(run.ID, opts.Now()); err != nil {
			logger.Warn().Err(err).Str("run", run.ID).Msg("Could not mark run restored")
		}
	}
	return report, nil
}

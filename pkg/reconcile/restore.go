package reconcile

import (
	"os"
	"path/filepath"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/paths"
	"github.com/dotrig/dotrig/pkg/types"
)

// Restore moves every entry of backupRoot back into destRoot, replacing
// whatever currently occupies each destination. Entries are processed in
// name order. After the first failed move the rest are left in place and
// reported as pending. An emptied backup root is removed.
func (r *Reconciler) Restore(backupRoot, destRoot string) (*types.RestoreReport, error) {
	done := logging.LogOperationStart(r.logger, "restore")
	defer done()

	backupRoot, err := paths.Normalize(backupRoot)
	if err != nil {
		return nil, err
	}
	destRoot, err = paths.Normalize(destRoot)
	if err != nil {
		return nil, err
	}

	info, err := r.fs.Stat(backupRoot)
	switch {
	case os.IsNotExist(err):
		return nil, errors.Newf(errors.ErrBackupRootMissing, "backup root %s does not exist", backupRoot)
	case err != nil:
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot access backup root %s", backupRoot)
	case !info.IsDir():
		return nil, errors.Newf(errors.ErrBackupRootMissing, "backup root %s is not a directory", backupRoot)
	}

	entries, err := r.fs.ReadDir(backupRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read backup root %s", backupRoot)
	}
	if len(entries) == 0 {
		return nil, errors.Newf(errors.ErrBackupRootEmpty, "backup root %s is empty", backupRoot)
	}

	if err := r.fs.MkdirAll(destRoot, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDestRootRead, "cannot create destination root %s", destRoot)
	}

	report := &types.RestoreReport{BackupRoot: backupRoot, DestRoot: destRoot}
	r.logger.Info().
		Str("backup", backupRoot).
		Str("dest", destRoot).
		Int("entries", len(entries)).
		Msg("Restoring backup")

	// ReadDir returns entries sorted by name
	for _, entry := range entries {
		e := types.RestoreEntry{
			Name: entry.Name(),
			From: filepath.Join(backupRoot, entry.Name()),
			To:   filepath.Join(destRoot, entry.Name()),
		}

		if report.Aborted {
			e.Status = types.RestorePending
			report.Add(e)
			continue
		}

		if err := r.restoreEntry(&e); err != nil {
			e.Status = types.RestoreFailed
			e.Err = err
			e.Code = errors.GetErrorCode(err)
			e.Error = err.Error()
			report.Aborted = true
			r.logger.Error().Err(err).Str("entry", e.Name).Msg("Restore failed, stopping")
		} else {
			e.Status = types.RestoreRestored
			r.logger.Info().
				Str("entry", e.Name).
				Stringer("replaced", e.Replaced).
				Msg("Restored")
		}
		report.Add(e)
	}

	if !report.Aborted {
		if err := r.fs.Remove(backupRoot); err != nil {
			r.logger.Warn().Err(err).Str("backup", backupRoot).Msg("Could not remove backup root")
		} else {
			report.RootRemoved = true
		}
	}

	r.logger.Info().Str("backup", backupRoot).Msg("Restore finished: " + report.Summary())
	return report, nil
}

func (r *Reconciler) restoreEntry(e *types.RestoreEntry) error {
	state, _, err := r.inspectDest(e.To)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRestoreMoveFailed, "cannot inspect %s", e.To)
	}
	e.Replaced = state

	if state != types.Absent {
		if err := r.fs.RemoveAll(e.To); err != nil {
			return errors.Wrapf(err, errors.ErrRestoreMoveFailed, "cannot clear %s", e.To)
		}
	}
	if err := r.move(e.From, e.To); err != nil {
		return errors.Wrapf(err, errors.ErrRestoreMoveFailed, "cannot move %s to %s", e.From, e.To)
	}
	return nil
}

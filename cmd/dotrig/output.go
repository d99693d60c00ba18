package dotrig

import (
	"fmt"
	"strings"

	"github.com/dotrig/dotrig/pkg/installer"
	"github.com/dotrig/dotrig/pkg/sources"
	"github.com/dotrig/dotrig/pkg/style"
)

// ErrTargetsFailed is returned when a run finished but some targets did not
// link; main exits 1 without printing help.
type ErrTargetsFailed struct {
	Failed int
}

func (e *ErrTargetsFailed) Error() string {
	return fmt.Sprintf(MsgErrTargetsFailed, e.Failed)
}

func resultError(result *installer.Result) error {
	if result.Reconcile != nil && result.Reconcile.HasFailures() {
		return &ErrTargetsFailed{Failed: result.Reconcile.Counts.Failed}
	}
	if result.Restore != nil && result.Restore.Aborted {
		return fmt.Errorf(MsgErrRestoreFailed, result.Restore.Counts.Failed+result.Restore.Counts.Pending, result.Restore.BackupRoot)
	}
	return nil
}

func renderInstall(result *installer.Result) string {
	var sections []string

	if result.Sync != nil {
		line := fmt.Sprintf("%s source %s", style.InfoIndicator(), result.Sync.Action)
		if result.Sync.Action != sources.SyncSkipped {
			line += style.MutedStyle.Render(fmt.Sprintf(" %s (%s)", result.Sync.Path, shortHash(result.Sync.Head)))
		}
		sections = append(sections, line)
	}
	if result.Reconcile != nil {
		sections = append(sections, style.RenderReconcile(result.Reconcile))
	}
	if result.RestoreDeclined {
		sections = append(sections, fmt.Sprintf("%s backup kept at %s", style.WarningIndicator(), result.Reconcile.BackupRoot))
	}
	if result.Restore != nil {
		sections = append(sections, style.RenderRestore(result.Restore))
	}
	return strings.Join(sections, "\n\n")
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

package reconcile

import (
	"github.com/dotrig/dotrig/pkg/types"
)

// Inspect reports the current state of each target and the action a
// reconciliation would take, without changing anything.
func (r *Reconciler) Inspect(names []string, sourceRoot, destRoot string) ([]types.TargetStatus, error) {
	targets, err := ResolveTargets(names, sourceRoot, destRoot)
	if err != nil {
		return nil, err
	}

	statuses := make([]types.TargetStatus, 0, len(targets))
	for _, t := range targets {
		statuses = append(statuses, r.inspectTarget(t))
	}
	return statuses, nil
}

func (r *Reconciler) inspectTarget(t types.ConfigTarget) types.TargetStatus {
	status := types.TargetStatus{ConfigTarget: t, Action: types.ActionSkip}

	state, link, err := r.inspectDest(t.Dest)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.State = state
	status.LinkTarget = link

	exists, err := r.sourceExists(t.Source)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.SourceExists = exists
	if !exists {
		return status
	}

	switch state {
	case types.Absent:
		status.Action = types.ActionLink
	case types.SymlinkEntry:
		if r.pointsAt(t.Dest, link, t.Source) {
			status.Action = types.ActionNone
		} else {
			status.Action = types.ActionReplaceLink
		}
	case types.RegularEntry:
		status.Action = types.ActionBackupLink
	}
	return status
}

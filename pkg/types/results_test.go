// pkg/types/results_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test report aggregation and state naming

package types_test

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileReport_Add(t *testing.T) {
	var report types.ReconcileReport

	report.Add(types.Outcome{Target: "a", Prior: types.RegularEntry, BackedUp: true, BackupPath: "/b/a", Linked: true, Status: types.StatusLinked})
	report.Add(types.Outcome{Target: "b", Status: types.StatusSkippedNoSource})
	report.Add(types.Outcome{Target: "c", Prior: types.SymlinkEntry, Discarded: true, Linked: true, Status: types.StatusLinked})
	report.Add(types.Outcome{Target: "d", Prior: types.SymlinkEntry, Status: types.StatusAlreadyLinked})

	reverted := types.Outcome{Target: "e", Prior: types.RegularEntry, BackedUp: true, Reverted: true, BackupPath: "/b/e"}
	reverted.Fail(errors.New(errors.ErrSymlinkCreateFailed, "link failed"))
	report.Add(reverted)

	assert.Equal(t, types.ReconcileCounts{
		Linked:           2,
		AlreadyLinked:    1,
		SkippedNoSource:  1,
		BackedUp:         1,
		DiscardedSymlink: 1,
		Failed:           1,
	}, report.Counts)
	assert.Equal(t, map[string]string{"a": "/b/a"}, report.Backups, "reverted backups are not recorded")
	assert.True(t, report.HasFailures())
	assert.Equal(t, "linked 2, already linked 1, skipped 1, backed up 1, discarded 1, failed 1", report.Summary())
}

func TestOutcome_Fail(t *testing.T) {
	var o types.Outcome
	o.Fail(errors.Wrap(stderrors.New("disk full"), errors.ErrBackupWriteFailed, "copy failed"))

	assert.Equal(t, types.StatusFailed, o.Status)
	assert.Equal(t, errors.ErrBackupWriteFailed, o.Code)
	assert.Contains(t, o.Error, "disk full")
}

func TestRestoreReport_Add(t *testing.T) {
	var report types.RestoreReport
	report.Add(types.RestoreEntry{Name: "a", Status: types.RestoreRestored})
	report.Add(types.RestoreEntry{Name: "b", Status: types.RestoreFailed})
	report.Add(types.RestoreEntry{Name: "c", Status: types.RestorePending})

	assert.Equal(t, types.RestoreCounts{Restored: 1, Failed: 1, Pending: 1}, report.Counts)
	assert.Equal(t, "restored 1, failed 1, pending 1", report.Summary())
}

func TestTargetState_JSON(t *testing.T) {
	data, err := json.Marshal(types.Outcome{Target: "kitty", Prior: types.SymlinkEntry, Status: types.StatusLinked})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"prior":"symlink"`)

	var back types.Outcome
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, types.SymlinkEntry, back.Prior)

	var bad types.TargetState
	assert.Error(t, bad.UnmarshalText([]byte("socket")))
	assert.Equal(t, "TargetState(9)", types.TargetState(9).String())
}

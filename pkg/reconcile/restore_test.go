// pkg/reconcile/restore_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dirs), FaultFS
// PURPOSE: Test restoring a backup root over the destination

package reconcile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/testutil"
	"github.com/dotrig/dotrig/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestore_RoundTripAfterReconcile(t *testing.T) {
	env := testutil.NewTestEnvironment(t).
		WithSource("a", map[string]string{"a.conf": "managed"}).
		WithDestDir("a", map[string]string{"x.txt": "mine"})
	r := quiet(env.FS)

	_, err := r.Reconcile([]string{"a", "b"}, env.SourceRoot, env.DestRoot, env.BackupRoot)
	require.NoError(t, err)
	testutil.AssertSymlinkTo(t, env.DestPath("a"), env.SourcePath("a"))

	report, err := r.Restore(env.BackupRoot, env.DestRoot)
	require.NoError(t, err)

	testutil.AssertRegularDir(t, env.DestPath("a"))
	testutil.AssertTree(t, env.DestPath("a"), map[string]string{"x.txt": "mine"})
	testutil.AssertNotExists(t, env.BackupRoot)
	testutil.AssertTree(t, env.SourcePath("a"), map[string]string{"a.conf": "managed"})

	require.Len(t, report.Entries, 1)
	assert.Equal(t, types.RestoreRestored, report.Entries[0].Status)
	assert.Equal(t, types.SymlinkEntry, report.Entries[0].Replaced)
	assert.Equal(t, types.RestoreCounts{Restored: 1}, report.Counts)
	assert.True(t, report.RootRemoved)
	assert.False(t, report.Aborted)
}

func TestRestore_OverwritesAnyDestinationType(t *testing.T) {
	env := testutil.NewTestEnvironment(t).
		WithDestFile("dir-over-file", "stale").
		WithDestDir("dir-over-dir", map[string]string{"new.txt": "new"})
	testutil.WriteTree(t, env.BackupRoot, map[string]string{
		"dir-over-file/old.txt": "old1",
		"dir-over-dir/old.txt":  "old2",
		"into-absent/old.txt":   "old3",
	})

	report, err := quiet(env.FS).Restore(env.BackupRoot, env.DestRoot)
	require.NoError(t, err)

	testutil.AssertTree(t, env.DestPath("dir-over-file"), map[string]string{"old.txt": "old1"})
	testutil.AssertTree(t, env.DestPath("dir-over-dir"), map[string]string{"old.txt": "old2"})
	testutil.AssertTree(t, env.DestPath("into-absent"), map[string]string{"old.txt": "old3"})
	assert.Equal(t, types.RestoreCounts{Restored: 3}, report.Counts)

	names := []string{}
	for _, e := range report.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"dir-over-dir", "dir-over-file", "into-absent"}, names, "entries are processed in name order")
}

func TestRestore_MoveFailureStopsAndLeavesRemainder(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	testutil.WriteTree(t, env.BackupRoot, map[string]string{
		"a/a.txt": "a",
		"b/b.txt": "b",
		"c/c.txt": "c",
	})
	fsys := testutil.NewFaultFS(env.FS).Fail(testutil.OpRename, env.DestPath("b"))

	report, err := quiet(fsys).Restore(env.BackupRoot, env.DestRoot)
	require.NoError(t, err)

	assert.True(t, report.Aborted)
	assert.False(t, report.RootRemoved)
	assert.Equal(t, types.RestoreCounts{Restored: 1, Failed: 1, Pending: 1}, report.Counts)
	assert.Equal(t, errors.ErrRestoreMoveFailed, report.Entries[1].Code)
	assert.Equal(t, types.RestorePending, report.Entries[2].Status)

	testutil.AssertTree(t, env.DestPath("a"), map[string]string{"a.txt": "a"})
	testutil.AssertTree(t, env.BackupRoot, map[string]string{"b/b.txt": "b", "c/c.txt": "c"})
	testutil.AssertNotExists(t, env.DestPath("c"))
}

func TestRestore_MissingBackupRoot(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := quiet(env.FS).Restore(env.BackupRoot, env.DestRoot)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupRootMissing))
}

func TestRestore_BackupRootNotADirectory(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	require.NoError(t, os.WriteFile(env.BackupRoot, []byte("nope"), 0644))

	_, err := quiet(env.FS).Restore(env.BackupRoot, env.DestRoot)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupRootMissing))
}

func TestRestore_EmptyBackupRoot(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	require.NoError(t, os.MkdirAll(env.BackupRoot, 0755))

	_, err := quiet(env.FS).Restore(env.BackupRoot, env.DestRoot)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupRootEmpty))
	testutil.AssertRegularDir(t, env.BackupRoot)
}

func TestRestore_PreservesFileEntries(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	require.NoError(t, os.MkdirAll(env.BackupRoot, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(env.BackupRoot, "mimeapps.list"), []byte("[Default]"), 0644))

	_, err := quiet(env.FS).Restore(env.BackupRoot, env.DestRoot)
	require.NoError(t, err)
	testutil.AssertFileContent(t, env.DestPath("mimeapps.list"), "[Default]")
}

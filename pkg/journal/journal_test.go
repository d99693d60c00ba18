// pkg/journal/journal_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: bbolt database in a temp dir
// PURPOSE: Test recording, listing and restoring backup runs

package journal_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/journal"
	"github.com/dotrig/dotrig/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openJournal(t *testing.T) (*journal.Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "journal.db")
	j, err := journal.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j, path
}

func run(id string, at time.Time, records map[string]string) journal.Run {
	return journal.Run{
		ID:         id,
		StartedAt:  at,
		DestRoot:   "/home/u/.config",
		BackupRoot: "/home/u/.config-backup-" + id,
		Records:    records,
	}
}

func TestJournal_RecordAndGet(t *testing.T) {
	j, _ := openJournal(t)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, j.Record(run("r1", at, map[string]string{"hypr": "/b/hypr"})))

	got, err := j.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.config-backup-r1", got.BackupRoot)
	assert.Equal(t, map[string]string{"hypr": "/b/hypr"}, got.Records)
	assert.True(t, at.Equal(got.StartedAt))
	assert.False(t, got.Restored)
}

func TestJournal_RecordRejectsDuplicateAndEmptyID(t *testing.T) {
	j, _ := openJournal(t)
	at := time.Now()

	require.NoError(t, j.Record(run("r1", at, nil)))
	assert.True(t, errors.IsErrorCode(j.Record(run("r1", at.Add(time.Second), nil)), errors.ErrJournal))
	assert.True(t, errors.IsErrorCode(j.Record(run("", at, nil)), errors.ErrInvalidInput))
}

func TestJournal_ListNewestFirst(t *testing.T) {
	j, _ := openJournal(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, j.Record(run("middle", base.Add(time.Hour), nil)))
	require.NoError(t, j.Record(run("old", base, nil)))
	require.NoError(t, j.Record(run("new", base.Add(2*time.Hour), nil)))

	runs, err := j.List()
	require.NoError(t, err)

	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"new", "middle", "old"}, ids)
}

func TestJournal_LatestSkipsRestoredAndEmptyRuns(t *testing.T) {
	j, _ := openJournal(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, j.Record(run("a", base, map[string]string{"kitty": "/b/kitty"})))
	require.NoError(t, j.Record(run("b", base.Add(time.Hour), map[string]string{"hypr": "/b/hypr"})))
	require.NoError(t, j.Record(run("c", base.Add(2*time.Hour), nil)))

	latest, err := j.Latest()
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)

	restoredAt := base.Add(3 * time.Hour)
	require.NoError(t, j.MarkRestored("b", restoredAt))

	latest, err = j.Latest()
	require.NoError(t, err)
	assert.Equal(t, "a", latest.ID)

	b, err := j.Get("b")
	require.NoError(t, err)
	assert.True(t, b.Restored)
	require.NotNil(t, b.RestoredAt)
	assert.True(t, restoredAt.Equal(*b.RestoredAt))

	require.NoError(t, j.MarkRestored("a", restoredAt))
	_, err = j.Latest()
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestJournal_NotFound(t *testing.T) {
	j, _ := openJournal(t)

	_, err := j.Get("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.True(t, errors.IsErrorCode(j.MarkRestored("missing", time.Now()), errors.ErrNotFound))
	_, err = j.FindByBackupRoot("/nowhere")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestJournal_PersistsAcrossReopen(t *testing.T) {
	j, path := openJournal(t)
	require.NoError(t, j.Record(run("r1", time.Now(), map[string]string{"a": "/b/a"})))
	require.NoError(t, j.Close())

	reopened, err := journal.Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	found, err := reopened.FindByBackupRoot("/home/u/.config-backup-r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", found.ID)
}

func TestFromReport(t *testing.T) {
	report := &types.ReconcileReport{
		RunID:      "id",
		StartedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		SourceRoot: "/src",
		DestRoot:   "/dst",
		BackupRoot: "/dst-backup",
	}
	report.Add(types.Outcome{Target: "a", Status: types.StatusLinked, BackedUp: true, BackupPath: "/dst-backup/a"})

	r := journal.FromReport(report)
	assert.Equal(t, "id", r.ID)
	assert.Equal(t, map[string]string{"a": "/dst-backup/a"}, r.Records)
	assert.Equal(t, 1, r.Counts.BackedUp)
}

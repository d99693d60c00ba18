// pkg/sources/sources_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: go-git repositories in temp dirs
// PURPOSE: Test cloning, pulling and retry behavior of source sync

package sources_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/sources"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type remote struct {
	bare   string
	seed   *git.Repository
	path   string
	branch string
}

// newRemote creates a bare repository seeded with one commit
func newRemote(t *testing.T) *remote {
	t.Helper()
	tmp := t.TempDir()
	r := &remote{bare: filepath.Join(tmp, "remote.git"), path: filepath.Join(tmp, "seed")}

	_, err := git.PlainInit(r.bare, true)
	require.NoError(t, err)
	r.seed, err = git.PlainInit(r.path, false)
	require.NoError(t, err)
	_, err = r.seed.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{r.bare}})
	require.NoError(t, err)

	r.commit(t, "Configs/.config/hypr/hyprland.conf", "monitor=,auto")
	head, err := r.seed.Head()
	require.NoError(t, err)
	r.branch = head.Name().Short()
	return r
}

func (r *remote) commit(t *testing.T, rel, content string) string {
	t.Helper()
	full := filepath.Join(r.path, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))

	wt, err := r.seed.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(rel)
	require.NoError(t, err)
	hash, err := wt.Commit("update "+rel, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	require.NoError(t, r.seed.Push(&git.PushOptions{RemoteName: "origin"}))
	return hash.String()
}

func fastPolicy() sources.RetryPolicy {
	return sources.RetryPolicy{Attempts: 3, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func newSyncer() *sources.Syncer {
	return sources.NewSyncer(fastPolicy()).WithLogger(zerolog.Nop())
}

func TestSync_ClonesThenReportsUpToDate(t *testing.T) {
	rem := newRemote(t)
	checkout := filepath.Join(t.TempDir(), "data", "dotrig", "source")
	repo := sources.Repo{URL: rem.bare, Branch: rem.branch, Path: checkout}

	result, err := newSyncer().Sync(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, sources.SyncCloned, result.Action)
	assert.Equal(t, 1, result.Attempts)
	assert.Len(t, result.Head, 40)

	data, err := os.ReadFile(filepath.Join(checkout, "Configs", ".config", "hypr", "hyprland.conf"))
	require.NoError(t, err)
	assert.Equal(t, "monitor=,auto", string(data))

	again, err := newSyncer().Sync(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, sources.SyncUpToDate, again.Action)
	assert.Equal(t, result.Head, again.Head)
}

func TestSync_PullsNewCommits(t *testing.T) {
	rem := newRemote(t)
	checkout := filepath.Join(t.TempDir(), "source")
	repo := sources.Repo{URL: rem.bare, Branch: rem.branch, Path: checkout}

	_, err := newSyncer().Sync(context.Background(), repo)
	require.NoError(t, err)

	newHead := rem.commit(t, "Configs/.config/kitty/kitty.conf", "font_size 11")

	result, err := newSyncer().Sync(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, sources.SyncUpdated, result.Action)
	assert.Equal(t, newHead, result.Head)
	assert.FileExists(t, filepath.Join(checkout, "Configs", ".config", "kitty", "kitty.conf"))
}

func TestSync_EmptyURLSkips(t *testing.T) {
	result, err := newSyncer().Sync(context.Background(), sources.Repo{Path: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, sources.SyncSkipped, result.Action)
	assert.Zero(t, result.Attempts)
}

func TestSync_MissingRemoteFails(t *testing.T) {
	checkout := filepath.Join(t.TempDir(), "source")
	repo := sources.Repo{URL: filepath.Join(t.TempDir(), "nope.git"), Path: checkout}

	result, err := newSyncer().Sync(context.Background(), repo)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceSync))
	assert.GreaterOrEqual(t, result.Attempts, 1)
	assert.NoDirExists(t, checkout, "partial clone is cleaned up")
}

func TestSync_RefusesNonGitDirectory(t *testing.T) {
	rem := newRemote(t)
	checkout := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(checkout, "notes.txt"), []byte("mine"), 0644))

	_, err := newSyncer().Sync(context.Background(), sources.Repo{URL: rem.bare, Path: checkout})
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(checkout, "notes.txt"))
}

func TestSync_CancelledContext(t *testing.T) {
	rem := newRemote(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSyncer().Sync(ctx, sources.Repo{URL: rem.bare, Path: filepath.Join(t.TempDir(), "source")})
	assert.Error(t, err)
}

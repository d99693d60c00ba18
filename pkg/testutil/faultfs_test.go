package testutil

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dotrig/dotrig/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaultFS_FailTimes(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "x")
	fsys := NewFaultFS(filesystem.NewOS()).FailTimes(OpMkdir, target, 1)

	err := fsys.Mkdir(target, 0755)
	assert.True(t, errors.Is(err, ErrInjected))

	require.NoError(t, fsys.Mkdir(target, 0755), "second call should pass through")
	assert.Equal(t, []string{target, target}, fsys.Calls(OpMkdir))
}

func TestFaultFS_MatchesDestinationPath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	link := filepath.Join(dir, "link")
	require.NoError(t, filesystem.NewOS().MkdirAll(src, 0755))

	fsys := NewFaultFS(filesystem.NewOS()).Fail(OpSymlink, link)

	assert.True(t, errors.Is(fsys.Symlink(src, link), ErrInjected))
	assert.NoError(t, fsys.Symlink(src, filepath.Join(dir, "other")))
}

func TestTestEnvironment_Layout(t *testing.T) {
	env := NewTestEnvironment(t).
		WithSource("hypr", map[string]string{"hyprland.conf": "monitor=,auto"}).
		WithDestDir("kitty", map[string]string{"kitty.conf": "font_size 11"}).
		WithDestSymlink("waybar", "/nowhere")

	AssertTree(t, env.SourcePath("hypr"), map[string]string{"hyprland.conf": "monitor=,auto"})
	AssertRegularDir(t, env.DestPath("kitty"))
	AssertSymlinkTo(t, env.DestPath("waybar"), "/nowhere")
	AssertNotExists(t, env.BackupRoot)
}

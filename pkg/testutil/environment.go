// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate isolated reconciliation roots for tests

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dotrig/dotrig/pkg/filesystem"
	"github.com/dotrig/dotrig/pkg/types"
)

// TestEnvironment provides temp roots laid out like a real machine:
//
//	<tmp>/home/.config            DestRoot
//	<tmp>/home/.local/share       XDG data
//	<tmp>/home/.local/state       XDG state
//	<tmp>/source/Configs/.config  SourceRoot
type TestEnvironment struct {
	Root       string
	HomeDir    string
	SourceRoot string
	DestRoot   string
	BackupRoot string
	XDGData    string
	XDGState   string

	FS types.FS

	t *testing.T
}

// NewTestEnvironment creates the roots and points HOME and the XDG variables
// at them for the duration of the test.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	env := &TestEnvironment{
		Root:       root,
		HomeDir:    filepath.Join(root, "home"),
		SourceRoot: filepath.Join(root, "source", "Configs", ".config"),
		FS:         filesystem.NewOS(),
		t:          t,
	}
	env.DestRoot = filepath.Join(env.HomeDir, ".config")
	env.BackupRoot = filepath.Join(env.HomeDir, ".config-backup-test")
	env.XDGData = filepath.Join(env.HomeDir, ".local", "share")
	env.XDGState = filepath.Join(env.HomeDir, ".local", "state")

	for _, dir := range []string{env.SourceRoot, env.DestRoot, env.XDGData, env.XDGState} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("XDG_CONFIG_HOME", env.DestRoot)
	t.Setenv("XDG_DATA_HOME", env.XDGData)
	t.Setenv("XDG_STATE_HOME", env.XDGState)
	t.Setenv("DOTRIG_CONFIG", "")

	return env
}

// SourcePath returns the managed source path of a target
func (env *TestEnvironment) SourcePath(name string) string {
	return filepath.Join(env.SourceRoot, name)
}

// DestPath returns the destination path of a target
func (env *TestEnvironment) DestPath(name string) string {
	return filepath.Join(env.DestRoot, name)
}

// WithSource creates a managed source directory with the given files
func (env *TestEnvironment) WithSource(name string, files map[string]string) *TestEnvironment {
	env.t.Helper()
	WriteTree(env.t, env.SourcePath(name), files)
	return env
}

// WithDestDir creates a regular directory at the destination
func (env *TestEnvironment) WithDestDir(name string, files map[string]string) *TestEnvironment {
	env.t.Helper()
	WriteTree(env.t, env.DestPath(name), files)
	return env
}

// WithDestFile creates a regular file at the destination
func (env *TestEnvironment) WithDestFile(name, content string) *TestEnvironment {
	env.t.Helper()
	if err := os.WriteFile(env.DestPath(name), []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", name, err)
	}
	return env
}

// WithDestSymlink makes the destination a symlink to target
func (env *TestEnvironment) WithDestSymlink(name, target string) *TestEnvironment {
	env.t.Helper()
	if err := os.Symlink(target, env.DestPath(name)); err != nil {
		env.t.Fatalf("Failed to symlink %s: %v", name, err)
	}
	return env
}

// WriteTree creates dir and the files (relative path -> content) inside it
func WriteTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", dir, err)
	}
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file %s: %v", rel, err)
		}
	}
}

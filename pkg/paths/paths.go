package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/types"
)

// Environment variable names
const (
	// EnvConfig points at an explicit config file
	EnvConfig = "DOTRIG_CONFIG"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Directory and file names. These are not user-configurable.
const (
	// AppDirName is the directory name used under each XDG base dir
	AppDirName = "dotrig"

	// ConfigFileName is the name of the user config file
	ConfigFileName = "config.toml"

	// CheckoutDirName is where the managed source repository is cloned
	CheckoutDirName = "source"

	// JournalFileName is the bbolt database recording backup runs
	JournalFileName = "journal.db"

	// LogFileName is the name of the log file
	LogFileName = "dotrig.log"

	// BackupTimeFormat is the timestamp layout used in backup root names
	BackupTimeFormat = "20060102-150405"
)

// Paths provides centralized path management for dotrig
type Paths interface {
	types.Pather
	ConfigFile() string
	CheckoutDir() string
	JournalPath() string
	LogFilePath() string
	UserConfigHome() string
}

type paths struct {
	configHome string
	dataHome   string
	stateHome  string
}

// New resolves the XDG base directories from the current environment.
func New() (Paths, error) {
	xdg.Reload()

	p := &paths{
		configHome: xdg.ConfigHome,
		dataHome:   xdg.DataHome,
		stateHome:  xdg.StateHome,
	}
	for _, dir := range []string{p.configHome, p.dataHome, p.stateHome} {
		if dir == "" {
			return nil, errors.New(errors.ErrFileAccess, "cannot determine XDG base directories")
		}
	}
	return p, nil
}

// UserConfigHome is the directory configuration targets are linked into
// by default ($XDG_CONFIG_HOME, usually ~/.config).
func (p *paths) UserConfigHome() string {
	return p.configHome
}

// ConfigDir returns the directory holding dotrig's own config
func (p *paths) ConfigDir() string {
	return filepath.Join(p.configHome, AppDirName)
}

// DataDir returns the XDG data directory for dotrig
func (p *paths) DataDir() string {
	return filepath.Join(p.dataHome, AppDirName)
}

// StateDir returns the XDG state directory for dotrig
func (p *paths) StateDir() string {
	return filepath.Join(p.stateHome, AppDirName)
}

// ConfigFile returns the config file path, honoring DOTRIG_CONFIG
func (p *paths) ConfigFile() string {
	if explicit := os.Getenv(EnvConfig); explicit != "" {
		return ExpandHome(explicit)
	}
	return filepath.Join(p.ConfigDir(), ConfigFileName)
}

func (p *paths) CheckoutDir() string {
	return filepath.Join(p.DataDir(), CheckoutDirName)
}

func (p *paths) JournalPath() string {
	return filepath.Join(p.StateDir(), JournalFileName)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.StateDir(), LogFileName)
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is left alone
	return path
}

// Normalize expands home, makes the path absolute and cleans it
func Normalize(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
	}
	return filepath.Clean(abs), nil
}

// BackupRoot returns a backup root path that does not exist yet. It is a
// sibling of destRoot named <prefix>-<timestamp>, with a numeric suffix
// added when a root for the same second is already present.
func BackupRoot(fsys types.FS, destRoot, prefix string, now time.Time) string {
	if prefix == "" {
		prefix = filepath.Base(destRoot) + "-backup"
	}
	base := filepath.Join(filepath.Dir(destRoot), fmt.Sprintf("%s-%s", prefix, now.Format(BackupTimeFormat)))

	candidate := base
	for n := 1; ; n++ {
		if _, err := fsys.Lstat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

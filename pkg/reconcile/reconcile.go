package reconcile

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	dotrigerrors "github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/filesystem"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/paths"
	"github.com/dotrig/dotrig/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Reconciler performs reconciliation and restore on a filesystem
type Reconciler struct {
	fs     types.FS
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a Reconciler. A nil fs means the OS filesystem.
func New(fs types.FS) *Reconciler {
	if fs == nil {
		fs = filesystem.NewOS()
	}
	return &Reconciler{
		fs:     fs,
		logger: logging.GetLogger("reconcile"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// WithLogger replaces the logger outcomes are written to
func (r *Reconciler) WithLogger(logger zerolog.Logger) *Reconciler {
	r.logger = logger
	return r
}

// WithClock replaces the clock used for report timestamps
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// ResolveTargets maps target names onto sourceRoot and destRoot. Order is
// kept, duplicates are dropped, and every name must be a single path element.
func ResolveTargets(names []string, sourceRoot, destRoot string) ([]types.ConfigTarget, error) {
	src, err := paths.Normalize(sourceRoot)
	if err != nil {
		return nil, err
	}
	dst, err := paths.Normalize(destRoot)
	if err != nil {
		return nil, err
	}
	if err := checkDisjoint(map[string]string{"source": src, "dest": dst}); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(names))
	targets := make([]types.ConfigTarget, 0, len(names))
	for _, name := range names {
		if err := paths.ValidateTargetName(name); err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		targets = append(targets, types.ConfigTarget{
			Name:   name,
			Source: filepath.Join(src, name),
			Dest:   filepath.Join(dst, name),
		})
	}
	return targets, nil
}

// checkDisjoint fails when two of the named normalized roots are equal or
// one lies inside another. Linking or backing up across overlapping roots
// would delete the source it links to.
func checkDisjoint(roots map[string]string) error {
	names := make([]string, 0, len(roots))
	for name := range roots {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, a := range names {
		for _, b := range names[i+1:] {
			if within(roots[a], roots[b]) || within(roots[b], roots[a]) {
				return dotrigerrors.Newf(dotrigerrors.ErrInvalidInput,
					"%s root %s and %s root %s overlap", a, roots[a], b, roots[b]).
					WithDetail(a, roots[a]).
					WithDetail(b, roots[b])
			}
		}
	}
	return nil
}

// within reports whether path is root or lies below it
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Reconcile links every target under destRoot to its counterpart under
// sourceRoot, backing regular entries up into backupRoot. backupRoot must
// not exist; it is created on the first backup. The returned report is
// non-nil whenever targets were processed, even alongside a fatal error.
func (r *Reconciler) Reconcile(names []string, sourceRoot, destRoot, backupRoot string) (*types.ReconcileReport, error) {
	done := logging.LogOperationStart(r.logger, "reconcile")
	defer done()

	for _, root := range []*string{&sourceRoot, &destRoot, &backupRoot} {
		abs, err := paths.Normalize(*root)
		if err != nil {
			return nil, err
		}
		*root = abs
	}
	if err := checkDisjoint(map[string]string{
		"source": sourceRoot, "dest": destRoot, "backup": backupRoot,
	}); err != nil {
		return nil, err
	}

	targets, err := ResolveTargets(names, sourceRoot, destRoot)
	if err != nil {
		return nil, err
	}

	if _, err := r.fs.Lstat(backupRoot); err == nil {
		return nil, dotrigerrors.Newf(dotrigerrors.ErrBackupRootExists,
			"backup root %s already exists", backupRoot)
	} else if !os.IsNotExist(err) {
		return nil, dotrigerrors.Wrapf(err, dotrigerrors.ErrBackupRootCreate,
			"cannot inspect backup root %s", backupRoot)
	}

	if err := r.prepareDestRoot(destRoot); err != nil {
		return nil, err
	}

	report := &types.ReconcileReport{
		RunID:      r.newID(),
		SourceRoot: sourceRoot,
		DestRoot:   destRoot,
		BackupRoot: backupRoot,
		StartedAt:  r.now(),
	}

	r.logger.Info().
		Str("run", report.RunID).
		Str("source", report.SourceRoot).
		Str("dest", report.DestRoot).
		Str("backup", backupRoot).
		Int("targets", len(targets)).
		Msg("Reconciling configuration targets")

	run := &run{Reconciler: r, backupRoot: backupRoot}
	for _, target := range targets {
		outcome, fatal := run.reconcileTarget(target)
		report.Add(outcome)
		r.logOutcome(outcome)
		if fatal != nil {
			r.logger.Error().Err(fatal).Str("target", target.Name).Msg("Reconciliation aborted")
			return report, fatal
		}
	}

	r.logger.Info().Str("run", report.RunID).Msg("Reconciliation finished: " + report.Summary())
	return report, nil
}

// prepareDestRoot creates the destination root if needed and makes sure it
// is a readable directory.
func (r *Reconciler) prepareDestRoot(destRoot string) error {
	info, err := r.fs.Stat(destRoot)
	switch {
	case os.IsNotExist(err):
		if err := r.fs.MkdirAll(destRoot, 0755); err != nil {
			return dotrigerrors.Wrapf(err, dotrigerrors.ErrDestRootRead, "cannot create destination root %s", destRoot)
		}
	case err != nil:
		return dotrigerrors.Wrapf(err, dotrigerrors.ErrDestRootRead, "cannot access destination root %s", destRoot)
	case !info.IsDir():
		return dotrigerrors.Newf(dotrigerrors.ErrDestRootRead, "destination root %s is not a directory", destRoot)
	}

	if _, err := r.fs.ReadDir(destRoot); err != nil {
		return dotrigerrors.Wrapf(err, dotrigerrors.ErrDestRootRead, "cannot read destination root %s", destRoot)
	}
	return nil
}

// run holds the state of a single Reconcile call
type run struct {
	*Reconciler
	backupRoot    string
	backupCreated bool
}

// reconcileTarget returns the target's outcome and, only for resource-level
// failures, a fatal error.
func (r *run) reconcileTarget(t types.ConfigTarget) (types.Outcome, error) {
	o := types.Outcome{Target: t.Name}

	state, link, err := r.inspectDest(t.Dest)
	if err != nil {
		o.Fail(dotrigerrors.Wrapf(err, dotrigerrors.ErrFileAccess, "cannot inspect %s", t.Dest))
		return o, nil
	}
	o.Prior = state
	o.PriorLink = link

	exists, err := r.sourceExists(t.Source)
	if err != nil {
		o.Fail(dotrigerrors.Wrapf(err, dotrigerrors.ErrFileAccess, "cannot inspect source %s", t.Source))
		return o, nil
	}
	if !exists {
		o.Status = types.StatusSkippedNoSource
		o.Code = dotrigerrors.ErrSourceAbsent
		return o, nil
	}

	switch state {
	case types.SymlinkEntry:
		if r.pointsAt(t.Dest, link, t.Source) {
			o.Status = types.StatusAlreadyLinked
			return o, nil
		}
		if err := r.fs.Remove(t.Dest); err != nil {
			o.Fail(dotrigerrors.Wrapf(err, dotrigerrors.ErrFileAccess, "cannot remove symlink %s", t.Dest))
			return o, nil
		}
		o.Discarded = true

	case types.RegularEntry:
		if err := r.ensureBackupRoot(); err != nil {
			o.Fail(err)
			return o, err
		}
		backupPath := filepath.Join(r.backupRoot, t.Name)
		if err := r.fs.CopyTree(t.Dest, backupPath); err != nil {
			// Never leave a half copy that could later be restored
			_ = r.fs.RemoveAll(backupPath)
			o.Fail(dotrigerrors.Wrapf(err, dotrigerrors.ErrBackupWriteFailed, "cannot back up %s", t.Dest))
			return o, nil
		}
		o.BackedUp = true
		o.BackupPath = backupPath

		if err := r.fs.RemoveAll(t.Dest); err != nil {
			o.Fail(dotrigerrors.Wrapf(err, dotrigerrors.ErrFileAccess,
				"backed up to %s but cannot remove %s", backupPath, t.Dest))
			return o, nil
		}
	}

	if err := r.fs.Symlink(t.Source, t.Dest); err != nil {
		o.Fail(r.revertFailedLink(&o, t, err))
		return o, nil
	}

	o.Linked = true
	o.Status = types.StatusLinked
	return o, nil
}

// revertFailedLink puts back what was at the destination before the failed
// symlink call: the backup copy, or the discarded link.
func (r *run) revertFailedLink(o *types.Outcome, t types.ConfigTarget, linkErr error) error {
	failure := dotrigerrors.Wrapf(linkErr, dotrigerrors.ErrSymlinkCreateFailed,
		"cannot link %s -> %s", t.Dest, t.Source)

	var revertErr error
	switch {
	case o.BackedUp:
		revertErr = r.move(o.BackupPath, t.Dest)
	case o.Discarded:
		revertErr = r.fs.Symlink(o.PriorLink, t.Dest)
	default:
		return failure
	}

	if revertErr != nil {
		failure.WithDetail("revert", revertErr.Error())
		if o.BackedUp {
			failure.Message += "; original kept at " + o.BackupPath
		}
		r.logger.Error().Err(revertErr).Str("target", t.Name).Msg("Failed to revert after symlink failure")
		return failure
	}

	o.Reverted = true
	if o.BackedUp {
		o.BackupPath = ""
	}
	return failure
}

func (r *run) ensureBackupRoot() error {
	if r.backupCreated {
		return nil
	}
	if err := r.fs.MkdirAll(filepath.Dir(r.backupRoot), 0755); err != nil {
		return dotrigerrors.Wrapf(err, dotrigerrors.ErrBackupRootCreate, "cannot create parent of backup root %s", r.backupRoot)
	}
	// Mkdir, not MkdirAll: the root must be ours alone
	if err := r.fs.Mkdir(r.backupRoot, 0700); err != nil {
		return dotrigerrors.Wrapf(err, dotrigerrors.ErrBackupRootCreate, "cannot create backup root %s", r.backupRoot)
	}
	r.backupCreated = true
	r.logger.Info().Str("backup", r.backupRoot).Msg("Created backup root")
	return nil
}

// inspectDest classifies a destination without following a final symlink.
func (r *Reconciler) inspectDest(dest string) (types.TargetState, string, error) {
	info, err := r.fs.Lstat(dest)
	if os.IsNotExist(err) {
		return types.Absent, "", nil
	}
	if err != nil {
		return types.Absent, "", err
	}

	state := types.StateFromMode(info.Mode())
	if state != types.SymlinkEntry {
		return state, "", nil
	}
	link, err := r.fs.Readlink(dest)
	if err != nil {
		return state, "", err
	}
	return state, link, nil
}

func (r *Reconciler) sourceExists(source string) (bool, error) {
	_, err := r.fs.Stat(source)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// pointsAt reports whether the symlink at dest with text link resolves to
// source. Besides a textual match, a link that reaches the source through
// further symlinks counts too (os.SameFile on the followed paths).
func (r *Reconciler) pointsAt(dest, link, source string) bool {
	resolved := link
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(dest), resolved)
	}
	if filepath.Clean(resolved) == filepath.Clean(source) {
		return true
	}

	destInfo, err := r.fs.Stat(dest)
	if err != nil {
		return false
	}
	sourceInfo, err := r.fs.Stat(source)
	if err != nil {
		return false
	}
	return os.SameFile(destInfo, sourceInfo)
}

// move renames from to to, copying across devices when rename cannot.
func (r *Reconciler) move(from, to string) error {
	err := r.fs.Rename(from, to)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := r.fs.CopyTree(from, to); err != nil {
		_ = r.fs.RemoveAll(to)
		return err
	}
	return r.fs.RemoveAll(from)
}

func (r *Reconciler) logOutcome(o types.Outcome) {
	var event *zerolog.Event
	switch {
	case o.Status == types.StatusFailed:
		event = r.logger.Error().Err(o.Err)
	case o.Status == types.StatusSkippedNoSource, o.Discarded:
		event = r.logger.Warn()
	default:
		event = r.logger.Info()
	}

	event = event.
		Str("target", o.Target).
		Stringer("prior", o.Prior).
		Str("status", string(o.Status))
	if o.PriorLink != "" {
		event = event.Str("priorLink", o.PriorLink)
	}
	if o.BackupPath != "" {
		event = event.Str("backup", o.BackupPath)
	}
	if o.Code != "" {
		event = event.Str("code", string(o.Code))
	}

	switch {
	case o.Status == types.StatusFailed && o.Reverted:
		event.Msg("Target failed, destination reverted")
	case o.Status == types.StatusFailed:
		event.Msg("Target failed")
	case o.Status == types.StatusSkippedNoSource:
		event.Msg("Skipped, source absent")
	case o.Status == types.StatusAlreadyLinked:
		event.Msg("Already linked")
	case o.Discarded:
		event.Msg("Discarded symlink without backup, linked")
	case o.BackedUp:
		event.Msg("Backed up and linked")
	default:
		event.Msg("Linked")
	}
}

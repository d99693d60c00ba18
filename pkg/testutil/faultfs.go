package testutil

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/dotrig/dotrig/pkg/types"
)

// Op names a types.FS method for fault injection
type Op string

const (
	OpLstat     Op = "lstat"
	OpStat      Op = "stat"
	OpReadDir   Op = "readdir"
	OpMkdir     Op = "mkdir"
	OpMkdirAll  Op = "mkdirall"
	OpSymlink   Op = "symlink"
	OpReadlink  Op = "readlink"
	OpRemove    Op = "remove"
	OpRemoveAll Op = "removeall"
	OpRename    Op = "rename"
	OpCopyTree  Op = "copytree"
	OpWriteFile Op = "writefile"
)

// ErrInjected is the error returned by injected faults
var ErrInjected = errors.New("injected fault")

// FaultFS wraps a types.FS and fails selected (operation, path) pairs.
// For Symlink, Rename and CopyTree the path matched is the destination.
type FaultFS struct {
	types.FS

	mu     sync.Mutex
	faults map[Op]map[string]int
	calls  map[Op][]string
}

// NewFaultFS wraps inner
func NewFaultFS(inner types.FS) *FaultFS {
	return &FaultFS{
		FS:     inner,
		faults: make(map[Op]map[string]int),
		calls:  make(map[Op][]string),
	}
}

// Fail makes op on path fail every time
func (f *FaultFS) Fail(op Op, path string) *FaultFS {
	return f.FailTimes(op, path, -1)
}

// FailTimes makes op on path fail n times, then succeed. n < 0 means always.
func (f *FaultFS) FailTimes(op Op, path string, n int) *FaultFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.faults[op] == nil {
		f.faults[op] = make(map[string]int)
	}
	f.faults[op][path] = n
	return f
}

// Calls returns the paths op was called with, in order
func (f *FaultFS) Calls(op Op) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls[op]...)
}

func (f *FaultFS) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op] = append(f.calls[op], path)

	remaining, ok := f.faults[op][path]
	if !ok || remaining == 0 {
		return nil
	}
	if remaining > 0 {
		f.faults[op][path] = remaining - 1
	}
	return &fs.PathError{Op: string(op), Path: path, Err: ErrInjected}
}

func (f *FaultFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check(OpLstat, name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FaultFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultFS) Mkdir(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdir, path); err != nil {
		return err
	}
	return f.FS.Mkdir(path, perm)
}

func (f *FaultFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultFS) Symlink(oldname, newname string) error {
	if err := f.check(OpSymlink, newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FaultFS) Readlink(name string) (string, error) {
	if err := f.check(OpReadlink, name); err != nil {
		return "", err
	}
	return f.FS.Readlink(name)
}

func (f *FaultFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FaultFS) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}

func (f *FaultFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, newpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultFS) CopyTree(src, dst string) error {
	if err := f.check(OpCopyTree, dst); err != nil {
		return err
	}
	return f.FS.CopyTree(src, dst)
}

func (f *FaultFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check(OpWriteFile, name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

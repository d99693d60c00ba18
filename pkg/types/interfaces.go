package types

import (
	"io/fs"
)

// FS is the filesystem interface required for dotrig operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	Mkdir(path string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations. Lstat must not follow the final symlink.
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Lstat(name string) (fs.FileInfo, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// CopyTree makes a physical copy of src at dst. Symlinks nested inside
	// src are dereferenced, dst must not exist.
	CopyTree(src, dst string) error
}

// Pather provides paths for dotrig operations
type Pather interface {
	ConfigDir() string
	DataDir() string
	StateDir() string
}

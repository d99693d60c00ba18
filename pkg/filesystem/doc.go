// Package filesystem provides filesystem implementations for dotrig.
//
// This package contains implementations of the types.FS interface: the
// standard OS filesystem and an adapter over afero filesystems.
package filesystem

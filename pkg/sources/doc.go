// Package sources keeps the local checkout of the managed configuration in
// step with its git remote.
package sources

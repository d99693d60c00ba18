// Package testutil provides utilities for testing dotrig components.
//
// Key components:
//   - TestEnvironment: isolated source, destination and XDG roots in a temp dir
//   - FaultFS: a types.FS wrapper that fails chosen operations on chosen paths
//   - Assertions for symlinks, trees and file contents
//
// Usage guidelines:
//   - Tests run on the real filesystem in t.TempDir(); symlink semantics matter
//   - All test data should be defined inline, not in external files
//   - Each test should be completely isolated with no shared state
package testutil

// Package reconcile brings a user's configuration directory into agreement
// with a managed source tree.
//
// Each configuration target is a directory name. For every target whose
// managed source exists, the destination is inspected without following a
// final symlink and then:
//
//   - absent: a symlink to the source is created
//   - symlink already pointing at the source: left alone
//   - any other symlink: removed without backup, then relinked
//   - regular file or directory: physically copied under a fresh backup
//     root, removed, then relinked
//
// Targets whose source is missing are never touched. Per-target failures are
// recorded in the report and never stop the run; only resource-level
// failures (backup root unusable, destination root unreadable) are returned
// as errors.
//
// Restore is the reverse: every entry of a backup root is moved back over
// whatever occupies its destination. The first failed move stops the restore
// and leaves the remaining entries in the backup root.
package reconcile

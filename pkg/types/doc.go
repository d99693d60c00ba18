// Package types defines the core types and interfaces used throughout dotrig.
// This includes the FS interface, the ConfigTarget and TargetState model
// the reconciler works on, and the reports each operation returns.
package types

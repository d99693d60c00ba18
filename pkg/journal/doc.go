// Package journal keeps a persistent record of reconciliation runs that
// created backups, so a later restore can find the backup root without the
// user having to remember it.
package journal

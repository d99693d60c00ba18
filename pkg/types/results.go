package types

import (
	"fmt"
	"time"

	"github.com/dotrig/dotrig/pkg/errors"
)

// OutcomeStatus is the final result for one target of a reconciliation.
type OutcomeStatus string

const (
	StatusLinked          OutcomeStatus = "linked"
	StatusAlreadyLinked   OutcomeStatus = "already-linked"
	StatusSkippedNoSource OutcomeStatus = "skipped-no-source"
	StatusFailed          OutcomeStatus = "failed"
)

// Outcome records what happened to one target. Reverted means a failed link
// was undone: the backup or the discarded symlink was put back at the
// destination.
type Outcome struct {
	Target     string           `json:"target" yaml:"target"`
	Prior      TargetState      `json:"prior" yaml:"prior"`
	PriorLink  string           `json:"priorLink,omitempty" yaml:"priorLink,omitempty"`
	Discarded  bool             `json:"discarded" yaml:"discarded"`
	BackedUp   bool             `json:"backedUp" yaml:"backedUp"`
	BackupPath string           `json:"backupPath,omitempty" yaml:"backupPath,omitempty"`
	Linked     bool             `json:"linked" yaml:"linked"`
	Reverted   bool             `json:"reverted" yaml:"reverted"`
	Status     OutcomeStatus    `json:"status" yaml:"status"`
	Code       errors.ErrorCode `json:"code,omitempty" yaml:"code,omitempty"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty"`
	Err        error            `json:"-" yaml:"-"`
}

// Fail marks the outcome failed with err.
func (o *Outcome) Fail(err error) {
	o.Status = StatusFailed
	o.Err = err
	o.Code = errors.GetErrorCode(err)
	o.Error = err.Error()
}

// ReconcileCounts aggregates outcomes of a reconciliation.
type ReconcileCounts struct {
	Linked           int `json:"linked" yaml:"linked"`
	AlreadyLinked    int `json:"alreadyLinked" yaml:"alreadyLinked"`
	SkippedNoSource  int `json:"skippedNoSource" yaml:"skippedNoSource"`
	BackedUp         int `json:"backedUp" yaml:"backedUp"`
	DiscardedSymlink int `json:"discardedSymlink" yaml:"discardedSymlink"`
	Failed           int `json:"failed" yaml:"failed"`
}

// ReconcileReport is returned by a reconciliation run. Backups maps target
// names to their copy under BackupRoot; it only holds backups that are still
// on disk after the run.
type ReconcileReport struct {
	RunID      string            `json:"runId" yaml:"runId"`
	SourceRoot string            `json:"sourceRoot" yaml:"sourceRoot"`
	DestRoot   string            `json:"destRoot" yaml:"destRoot"`
	BackupRoot string            `json:"backupRoot" yaml:"backupRoot"`
	StartedAt  time.Time         `json:"startedAt" yaml:"startedAt"`
	Outcomes   []Outcome         `json:"outcomes" yaml:"outcomes"`
	Counts     ReconcileCounts   `json:"counts" yaml:"counts"`
	Backups    map[string]string `json:"backups,omitempty" yaml:"backups,omitempty"`
}

// Add appends an outcome and updates the counts.
func (r *ReconcileReport) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)

	switch o.Status {
	case StatusLinked:
		r.Counts.Linked++
	case StatusAlreadyLinked:
		r.Counts.AlreadyLinked++
	case StatusSkippedNoSource:
		r.Counts.SkippedNoSource++
	case StatusFailed:
		r.Counts.Failed++
	}
	if o.Discarded && !o.Reverted {
		r.Counts.DiscardedSymlink++
	}
	if o.BackedUp && !o.Reverted {
		r.Counts.BackedUp++
		if r.Backups == nil {
			r.Backups = make(map[string]string)
		}
		r.Backups[o.Target] = o.BackupPath
	}
}

// HasFailures reports whether any target failed.
func (r *ReconcileReport) HasFailures() bool {
	return r.Counts.Failed > 0
}

// Summary is the one-line human readable count.
func (r *ReconcileReport) Summary() string {
	c := r.Counts
	return fmt.Sprintf("linked %d, already linked %d, skipped %d, backed up %d, discarded %d, failed %d",
		c.Linked, c.AlreadyLinked, c.SkippedNoSource, c.BackedUp, c.DiscardedSymlink, c.Failed)
}

// RestoreStatus is the result for one backup entry.
type RestoreStatus string

const (
	RestoreRestored RestoreStatus = "restored"
	RestoreFailed   RestoreStatus = "failed"
	RestorePending  RestoreStatus = "pending"
)

// RestoreEntry records what happened to one entry of the backup root.
type RestoreEntry struct {
	Name     string           `json:"name" yaml:"name"`
	From     string           `json:"from" yaml:"from"`
	To       string           `json:"to" yaml:"to"`
	Replaced TargetState      `json:"replaced" yaml:"replaced"`
	Status   RestoreStatus    `json:"status" yaml:"status"`
	Code     errors.ErrorCode `json:"code,omitempty" yaml:"code,omitempty"`
	Error    string           `json:"error,omitempty" yaml:"error,omitempty"`
	Err      error            `json:"-" yaml:"-"`
}

// RestoreCounts aggregates restore entries.
type RestoreCounts struct {
	Restored int `json:"restored" yaml:"restored"`
	Failed   int `json:"failed" yaml:"failed"`
	Pending  int `json:"pending" yaml:"pending"`
}

// RestoreReport is returned by a restore. Aborted is set when a move failed
// and the remaining entries were left in the backup root.
type RestoreReport struct {
	BackupRoot  string         `json:"backupRoot" yaml:"backupRoot"`
	DestRoot    string         `json:"destRoot" yaml:"destRoot"`
	Entries     []RestoreEntry `json:"entries" yaml:"entries"`
	Counts      RestoreCounts  `json:"counts" yaml:"counts"`
	Aborted     bool           `json:"aborted" yaml:"aborted"`
	RootRemoved bool           `json:"rootRemoved" yaml:"rootRemoved"`
}

// Add appends an entry and updates the counts.
func (r *RestoreReport) Add(e RestoreEntry) {
	r.Entries = append(r.Entries, e)
	switch e.Status {
	case RestoreRestored:
		r.Counts.Restored++
	case RestoreFailed:
		r.Counts.Failed++
	case RestorePending:
		r.Counts.Pending++
	}
}

// Summary is the one-line human readable count.
func (r *RestoreReport) Summary() string {
	return fmt.Sprintf("restored %d, failed %d, pending %d",
		r.Counts.Restored, r.Counts.Failed, r.Counts.Pending)
}

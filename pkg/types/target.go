package types

import (
	"fmt"
	"io/fs"
)

// ConfigTarget is one named unit of configuration: a directory in the managed
// source tree and the place in the user's config directory where it is linked.
type ConfigTarget struct {
	Name   string `json:"name" yaml:"name"`
	Source string `json:"source" yaml:"source"`
	Dest   string `json:"dest" yaml:"dest"`
}

// TargetState is the state of a destination path before reconciliation.
type TargetState int

const (
	Absent TargetState = iota
	RegularEntry
	SymlinkEntry
)

var targetStateNames = map[TargetState]string{
	Absent:       "absent",
	RegularEntry: "regular",
	SymlinkEntry: "symlink",
}

func (s TargetState) String() string {
	if name, ok := targetStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TargetState(%d)", int(s))
}

// MarshalText renders the state by name in JSON and YAML output.
func (s TargetState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *TargetState) UnmarshalText(text []byte) error {
	for state, name := range targetStateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown target state %q", string(text))
}

// StateFromMode classifies an Lstat result.
func StateFromMode(mode fs.FileMode) TargetState {
	if mode&fs.ModeSymlink != 0 {
		return SymlinkEntry
	}
	return RegularEntry
}

// PlannedAction is what reconciliation would do with a target.
type PlannedAction string

const (
	ActionLink        PlannedAction = "link"
	ActionBackupLink  PlannedAction = "backup+link"
	ActionReplaceLink PlannedAction = "replace-link"
	ActionNone        PlannedAction = "none"
	ActionSkip        PlannedAction = "skip"
)

// TargetStatus is a read-only view of one target.
type TargetStatus struct {
	ConfigTarget `yaml:",inline"`
	SourceExists bool          `json:"sourceExists" yaml:"sourceExists"`
	State        TargetState   `json:"state" yaml:"state"`
	LinkTarget   string        `json:"linkTarget,omitempty" yaml:"linkTarget,omitempty"`
	Action       PlannedAction `json:"action" yaml:"action"`
	Error        string        `json:"error,omitempty" yaml:"error,omitempty"`
}

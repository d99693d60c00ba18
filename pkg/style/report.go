package style

import (
	"fmt"
	"strings"

	"github.com/dotrig/dotrig/pkg/journal"
	"github.com/dotrig/dotrig/pkg/types"
	"github.com/pterm/pterm"
)

// RenderReconcile renders one line per target followed by the counts
func RenderReconcile(report *types.ReconcileReport) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Reconciled %d targets", len(report.Outcomes))) + "\n")

	for _, o := range report.Outcomes {
		b.WriteString(Indent(renderOutcome(o), 1) + "\n")
	}

	if len(report.Backups) > 0 {
		b.WriteString("\n" + MutedStyle.Render("Backups written to ") + PathStyle.Render(report.BackupRoot) + "\n")
	}
	b.WriteString(summaryLine(report.Summary(), report.HasFailures()))
	return b.String()
}

func renderOutcome(o types.Outcome) string {
	name := NameStyle.Render(o.Target)

	switch o.Status {
	case types.StatusLinked:
		line := SuccessIndicator() + " " + name + " linked"
		switch {
		case o.BackedUp:
			line += MutedStyle.Render(", original backed up to ") + PathStyle.Render(o.BackupPath)
		case o.Discarded:
			line += WarningStyle.Render(", replaced symlink to ") + LinkStyle.Render(o.PriorLink)
		}
		return line
	case types.StatusAlreadyLinked:
		return InfoIndicator() + " " + name + MutedStyle.Render(" already linked")
	case types.StatusSkippedNoSource:
		return WarningIndicator() + " " + name + WarningStyle.Render(" skipped, no source")
	default:
		line := ErrorIndicator() + " " + name + " " + ErrorStyle.Render(string(o.Code)) + " " + o.Error
		if o.Reverted {
			line += MutedStyle.Render(" (destination restored)")
		}
		return line
	}
}

// RenderRestore renders one line per backup entry followed by the counts
func RenderRestore(report *types.RestoreReport) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Restoring "+report.BackupRoot) + "\n")

	for _, e := range report.Entries {
		name := NameStyle.Render(e.Name)
		var line string
		switch e.Status {
		case types.RestoreRestored:
			line = SuccessIndicator() + " " + name + " restored to " + PathStyle.Render(e.To)
		case types.RestorePending:
			line = PendingIndicator() + " " + name + MutedStyle.Render(" left in backup")
		default:
			line = ErrorIndicator() + " " + name + " " + ErrorStyle.Render(string(e.Code)) + " " + e.Error
		}
		b.WriteString(Indent(line, 1) + "\n")
	}

	if report.Aborted {
		b.WriteString("\n" + WarningStyle.Render("Restore stopped; remaining entries are still in ") +
			PathStyle.Render(report.BackupRoot) + "\n")
	}
	b.WriteString(summaryLine(report.Summary(), report.Aborted))
	return b.String()
}

// RenderStatus renders the read-only view of each target
func RenderStatus(statuses []types.TargetStatus) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Configuration targets") + "\n")

	for _, s := range statuses {
		name := NameStyle.Render(s.Name)
		var line string
		switch {
		case s.Error != "":
			line = ErrorIndicator() + " " + name + " " + s.Error
		case s.Action == types.ActionNone:
			line = SuccessIndicator() + " " + name + " linked to " + LinkStyle.Render(s.LinkTarget)
		case s.Action == types.ActionSkip:
			line = WarningIndicator() + " " + name + WarningStyle.Render(" no source") + describeState(s)
		default:
			line = PendingIndicator() + " " + name + " " + InfoStyle.Render(string(s.Action)) + describeState(s)
		}
		b.WriteString(Indent(line, 1) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeState(s types.TargetStatus) string {
	switch s.State {
	case types.SymlinkEntry:
		return MutedStyle.Render(" (symlink to ") + LinkStyle.Render(s.LinkTarget) + MutedStyle.Render(")")
	case types.RegularEntry:
		return MutedStyle.Render(" (existing entry)")
	default:
		return MutedStyle.Render(" (absent)")
	}
}

// RenderHistory renders recorded runs as a table, newest first
func RenderHistory(runs []journal.Run) (string, error) {
	if len(runs) == 0 {
		return MutedStyle.Render("No backups recorded"), nil
	}

	data := pterm.TableData{{"Started", "Backup root", "Targets", "Restored"}}
	for _, run := range runs {
		restored := "no"
		if run.Restored {
			restored = "yes"
		}
		data = append(data, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.BackupRoot,
			fmt.Sprintf("%d", len(run.Records)),
			restored,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func summaryLine(summary string, failed bool) string {
	if failed {
		return ErrorStyle.Render(summary)
	}
	return SuccessStyle.Render(summary)
}

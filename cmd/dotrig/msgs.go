package dotrig

import (
	_ "embed"
	"strings"
)

// Short messages
const (
	MsgRootShort      = "Install and restore a desktop configuration"
	MsgInstallShort   = "Sync the source and link every target"
	MsgLinkShort      = "Link targets from the current source"
	MsgRestoreShort   = "Restore a backup root"
	MsgStatusShort    = "Show the state of every target"
	MsgSyncShort      = "Clone or update the source checkout"
	MsgHistoryShort   = "List recorded backup runs"
	MsgGenConfigShort = "Print or write the default configuration"
	MsgConfigShort    = "Print the effective configuration"
	MsgVersionShort   = "Print version information"

	MsgCompletionShort = "Generate shell completion script"

	MsgRestoreQuestion = "Restore %s into %s?"
	MsgRestoreSkipped  = "Restore cancelled."
	MsgNoRuns          = "No backup runs recorded."
	MsgConfigWritten   = "Wrote %s\n"
	MsgSyncResult      = "%s %s (%s)\n"
	MsgSyncSkipped     = "No source URL configured, nothing to sync."

	MsgErrTargetsFailed = "%d target(s) failed"
	MsgErrRestoreFailed = "restore stopped with %d entries left in %s"
	MsgErrConfigExists  = "%s already exists"

	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default $XDG_CONFIG_HOME/dotrig/config.toml)"
	MsgFlagOutput   = "Output format: text, json or yaml"
	MsgFlagNoColor  = "Disable colored output"
	MsgFlagDryRun   = "Show what would happen without changing anything"
	MsgFlagTargets  = "Targets to link instead of the configured ones"
	MsgFlagYes      = "Answer yes to the restore question"
	MsgFlagDest     = "Destination root to restore into (default: the one recorded)"
	MsgFlagWrite    = "Write the config file instead of printing it"
	MsgFlagNoSync   = "Skip cloning or updating the source"
	MsgVersionLines = "dotrig version %s\n  commit: %s\n  built:  %s\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/link-long.txt
	msgLinkLongRaw string
	MsgLinkLong    = strings.TrimSpace(msgLinkLongRaw)

	//go:embed msgs/link-example.txt
	msgLinkExampleRaw string
	MsgLinkExample    = strings.TrimRight(msgLinkExampleRaw, "\n")

	//go:embed msgs/restore-long.txt
	msgRestoreLongRaw string
	MsgRestoreLong    = strings.TrimSpace(msgRestoreLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)

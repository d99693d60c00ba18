package dotrig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dotrig/dotrig/internal/version"
	"github.com/dotrig/dotrig/pkg/config"
	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/installer"
	"github.com/dotrig/dotrig/pkg/journal"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/reconcile"
	"github.com/dotrig/dotrig/pkg/sources"
	"github.com/dotrig/dotrig/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newInstallCmd(a *app) *cobra.Command {
	var yes, noSync bool

	cmd := &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := a.load()
			if err != nil {
				return err
			}
			logger := logging.GetLogger("cmd.install")
			defer logging.LogOperationStart(logger, "install")()

			result, err := installer.Run(cmd.Context(), installer.Options{
				Config:      cfg,
				JournalPath: p.JournalPath(),
				Confirmer:   a.confirm(yes),
				SkipSync:    noSync,
				Now:         a.now,
			})
			if result != nil {
				if emitErr := a.emit(cmd, result, func() (string, error) { return renderInstall(result), nil }); emitErr != nil {
					return emitErr
				}
			}
			if err != nil {
				return err
			}
			return resultError(result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	cmd.Flags().BoolVar(&noSync, "no-sync", false, MsgFlagNoSync)
	return cmd
}

func newLinkCmd(a *app) *cobra.Command {
	var (
		dryRun  bool
		targets []string
	)

	cmd := &cobra.Command{
		Use:     "link",
		Short:   MsgLinkShort,
		Long:    MsgLinkLong,
		Example: MsgLinkExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := a.load()
			if err != nil {
				return err
			}
			if len(targets) > 0 {
				cfg.Targets = targets
			}

			if dryRun {
				statuses, err := reconcile.New(nil).Inspect(cfg.Targets, cfg.SourceRoot(), cfg.Paths.Dest)
				if err != nil {
					return err
				}
				return a.emit(cmd, statuses, func() (string, error) { return style.RenderStatus(statuses), nil })
			}

			cfg.KeepAlive.Enabled = false
			result, err := installer.Run(cmd.Context(), installer.Options{
				Config:      cfg,
				JournalPath: p.JournalPath(),
				SkipSync:    true,
				Now:         a.now,
			})
			if err != nil {
				return err
			}
			if err := a.emit(cmd, result.Reconcile, func() (string, error) {
				return style.RenderReconcile(result.Reconcile), nil
			}); err != nil {
				return err
			}
			return resultError(result)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	cmd.Flags().StringSliceVarP(&targets, "targets", "t", nil, MsgFlagTargets)
	return cmd
}

func newRestoreCmd(a *app) *cobra.Command {
	var (
		yes  bool
		dest string
	)

	cmd := &cobra.Command{
		Use:     "restore [backup-root]",
		Short:   MsgRestoreShort,
		Long:    MsgRestoreLong,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := a.load()
			if err != nil {
				return err
			}

			opts := installer.RestoreOptions{
				JournalPath:     p.JournalPath(),
				DestRoot:        dest,
				DefaultDestRoot: cfg.Paths.Dest,
				Confirmer:       a.confirm(yes),
				Now:             a.now,
			}
			if len(args) == 1 {
				opts.BackupRoot = args[0]
			}

			report, err := installer.Restore(opts)
			if err != nil {
				return err
			}
			if report == nil {
				fmt.Fprintln(cmd.OutOrStdout(), MsgRestoreSkipped)
				return nil
			}
			if err := a.emit(cmd, report, func() (string, error) { return style.RenderRestore(report), nil }); err != nil {
				return err
			}
			if report.Aborted {
				return fmt.Errorf(MsgErrRestoreFailed, report.Counts.Failed+report.Counts.Pending, report.BackupRoot)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	cmd.Flags().StringVar(&dest, "dest", "", MsgFlagDest)
	return cmd
}

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		Short:   MsgSyncShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.load()
			if err != nil {
				return err
			}

			result, err := sources.NewSyncer(installer.RetryPolicy(cfg)).Sync(cmd.Context(), sources.Repo{
				URL:    cfg.Source.URL,
				Branch: cfg.Source.Branch,
				Path:   cfg.Source.Checkout,
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, result, func() (string, error) {
				if result.Action == sources.SyncSkipped {
					return MsgSyncSkipped, nil
				}
				return fmt.Sprintf(MsgSyncResult, result.Action, result.Path, shortHash(result.Head)), nil
			})
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: "info",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.load()
			if err != nil {
				return err
			}
			statuses, err := reconcile.New(nil).Inspect(cfg.Targets, cfg.SourceRoot(), cfg.Paths.Dest)
			if err != nil {
				return err
			}
			return a.emit(cmd, statuses, func() (string, error) { return style.RenderStatus(statuses), nil })
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "history",
		Short:   MsgHistoryShort,
		GroupID: "info",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := a.load()
			if err != nil {
				return err
			}
			j, err := journal.Open(p.JournalPath())
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()

			runs, err := j.List()
			if err != nil {
				return err
			}
			return a.emit(cmd, runs, func() (string, error) { return style.RenderHistory(runs) })
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "info",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.load()
			if err != nil {
				return err
			}
			return a.emit(cmd, cfg.Map(), func() (string, error) {
				data, err := cfg.Marshal()
				return string(data), err
			})
		},
	}
}

func newGenConfigCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !write {
				fmt.Fprint(cmd.OutOrStdout(), config.DefaultContent())
				return nil
			}

			target := a.configFile
			if target == "" {
				_, p, err := a.load()
				if err != nil {
					return err
				}
				target = p.ConfigFile()
			}
			if _, err := os.Stat(target); err == nil {
				return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, target)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to create %s", filepath.Dir(target))
			}
			if err := os.WriteFile(target, []byte(config.GenerateConfigContent()), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", target)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, target)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}

type versionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{Version: version.Version, Commit: version.Commit, Date: version.Date}
			return a.emit(cmd, info, func() (string, error) {
				return fmt.Sprintf(MsgVersionLines, info.Version, info.Commit, info.Date), nil
			})
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				err = cmd.Root().GenZshCompletion(out)
			case "fish":
				err = cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			if err != nil {
				log.Error().Err(err).Str("shell", args[0]).Msg("Failed to generate completion")
			}
			return err
		},
	}
}

package dotrig

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dotrig/dotrig/internal/version"
	"github.com/dotrig/dotrig/pkg/cobrax/topics"
	"github.com/dotrig/dotrig/pkg/config"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/paths"
	"github.com/dotrig/dotrig/pkg/style"
	"github.com/dotrig/dotrig/pkg/ui"
	"github.com/dotrig/dotrig/pkg/ui/confirmations"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// app carries the global flags and the seams tests replace
type app struct {
	verbosity  int
	configFile string
	output     string
	noColor    bool

	confirmer confirmations.Confirmer
	now       func() time.Time
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "dotrig",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			logging.LogCommand(cmd.CommandPath(), args)
			if a.noColor {
				style.DisableColor()
			} else {
				style.SetupColor(os.Stdout)
			}
			_, err := ui.ParseFormat(a.output)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "text", MsgFlagOutput)
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, MsgFlagNoColor)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "info", Title: "INFORMATION:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInstallCmd(a))
	rootCmd.AddCommand(newLinkCmd(a))
	rootCmd.AddCommand(newRestoreCmd(a))
	rootCmd.AddCommand(newSyncCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newGenConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))
	rootCmd.AddCommand(newCompletionCmd())

	topicsFS, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		_, err = topics.Install(rootCmd, topicsFS, topics.Options{
			Renderer: topics.NewGlamourRenderer(style.ColorEnabled(os.Stdout)),
		})
	}
	if err != nil {
		log.Debug().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// load reads the effective configuration for this invocation
func (a *app) load() (*config.Config, paths.Paths, error) {
	p, err := paths.New()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(config.LoadOptions{File: a.configFile, Paths: p})
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}

// confirm picks the confirmer for a restore question
func (a *app) confirm(yes bool) confirmations.Confirmer {
	if yes {
		return confirmations.Static(true)
	}
	if a.confirmer != nil {
		return a.confirmer
	}
	return confirmations.ForTerminal()
}

// emit writes v in the selected format; text output comes from render
func (a *app) emit(cmd *cobra.Command, v interface{}, render func() (string, error)) error {
	format, err := ui.ParseFormat(a.output)
	if err != nil {
		return err
	}
	if format != ui.FormatText {
		return ui.Encode(cmd.OutOrStdout(), v, format)
	}

	text, err := render()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

// Package topics adds file based help topics to a cobra command tree.
// `<app> help <topic>` renders a topic, `<app> help topics` lists them and
// anything else falls through to the regular command help.
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// optionPrefix marks topics documenting a flag: option-dry-run.md answers
// `help --dry-run`
const optionPrefix = "option-"

// Topic is one help document
type Topic struct {
	Name    string
	Ext     string
	Content string
}

// Options configure the manager
type Options struct {
	// Extensions considered topics; defaults to .md and .txt
	Extensions []string
	Renderer   Renderer
}

// Manager holds the topics of one command tree
type Manager struct {
	topics   map[string]*Topic
	renderer Renderer
}

// Load reads every topic file at the top of fsys
func Load(fsys fs.FS, opts Options) (*Manager, error) {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".md", ".txt"}
	}
	if opts.Renderer == nil {
		opts.Renderer = PlainRenderer{}
	}

	m := &Manager{topics: make(map[string]*Topic), renderer: opts.Renderer}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read topics: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !hasExt(entry.Name(), opts.Extensions) {
			continue
		}
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read topic %s: %w", entry.Name(), err)
		}
		ext := path.Ext(entry.Name())
		name := strings.TrimSuffix(entry.Name(), ext)
		m.topics[name] = &Topic{Name: name, Ext: ext, Content: string(content)}
	}
	return m, nil
}

func hasExt(name string, exts []string) bool {
	for _, ext := range exts {
		if path.Ext(name) == ext {
			return true
		}
	}
	return false
}

// Get finds a topic by name; flag spellings (--dry-run) map to option topics
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if topic, ok := m.topics[name]; ok {
		return topic, true
	}
	topic, ok := m.topics[optionPrefix+name]
	return topic, ok
}

// Names lists topic names sorted
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render writes the rendered topic
func (m *Manager) Render(w io.Writer, topic *Topic) {
	fmt.Fprint(w, m.renderer.Render(topic.Content, topic.Ext))
}

func (m *Manager) writeList(w io.Writer, app string) {
	names := m.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var general, options []string
	for _, name := range names {
		if strings.HasPrefix(name, optionPrefix) {
			options = append(options, "--"+strings.TrimPrefix(name, optionPrefix))
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	for _, group := range []struct {
		title string
		names []string
	}{{"General topics:", general}, {"Option topics:", options}} {
		if len(group.names) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", group.title)
		for _, name := range group.names {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", app)
}

// Install replaces the help command of root with one that also knows the
// topics in fsys
func Install(root *cobra.Command, fsys fs.FS, opts Options) (*Manager, error) {
	m, err := Load(fsys, opts)
	if err != nil {
		return nil, err
	}
	originalHelp := root.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: fmt.Sprintf("Help for any command or topic.\n\nTo see all available help topics:\n  %s help topics",
			root.Name()),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.Names()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			switch {
			case len(args) == 0:
				originalHelp(root, args)
			case args[0] == "topics":
				m.writeList(cmd.OutOrStdout(), root.Name())
			default:
				if topic, ok := m.Get(args[0]); ok {
					m.Render(cmd.OutOrStdout(), topic)
					return
				}
				if target, _, err := root.Find(args); err == nil && target != root {
					originalHelp(target, args)
					return
				}
				originalHelp(root, args)
			}
		},
	}

	root.SetHelpCommand(helpCmd)
	return m, nil
}

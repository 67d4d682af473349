package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/syntree/pkg/buildinfo"
	"github.com/matzehuels/syntree/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The config file is read in PersistentPreRunE, so every subcommand sees
// c.Config with file values applied. Flags are applied on top by each
// command.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Syntree builds syntax-tree diagrams from word and phrase tiles",
		Long:         `Syntree is a terminal editor for syntax-tree diagrams. Drop part-of-speech and phrase tiles on a canvas, pair them into trees, and export the result as SVG, PNG, GIF or PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			hooks := newLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetEditorHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/syntree/config.toml)")

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

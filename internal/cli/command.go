package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/dirsize/internal/config"
	"github.com/idelchi/dirsize/internal/dirsize"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

//nolint:gochecknoglobals // Config constants
var (
	allowedOutputs = []string{"text", "json"}
	allowedEngines = []string{dirsize.EngineScheduler, dirsize.EngineFastwalk}
)

// Execute runs the CLI with the process arguments.
func (c CLI) Execute(ctx context.Context) error {
	return c.Command().ExecuteContext(ctx)
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var (
		options  dirsize.Options
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "dirsize [flags] [DIR]",
		Short: "Calculate space usage of a directory tree",
		Long: heredoc.Doc(`
			dirsize calculates the total size of a directory tree.

			Metadata for every path is fetched concurrently. Hard-linked files are
			counted once unless --ignore-hardlinks is given, and symbolic links are
			skipped unless --follow-symlinks is given.

			Defaults for most flags can be set in a YAML file at
			$XDG_CONFIG_HOME/dirsize/config.yaml (or ~/.config/dirsize/config.yaml).

			Positional Arguments:
			  DIR    Directory to start from. Defaults to the current directory.
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Version {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			if err := applyConfig(cmd.Flags(), &options); err != nil {
				return err
			}

			if cmd.Flags().Changed("progress") {
				options.Progress = &progress
			}

			if !slices.Contains(allowedOutputs, options.Output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
			}

			if !slices.Contains(allowedEngines, options.Engine) {
				return fmt.Errorf("invalid engine %q: must be one of %v", options.Engine, allowedEngines)
			}

			if len(args) == 0 {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("getting current directory: %w", err)
				}

				options.Path = cwd
			} else {
				options.Path = args[0]
			}

			return logic(cmd.Context(), options, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	bindFlags(flags, &options)
	flags.BoolVar(&progress, "progress", false, "Show a progress line on stderr (default: when stderr is a terminal)")

	return cmd
}

// bindFlags registers the traversal flags on fs.
func bindFlags(fs *pflag.FlagSet, options *dirsize.Options) {
	fs.BoolVarP(&options.HumanReadable, "human-readable", "H", false, "Print size with unit suffixes (e.g., 1.2 MB)")
	fs.BoolVarP(&options.IgnoreHardlinks, "ignore-hardlinks", "i", false, "Count every hard link separately")
	fs.BoolVarP(&options.FollowSymlinks, "follow-symlinks", "f", false, "Follow symbolic links and count their targets")
	fs.IntVar(
		&options.MaxRetries,
		"max-retries",
		dirsize.DefaultMaxRetries,
		"Retries per path on transient resource errors (negative=unlimited)",
	)
	fs.StringVar(&options.Engine, "engine", dirsize.EngineScheduler, "Traversal engine: scheduler or fastwalk")
	fs.StringVarP(&options.Output, "output", "o", "text", "Output format: text or json")
	fs.StringVar(&options.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&options.Debug, "debug", false, "Enable debug output")
	fs.BoolVarP(&options.Version, "version", "v", false, "Show version and exit")
}

// applyConfig fills options from the config file for every flag not set explicitly.
func applyConfig(fs *pflag.FlagSet, options *dirsize.Options) error {
	cfg, err := config.Load(options.ConfigPath)
	if err != nil {
		return err
	}

	if cfg.HumanReadable != nil && !fs.Changed("human-readable") {
		options.HumanReadable = *cfg.HumanReadable
	}

	if cfg.IgnoreHardlinks != nil && !fs.Changed("ignore-hardlinks") {
		options.IgnoreHardlinks = *cfg.IgnoreHardlinks
	}

	if cfg.FollowSymlinks != nil && !fs.Changed("follow-symlinks") {
		options.FollowSymlinks = *cfg.FollowSymlinks
	}

	if cfg.MaxRetries != nil && !fs.Changed("max-retries") {
		options.MaxRetries = *cfg.MaxRetries
	}

	if cfg.Engine != nil && !fs.Changed("engine") {
		options.Engine = *cfg.Engine
	}

	if cfg.Output != nil && !fs.Changed("output") {
		options.Output = *cfg.Output
	}

	return nil
}

// Command fswatch watches a set of files and directories and runs a
// user-supplied shell command each time a watched entry changes. Flag
// parsing uses github.com/spf13/cobra + github.com/spf13/pflag for
// --verbose, --clear, --config, and -c/--command.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RaimundHuebel/fswatch"
	"github.com/RaimundHuebel/fswatch/cmd/fswatch/config"
	"github.com/RaimundHuebel/fswatch/cmd/fswatch/runner"
	"github.com/RaimundHuebel/fswatch/cmd/fswatch/ui"
)

var (
	flagConfig    string
	flagVerbose   bool
	flagClear     bool
	flagRecursive bool
	flagCommand   string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fswatch [paths...]",
		Short: "Run a command whenever watched files or directories change",
		Long: "fswatch watches a set of files and directories and runs a " +
			"command every time a watched entry is modified. " + runner.Placeholder +
			" in the command is replaced with the path that changed.",
		Args: cobra.ArbitraryArgs,
		RunE: runMain,
	}

	flags := cmd.Flags()
	flags.StringVar(&flagConfig, "config", "", "load a JSON config file (isVerbose, isClearConsole, watchFiles, command)")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "log every watch-set and dispatch decision")
	flags.BoolVar(&flagClear, "clear", false, "clear the console before each command run")
	flags.BoolVarP(&flagRecursive, "recursive", "r", true, "watch directories recursively")
	flags.StringVarP(&flagCommand, "command", "c", "", "command to run on change; use {} for the changed path")

	return cmd
}

func runMain(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config %q: %w", flagConfig, err)
	}

	cliCfg := config.Config{
		IsVerbose:      flagVerbose,
		IsClearConsole: flagClear,
		WatchFiles:     args,
	}
	if flagCommand != "" {
		tokens, err := runner.Tokenize(flagCommand)
		if err != nil {
			return fmt.Errorf("parsing --command: %w", err)
		}
		cliCfg.Command = tokens
	}

	cfg := config.Merge(fileCfg, cliCfg)

	if len(cfg.WatchFiles) == 0 {
		return fmt.Errorf("no paths to watch: pass paths as arguments or set watchFiles in --config")
	}
	if len(cfg.Command) == 0 {
		return fmt.Errorf("no command to run: pass -c/--command or set command in --config")
	}

	w, err := fswatch.New()
	if err != nil {
		return fmt.Errorf("starting watch engine: %w", err)
	}
	defer w.Dispose()

	w.SetVerbose(cfg.IsVerbose)
	w.AddFilepaths(cfg.WatchFiles, flagRecursive)

	ui.OK("watching %d path(s); press ^C to exit", len(cfg.WatchFiles))

	return w.Run(func(ev fswatch.FileChangeEvent) {
		if cfg.IsClearConsole {
			ui.ClearScreen()
		}
		if cfg.IsVerbose {
			ui.OK("%s %s %s", ev.EventType, ev.FileType, ev.Filepath)
		}

		tokens := runner.Build(cfg.Command, ev.Filepath)
		code, err := runner.Run(context.Background(), tokens, cfg.IsVerbose)
		if err != nil {
			ui.Fail("running command: %s", err)
			return
		}
		if code != 0 {
			ui.Warn("command exited with status %d", code)
		}
	})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ui.Fail("%s", err)
		os.Exit(1)
	}
}

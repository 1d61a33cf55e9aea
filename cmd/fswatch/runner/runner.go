// Package runner implements shell-command interpolation and child-process
// spawning: given a command token list and the filepath from a
// FileChangeEvent, it substitutes the literal "{}" placeholder and spawns
// the result through the platform shell. It uses stdlib os/exec, the idiom
// moby-moby and mutagen-io-mutagen both use for child-process execution,
// plus github.com/google/shlex for tokenizing a command supplied as one
// raw string via the CLI's -c/--command flag.
package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/google/shlex"
)

// Placeholder is the token substituted with the triggering file's path.
const Placeholder = "{}"

// Tokenize splits a single command string into tokens the way a POSIX
// shell would, for the case where the CLI's -c/--command flag is given a
// single quoted string instead of a JSON config's already-split array.
func Tokenize(command string) ([]string, error) {
	return shlex.Split(command)
}

// Build substitutes every occurrence of Placeholder in tokens with
// filepath.
func Build(tokens []string, filepath string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ReplaceAll(t, Placeholder, filepath)
	}
	return out
}

// Run joins tokens and spawns them through the platform shell, returning
// the child's exit code. It does not parse or execute the command itself
// beyond handing the joined string to the shell.
func Run(ctx context.Context, tokens []string, verbose bool) (int, error) {
	joined := strings.Join(tokens, " ")

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", joined)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", joined)
	}

	if verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

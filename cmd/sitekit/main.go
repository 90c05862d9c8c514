package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-sitekit"
	"github.com/alnah/go-sitekit/internal/config"
	"github.com/alnah/go-sitekit/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches the command in args and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error

	switch cmd {
	case "snapshot":
		err = runSnapshot(ctx, rest, env)
	case "enhance":
		err = runEnhance(ctx, rest, env)
	case "copy":
		err = runCopy(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "sitekit %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", withHint(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// withHint appends an actionable hint to err when one applies.
func withHint(err error) error {
	var hint string
	switch {
	case errors.Is(err, sitekit.ErrBrowserLaunch):
		hint = hints.ForBrowserLaunch()
	case errors.Is(err, sitekit.ErrFontsTimeout), strings.Contains(err.Error(), "timed out"):
		hint = hints.ForTimeout()
	case errors.Is(err, sitekit.ErrInputNotFound):
		hint = hints.ForInputNotFound(sitekit.DefaultSnapshotInput)
	case errors.Is(err, sitekit.ErrOutputDir):
		hint = hints.ForOutputDirectory()
	case errors.Is(err, sitekit.ErrUnknownBackend):
		hint = hints.ForBackend(sitekit.Backends)
	case errors.Is(err, sitekit.ErrUnknownFeature):
		hint = hints.ForFeature(sitekit.FeatureNames())
	case errors.Is(err, sitekit.ErrClipboard):
		hint = hints.ForClipboard()
	case errors.Is(err, config.ErrConfigNotFound):
		hint = hints.ForConfigNotFound(configSearchPaths(err))
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// configSearchPaths extracts the paths listed after "tried " in a config
// lookup error.
func configSearchPaths(err error) []string {
	_, tried, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(tried, ", ")
}

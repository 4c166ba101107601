// Package cli implements the backoff command, which runs an arbitrary
// command under an exponential backoff retry policy.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/cloudfence/backoff"
)

// CodeCommandFailed classifies a nonzero exit so the engine can retry it.
const CodeCommandFailed = "CommandFailed"

var (
	maxRetries  int
	baseDelay   time.Duration
	jitter      float64
	retryCodes  []string
	ignoreCodes []string
	configPath  string
	profileName string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "backoff [flags] -- command [args...]",
	Short: "Run a command under an exponential backoff retry policy",
	Long: `backoff runs a command and retries it with exponentially growing,
jittered delays while it keeps exiting nonzero. A command that cannot be
started at all is never retried.`,
	Args:          cobra.MinimumNArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal-aware cancellation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&maxRetries, "max-retries", backoff.DefaultMaxRetries, "maximum retries after the first attempt")
	f.DurationVar(&baseDelay, "base-delay", backoff.DefaultBaseDelay, "delay before the first retry")
	f.Float64Var(&jitter, "jitter", backoff.DefaultJitterFactor, "jitter factor in [0,1]")
	f.StringArrayVar(&retryCodes, "retry-code", nil, "additional error code to retry on (repeatable)")
	f.StringArrayVar(&ignoreCodes, "ignore-code", nil, "error code to suppress (repeatable)")
	f.StringVar(&configPath, "config", "", "YAML profile file")
	f.StringVar(&profileName, "profile", "default", "profile name within --config")
	f.BoolVarP(&verbose, "verbose", "v", false, "log each retry")
}

func run(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	log := newLogger(verbose)
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	opts = append(opts,
		backoff.WithLogger(log),
		backoff.WithRetryCodes(CodeCommandFailed),
	)

	runner := backoff.Wrap(func(ctx context.Context) (int, error) {
		return runCommand(ctx, args)
	}, opts...)

	_, err = runner(cmd.Context())
	return err
}

// runCommand executes one attempt. Nonzero exits come back as coded errors;
// start failures (command not found, permission denied) carry no code and
// therefore propagate without retrying.
func runCommand(ctx context.Context, args []string) (int, error) {
	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), backoff.WithCode(CodeCommandFailed, err)
		}
		return -1, err
	}
	return 0, nil
}

// buildOptions layers flag values over the profile, flags winning when set
// explicitly.
func buildOptions(cmd *cobra.Command) ([]backoff.Option, error) {
	var opts []backoff.Option

	if configPath != "" {
		prof, err := backoff.LoadProfile(configPath, profileName)
		if err != nil {
			return nil, err
		}
		opts, err = prof.Options()
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("max-retries") || configPath == "" {
		opts = append(opts, backoff.WithMaxRetries(maxRetries))
	}
	if flags.Changed("base-delay") || configPath == "" {
		opts = append(opts, backoff.WithBaseDelay(baseDelay))
	}
	if flags.Changed("jitter") || configPath == "" {
		opts = append(opts, backoff.WithJitterFactor(jitter))
	}
	if len(retryCodes) > 0 {
		opts = append(opts, backoff.WithRetryCodes(retryCodes...))
	}
	if len(ignoreCodes) > 0 {
		opts = append(opts, backoff.WithIgnoreCodes(ignoreCodes...))
	}
	return opts, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

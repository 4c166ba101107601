package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/cloudfence/backoff/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Mirror the wrapped command's exit code when it ran and failed.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, "backoff:", err)
		os.Exit(1)
	}
}

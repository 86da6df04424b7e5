// Command shelf manages a personal library of audiobooks and podcasts:
// importing and exporting library item documents, reconciling their tracks
// with files available on this device, and searching what is stored.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	domainerrors "github.com/listenupapp/listenup-shelf/internal/errors"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to a process exit status by its domain code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return domainerrors.CodeOf(err).ExitCode()
}

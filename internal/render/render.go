// Package render wraps the external text-to-text services used by a build:
// Markdown to HTML conversion and single-entry citation formatting.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/starford/laguz/internal/apperr"
)

// Converter turns Markdown source into an HTML fragment.
type Converter interface {
	Convert(ctx context.Context, markdown string) (string, error)
}

// run feeds stdin to bin and returns its standard output. A non-zero exit
// or anything written to standard error fails the call with the captured
// error output.
func run(ctx context.Context, bin string, args []string, stdin string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = strings.NewReader(stdin + "\n")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil || stderr.Len() > 0 {
		if err == nil {
			err = fmt.Errorf("unexpected error output")
		}
		return "", &apperr.ServiceError{
			Command: bin,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.String(), nil
}

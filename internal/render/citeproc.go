package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/starford/laguz/internal/apperr"
)

// Citeproc formats a single CSL-JSON entry with the citeproc binary.
type Citeproc struct {
	Binary string
	Style  string
}

type citeprocOutput struct {
	Bibliography [][]any `json:"bibliography"`
}

// Format returns the formatted bibliography text for entryJSON.
func (c *Citeproc) Format(ctx context.Context, entryJSON string) (string, error) {
	bin := c.Binary
	if bin == "" {
		bin = "citeproc"
	}
	var args []string
	if c.Style != "" {
		args = append(args, "--style="+c.Style)
	}
	input := `{ "references": [ ` + entryJSON + ` ]}`

	out, err := run(ctx, bin, args, input)
	if err != nil {
		return "", err
	}

	var parsed citeprocOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return "", &apperr.ServiceError{Command: bin, Err: fmt.Errorf("decode output: %w", err)}
	}
	if len(parsed.Bibliography) == 0 || len(parsed.Bibliography[0]) < 2 {
		return "", &apperr.ServiceError{Command: bin, Err: fmt.Errorf("empty bibliography in output")}
	}
	text, ok := parsed.Bibliography[0][1].(string)
	if !ok {
		return "", &apperr.ServiceError{Command: bin, Err: fmt.Errorf("bibliography entry is not text")}
	}
	return text, nil
}

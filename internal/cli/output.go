package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormatter handles JSON vs text output for command results.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Result prints a command result. JSON mode emits the payload as a single
// object; text mode prints the summary line.
func (f *OutputFormatter) Result(summary string, payload any) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	_, err := fmt.Fprintln(f.Writer, summary)
	return err
}

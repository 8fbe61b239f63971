// Package cli implements the quarry command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quarrydb/quarry-go/internal/backend"
	"github.com/quarrydb/quarry-go/pkg/client"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Addr    string // HTTP backend base URL
	DB      string // embedded sqlite backend path
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the quarry CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "quarry",
		Short: "Quarry document-search client",
		Long: "Build declarative query documents, compile them to JSON, YAML, or\n" +
			"MsgPack, and run them against an HTTP backend or an embedded local store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", "", "HTTP backend base URL")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "embedded backend database path")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewIndexCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newClient builds a client from the global backend flags. The embedded
// backend wins when both are given; the returned cleanup closes it.
func newClient(opts *RootOptions) (*client.Client, func() error, error) {
	switch {
	case opts.DB != "":
		s, err := backend.Open(opts.DB)
		if err != nil {
			return nil, nil, err
		}
		c, err := client.New(client.WithTransport(backend.NewTransport(s)))
		if err != nil {
			s.Close()
			return nil, nil, err
		}
		return c, s.Close, nil
	case opts.Addr != "":
		c, err := client.New(client.WithAddr(opts.Addr))
		if err != nil {
			return nil, nil, err
		}
		return c, func() error { return nil }, nil
	default:
		return nil, nil, errors.New("a backend is required: --addr or --db")
	}
}

// Main runs the root command and returns the process exit code.
func Main() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

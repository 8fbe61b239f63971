package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/cobra"

	"github.com/quarrydb/quarry-go/pkg/doc"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Encoding string
	Output   string
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a declarative document file",
		Long: `Compile a YAML or CUE document description into a serialized document.

Field order in the source file is preserved in the output. The input
format is chosen by file extension (.yaml/.yml or .cue).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Encoding, "encoding", "e", "json", "target encoding (json|yaml|msgpack)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	block, err := loadBlock(path)
	if err != nil {
		return err
	}

	enc, err := doc.ParseEncoding(opts.Encoding)
	if err != nil {
		return err
	}

	compiled, err := doc.Compile(block, enc)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		return os.WriteFile(opts.Output, compiled.Bytes(), 0o644)
	}
	_, err = compiled.WriteTo(cmd.OutOrStdout())
	return err
}

// loadBlock reads a block tree from a YAML or CUE file.
func loadBlock(path string) (*doc.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		return doc.FromYAML(data)
	case ".cue":
		v := cuecontext.New().CompileBytes(data)
		return doc.FromCUE(v)
	default:
		return nil, fmt.Errorf("unsupported input extension %q (want .yaml, .yml, or .cue)", ext)
	}
}

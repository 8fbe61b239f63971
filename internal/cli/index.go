package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quarrydb/quarry-go/pkg/client"
	"github.com/quarrydb/quarry-go/pkg/doc"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	ID   string
	File string
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "index <index> --file <doc>",
		Short:         "Store a document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "document ID (generated when omitted)")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "document file (.json, .yaml, .cue)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runIndex(opts *IndexOptions, index string, cmd *cobra.Command) error {
	block, source, err := loadRequestBody(opts.File)
	if err != nil {
		return err
	}

	c, cleanup, err := newClient(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := c.Index(cmd.Context(), client.IndexRequest{
		Index:  index,
		ID:     opts.ID,
		Doc:    block,
		Source: source,
	})
	if err != nil {
		return err
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	verb := "updated"
	if resp.Created {
		verb = "created"
	}
	return f.Result(fmt.Sprintf("%s %s/%s (version %d)", verb, resp.Index, resp.ID, resp.Version), resp)
}

// loadRequestBody reads a request body file. JSON passes through verbatim
// as pre-compiled source; YAML and CUE load as block trees so field order
// is preserved through compilation.
func loadRequestBody(path string) (*doc.Block, []byte, error) {
	switch ext := filepath.Ext(path); ext {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		if !json.Valid(data) {
			return nil, nil, fmt.Errorf("%s is not valid JSON", path)
		}
		return nil, data, nil
	case ".yaml", ".yml", ".cue":
		block, err := loadBlock(path)
		if err != nil {
			return nil, nil, err
		}
		return block, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported body extension %q (want .json, .yaml, .yml, or .cue)", ext)
	}
}

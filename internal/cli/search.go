package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrydb/quarry-go/pkg/client"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	File string
	Size int
	From int
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "search <index>",
		Short:         "Run a query",
		Long:          "Run a query against an index. Without --file, matches all documents.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "query file (.json, .yaml, .cue)")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "maximum hits to return")
	cmd.Flags().IntVar(&opts.From, "from", 0, "offset into the result set")

	return cmd
}

func runSearch(opts *SearchOptions, index string, cmd *cobra.Command) error {
	req := client.SearchRequest{Index: index, Size: opts.Size, From: opts.From}
	if opts.File != "" {
		block, source, err := loadRequestBody(opts.File)
		if err != nil {
			return err
		}
		req.Query = block
		req.Source = source
	}

	c, cleanup, err := newClient(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := c.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return f.Result("", resp)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d hit(s)\n", resp.Total)
	for _, hit := range resp.Hits {
		fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\t%s\n", hit.Index, hit.ID, string(hit.Source))
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrydb/quarry-go/pkg/client"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <index> <id>",
		Short:         "Fetch a document",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := newClient(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := c.Get(cmd.Context(), client.GetRequest{Index: args[0], ID: args[1]})
			if err != nil {
				return err
			}
			if !resp.Found {
				return fmt.Errorf("document %s/%s not found", args[0], args[1])
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Result(string(resp.Source), resp)
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrydb/quarry-go/pkg/client"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <index> <id>",
		Short:         "Delete a document",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := newClient(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := c.Delete(cmd.Context(), client.DeleteRequest{Index: args[0], ID: args[1]})
			if err != nil {
				return err
			}
			if !resp.Found {
				return fmt.Errorf("document %s/%s not found", args[0], args[1])
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Result(fmt.Sprintf("deleted %s/%s", resp.Index, resp.ID), resp)
		},
	}
}

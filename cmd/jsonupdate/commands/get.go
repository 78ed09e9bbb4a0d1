package commands

import (
	"github.com/spf13/cobra"

	"github.com/bassista/go_jsonupdate/internal/jsonfile"
)

func getCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get FILE",
		Short: "Print a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.orchestrator.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := jsonfile.Marshal(doc, opts.writeOptions())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	return cmd
}

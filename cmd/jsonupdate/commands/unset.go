package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bassista/go_jsonupdate/internal/document"
)

func unsetCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset FILE KEY...",
		Short: "Remove one or more dotted keys",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := args[1:]
			for _, key := range keys {
				if _, err := document.SplitPath(key); err != nil {
					return err
				}
			}
			return opts.update(cmd, args[0], func(_ context.Context, doc any) (any, error) {
				var err error
				for _, key := range keys {
					if doc, err = document.DeletePath(doc, key); err != nil {
						return nil, err
					}
				}
				return doc, nil
			})
		},
	}
	return cmd
}

package commands

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bassista/go_jsonupdate/internal/document"
	"github.com/bassista/go_jsonupdate/internal/jsonfile"
)

func mergeCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge FILE PATCH_FILE|-",
		Short: "Apply a JSON merge patch (RFC 7386)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := readPatch(cmd, opts.fs, args[1])
			if err != nil {
				return err
			}
			return opts.update(cmd, args[0], document.Merge(patch))
		},
	}
	return cmd
}

func readPatch(cmd *cobra.Command, fsys afero.Fs, source string) (any, error) {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = afero.ReadFile(fsys, source)
	}
	if err != nil {
		return nil, fmt.Errorf("read patch: %w", err)
	}

	var patch any
	if err := jsonfile.Decode(data, &patch); err != nil {
		return nil, fmt.Errorf("patch %s: %w", source, err)
	}
	return patch, nil
}

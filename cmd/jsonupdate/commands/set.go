package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bassista/go_jsonupdate/internal/document"
)

type assignment struct {
	path  string
	value any
}

func setCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set FILE KEY=VALUE...",
		Short: "Set one or more dotted keys",
		Long: "Set one or more dotted keys. VALUE is parsed as JSON when it is valid JSON " +
			"(numbers, true, null, objects...) and stored as a string otherwise.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignments, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			return opts.update(cmd, args[0], func(_ context.Context, doc any) (any, error) {
				var err error
				for _, a := range assignments {
					if doc, err = document.SetPath(doc, a.path, a.value); err != nil {
						return nil, err
					}
				}
				return doc, nil
			})
		},
	}
	return cmd
}

func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", arg)
		}
		if _, err := document.SplitPath(key); err != nil {
			return nil, err
		}
		out = append(out, assignment{path: key, value: document.ParseValue(raw)})
	}
	return out, nil
}

package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bassista/go_jsonupdate/internal/document"
	"github.com/bassista/go_jsonupdate/internal/jsonfile"
	"github.com/bassista/go_jsonupdate/internal/jsonupdate"
	"github.com/bassista/go_jsonupdate/internal/logger"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	fs           afero.Fs
	orchestrator *jsonupdate.Orchestrator

	defaultJSON  string
	create       bool
	indent       int
	compact      bool
	detectIndent bool
	logLevel     string
}

func Execute() error {
	root := newRootCmd(afero.NewOsFs())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func newRootCmd(fsys afero.Fs) *cobra.Command {
	opts := &globalOptions{fs: fsys}

	root := &cobra.Command{
		Use:           "jsonupdate",
		Short:         "Update JSON files in place",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			if err := logger.SetLevel(opts.logLevel); err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			if opts.indent < 0 || opts.indent > 8 {
				return errors.New("--indent must be between 0 and 8")
			}

			orchestrator, err := jsonupdate.NewOrchestrator(jsonfile.NewFileStore(opts.fs))
			if err != nil {
				return err
			}
			opts.orchestrator = orchestrator
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.defaultJSON, "default", "", "JSON document to start from when FILE is missing or unreadable")
	flags.BoolVar(&opts.create, "create", false, "start from {} when FILE is missing or unreadable")
	flags.IntVar(&opts.indent, "indent", 2, "spaces per indentation level")
	flags.BoolVar(&opts.compact, "compact", false, "write without whitespace")
	flags.BoolVar(&opts.detectIndent, "detect-indent", false, "keep the indentation of the existing file")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	root.MarkFlagsMutuallyExclusive("default", "create")

	root.AddCommand(getCmd(opts), setCmd(opts), unsetCmd(opts), mergeCmd(opts))
	return root
}

// defaultDocument returns the starting document selected by --default or --create.
func (o *globalOptions) defaultDocument() (jsonupdate.Default[any], error) {
	switch {
	case o.defaultJSON != "":
		var v any
		if err := jsonfile.Decode([]byte(o.defaultJSON), &v); err != nil {
			return nil, fmt.Errorf("invalid --default: %w", err)
		}
		return jsonupdate.Literal(v), nil
	case o.create:
		return document.EmptyObject(), nil
	}
	return nil, nil
}

func (o *globalOptions) writeOptions() jsonfile.WriteOptions {
	return jsonfile.WriteOptions{
		Indent:       strings.Repeat(" ", o.indent),
		Compact:      o.compact || o.indent == 0,
		DetectIndent: o.detectIndent,
	}
}

// update runs fn as a single update of path.
func (o *globalOptions) update(cmd *cobra.Command, path string, fn jsonupdate.Updater[any]) error {
	def, err := o.defaultDocument()
	if err != nil {
		return err
	}
	return o.orchestrator.Update(cmd.Context(), path, fn, &jsonupdate.Options[any]{
		Default: def,
		Write:   o.writeOptions(),
	})
}

// Package cli implements the flowcanvas command.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/flowcanvas/internal/ui"
)

var version = "0.1.0"

type rootOptions struct {
	configPath string
	driver     string
	dbPath     string
	document   string
	verbose    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:   "flowcanvas",
		Short: "Design business workflows as node graphs",
		Long: ui.Brand.Sprint("flowcanvas") + " - edit workflow canvases from the terminal\n" +
			ui.Subtle.Sprint("Nodes size themselves from their content; suggestions can draft whole flows"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("flowcanvas {{ .Version }}\n")

	f := root.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", "", "settings file (.yaml, .json or .toml)")
	f.StringVar(&o.driver, "store", "", "store driver (memory, sqlite)")
	f.StringVar(&o.dbPath, "db", "", "store path")
	f.StringVarP(&o.document, "doc", "d", "default", "document id")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newCmd(o),
		showCmd(o),
		listCmd(o),
		addCmd(o),
		connectCmd(o),
		removeCmd(o),
		moveCmd(o),
		suggestCmd(o),
		measureCmd(o),
		kindsCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		ui.Bad.Fprintf(os.Stderr, "flowcanvas: %v\n", err)
		return 1
	}
	return 0
}

// withEnv runs fn with a fully set up environment.
func withEnv(o *rootOptions, fn func(e *env) error) error {
	e, err := setup(o)
	if err != nil {
		return err
	}
	defer e.close()
	return fn(e)
}

func printSaved(id string, bytes int) {
	fmt.Printf("  %s saved %s %s\n", ui.StatusIcon(true), id, ui.Subtle.Sprintf("(%d bytes)", bytes))
}

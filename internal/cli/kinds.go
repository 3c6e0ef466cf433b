package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/flowcanvas/internal/ui"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
)

func measureCmd(o *rootOptions) *cobra.Command {
	var kind, label string
	cmd := &cobra.Command{
		Use:   "measure <content>",
		Short: "Show the size a node would get for some content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := graph.ParseKind(kind)
			if err != nil {
				return err
			}
			if label == "" {
				label = k.DefaultLabel()
			}
			return withEnv(o, func(e *env) error {
				size := e.sizer.ComputeSize(k, label, args[0], graph.Size{}, false)
				r := e.sizer.RulesFor(k)
				fmt.Printf("  %s %gx%g %s\n", ui.Brand.Sprint(k), size.Width, size.Height,
					ui.Subtle.Sprintf("(width %g-%g, min height %g, measurer %s)",
						r.MinWidth, r.MaxWidth, r.MinHeight, e.settings.Sizing.Measurer))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", string(graph.KindAgent), "node kind")
	cmd.Flags().StringVar(&label, "label", "", "node label")
	return cmd
}

func kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List node kinds and their connection handles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			rows := make([][]string, 0, len(graph.Kinds()))
			for _, k := range graph.Kinds() {
				var targets, sources []string
				for _, h := range graph.Handles(k) {
					if h.Type == graph.HandleTarget {
						targets = append(targets, h.ID)
					} else {
						sources = append(sources, h.ID)
					}
				}
				rows = append(rows, []string{
					string(k), k.DefaultLabel(), orDash(strings.Join(targets, ", ")), orDash(strings.Join(sources, ", ")),
				})
			}
			ui.Table([]string{"KIND", "LABEL", "TARGETS", "SOURCES"}, rows)
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

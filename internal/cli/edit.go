package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/flowcanvas/internal/ui"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
)

// edit opens the document, runs fn, and commits the result.
func edit(ctx context.Context, o *rootOptions, fn func(c *flowcanvas.Canvas) error) error {
	return withEnv(o, func(e *env) error {
		c, err := e.open(ctx, o.document)
		if err != nil {
			return err
		}
		defer c.Close()
		if err := fn(c); err != nil {
			return err
		}
		res := c.SaveNow(ctx)
		if res.Err != nil {
			return res.Err
		}
		printSaved(o.document, res.Bytes)
		return nil
	})
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, s)
	}
	return v, nil
}

func addCmd(o *rootOptions) *cobra.Command {
	var (
		x, y    float64
		label   string
		content string
	)
	cmd := &cobra.Command{
		Use:   "add <kind>",
		Short: "Add a node",
		Long:  "Add a node of the given kind. Run `flowcanvas kinds` for the list.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd.Context(), o, func(c *flowcanvas.Canvas) error {
				n, err := c.Drop(args[0], graph.Position{X: x, Y: y})
				if err != nil {
					return err
				}
				patch := graph.NodePatch{}
				if label != "" {
					patch.Label = &label
				}
				if content != "" {
					patch.Content = &content
				}
				if n, err = c.UpdateNode(n.ID, patch); err != nil {
					return err
				}
				fmt.Printf("  %s %s %s\n", ui.StatusIcon(true), ui.Brand.Sprint(n.ID),
					ui.Subtle.Sprintf("%gx%g at %g,%g", n.Size.Width, n.Size.Height, n.Position.X, n.Position.Y))
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&x, "x", 0, "x position")
	f.Float64Var(&y, "y", 0, "y position")
	f.StringVar(&label, "label", "", "node label")
	f.StringVar(&content, "content", "", "node content")
	return cmd
}

func connectCmd(o *rootOptions) *cobra.Command {
	var fromHandle, toHandle, style string
	cmd := &cobra.Command{
		Use:   "connect <from-node> <to-node>",
		Short: "Connect two nodes",
		Long: "Connect two nodes. Without handle flags the primary source and target\n" +
			"handles of the node kinds are used.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd.Context(), o, func(c *flowcanvas.Canvas) error {
				var (
					e   graph.Edge
					err error
				)
				if fromHandle == "" && toHandle == "" {
					e, err = c.ConnectPrimary(args[0], args[1], style)
				} else {
					e, err = c.Connect(
						graph.EdgeRef{NodeID: args[0], HandleID: fromHandle},
						graph.EdgeRef{NodeID: args[1], HandleID: toHandle},
						style,
					)
				}
				if err != nil {
					return err
				}
				fmt.Printf("  %s %s\n", ui.StatusIcon(true), e.ID)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&fromHandle, "from-handle", "", "source handle id")
	f.StringVar(&toHandle, "to-handle", "", "target handle id")
	f.StringVar(&style, "style", "", "edge style tag")
	return cmd
}

func removeCmd(o *rootOptions) *cobra.Command {
	var edge bool
	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a node and its edges, or an edge with --edge",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd.Context(), o, func(c *flowcanvas.Canvas) error {
				if edge {
					return c.Disconnect(args[0])
				}
				n := len(c.Document().EdgesOf(args[0]))
				if err := c.RemoveNode(args[0]); err != nil {
					return err
				}
				fmt.Printf("  %s removed %s %s\n", ui.StatusIcon(true), args[0], ui.Subtle.Sprintf("(%d edges)", n))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&edge, "edge", false, "the id names an edge")
	return cmd
}

func moveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <node> <x> <y>",
		Short: "Move a node",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseFloat("x", args[1])
			if err != nil {
				return err
			}
			y, err := parseFloat("y", args[2])
			if err != nil {
				return err
			}
			return edit(cmd.Context(), o, func(c *flowcanvas.Canvas) error {
				return c.MoveNode(args[0], graph.Position{X: x, Y: y})
			})
		},
	}
}

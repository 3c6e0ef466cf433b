package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/flowcanvas/internal/ui"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/store"
)

func newCmd(o *rootOptions) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "new <document>",
		Short: "Create an empty document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(o, func(e *env) error {
				ctx := cmd.Context()
				if _, err := e.store.Load(ctx, args[0]); err == nil {
					return fmt.Errorf("document %q already exists", args[0])
				}
				doc := graph.NewDocument()
				if title != "" {
					doc.Fields["title"] = title
				}
				n, err := store.SaveDocument(ctx, e.store, args[0], doc)
				if err != nil {
					return err
				}
				printSaved(args[0], n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "document title")
	return cmd
}

func showCmd(o *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the nodes and edges of a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(o, func(e *env) error {
				c, err := e.open(cmd.Context(), o.document)
				if err != nil {
					return err
				}
				defer c.Close()
				doc := c.Document()

				if asJSON {
					data, err := graph.Encode(doc)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(os.Stdout, string(data))
					return err
				}

				ui.Banner(o.document, fmt.Sprintf("%d nodes, %d edges", doc.Len(), len(doc.Edges())))
				printFields(doc.Fields)

				rows := make([][]string, 0, doc.Len())
				for _, n := range doc.Nodes() {
					size := fmt.Sprintf("%gx%g", n.Size.Width, n.Size.Height)
					if n.ManualSize {
						size += "*"
					}
					rows = append(rows, []string{
						n.ID, string(n.Kind), ui.Truncate(n.Label, 24),
						fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y), size,
						ui.Truncate(n.Content, 40),
					})
				}
				ui.Table([]string{"ID", "KIND", "LABEL", "POS", "SIZE", "CONTENT"}, rows)

				if edges := doc.Edges(); len(edges) > 0 {
					fmt.Println()
					rows = rows[:0]
					for _, ed := range edges {
						rows = append(rows, []string{
							ed.SourceNodeID + ":" + ed.SourceHandleID,
							ed.TargetNodeID + ":" + ed.TargetHandleID,
							ed.Style,
						})
					}
					ui.Table([]string{"FROM", "TO", "STYLE"}, rows)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored JSON form")
	return cmd
}

func printFields(fields map[string]string) {
	if len(fields) == 0 {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s %s\n", ui.Info.Sprint(k+":"), fields[k])
	}
	fmt.Println()
}

func listCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(o, func(e *env) error {
				infos, err := e.store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(infos) == 0 {
					ui.Subtle.Println("  no documents")
					return nil
				}
				rows := make([][]string, 0, len(infos))
				for _, info := range infos {
					rows = append(rows, []string{
						info.ID, strconv.Itoa(info.Revision),
						info.UpdatedAt.Local().Format(time.DateTime),
						strconv.FormatInt(info.Size, 10),
					})
				}
				ui.Table([]string{"ID", "REV", "UPDATED", "BYTES"}, rows)
				return nil
			})
		},
	}
}

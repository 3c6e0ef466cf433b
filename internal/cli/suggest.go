package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/flowcanvas/internal/ui"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/event"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/suggest"
)

func suggestCmd(o *rootOptions) *cobra.Command {
	var (
		appendMode bool
		file       string
		yes        bool
	)
	cmd := &cobra.Command{
		Use:   "suggest <prompt>",
		Short: "Draft or extend the flow from a prompt",
		Long: "Ask the suggestion service for steps and merge them into the document.\n" +
			"By default the current nodes are replaced; pass --append to add below them.\n" +
			"With --file the suggestion is read from a JSON file instead.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && len(args) == 0 {
				return fmt.Errorf("a prompt or --file is required")
			}
			mode := suggest.ModeReplace
			if appendMode {
				mode = suggest.ModeAppend
			}
			prompt := ""
			if len(args) > 0 {
				prompt = args[0]
			}

			return withEnv(o, func(e *env) error {
				var svc suggest.Service = e.suggester()
				if file != "" {
					data, err := os.ReadFile(file)
					if err != nil {
						return err
					}
					p, err := suggest.ParsePayload(data)
					if err != nil {
						return err
					}
					svc = suggest.StaticService{Payload: p}
				}

				c, err := e.open(cmd.Context(), o.document, flowcanvas.WithSuggester(svc))
				if err != nil {
					return err
				}
				defer c.Close()

				if mode == suggest.ModeReplace && c.Document().Len() > 0 && !yes {
					return fmt.Errorf("replacing %d nodes; pass --yes to confirm or --append to keep them", c.Document().Len())
				}

				c.Subscribe(func(ev event.Event) {
					p := ev.Payload.(event.ReplacePayload)
					fmt.Printf("  %s %d nodes, %d edges\n", ui.StatusIcon(true), p.Nodes, p.Edges)
				}, event.DocumentReplaced)

				if err := c.Suggest(cmd.Context(), prompt, mode); err != nil {
					return err
				}
				res := c.SaveNow(cmd.Context())
				if res.Err != nil {
					return res.Err
				}
				printSaved(o.document, res.Bytes)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.BoolVar(&appendMode, "append", false, "add below the existing nodes")
	f.StringVarP(&file, "file", "f", "", "read the suggestion from a JSON file")
	f.BoolVarP(&yes, "yes", "y", false, "confirm replacing existing nodes")
	return cmd
}

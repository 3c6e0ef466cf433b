/*
Package suggest turns AI-generated suggestions into canvas documents.

A Service produces a Payload from a prompt. LLMService asks an llm.Client
and decodes the reply with ParsePayload, which accepts several loose
shapes:

	[{"kind": "agent", "label": "Greet"}, ...]
	{"steps": [...], "fields": {"title": "Refunds"}}
	{"title": "Refunds", "goal": "Resolve in one call"}

Merge applies the steps. By default it replaces the current graph; with
WithMode(ModeAppend) the steps are added below the existing nodes.
Entries without a usable position are laid out by a Placement. Edges are
synthesized in entry order, skipping note entries:

	[agent, note, system, end]  =>  agent -> system -> end

MergeFields applies only the flat field set.

Both return ErrMergeRejected for input that cannot be applied and never
modify the document passed in.
*/
package suggest

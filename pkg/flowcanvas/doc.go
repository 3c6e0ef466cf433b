/*
Package flowcanvas is an interactive graph-canvas engine for designing
business workflows: use cases, agent journeys and customer journeys drawn
as nodes and edges.

# Overview

A Canvas holds one open document. It ties together:
  - graph: the node/edge document model and its JSON wire format
  - sizing: content-driven node sizes
  - interaction: pointer-driven resize and drag
  - session: working vs committed copies and dirty tracking
  - autosave: the debounced commit to a store.Store
  - suggest: merging AI-generated suggestions into the graph

# Basic Usage

	s, err := store.Open("sqlite", "flows.db")
	if err != nil {
	    log.Fatal(err)
	}
	c, err := flowcanvas.Open(ctx, s, "refund-flow")
	if err != nil {
	    log.Fatal(err)
	}
	defer c.Close()

	c.StartEditing()
	start, _ := c.Drop("start", graph.Position{X: 100, Y: 100})
	agent, _ := c.AddNode(graph.KindAgent, graph.Position{X: 100, Y: 300})
	c.ConnectPrimary(start.ID, agent.ID, "")

	// Edits are committed 30s after the last change, or now:
	res := c.SaveChanges(ctx)

# Events

Every change is published as an event.Event. Commit events carry the
trigger so a UI can stay silent on autosave and confirm a manual save:

	c.Subscribe(func(e event.Event) {
	    p := e.Payload.(event.CommitPayload)
	    if p.Trigger == "manual" {
	        toast("Saved")
	    }
	}, event.CommitSucceeded)

# Errors

Nothing in the engine is fatal. A malformed stored document opens empty,
invalid edges are dropped with a warning, failed commits leave the canvas
dirty for the next attempt, and rejected suggestions leave the document
untouched. See the Err variables for the sentinels to test with errors.Is.
*/
package flowcanvas

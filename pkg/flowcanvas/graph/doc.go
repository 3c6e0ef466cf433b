/*
Package graph is the authoritative in-memory model of a canvas document:
nodes, edges, the static per-kind handle table, and the JSON wire format.

# Nodes and handles

Every node has a Kind. The kind alone decides which connection handles the
node exposes; handle ids are stable strings that are also written into the
persisted edges, so renaming them breaks stored documents:

	doc := graph.NewDocument()
	agent, _ := doc.AddNode(graph.KindAgent, graph.Position{X: 0, Y: 0})
	end, _ := doc.AddNode(graph.KindEnd, graph.Position{X: 0, Y: 200})

	_, err := doc.AddEdge(
	    graph.EdgeRef{NodeID: agent.ID, HandleID: "source-bottom"},
	    graph.EdgeRef{NodeID: end.ID, HandleID: "target-top"},
	    "",
	)

AddEdge rejects endpoints that reference a missing node, an unknown handle,
or a handle of the wrong direction with ErrInvalidEdgeEndpoint.

# Equality

Equal compares documents as sets of nodes and edges keyed by id. It is the
basis of dirty tracking: reverting a change makes two documents equal again.

# Wire format

Encode writes the canonical JSON shape. Decode also accepts the legacy
shapes (steps instead of nodes, React Flow edge keys, and a separate
positions map) and normalizes them.

# Thread Safety

Document is not safe for concurrent use. Callers serialize access.
*/
package graph

package graph

import (
	"errors"
	"fmt"
	"maps"
	"math"
)

// Version is the current serialization version of a document.
// Increment when making breaking changes to the wire format.
const Version = 1

// Document is a set of nodes and edges plus a flat field set.
// Node and edge order is kept for stable output but is not significant
// for equality.
type Document struct {
	// Version is the serialization version tag.
	Version int

	// Fields holds document-level values (title, description, goal, ...).
	Fields map[string]string

	nodes []Node
	index map[string]int
	edges []Edge
	seq   *Sequence
}

// NewDocument creates an empty document with its own id sequence.
func NewDocument() *Document {
	return &Document{
		Version: Version,
		Fields:  make(map[string]string),
		index:   make(map[string]int),
		seq:     NewSequence(),
	}
}

// Len returns the number of nodes.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Node returns the node with the given id.
func (d *Document) Node(id string) (Node, bool) {
	i, ok := d.index[id]
	if !ok {
		return Node{}, false
	}
	return d.nodes[i], true
}

// HasNode reports whether a node with this id exists.
func (d *Document) HasNode(id string) bool {
	_, ok := d.index[id]
	return ok
}

// Nodes returns a copy of all nodes in insertion order.
func (d *Document) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Edges returns a copy of all edges in insertion order.
func (d *Document) Edges() []Edge {
	out := make([]Edge, len(d.edges))
	copy(out, d.edges)
	return out
}

// EdgesOf returns every edge that has nodeID at either end.
func (d *Document) EdgesOf(nodeID string) []Edge {
	var out []Edge
	for _, e := range d.edges {
		if e.Touches(nodeID) {
			out = append(out, e)
		}
	}
	return out
}

// Positions returns the position of every node keyed by id.
func (d *Document) Positions() map[string]Position {
	out := make(map[string]Position, len(d.nodes))
	for _, n := range d.nodes {
		out[n.ID] = n.Position
	}
	return out
}

// AddNode creates a node of the given kind at pos with a fresh id and the
// kind's default label.
func (d *Document) AddNode(kind Kind, pos Position) (Node, error) {
	if !kind.Valid() {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	n := Node{
		ID:       d.seq.Next(kind, d.HasNode),
		Kind:     kind,
		Label:    kind.DefaultLabel(),
		Position: pos,
		Size:     DefaultSize,
	}
	d.append(n)
	return n, nil
}

// PutNode inserts a fully specified node. The id must be unused.
func (d *Document) PutNode(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("%w: node id is empty", ErrMalformedDocument)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("%w: node %s: %q", ErrUnknownKind, n.ID, n.Kind)
	}
	if d.HasNode(n.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	d.append(n)
	return nil
}

func (d *Document) append(n Node) {
	d.index[n.ID] = len(d.nodes)
	d.nodes = append(d.nodes, n)
}

// UpdateNode replaces the fields set in patch and reports what changed.
// A label or content change clears the manual size override.
func (d *Document) UpdateNode(id string, patch NodePatch) (Change, error) {
	i, ok := d.index[id]
	if !ok {
		return Change{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	n := &d.nodes[i]
	change := Change{NodeID: id}

	if patch.Label != nil && *patch.Label != n.Label {
		n.Label = *patch.Label
		change.ContentChanged = true
	}
	if patch.Content != nil && *patch.Content != n.Content {
		n.Content = *patch.Content
		change.ContentChanged = true
	}
	if patch.Position != nil && *patch.Position != n.Position {
		n.Position = *patch.Position
		change.PositionChanged = true
	}
	if change.ContentChanged {
		n.ManualSize = false
	}
	return change, nil
}

// SetPosition moves a node.
func (d *Document) SetPosition(id string, pos Position) (Change, error) {
	return d.UpdateNode(id, NodePatch{Position: &pos})
}

// SetSize stores a node's size. manual marks a user resize that the
// sizing engine must not override until the content changes.
func (d *Document) SetSize(id string, size Size, manual bool) error {
	i, ok := d.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	d.nodes[i].Size = size
	d.nodes[i].ManualSize = manual
	return nil
}

// RemoveNode deletes a node and every edge attached to it. It returns the
// removed edges.
func (d *Document) RemoveNode(id string) ([]Edge, error) {
	i, ok := d.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
	d.reindex()

	var removed []Edge
	kept := d.edges[:0]
	for _, e := range d.edges {
		if e.Touches(id) {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	d.edges = kept
	return removed, nil
}

func (d *Document) reindex() {
	clear(d.index)
	for i, n := range d.nodes {
		d.index[n.ID] = i
	}
}

// AddEdge connects two handles. Both nodes must exist, the source handle
// must be a source anchor of its node's kind and the target handle a
// target anchor. Invalid endpoints leave the document unchanged.
func (d *Document) AddEdge(source, target EdgeRef, style string) (Edge, error) {
	e := Edge{
		ID:             EdgeID(source, target),
		SourceNodeID:   source.NodeID,
		SourceHandleID: source.HandleID,
		TargetNodeID:   target.NodeID,
		TargetHandleID: target.HandleID,
		Style:          style,
	}
	if err := d.PutEdge(e); err != nil {
		return Edge{}, err
	}
	return e, nil
}

// PutEdge inserts an edge with a caller-chosen id after validating its
// endpoints.
func (d *Document) PutEdge(e Edge) error {
	if err := d.checkEndpoints(e); err != nil {
		return err
	}
	for _, existing := range d.edges {
		if existing.ID == e.ID || (existing.Source() == e.Source() && existing.Target() == e.Target()) {
			return &EdgeError{EdgeID: e.ID, Source: e.Source(), Target: e.Target(),
				Reason: "connection exists", Err: ErrDuplicateEdge}
		}
	}
	d.edges = append(d.edges, e)
	return nil
}

func (d *Document) checkEndpoints(e Edge) error {
	reject := func(reason string) error {
		return &EdgeError{EdgeID: e.ID, Source: e.Source(), Target: e.Target(),
			Reason: reason, Err: ErrInvalidEdgeEndpoint}
	}

	src, ok := d.Node(e.SourceNodeID)
	if !ok {
		return reject("source node missing")
	}
	tgt, ok := d.Node(e.TargetNodeID)
	if !ok {
		return reject("target node missing")
	}
	h, ok := Handle(src.Kind, e.SourceHandleID)
	if !ok {
		return reject(fmt.Sprintf("%s has no handle %q", src.Kind, e.SourceHandleID))
	}
	if h.Type != HandleSource {
		return reject(fmt.Sprintf("handle %q is not a source", e.SourceHandleID))
	}
	h, ok = Handle(tgt.Kind, e.TargetHandleID)
	if !ok {
		return reject(fmt.Sprintf("%s has no handle %q", tgt.Kind, e.TargetHandleID))
	}
	if h.Type != HandleTarget {
		return reject(fmt.Sprintf("handle %q is not a target", e.TargetHandleID))
	}
	return nil
}

// RemoveEdge deletes an edge by id.
func (d *Document) RemoveEdge(id string) error {
	for i, e := range d.edges {
		if e.ID == id {
			d.edges = append(d.edges[:i], d.edges[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
}

// ApplyPositions sets the position of every node named in positions.
// Unknown ids are ignored.
func (d *Document) ApplyPositions(positions map[string]Position) {
	for id, p := range positions {
		if i, ok := d.index[id]; ok {
			d.nodes[i].Position = p
		}
	}
}

// Bounds returns the bottom-right corner of the area covered by nodes.
// An empty document reports ok=false.
func (d *Document) Bounds() (maxX, maxY float64, ok bool) {
	if len(d.nodes) == 0 {
		return 0, 0, false
	}
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range d.nodes {
		maxX = math.Max(maxX, n.Position.X+n.Size.Width)
		maxY = math.Max(maxY, n.Position.Y+n.Size.Height)
	}
	return maxX, maxY, true
}

// Clone returns a deep copy that shares the id sequence.
func (d *Document) Clone() *Document {
	c := &Document{
		Version: d.Version,
		Fields:  maps.Clone(d.Fields),
		nodes:   make([]Node, len(d.nodes)),
		index:   maps.Clone(d.index),
		edges:   make([]Edge, len(d.edges)),
		seq:     d.seq,
	}
	if c.Fields == nil {
		c.Fields = make(map[string]string)
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	copy(c.nodes, d.nodes)
	copy(c.edges, d.edges)
	return c
}

// UseSequence makes d draw node ids from seq.
func (d *Document) UseSequence(seq *Sequence) {
	if seq != nil {
		d.seq = seq
	}
}

// Sequence returns the id sequence of the document.
func (d *Document) Sequence() *Sequence {
	return d.seq
}

// Equal reports whether two documents hold the same nodes, edges and
// fields, ignoring order.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Version != other.Version ||
		len(d.nodes) != len(other.nodes) ||
		len(d.edges) != len(other.edges) ||
		len(d.Fields) != len(other.Fields) {
		return false
	}
	for k, v := range d.Fields {
		if ov, ok := other.Fields[k]; !ok || ov != v {
			return false
		}
	}
	for _, n := range d.nodes {
		on, ok := other.Node(n.ID)
		if !ok || on != n {
			return false
		}
	}
	edges := make(map[string]Edge, len(other.edges))
	for _, e := range other.edges {
		edges[e.ID] = e
	}
	for _, e := range d.edges {
		oe, ok := edges[e.ID]
		if !ok || oe != e {
			return false
		}
	}
	return true
}

// Validate checks every edge against the current nodes and handle table.
// Invalid edges are returned, not removed. The error joins all rejections
// and is nil when every edge is valid.
func (d *Document) Validate() ([]*EdgeError, error) {
	var (
		rejected []*EdgeError
		errs     []error
	)
	for _, e := range d.edges {
		if err := d.checkEndpoints(e); err != nil {
			var ee *EdgeError
			if errors.As(err, &ee) {
				rejected = append(rejected, ee)
			}
			errs = append(errs, err)
		}
	}
	return rejected, errors.Join(errs...)
}

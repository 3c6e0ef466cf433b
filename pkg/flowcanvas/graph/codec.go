package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// wireDocument is the canonical persisted shape.
type wireDocument struct {
	Version int               `json:"version"`
	Nodes   []wireNode        `json:"nodes"`
	Edges   []wireEdge        `json:"edges"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type wireNode struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"kind"`
	Label      string   `json:"label"`
	Content    string   `json:"content"`
	Position   Position `json:"position"`
	Size       Size     `json:"size"`
	ManualSize bool     `json:"manualSize,omitempty"`
}

type wireEdge struct {
	ID             string `json:"id"`
	SourceNodeID   string `json:"sourceNodeId"`
	SourceHandleID string `json:"sourceHandleId"`
	TargetNodeID   string `json:"targetNodeId"`
	TargetHandleID string `json:"targetHandleId"`
	Style          string `json:"style,omitempty"`
}

// looseDocument accepts the canonical shape plus legacy variants.
type looseDocument struct {
	Version   int                 `json:"version"`
	Nodes     []looseNode         `json:"nodes"`
	Steps     []looseNode         `json:"steps"`
	Edges     []looseEdge         `json:"edges"`
	Positions map[string]Position `json:"positions"`
	Fields    map[string]string   `json:"fields"`
}

type looseNode struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Type       string    `json:"type"`
	Label      string    `json:"label"`
	Content    string    `json:"content"`
	Position   *Position `json:"position"`
	Size       *Size     `json:"size"`
	ManualSize bool      `json:"manualSize"`
}

type looseEdge struct {
	ID             string `json:"id"`
	SourceNodeID   string `json:"sourceNodeId"`
	SourceHandleID string `json:"sourceHandleId"`
	TargetNodeID   string `json:"targetNodeId"`
	TargetHandleID string `json:"targetHandleId"`
	Style          string `json:"style"`

	// React Flow spelling.
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle"`
}

// Encode serializes a document to its canonical JSON form. The full node
// and edge sets are always written.
func Encode(d *Document) ([]byte, error) {
	w := wireDocument{
		Version: d.Version,
		Nodes:   make([]wireNode, 0, len(d.nodes)),
		Edges:   make([]wireEdge, 0, len(d.edges)),
	}
	if len(d.Fields) > 0 {
		w.Fields = d.Fields
	}
	for _, n := range d.nodes {
		w.Nodes = append(w.Nodes, wireNode{
			ID:         n.ID,
			Kind:       n.Kind,
			Label:      n.Label,
			Content:    n.Content,
			Position:   n.Position,
			Size:       n.Size,
			ManualSize: n.ManualSize,
		})
	}
	for _, e := range d.edges {
		w.Edges = append(w.Edges, wireEdge(e))
	}
	return json.Marshal(w)
}

// Decode parses a persisted document.
//
// Shape problems (invalid JSON, unknown kinds, missing or duplicate node
// ids, a version newer than Version) fail the whole document with an error
// wrapping ErrMalformedDocument. Edges whose endpoints do not validate are
// dropped and returned as rejected; the rest of the document is kept.
func Decode(data []byte) (*Document, []*EdgeError, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, fmt.Errorf("%w: empty input", ErrMalformedDocument)
	}

	var w looseDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if w.Version > Version {
		return nil, nil, fmt.Errorf("%w: version %d is newer than %d", ErrMalformedDocument, w.Version, Version)
	}

	doc := NewDocument()
	for k, v := range w.Fields {
		doc.Fields[k] = v
	}

	nodes := w.Nodes
	if len(nodes) == 0 {
		nodes = w.Steps
	}
	for i, ln := range nodes {
		n, err := ln.node()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: node %d: %v", ErrMalformedDocument, i, err)
		}
		if err := doc.PutNode(n); err != nil {
			return nil, nil, fmt.Errorf("%w: node %d: %v", ErrMalformedDocument, i, err)
		}
	}
	doc.ApplyPositions(w.Positions)

	var rejected []*EdgeError
	for _, le := range w.Edges {
		e := le.edge()
		if err := doc.PutEdge(e); err != nil {
			var edgeErr *EdgeError
			if errors.As(err, &edgeErr) {
				rejected = append(rejected, edgeErr)
				continue
			}
			return nil, nil, err
		}
	}
	return doc, rejected, nil
}

func (ln looseNode) node() (Node, error) {
	tag := ln.Kind
	if tag == "" {
		tag = ln.Type
	}
	kind, err := ParseKind(tag)
	if err != nil {
		return Node{}, err
	}
	n := Node{
		ID:         ln.ID,
		Kind:       kind,
		Label:      ln.Label,
		Content:    ln.Content,
		ManualSize: ln.ManualSize,
	}
	if ln.Position != nil {
		n.Position = *ln.Position
	}
	if ln.Size != nil {
		n.Size = *ln.Size
	}
	return n, nil
}

func (le looseEdge) edge() Edge {
	e := Edge{
		ID:             le.ID,
		SourceNodeID:   firstNonEmpty(le.SourceNodeID, le.Source),
		SourceHandleID: firstNonEmpty(le.SourceHandleID, le.SourceHandle),
		TargetNodeID:   firstNonEmpty(le.TargetNodeID, le.Target),
		TargetHandleID: firstNonEmpty(le.TargetHandleID, le.TargetHandle),
		Style:          le.Style,
	}
	if e.ID == "" {
		e.ID = EdgeID(e.Source(), e.Target())
	}
	return e
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

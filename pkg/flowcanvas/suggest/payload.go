package suggest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
)

// Entry is one suggested step. Nothing about it is trusted: the kind may
// be an alias or unknown and the position may be missing.
type Entry struct {
	Kind     string
	Label    string
	Content  string
	Position *graph.Position
}

// Payload is a suggestion: a list of steps, a flat field set, or both.
type Payload struct {
	Entries []Entry
	Fields  map[string]string
}

// Empty reports whether the payload suggests nothing.
func (p Payload) Empty() bool {
	return len(p.Entries) == 0 && len(nonEmpty(p.Fields)) == 0
}

type looseEntry struct {
	Kind        string          `json:"kind"`
	Type        string          `json:"type"`
	Label       string          `json:"label"`
	Title       string          `json:"title"`
	Name        string          `json:"name"`
	Content     string          `json:"content"`
	Description string          `json:"description"`
	Text        string          `json:"text"`
	Position    json.RawMessage `json:"position"`
}

type loosePosition struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (le looseEntry) entry() Entry {
	e := Entry{
		Kind:    firstNonEmpty(le.Kind, le.Type),
		Label:   firstNonEmpty(le.Label, le.Title, le.Name),
		Content: firstNonEmpty(le.Content, le.Description, le.Text),
	}
	var lp loosePosition
	if len(le.Position) > 0 && json.Unmarshal(le.Position, &lp) == nil && lp.X != nil && lp.Y != nil {
		e.Position = &graph.Position{X: *lp.X, Y: *lp.Y}
	}
	return e
}

// ParsePayload decodes a suggestion leniently. It accepts a bare array of
// steps, an object with a "nodes" or "steps" array and optional "fields",
// or a flat object of string fields. Markdown code fences and prose around
// the JSON are ignored.
func ParsePayload(data []byte) (Payload, error) {
	raw := extractJSON(data)
	if len(raw) == 0 {
		return Payload{}, fmt.Errorf("%w: no JSON found", ErrMergeRejected)
	}

	if raw[0] == '[' {
		var entries []looseEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrMergeRejected, err)
		}
		return Payload{Entries: convert(entries)}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMergeRejected, err)
	}

	var p Payload
	list, hasList := obj["nodes"]
	if !hasList {
		list, hasList = obj["steps"]
	}
	if hasList {
		var entries []looseEntry
		if err := json.Unmarshal(list, &entries); err != nil {
			return Payload{}, fmt.Errorf("%w: steps: %v", ErrMergeRejected, err)
		}
		p.Entries = convert(entries)
		if f, ok := obj["fields"]; ok {
			if err := json.Unmarshal(f, &p.Fields); err != nil {
				return Payload{}, fmt.Errorf("%w: fields: %v", ErrMergeRejected, err)
			}
		}
		return p, nil
	}

	// Flat field set: keep string values, ignore the rest.
	p.Fields = make(map[string]string, len(obj))
	for k, v := range obj {
		var s string
		if json.Unmarshal(v, &s) == nil {
			p.Fields[k] = s
		}
	}
	if len(p.Fields) == 0 {
		return Payload{}, fmt.Errorf("%w: object has no steps and no string fields", ErrMergeRejected)
	}
	return p, nil
}

func convert(entries []looseEntry) []Entry {
	out := make([]Entry, len(entries))
	for i, le := range entries {
		out[i] = le.entry()
	}
	return out
}

// extractJSON returns the outermost JSON array or object in data.
func extractJSON(data []byte) []byte {
	data = bytes.TrimSpace(data)
	start := bytes.IndexAny(data, "[{")
	if start < 0 {
		return nil
	}
	closer := byte('}')
	if data[start] == '[' {
		closer = ']'
	}
	end := bytes.LastIndexByte(data, closer)
	if end < start {
		return nil
	}
	return data[start : end+1]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func nonEmpty(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	return out
}

func finite(p *graph.Position) bool {
	return p != nil && !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

package graph

import (
	"fmt"
	"strings"
)

// Kind is the closed set of node kinds a canvas can hold.
type Kind string

// Node kinds.
const (
	KindAgent      Kind = "agent"
	KindSystem     Kind = "system"
	KindGuardrail  Kind = "guardrail"
	KindDecision   Kind = "decision"
	KindEscalation Kind = "escalation"
	KindStart      Kind = "start"
	KindEnd        Kind = "end"
	KindReturn     Kind = "return"
	KindNote       Kind = "note"
)

// kindOrder lists every kind in palette order.
var kindOrder = []Kind{
	KindStart, KindAgent, KindSystem, KindGuardrail, KindDecision,
	KindEscalation, KindReturn, KindEnd, KindNote,
}

// kindAliases maps loose spellings produced by suggestion services.
var kindAliases = map[string]Kind{
	"annotation": KindNote,
	"comment":    KindNote,
	"human":      KindAgent,
	"bot":        KindSystem,
	"handoff":    KindEscalation,
	"condition":  KindDecision,
	"branch":     KindDecision,
	"begin":      KindStart,
	"finish":     KindEnd,
	"stop":       KindEnd,
}

var defaultLabels = map[Kind]string{
	KindAgent:      "Agent",
	KindSystem:     "System",
	KindGuardrail:  "Guardrail",
	KindDecision:   "Decision",
	KindEscalation: "Escalation",
	KindStart:      "Start",
	KindEnd:        "End",
	KindReturn:     "Return",
	KindNote:       "Note",
}

// Kinds returns every kind in palette order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// ParseKind converts a tag into a Kind. Matching is case-insensitive and
// a handful of aliases are accepted.
func ParseKind(tag string) (Kind, error) {
	s := strings.ToLower(strings.TrimSpace(tag))
	k := Kind(s)
	if k.Valid() {
		return k, nil
	}
	if alias, ok := kindAliases[s]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, tag)
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	_, ok := defaultLabels[k]
	return ok
}

// DefaultLabel is the label a freshly added node of this kind gets.
func (k Kind) DefaultLabel() string {
	return defaultLabels[k]
}

// IsAnnotation reports whether nodes of this kind document the flow
// rather than take part in it.
func (k Kind) IsAnnotation() bool {
	return k == KindNote
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

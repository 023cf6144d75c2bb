package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"codeatlas/internal/domain/errors/domain"
	"codeatlas/internal/domain/valueobject"
)

// rawNode is the generic ESTree JSON shape. Unknown keys land in Extra and
// are inspected reflectively: objects carrying a "type" key become child
// nodes under their field name.
type rawNode struct {
	Type string          `json:"type"`
	Loc  *rawLoc         `json:"loc"`
	data map[string]json.RawMessage
}

type rawLoc struct {
	Start rawPosition `json:"start"`
	End   rawPosition `json:"end"`
}

type rawPosition struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

func (r *rawNode) UnmarshalJSON(b []byte) error {
	var data map[string]json.RawMessage
	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}
	r.data = data
	if t, ok := data["type"]; ok {
		if err := json.Unmarshal(t, &r.Type); err != nil {
			return err
		}
	}
	if loc, ok := data["loc"]; ok {
		if err := json.Unmarshal(loc, &r.Loc); err != nil {
			return err
		}
	}
	return nil
}

// scalar attribute keys copied onto Node attrs when present.
var attrKeys = []string{"operator", "kind", "sourceType"}

// boolean attribute keys copied when true.
var boolAttrKeys = []string{"async", "generator", "static", "computed", "optional"}

// keys that never become children or attributes.
var skipKeys = map[string]bool{
	"type": true, "loc": true, "range": true, "start": true, "end": true,
	"comments": true, "tokens": true, "regex": true,
}

// DecodeTree reads one ESTree JSON document and converts it to the engine's
// node representation. A document that does not decode, or whose root is not
// a Program, fails fast as a parser-boundary violation.
func DecodeTree(r io.Reader) (*valueobject.Node, error) {
	var raw rawNode
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTruncatedTree, err)
	}
	root, err := convert(&raw)
	if err != nil {
		return nil, err
	}
	if root == nil || root.Kind != valueobject.KindProgram {
		kind := ""
		if root != nil {
			kind = root.Kind
		}
		return nil, fmt.Errorf("%w: root kind %q", domain.ErrNotProgramRoot, kind)
	}
	return root, nil
}

func convert(raw *rawNode) (*valueobject.Node, error) {
	if raw == nil || raw.Type == "" {
		return nil, nil
	}
	n := &valueobject.Node{Kind: raw.Type}
	if raw.Loc != nil {
		n.Pos = valueobject.Position{Line: raw.Loc.Start.Line, Column: raw.Loc.Start.Column}
		n.End = valueobject.Position{Line: raw.Loc.End.Line, Column: raw.Loc.End.Column}
	}

	if err := applyText(n, raw); err != nil {
		return nil, err
	}
	for _, key := range attrKeys {
		if v, ok := raw.data[key]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err == nil && s != "" {
				n.SetAttr(key, s)
			}
		}
	}
	for _, key := range boolAttrKeys {
		if v, ok := raw.data[key]; ok {
			var b bool
			if err := json.Unmarshal(v, &b); err == nil && b {
				n.SetAttr(key, "true")
			}
		}
	}

	for _, key := range childFieldOrder(raw) {
		value := raw.data[key]
		if child, ok := decodeChild(value); ok {
			converted, err := convert(child)
			if err != nil {
				return nil, err
			}
			if converted != nil {
				n.AddChild(key, converted)
			}
			continue
		}
		if children, ok := decodeChildList(value); ok {
			for _, c := range children {
				converted, err := convert(c)
				if err != nil {
					return nil, err
				}
				if converted != nil {
					n.AddChild(key, converted)
				}
			}
		}
	}

	flattenJSX(n)
	return n, nil
}

// applyText fills Node.Text from the kind-appropriate token key.
func applyText(n *valueobject.Node, raw *rawNode) error {
	key := ""
	switch n.Kind {
	case valueobject.KindIdentifier, valueobject.KindJSXIdentifier, "PrivateIdentifier":
		key = "name"
	case valueobject.KindLiteral:
		key = "raw"
	default:
		return nil
	}
	v, ok := raw.data[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return fmt.Errorf("%w: %s with malformed %s", domain.ErrTruncatedTree, n.Kind, key)
	}
	n.Text = s
	return nil
}

// childFieldOrder returns the node's field keys in a stable, grammar-aware
// order: declared control fields first, then the rest sorted.
func childFieldOrder(raw *rawNode) []string {
	ordered := make([]string, 0, len(raw.data))
	seen := make(map[string]bool)
	if fields, ok := valueobject.ControlChildFields[raw.Type]; ok {
		for _, f := range fields {
			if _, present := raw.data[f]; present {
				ordered = append(ordered, f)
				seen[f] = true
			}
		}
	}
	rest := make([]string, 0, len(raw.data))
	for key := range raw.data {
		if !seen[key] && !skipKeys[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

func decodeChild(value json.RawMessage) (*rawNode, bool) {
	if len(value) == 0 || value[0] != '{' {
		return nil, false
	}
	var child rawNode
	if err := json.Unmarshal(value, &child); err != nil || child.Type == "" {
		return nil, false
	}
	return &child, true
}

func decodeChildList(value json.RawMessage) ([]*rawNode, bool) {
	if len(value) == 0 || value[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, false
	}
	var children []*rawNode
	for _, item := range items {
		if child, ok := decodeChild(item); ok {
			children = append(children, child)
		}
	}
	return children, true
}

// flattenJSX lifts the opening element's name and attributes onto the
// JSXElement itself, which is the shape the analysis engine traverses.
func flattenJSX(n *valueobject.Node) {
	if n.Kind != valueobject.KindJSXElement {
		return
	}
	opening := n.Field("openingElement")
	if opening == nil {
		return
	}
	if name := opening.Field("name"); name != nil {
		n.AddChild("name", name)
	}
	for _, attr := range opening.FieldAll("attributes") {
		n.AddChild("attributes", attr)
	}
	removeField(n, "openingElement")
	removeField(n, "closingElement")
}

func removeField(n *valueobject.Node, field string) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.Field != field {
			kept = append(kept, c)
		}
	}
	n.Children = kept
}

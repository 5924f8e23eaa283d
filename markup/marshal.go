package markup

import "encoding/json"

// MarshalJSON implements json.Marshaler for AST.
func (ast *AST) MarshalJSON() ([]byte, error) {
	return json.Marshal(ast.ToNative())
}

// ToNative converts the AST to a slice of native Go values.
func (ast *AST) ToNative() []any {
	result := make([]any, 0, len(ast.Nodes))

	for _, m := range ast.Nodes {
		result = append(result, m.ToNative())
	}

	return result
}

// ToNative converts a Markup node to nested maps and slices.
//
// A value becomes {"value": ...}; an element becomes
// {"element": {"attributes": [...], "children": [...]}}.
func (m Markup) ToNative() any {
	switch m.Kind {
	case KindValue:
		return map[string]any{"value": m.Value.ToNative()}

	case KindElement:
		attrs := make([]any, 0, len(m.Attrs))
		for _, a := range m.Attrs {
			attrs = append(attrs, map[string]any{
				"name":  a.Name,
				"value": a.Value.ToNative(),
			})
		}

		children := make([]any, 0, len(m.Children))
		for _, c := range m.Children {
			children = append(children, c.ToNative())
		}

		return map[string]any{
			"element": map[string]any{
				"attributes": attrs,
				"children":   children,
			},
		}

	default:
		return nil
	}
}

// ToNative converts a Value to a map holding its payload and escape policy.
func (v Value) ToNative() map[string]any {
	result := map[string]any{
		"escape": v.Escape == AutoEscape,
	}

	switch v.Payload.Kind {
	case PayloadLiteral:
		result["literal"] = v.Payload.Text

	case PayloadSplice:
		src := ""
		if v.Payload.Expr != nil {
			src = v.Payload.Expr.Source()
		}

		result["splice"] = src
	}

	return result
}

package markup

import (
	"io"
	"strconv"
)

// Kind identifies the variant held by a [Markup] node.
type Kind int

const (
	// KindEmpty is the stop sentinel produced when no further unit can be
	// parsed. It never appears in a successful parse result.
	KindEmpty Kind = iota

	// KindElement is an element with attributes and children.
	KindElement

	// KindValue is a single literal or spliced value.
	KindValue
)

// String returns a string representation of the markup kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"

	case KindElement:
		return "Element"

	case KindValue:
		return "Value"

	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Markup is one node of the markup tree.
type Markup struct {
	Kind Kind
	// Exactly one group of these is meaningful based on Kind
	Attrs    []Attr   // KindElement
	Children []Markup // KindElement
	Value    Value    // KindValue
}

// Attr is a named attribute value of an element.
type Attr struct {
	Name  string
	Value Value
}

// Empty returns the stop sentinel.
func Empty() Markup {
	return Markup{Kind: KindEmpty}
}

// NewElement returns an element node. Attribute order is preserved.
func NewElement(attrs []Attr, children []Markup) Markup {
	return Markup{
		Kind:     KindElement,
		Attrs:    attrs,
		Children: children,
	}
}

// NewValue returns a value node.
func NewValue(v Value) Markup {
	return Markup{
		Kind:  KindValue,
		Value: v,
	}
}

// Escape is the escaping policy applied to a value's text when it is emitted.
type Escape int

const (
	// NoEscape emits the value verbatim.
	NoEscape Escape = iota

	// AutoEscape entity-escapes the value before it is emitted.
	AutoEscape
)

// String returns a string representation of the escape policy.
func (e Escape) String() string {
	switch e {
	case NoEscape:
		return "NoEscape"
	case AutoEscape:
		return "Escape"
	default:
		return "Escape(" + strconv.Itoa(int(e)) + ")"
	}
}

// Value pairs a payload with its escaping policy.
type Value struct {
	Payload Payload
	Escape  Escape
}

// Escaped returns a value that is escaped when emitted.
// Values built from literals are always escaped.
func Escaped(p Payload) Value {
	return Value{
		Payload: p,
		Escape:  AutoEscape,
	}
}

// Raw returns a value that is emitted verbatim.
func Raw(p Payload) Value {
	return Value{
		Payload: p,
		Escape:  NoEscape,
	}
}

// PayloadKind identifies the variant held by a [Payload].
type PayloadKind int

const (
	// PayloadLiteral is canonical literal text.
	PayloadLiteral PayloadKind = iota

	// PayloadSplice is an opaque host expression.
	PayloadSplice
)

// String returns a string representation of the payload kind.
func (k PayloadKind) String() string {
	switch k {
	case PayloadLiteral:
		return "Literal"
	case PayloadSplice:
		return "Splice"
	default:
		return "PayloadKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Payload is either literal text or a spliced host expression.
type Payload struct {
	Kind PayloadKind
	Text string     // PayloadLiteral
	Expr Expression // PayloadSplice
}

// Literal returns a payload holding canonical literal text.
func Literal(text string) Payload {
	return Payload{Kind: PayloadLiteral, Text: text}
}

// Splice returns a payload holding a host expression.
func Splice(expr Expression) Payload {
	return Payload{Kind: PayloadSplice, Expr: expr}
}

// Expression is a host-language expression embedded in markup.
//
// The parser never inspects or evaluates an Expression. It is carried in the
// tree for a later lowering stage, which uses Render to emit it.
type Expression interface {
	// Source returns the expression text as written.
	Source() string

	// Render writes the expression in a form suitable for code generation.
	Render(w io.Writer) error
}

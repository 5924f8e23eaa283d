// Package markup recognizes markup values in a host token stream and builds
// a tree of markup nodes.
//
// # Overview
//
// The parser walks an immutable token buffer with a [Cursor]. Each iteration
// of [Parse] consumes one markup unit; for the grammar implemented here a
// unit is a single literal constant, optionally preceded by a negation
// marker:
//
//	"text"  'c'  42  -0x2a  1.5e3  true
//
// Recognized literals become [KindValue] nodes holding canonical text with
// [AutoEscape] policy. Strings and characters contribute their contents,
// booleans contribute "true" or "false", and numbers contribute their exact
// source spelling, so 0x2A stays 0x2A. Byte and byte-string literals cannot
// be spliced into markup and are reported as errors.
//
// # Outcome
//
// The parse is all-or-nothing. [Parse] stops at the first token that cannot
// start a unit, reports "invalid syntax" there, and fails unless every token
// was consumed. Diagnostics are delivered to a caller-supplied [Sink];
// [Diagnostics] is a ready-made sink that collects them.
//
// [ParseString] and [ParseReader] tokenize source with package lexer first
// and return a [*ParseError] carrying every diagnostic on failure.
//
// # Negation marker
//
// A leading "-" is consumed before the parser knows whether a literal
// follows. When it does not, the marker stays consumed and parsing resumes at
// the next token, so "- div" reports "invalid syntax" at div, not at "-".
//
// # Splices
//
// A [Payload] may hold a host [Expression] instead of literal text. The
// parser never builds or inspects splices; they exist for producers of trees
// and for later lowering stages. Package host provides an implementation.
package markup

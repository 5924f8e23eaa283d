package literal

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ardnew/marq/token"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		tok   token.Token
		kind  Kind
		check func(t *testing.T, v Value)
	}{
		{
			name: "string with escapes",
			tok:  token.MakeLit(token.Str, `"a\tbé"`),
			kind: String,
			check: func(t *testing.T, v Value) {
				if v.Str != "a\tbé" {
					t.Errorf("Str = %q", v.Str)
				}
			},
		},
		{
			name: "raw string",
			tok:  token.MakeLit(token.RawStr, "`a\\n`"),
			kind: String,
			check: func(t *testing.T, v Value) {
				if v.Str != `a\n` {
					t.Errorf("Str = %q", v.Str)
				}
			},
		},
		{
			name: "char",
			tok:  token.MakeLit(token.Char, `'λ'`),
			kind: Char,
			check: func(t *testing.T, v Value) {
				if v.Char != 'λ' {
					t.Errorf("Char = %q", v.Char)
				}
			},
		},
		{
			name: "escaped char",
			tok:  token.MakeLit(token.Char, `'\n'`),
			kind: Char,
			check: func(t *testing.T, v Value) {
				if v.Char != '\n' {
					t.Errorf("Char = %q", v.Char)
				}
			},
		},
		{
			name: "hex int keeps spelling",
			tok:  token.MakeLit(token.Int, `0xFF_FF`),
			kind: Int,
			check: func(t *testing.T, v Value) {
				if v.Spelling != "0xFF_FF" {
					t.Errorf("Spelling = %q", v.Spelling)
				}
			},
		},
		{
			name: "huge int",
			tok:  token.MakeLit(token.Int, `123456789012345678901234567890`),
			kind: Int,
		},
		{
			name: "float",
			tok:  token.MakeLit(token.Float, `1.50e+3`),
			kind: Float,
			check: func(t *testing.T, v Value) {
				if v.Spelling != "1.50e+3" {
					t.Errorf("Spelling = %q", v.Spelling)
				}
			},
		},
		{
			name: "float out of range",
			tok:  token.MakeLit(token.Float, `1e999`),
			kind: Float,
		},
		{
			name: "bool",
			tok:  token.MakeLit(token.Bool, `false`),
			kind: Bool,
			check: func(t *testing.T, v Value) {
				if v.Bool {
					t.Error("Bool = true")
				}
			},
		},
		{
			name: "byte",
			tok:  token.MakeLit(token.Byte, `b'\xff'`),
			kind: Bytes,
			check: func(t *testing.T, v Value) {
				if !bytes.Equal(v.Bytes, []byte{0xff}) {
					t.Errorf("Bytes = %v", v.Bytes)
				}
			},
		},
		{
			name: "byte string",
			tok:  token.MakeLit(token.ByteStr, `b"ab"`),
			kind: Bytes,
			check: func(t *testing.T, v Value) {
				if !bytes.Equal(v.Bytes, []byte("ab")) {
					t.Errorf("Bytes = %v", v.Bytes)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode(tt.tok)
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}

			if v.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", v.Kind, tt.kind)
			}

			if v.Spelling != tt.tok.Text {
				t.Errorf("Spelling = %q, want %q", v.Spelling, tt.tok.Text)
			}

			if tt.check != nil {
				tt.check(t, v)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		tok  token.Token
	}{
		{"bad escape", token.MakeLit(token.Str, `"\q"`)},
		{"two chars", token.MakeLit(token.Char, `'ab'`)},
		{"empty char", token.MakeLit(token.Char, `''`)},
		{"bare prefix", token.MakeLit(token.Int, `0x`)},
		{"bad digit", token.MakeLit(token.Int, `0b102`)},
		{"bad float", token.MakeLit(token.Float, `1e`)},
		{"bad bool", token.MakeLit(token.Bool, `yes`)},
		{"wide byte", token.MakeLit(token.Byte, `b'Ā'`)},
		{"no class", token.Token{Kind: token.Literal, Text: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.tok)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}

			var litErr *Error
			if !errors.As(err, &litErr) || litErr.Token.Text != tt.tok.Text {
				t.Errorf("expected *Error for %q, got %v", tt.tok.Text, err)
			}
		})
	}
}

func TestDecode_NotLiteral(t *testing.T) {
	_, err := Decode(token.Make(token.Ident, "div"))
	if !errors.Is(err, ErrNotLiteral) {
		t.Errorf("expected ErrNotLiteral, got %v", err)
	}
}

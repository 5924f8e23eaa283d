package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("load of missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{`"a" 1`, modeParse},
		{"format json", modeCtrl},
		{"  ", modeParse},
		{"true", modeParse},
		{"true", modeParse},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "P:\"a\" 1\nC:format json\nP:true\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	for i := range h.Len() {
		a, _ := h.Entry(i)
		b, _ := loaded.Entry(i)

		if a != b {
			t.Errorf("entry %d: %+v != %+v", i, a, b)
		}
	}
}

func TestHistory_MovesDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	_ = h.Add("show", modeCtrl)
	_ = h.Add("1", modeParse)
	_ = h.Add("show", modeCtrl)

	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}

	last, _ := h.Entry(1)
	if last != (HistoryEntry{"show", modeCtrl}) {
		t.Errorf("last = %+v", last)
	}

	data, _ := os.ReadFile(path)
	if want := "P:1\nC:show\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestHistory_SameLineOtherMode(t *testing.T) {
	h := NewHistory("")

	_ = h.Add("help", modeParse)
	_ = h.Add("help", modeCtrl)

	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}
}

func TestHistory_LegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("plain\n\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	first, _ := h.Entry(0)
	second, _ := h.Entry(1)

	if first != (HistoryEntry{"plain", modeParse}) || second != (HistoryEntry{"quit", modeCtrl}) {
		t.Errorf("entries = %+v, %+v", first, second)
	}
}

func TestHistory_OutOfBounds(t *testing.T) {
	h := NewHistory("")

	for _, i := range []int{-1, 0, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v", i, err)
		}
	}
}

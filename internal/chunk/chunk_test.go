package chunk

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestSplit_Deterministic(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "sentence number %d about nothing in particular\n", i)
	}
	text := b.String()

	first := Split(text, 200, 40)
	second := Split(text, 200, 40)

	if len(first) == 0 {
		t.Fatal("expected chunks")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input and parameters must yield identical chunks")
	}
}

func TestSplit_SizeBound(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "line %03d\n", i)
	}

	for _, c := range Split(b.String(), 40, 10) {
		if n := len([]rune(c)); n > 40 {
			t.Errorf("chunk exceeds size: %d runes: %q", n, c)
		}
	}
}

func TestSplit_OverlapCarriedAcrossChunks(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "line %03d\n", i)
	}

	chunks := Split(b.String(), 40, 10)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		tail := lastRunes(chunks[i-1], 10)
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not begin with the overlap tail of chunk %d:\ntail:  %q\nchunk: %q",
				i, i-1, tail, chunks[i])
		}
	}
}

func TestSplit_OversizedUnitWindows(t *testing.T) {
	unit := strings.Repeat("abcde", 50) // 250 runes, no separator
	chunks := Split(unit, 100, 20)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		next := []rune(chunks[i])
		if string(prev[len(prev)-20:]) != string(next[:20]) {
			t.Errorf("chunks %d and %d do not share exactly 20 runes", i-1, i)
		}
	}

	// The windows must reassemble to the source with no gaps.
	reassembled := chunks[0]
	for i := 1; i < len(chunks); i++ {
		reassembled += string([]rune(chunks[i])[20:])
	}
	if reassembled != unit {
		t.Error("windowed chunks do not cover the source text contiguously")
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks := Split("The capital of France is Paris.", 1024, 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "The capital of France is Paris." {
		t.Errorf("unexpected chunk: %q", chunks[0])
	}
}

func TestSplit_Empty(t *testing.T) {
	if got := Split("", 1024, 100); got != nil {
		t.Errorf("empty text: expected nil, got %v", got)
	}
	if got := Split("   \n\n  ", 1024, 100); got != nil {
		t.Errorf("whitespace text: expected nil, got %v", got)
	}
}

func TestSplit_ZeroOverlap(t *testing.T) {
	unit := strings.Repeat("x", 90)
	chunks := Split(unit, 30, 0)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if strings.Join(chunks, "") != unit {
		t.Error("zero-overlap chunks must partition the source exactly")
	}
}

func TestClean(t *testing.T) {
	in := "foo\t\tbar  \r\n\r\n\r\n  baz   qux\a\n"
	got := Clean(in)
	want := "foo bar\nbaz qux"
	if got != want {
		t.Errorf("Clean:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestClean_Idempotent(t *testing.T) {
	in := "some  text\nwith   gaps"
	once := Clean(in)
	twice := Clean(once)
	if once != twice {
		t.Errorf("Clean is not idempotent: %q vs %q", once, twice)
	}
}

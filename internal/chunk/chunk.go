// Package chunk splits extracted document text into overlapping pieces
// sized for embedding. Splitting is deterministic: the same text and
// parameters always produce the same sequence, so re-ingestion is idempotent
// at the chunk level.
package chunk

import (
	"strings"
	"unicode"
)

// Defaults for the splitting policy (units: characters).
const (
	DefaultSize    = 1024
	DefaultOverlap = 100
)

// Split breaks text into ordered chunks of at most size characters.
// Newline-separated units are merged greedily; a unit longer than size is
// further split by raw length. Consecutive chunks share up to overlap
// trailing/leading characters so context survives chunk boundaries.
// Counts are in runes, not bytes.
func Split(text string, size, overlap int) []string {
	text = strings.TrimSpace(normalizeNewlines(text))
	if text == "" || size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var pieces []string
	for _, unit := range strings.Split(text, "\n") {
		unit = strings.TrimSpace(unit)
		if unit == "" {
			continue
		}
		if runeLen(unit) <= size {
			pieces = append(pieces, unit)
			continue
		}
		pieces = append(pieces, windows(unit, size, overlap)...)
	}

	var chunks []string
	var cur string
	for _, p := range pieces {
		switch {
		case cur == "":
			cur = p
		case runeLen(cur)+1+runeLen(p) <= size:
			cur = cur + "\n" + p
		default:
			chunks = append(chunks, cur)
			// The tail of the emitted chunk seeds the next one; drop it
			// when the next piece leaves no room.
			tail := lastRunes(cur, overlap)
			if tail != "" && runeLen(tail)+1+runeLen(p) <= size {
				cur = tail + "\n" + p
			} else {
				cur = p
			}
		}
	}
	if cur != "" {
		chunks = append(chunks, cur)
	}

	return chunks
}

// Clean collapses runs of horizontal whitespace, drops unprintable runes and
// blank lines, and preserves line structure so Split can still use newlines
// as logical separators. Applied at most once, before chunking.
func Clean(text string) string {
	var lines []string
	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		line = strings.Map(dropUnprintable, line)
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, strings.Join(fields, " "))
	}
	return strings.Join(lines, "\n")
}

// windows slices an oversized unit into size-rune pieces advancing by
// size-overlap, so adjacent pieces share exactly overlap runes.
func windows(unit string, size, overlap int) []string {
	runes := []rune(unit)
	stride := size - overlap
	if stride <= 0 {
		stride = size
	}

	var out []string
	for start := 0; start < len(runes); start += stride {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func runeLen(s string) int {
	return len([]rune(s))
}

func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func dropUnprintable(r rune) rune {
	if r == '\t' || unicode.IsGraphic(r) {
		return r
	}
	return -1
}

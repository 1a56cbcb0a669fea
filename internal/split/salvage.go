package split

import (
	"sort"
	"strings"
)

// salvage recovers split points from a marked text whose non-marker content
// the oracle corrupted. For each marker it takes a few words of context on
// either side and looks those phrases up in the untouched original; when both
// phrases are found in order, the boundary lands right after the preceding
// phrase. The original document is then sliced at the recovered offsets, so
// the output carries only original bytes.
//
// Returns nil when no boundary could be recovered or fewer than two sections
// would result. Phrases are located by first occurrence, so a document that
// repeats the same phrasing can yield a boundary at the wrong copy; callers
// treat the result as best-effort.
func salvage(marked, original string, windowChars, wordsBefore, wordsAfter int) []string {
	var offsets []int

	for pos := strings.Index(marked, Marker); pos != -1; {
		if pt, ok := recoverOffset(marked, original, pos, windowChars, wordsBefore, wordsAfter); ok {
			offsets = append(offsets, pt)
		}
		next := strings.Index(marked[pos+len(Marker):], Marker)
		if next == -1 {
			break
		}
		pos += len(Marker) + next
	}

	if len(offsets) == 0 {
		return nil
	}

	sort.Ints(offsets)
	offsets = dedupeInts(offsets)

	var sections []string
	last := 0
	for _, pt := range offsets {
		if sec := original[last:pt]; sec != "" {
			sections = append(sections, sec)
		}
		last = pt
	}
	if tail := original[last:]; tail != "" {
		sections = append(sections, tail)
	}

	if len(sections) < 2 {
		return nil
	}
	return sections
}

// recoverOffset maps one marker position in the corrupted text to an offset
// in the original via context phrase matching.
func recoverOffset(marked, original string, pos, windowChars, wordsBefore, wordsAfter int) (int, bool) {
	lo := pos - windowChars
	if lo < 0 {
		lo = 0
	}
	hi := pos + len(Marker) + windowChars
	if hi > len(marked) {
		hi = len(marked)
	}

	before := strings.Fields(marked[lo:pos])
	after := strings.Fields(marked[pos+len(Marker) : hi])

	if len(before) > wordsBefore {
		before = before[len(before)-wordsBefore:]
	}
	if len(after) > wordsAfter {
		after = after[:wordsAfter]
	}
	if len(before) == 0 || len(after) == 0 {
		return 0, false
	}

	phraseBefore := strings.Join(before, " ")
	phraseAfter := strings.Join(after, " ")

	p1 := strings.Index(original, phraseBefore)
	base := 0
	if p1 != -1 {
		base = p1
	}
	p2 := -1
	if rel := strings.Index(original[base:], phraseAfter); rel != -1 {
		p2 = base + rel
	}

	if p1 == -1 || p2 == -1 || p2 <= p1 {
		return 0, false
	}
	return p1 + len(phraseBefore), true
}

func dedupeInts(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

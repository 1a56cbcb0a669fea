package split

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// The mechanical segmenter. Everything in this file is deterministic and
// oracle-free; it is the terminal fallback that guarantees the pipeline
// always produces a result.

var (
	paragraphBreakRe = regexp.MustCompile(`\n{2,}`)
	sentenceEndRe    = regexp.MustCompile(`[.!?]+\s+`)
)

// mechanicalSplit partitions text into exactly target non-empty sections
// using only structural cues: paragraph breaks first, then greedy merging
// down or longest-section bisection up. It may return fewer than target
// sections only when the text genuinely cannot be divided further.
func mechanicalSplit(text string, target int) []string {
	secs := paragraphSections(text)
	if len(secs) == 0 {
		return []string{text}
	}

	switch {
	case len(secs) == target:
		return secs
	case len(secs) > target:
		return mergeSmallest(secs, target)
	}

	for len(secs) < target {
		longestIdx := 0
		for i, sec := range secs {
			if len(sec) > len(secs[longestIdx]) {
				longestIdx = i
			}
		}

		a, b := bisect(secs[longestIdx])
		if a == "" || b == "" {
			break
		}
		secs[longestIdx] = a
		secs = append(secs[:longestIdx+1], append([]string{b}, secs[longestIdx+1:]...)...)
	}

	if len(secs) > target {
		secs = secs[:target]
	}
	return secs
}

// paragraphSections splits on blank-line boundaries. Whitespace-only
// fragments are reattached to the preceding section so no section is pure
// whitespace; the result is then trimmed.
func paragraphSections(text string) []string {
	var parts []string
	last := 0
	for _, loc := range paragraphBreakRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			parts = append(parts, text[last:loc[0]])
		}
		parts = append(parts, text[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		parts = append(parts, text[last:])
	}

	var secs []string
	curr := ""
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			if curr != "" {
				secs = append(secs, curr)
			}
			curr = p
		} else {
			curr += p
		}
	}
	if curr != "" {
		secs = append(secs, curr)
	}

	out := secs[:0]
	for _, s := range secs {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// bisect splits a section in two at the best structural point available:
// the middle sentence ending, else the middle line break, else the nearest
// whitespace to the character midpoint, else the midpoint itself. Returns
// empty strings when the section cannot be divided.
func bisect(sec string) (string, string) {
	if matches := sentenceEndRe.FindAllStringIndex(sec, -1); len(matches) > 0 {
		pos := matches[len(matches)/2][1]
		return strings.TrimSpace(sec[:pos]), strings.TrimSpace(sec[pos:])
	}

	if lines := strings.Split(sec, "\n"); len(lines) > 1 {
		mid := len(lines) / 2
		return strings.TrimSpace(strings.Join(lines[:mid], "\n")),
			strings.TrimSpace(strings.Join(lines[mid:], "\n"))
	}

	mid := len(sec) / 2
	sp := strings.LastIndex(sec[:mid], " ")
	if sp == -1 {
		if fwd := strings.Index(sec[mid:], " "); fwd != -1 {
			sp = mid + fwd
		}
	}
	if sp == -1 {
		sp = mid
		for sp > 0 && !utf8.RuneStart(sec[sp]) {
			sp--
		}
	}
	return strings.TrimSpace(sec[:sp]), strings.TrimSpace(sec[sp:])
}

// mergeSmallest repeatedly merges the adjacent pair with the smallest
// combined length until the count matches target. This greedy rule is
// size-balancing, not semantic; it is the universal merge safety net.
func mergeSmallest(sections []string, target int) []string {
	curr := append([]string(nil), sections...)
	for len(curr) > target {
		bestIdx := 0
		bestSize := -1
		for i := 0; i < len(curr)-1; i++ {
			size := len(curr[i]) + len(curr[i+1])
			if bestSize == -1 || size < bestSize {
				bestIdx = i
				bestSize = size
			}
		}
		curr[bestIdx] = curr[bestIdx] + "\n\n" + curr[bestIdx+1]
		curr = append(curr[:bestIdx+1], curr[bestIdx+2:]...)
	}
	return curr
}

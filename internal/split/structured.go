package split

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Single-pass structured mode: instead of trusting the oracle to echo the
// document back, the document is pre-chopped here into small mechanical
// mini-sections and the oracle only ever returns a schema-validated list of
// boundary indices. Reconstruction then concatenates original bytes, so a
// cooperative-but-sloppy model cannot corrupt content; anything off-contract
// simply fails the attempt.

const (
	// miniSectionCap bounds how finely the document is pre-chopped.
	miniSectionCap = 120

	// minMiniSectionChars is the size below which a mini-section is glued
	// onto its predecessor.
	minMiniSectionChars = 40
)

// structuredSplit runs one attempt of the single-pass protocol. Returns nil
// on any validation failure (fail closed); never returns a wrong-count or
// content-altering result.
func (s *Splitter) structuredSplit(ctx context.Context, document string, target int) []string {
	minis := buildMiniSections(document, target)
	if len(minis) < target {
		s.logger.Warn("too few mini-sections for structured grouping",
			zap.Int("minis", len(minis)), zap.Int("target", target))
		return nil
	}

	previews := sectionPreviews(minis, selectPreviewChars)
	baseline := evenBaseline(len(minis), target)

	indices, err := s.oracle.GroupMiniSections(ctx, previews, target, baseline)
	if err != nil {
		s.logger.Warn("structured grouping unusable", zap.Error(err))
		return nil
	}

	sections := make([]string, 0, target)
	var b strings.Builder
	next := 0
	for i, mini := range minis {
		b.WriteString(mini)
		if next < len(indices) && indices[next] == i {
			sections = append(sections, b.String())
			b.Reset()
			next++
		}
	}
	sections = append(sections, b.String())

	// The grouped sections must reproduce the document byte-for-byte.
	if strings.Join(sections, "") != document {
		s.logger.Warn("structured grouping did not reconstruct the document")
		return nil
	}
	for _, sec := range sections {
		if strings.TrimSpace(sec) == "" {
			return nil
		}
	}
	return sections
}

// buildMiniSections chops document into at least 2*target consecutive pieces
// (capped) whose concatenation is exactly the document. It starts at
// paragraph granularity and descends to sentences, then lines, until the
// piece count suffices; tiny pieces are then glued to their predecessor.
func buildMiniSections(document string, target int) []string {
	want := 2 * target
	if want > miniSectionCap {
		want = miniSectionCap
	}

	minis := chopAfter(document, paragraphBreakRe.FindAllStringIndex(document, -1))

	if len(minis) < want {
		minis = rechop(minis, func(piece string) [][]int {
			return sentenceEndRe.FindAllStringIndex(piece, -1)
		})
	}
	if len(minis) < want {
		minis = rechop(minis, func(piece string) [][]int {
			return lineBreakIndices(piece)
		})
	}

	minis = glueTiny(minis)
	if len(minis) > miniSectionCap {
		minis = glueSmallestAdjacent(minis, miniSectionCap)
	}
	return minis
}

// chopAfter cuts text right after each match, keeping every byte.
func chopAfter(text string, matches [][]int) []string {
	var out []string
	last := 0
	for _, loc := range matches {
		out = append(out, text[last:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, text[last:])
	}
	return out
}

// rechop splits every piece again with a finer boundary finder.
func rechop(minis []string, find func(string) [][]int) []string {
	var out []string
	for _, m := range minis {
		out = append(out, chopAfter(m, find(m))...)
	}
	return out
}

func lineBreakIndices(piece string) [][]int {
	var out [][]int
	for i := 0; i < len(piece); i++ {
		if piece[i] == '\n' {
			out = append(out, []int{i, i + 1})
		}
	}
	return out
}

// glueTiny reattaches undersized or blank pieces to their predecessor.
func glueTiny(minis []string) []string {
	var out []string
	for _, m := range minis {
		small := len(strings.TrimSpace(m)) < minMiniSectionChars
		if len(out) > 0 && (small || strings.TrimSpace(m) == "") {
			out[len(out)-1] += m
			continue
		}
		out = append(out, m)
	}
	return out
}

// glueSmallestAdjacent concatenates the smallest adjacent pair until the
// count fits the limit. Raw concatenation, no separator: the pieces carry
// their own whitespace.
func glueSmallestAdjacent(minis []string, limit int) []string {
	curr := append([]string(nil), minis...)
	for len(curr) > limit {
		bestIdx := 0
		bestSize := -1
		for i := 0; i < len(curr)-1; i++ {
			size := len(curr[i]) + len(curr[i+1])
			if bestSize == -1 || size < bestSize {
				bestIdx = i
				bestSize = size
			}
		}
		curr[bestIdx] += curr[bestIdx+1]
		curr = append(curr[:bestIdx+1], curr[bestIdx+2:]...)
	}
	return curr
}

// evenBaseline returns target-1 roughly evenly spaced boundary indices over
// n mini-sections, offered to the oracle as a size-balanced starting point.
func evenBaseline(n, target int) []int {
	out := make([]int, 0, target-1)
	for i := 1; i < target; i++ {
		idx := i*n/target - 1
		if idx < 0 {
			idx = 0
		}
		if idx > n-2 {
			idx = n - 2
		}
		if len(out) > 0 && idx <= out[len(out)-1] {
			idx = out[len(out)-1] + 1
		}
		if idx > n-2 {
			break
		}
		out = append(out, idx)
	}
	return out
}

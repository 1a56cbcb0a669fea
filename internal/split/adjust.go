package split

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reconciliation: merging an over-count down and splitting an under-count up
// until the section count matches the target. The oracle is consulted
// opportunistically; every failure degrades to a mechanical strategy.

// combineWithOracle asks the oracle which adjacent pairs are most related and
// merges those; an unusable reply degrades to the size-based merge. The
// result may still exceed target (the oracle may return fewer pairs than
// asked); the caller loops.
func (s *Splitter) combineWithOracle(ctx context.Context, sections []string, target int) []string {
	curr := append([]string(nil), sections...)
	if len(curr) <= target {
		return curr
	}

	pairs, err := s.oracle.SelectMergePairs(ctx, curr, target)
	if err != nil {
		s.logger.Warn("merge pair selection unusable, using size-based merge", zap.Error(err))
		return mergeSmallest(sections, target)
	}

	// Pairs arrive sorted descending; merging back-to-front keeps the
	// earlier indices valid.
	for _, idx := range pairs {
		if idx < len(curr)-1 {
			curr[idx] = curr[idx] + "\n\n" + curr[idx+1]
			curr = append(curr[:idx+1], curr[idx+2:]...)
		}
	}
	return curr
}

// section pairs a stable identity with text. The unsplittable set is keyed by
// id, so insertions never invalidate it regardless of where they land.
type section struct {
	id   int
	text string
}

type splitOutcome struct {
	a, b string
	ok   bool
}

// splitIteratively grows the section list to target by repeatedly asking the
// oracle to split the largest sections, a bounded batch per round. A section
// the oracle cannot split is benched for the pass; one fruitless round
// unbenches everything for a single full retry, a second fruitless round ends
// the loop. If the loop ends short of target the mechanical segmenter takes
// over on the joined text.
func (s *Splitter) splitIteratively(ctx context.Context, sections []string, target int) []string {
	curr := make([]section, len(sections))
	for i, text := range sections {
		curr[i] = section{id: i, text: text}
	}
	nextID := len(sections)

	cantSplit := make(map[int]bool)
	retried := false

	for round := 0; round < s.cfg.MaxSplitRounds; round++ {
		if len(curr) >= target {
			return sectionTexts(curr)[:target]
		}

		needed := target - len(curr)

		var candidates []int
		for i, sec := range curr {
			if !cantSplit[sec.id] {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			break
		}

		// Largest first; big sections are the most likely to contain a
		// clean idea boundary.
		sort.Slice(candidates, func(a, b int) bool {
			return len(curr[candidates[a]].text) > len(curr[candidates[b]].text)
		})

		batch := needed
		if batch > s.cfg.MaxParallelSplits {
			batch = s.cfg.MaxParallelSplits
		}
		if batch > len(candidates) {
			batch = len(candidates)
		}
		toSplit := candidates[:batch]

		s.logger.Info("split round",
			zap.Int("round", round+1),
			zap.Int("sections", len(curr)),
			zap.Int("batch", batch))

		// Bounded fan-out. Each worker gets a read-only copy of its
		// section and reports through its own slot; a failed or timed-out
		// call is simply no split for that section and cannot cancel its
		// siblings.
		results := make([]splitOutcome, len(toSplit))
		var g errgroup.Group
		g.SetLimit(s.cfg.MaxParallelSplits)
		for i, pos := range toSplit {
			i, text := i, curr[pos].text
			g.Go(func() error {
				a, b, err := s.oracle.SplitOne(ctx, text)
				if err != nil {
					if !errors.Is(err, ErrUnsplittable) {
						s.logger.Warn("split call failed", zap.Error(err))
					}
					return nil
				}
				results[i] = splitOutcome{a: a, b: b, ok: true}
				return nil
			})
		}
		g.Wait()

		// Apply in descending position order so an insertion never moves
		// a position that is still pending.
		order := make([]int, len(toSplit))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			return toSplit[order[a]] > toSplit[order[b]]
		})

		progress := 0
		for _, i := range order {
			pos := toSplit[i]
			res := results[i]
			if !res.ok {
				cantSplit[curr[pos].id] = true
				continue
			}
			progress++
			a := section{id: nextID, text: res.a}
			b := section{id: nextID + 1, text: res.b}
			nextID += 2
			curr[pos] = a
			curr = append(curr[:pos+1], append([]section{b}, curr[pos+1:]...)...)
		}

		if progress == 0 {
			if !retried {
				retried = true
				clear(cantSplit)
				continue
			}
			break
		}
	}

	if len(curr) < target {
		s.logger.Warn("split loop ended short of target, using mechanical segmenter",
			zap.Int("have", len(curr)), zap.Int("want", target))
		return mechanicalSplit(strings.Join(sectionTexts(curr), "\n\n"), target)
	}

	return sectionTexts(curr)[:target]
}

func sectionTexts(secs []section) []string {
	out := make([]string, len(secs))
	for i, sec := range secs {
		out[i] = sec.text
	}
	return out
}

// Package split partitions a document into an exact number of contiguous
// sections whose concatenation preserves the document's content, aligning
// boundaries with idea boundaries where an LLM oracle cooperates.
//
// Pipeline:
//
//	Split()
//	     |
//	two-phase boundary protocol (discover all, then select N-1)
//	     |        \
//	     |         salvage corrupted replies by context matching
//	     |
//	count reconciliation (oracle-guided merge / iterative split)
//	     |
//	mechanical segmenter (deterministic terminal fallback)
//
// The oracle may lie, truncate, rewrite, or time out; every reply is
// validated and every failure degrades to a mechanical strategy, so Split
// fails only on invalid input, never on oracle misbehavior.
package split

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docsplit/internal/config"
)

const (
	// MinTarget and MaxTarget bound the supported section counts.
	MinTarget = 1
	MaxTarget = 50
)

// Splitter drives the splitting pipeline. Each Split call is independent;
// a Splitter is safe for concurrent use on different documents.
type Splitter struct {
	oracle Oracle
	cfg    config.SplitterConfig
	logger *zap.Logger
}

// New builds a Splitter over an oracle.
func New(oracle Oracle, cfg config.SplitterConfig, logger *zap.Logger) *Splitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Splitter{oracle: oracle, cfg: cfg.Normalize(), logger: logger}
}

// Split partitions document into exactly target sections. The only errors it
// returns are ErrInvalidTarget and ErrEmptyDocument; oracle failures are
// absorbed by the fallback chain. The whitespace-normalized concatenation of
// the returned sections always equals the whitespace-normalized document.
func (s *Splitter) Split(ctx context.Context, document string, target int) ([]string, error) {
	if target < MinTarget || target > MaxTarget {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTarget, target)
	}
	if strings.TrimSpace(document) == "" {
		return nil, ErrEmptyDocument
	}

	if target == 1 {
		return []string{document}, nil
	}

	secs := s.initialSections(ctx, document, target)

	switch {
	case len(secs) == target:
		s.logger.Info("initial split hit the target exactly", zap.Int("sections", target))
		return secs, nil

	case len(secs) > target:
		s.logger.Info("combining sections down to target",
			zap.Int("have", len(secs)), zap.Int("want", target))

		temp := secs
		for i := 0; i < s.cfg.MaxRetries; i++ {
			result := s.combineWithOracle(ctx, temp, target)
			if len(result) == target {
				return result, nil
			}
			if len(result) >= len(temp) {
				// No progress; stop consulting the oracle about merges.
				break
			}
			temp = result
		}

		if len(temp) > target {
			return mergeSmallest(temp, target), nil
		}
		if len(temp) < target {
			// Merging overshot; grow back up.
			return s.splitIteratively(ctx, temp, target), nil
		}
		return temp, nil

	default:
		s.logger.Info("splitting sections up to target",
			zap.Int("have", len(secs)), zap.Int("want", target))
		return s.splitIteratively(ctx, secs, target), nil
	}
}

// initialSections obtains a first, count-unconstrained cut of the document.
//
// In the default mode this is the two-phase protocol: discovery (find every
// plausible boundary, a recall task) and selection (keep exactly target-1 of
// them, a selection task). Decoupling the two is far more reliable than
// asking a free-text model to understand semantics and count at once. In
// structured mode a single schema-enforced grouping call replaces the
// exchange. Either way, exhaustion lands on the mechanical segmenter.
func (s *Splitter) initialSections(ctx context.Context, document string, target int) []string {
	if s.cfg.StructuredMode {
		for attempt := 0; attempt < 2; attempt++ {
			if result := s.structuredSplit(ctx, document, target); len(result) == target {
				s.logger.Info("structured grouping succeeded",
					zap.Int("sections", len(result)), zap.Int("attempt", attempt+1))
				return result
			}
			s.logger.Warn("structured grouping failed", zap.Int("attempt", attempt+1))
		}
		s.logger.Warn("structured grouping exhausted, using mechanical segmenter")
		return mechanicalSplit(document, target)
	}

	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		s.logger.Info("discovering boundaries", zap.Int("attempt", attempt+1))

		marked, err := s.oracle.DiscoverBoundaries(ctx, document, attempt)
		if err != nil {
			if attempt == s.cfg.MaxRetries-1 {
				s.logger.Warn("oracle unavailable, using mechanical segmenter")
				return mechanicalSplit(document, target)
			}
			continue
		}

		selected, err := s.oracle.SelectBoundaries(ctx, marked, document, target)
		if err != nil {
			// Selection failed but discovery may still hold good
			// boundaries; salvage them rather than discard the work.
			if salvaged := salvage(marked, document,
				s.cfg.ContextWindowChars, s.cfg.ContextWordsBefore, s.cfg.ContextWordsAfter); salvaged != nil {
				s.logger.Info("salvaged sections from discovery output",
					zap.Int("sections", len(salvaged)))
				return salvaged
			}
			if attempt == s.cfg.MaxRetries-1 {
				return mechanicalSplit(document, target)
			}
			continue
		}

		secs := splitOnMarkers(selected)
		s.logger.Info("two-phase protocol complete",
			zap.Int("sections", len(secs)), zap.Int("target", target))
		return secs
	}

	return mechanicalSplit(document, target)
}

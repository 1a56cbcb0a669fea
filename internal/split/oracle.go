package split

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"docsplit/internal/config"
)

// Client is the transport-level LLM client the oracle runs over. Transport,
// authentication, and retry-on-429 live behind this interface; everything
// above it treats the model as a free-text collaborator whose output must be
// validated.
type Client interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error)
}

// Oracle is the semantic collaborator consulted for boundary judgments. Every
// method validates the model's reply before returning it; an unusable reply
// surfaces as an error, never as a malformed result. The pipeline treats all
// oracle errors as recoverable.
type Oracle interface {
	// DiscoverBoundaries returns the document with a marker at every
	// defensible idea boundary. The reply is NOT yet integrity-checked.
	DiscoverBoundaries(ctx context.Context, document string, attempt int) (string, error)

	// SelectBoundaries integrity-checks a discovery reply against the
	// original and narrows it down to exactly target-1 markers. When the
	// discovery reply already has target-1 markers or fewer it is returned
	// unchanged.
	SelectBoundaries(ctx context.Context, marked, original string, target int) (string, error)

	// SelectMergePairs returns the left indices of adjacent section pairs
	// to merge, deduplicated and sorted descending.
	SelectMergePairs(ctx context.Context, sections []string, target int) ([]int, error)

	// SplitOne splits a section into two non-empty parts. ErrUnsplittable
	// means the section should not be retried this pass.
	SplitOne(ctx context.Context, section string) (string, string, error)

	// GroupMiniSections picks exactly target-1 strictly increasing
	// mini-section boundary indices via schema-enforced structured output.
	GroupMiniSections(ctx context.Context, previews []string, target int, baseline []int) ([]int, error)
}

const (
	selectPreviewChars = 150
	mergePreviewChars  = 200
)

type llmOracle struct {
	client Client
	cfg    config.SplitterConfig
	logger *zap.Logger
}

// NewOracle builds the production Oracle over an LLM transport client.
func NewOracle(client Client, cfg config.SplitterConfig, logger *zap.Logger) Oracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &llmOracle{client: client, cfg: cfg.Normalize(), logger: logger}
}

func (o *llmOracle) DiscoverBoundaries(ctx context.Context, document string, attempt int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.GetDiscoveryTimeout())
	defer cancel()

	system := discoverSystemPrompt
	if attempt > 0 {
		system += discoverEmphasis(attempt)
	}

	resp, err := o.client.CompleteWithSystem(ctx, system, discoverPrompt(document))
	if err != nil {
		o.logger.Warn("boundary discovery call failed",
			zap.Int("attempt", attempt+1), zap.Error(err))
		return "", fmt.Errorf("discover boundaries: %w", err)
	}
	return strings.TrimSpace(resp), nil
}

func (o *llmOracle) SelectBoundaries(ctx context.Context, marked, original string, target int) (string, error) {
	if !sameContent(marked, original) {
		o.logger.Warn("content was modified during boundary discovery")
		return "", fmt.Errorf("%w: content altered", ErrUnusableResponse)
	}

	// Split on ALL discovered boundaries. Empty parts are kept here so
	// spacing survives a later rebuild.
	sections := strings.Split(marked, Marker)
	numBoundaries := len(sections) - 1

	if numBoundaries == 0 {
		o.logger.Warn("no boundaries found during discovery")
		return "", fmt.Errorf("%w: no boundaries", ErrUnusableResponse)
	}

	needed := target - 1
	o.logger.Info("discovery complete",
		zap.Int("boundaries", numBoundaries), zap.Int("needed", needed))

	// Exactly right, or too few: hand back as-is. Too few is not a
	// failure; the caller's reconciliation splits further.
	if numBoundaries <= needed {
		return marked, nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.GetDiscoveryTimeout())
	defer cancel()

	previews := sectionPreviews(sections, selectPreviewChars)
	resp, err := o.client.CompleteWithSystem(ctx,
		selectSystemPrompt(needed), selectPrompt(previews, numBoundaries, target))
	if err != nil {
		o.logger.Warn("boundary selection call failed", zap.Error(err))
		return "", fmt.Errorf("select boundaries: %w", err)
	}

	selected := parseIndexList(resp, numBoundaries)
	if len(selected) > needed {
		selected = selected[:needed]
	}
	if len(selected) != needed {
		o.logger.Warn("selection returned wrong boundary count",
			zap.Int("got", len(selected)), zap.Int("want", needed))
		return "", fmt.Errorf("%w: got %d boundaries, want %d", ErrUnusableResponse, len(selected), needed)
	}

	o.logger.Info("boundary selection complete", zap.Ints("selected", selected))

	// Rebuild with only the selected markers. Joining the raw parts keeps
	// the spacing byte-for-byte.
	keep := make(map[int]bool, len(selected))
	for _, idx := range selected {
		keep[idx] = true
	}
	var b strings.Builder
	for i, sec := range sections {
		b.WriteString(sec)
		if i < len(sections)-1 && keep[i] {
			b.WriteString(Marker)
		}
	}
	return b.String(), nil
}

func (o *llmOracle) SelectMergePairs(ctx context.Context, sections []string, target int) ([]int, error) {
	merges := len(sections) - target
	if merges <= 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.GetDiscoveryTimeout())
	defer cancel()

	previews := sectionPreviews(sections, mergePreviewChars)
	resp, err := o.client.CompleteWithSystem(ctx, mergeSystemPrompt, mergePrompt(previews, merges, target))
	if err != nil {
		o.logger.Warn("merge pair selection call failed", zap.Error(err))
		return nil, fmt.Errorf("select merge pairs: %w", err)
	}

	pairs := parsePairList(resp, len(sections))
	if len(pairs) > merges {
		pairs = pairs[:merges]
	}
	return pairs, nil
}

func (o *llmOracle) SplitOne(ctx context.Context, section string) (string, string, error) {
	if len(strings.TrimSpace(section)) < o.cfg.MinSectionSize {
		return "", "", ErrUnsplittable
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.GetSplitTimeout())
	defer cancel()

	resp, err := o.client.CompleteWithSystem(ctx, splitOneSystemPrompt, splitOnePrompt(section))
	if err != nil {
		o.logger.Warn("section split call failed", zap.Error(err))
		return "", "", fmt.Errorf("split section: %w", err)
	}
	resp = strings.TrimSpace(resp)

	if !sameContent(resp, section) {
		o.logger.Warn("content was modified during section split")
		return "", "", ErrUnsplittable
	}
	if strings.Count(resp, Marker) != 1 {
		// Either the model declined to split or it scattered markers.
		return "", "", ErrUnsplittable
	}

	halves := strings.SplitN(resp, Marker, 2)
	a := strings.TrimSpace(halves[0])
	b := strings.TrimSpace(halves[1])
	if a == "" || b == "" {
		return "", "", ErrUnsplittable
	}
	return a, b, nil
}

// groupResponse is the structured-output contract for GroupMiniSections.
type groupResponse struct {
	Boundaries []int `json:"boundaries"`
}

const groupResponseSchema = `{
	"type": "object",
	"properties": {
		"boundaries": {
			"type": "array",
			"items": {"type": "integer", "minimum": 0}
		}
	},
	"required": ["boundaries"],
	"additionalProperties": false
}`

func (o *llmOracle) GroupMiniSections(ctx context.Context, previews []string, target int, baseline []int) ([]int, error) {
	if len(previews) < 2 || target < 2 {
		return nil, fmt.Errorf("%w: nothing to group", ErrUnusableResponse)
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.GetDiscoveryTimeout())
	defer cancel()

	resp, err := o.client.CompleteWithSchema(ctx, groupSystemPrompt,
		groupPrompt(previews, target, baseline), groupResponseSchema)
	if err != nil {
		o.logger.Warn("grouping call failed", zap.Error(err))
		return nil, fmt.Errorf("group mini-sections: %w", err)
	}

	if err := validateGroupResponse(resp); err != nil {
		o.logger.Warn("grouping response failed schema validation", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnusableResponse, err)
	}

	var parsed groupResponse
	if err := json.Unmarshal([]byte(resp), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnusableResponse, err)
	}

	indices := parsed.Boundaries
	maxIdx := len(previews) - 2
	if len(indices) != target-1 {
		return nil, fmt.Errorf("%w: got %d indices, want %d", ErrUnusableResponse, len(indices), target-1)
	}
	for i, idx := range indices {
		if idx < 0 || idx > maxIdx {
			return nil, fmt.Errorf("%w: index %d out of range", ErrUnusableResponse, idx)
		}
		if i > 0 && idx <= indices[i-1] {
			return nil, fmt.Errorf("%w: indices not strictly increasing", ErrUnusableResponse)
		}
	}
	// A last boundary far from the end means the final section swallows a
	// large tail of the document; reject lopsided groupings.
	if float64(indices[len(indices)-1]) <= 0.85*float64(maxIdx) {
		return nil, fmt.Errorf("%w: last boundary too early", ErrUnusableResponse)
	}
	return indices, nil
}

// parseIndexList extracts integers from a comma-separated reply, silently
// skipping junk tokens and out-of-range values, then dedupes and sorts.
func parseIndexList(resp string, numBoundaries int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, tok := range strings.Split(strings.ReplaceAll(resp, " ", ""), ",") {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 || n >= numBoundaries {
			continue
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// parsePairList extracts "l-r" adjacent pairs, keeping the left index of each
// valid pair, deduplicated and sorted descending so merges can be applied
// back-to-front without disturbing earlier indices.
func parsePairList(resp string, numSections int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, tok := range strings.Split(resp, ",") {
		tok = strings.TrimSpace(tok)
		left, right, ok := strings.Cut(tok, "-")
		if !ok {
			continue
		}
		l, errL := strconv.Atoi(strings.TrimSpace(left))
		r, errR := strconv.Atoi(strings.TrimSpace(right))
		if errL != nil || errR != nil {
			continue
		}
		if r != l+1 || l < 0 || l >= numSections-1 {
			continue
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

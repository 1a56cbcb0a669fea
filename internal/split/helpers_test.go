package split

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var errOffline = errors.New("oracle offline")

// fakeOracle scripts the semantic collaborator. Unset hooks fail, so the
// zero value models a completely unavailable oracle.
type fakeOracle struct {
	discover   func(document string, attempt int) (string, error)
	selectB    func(marked, original string, target int) (string, error)
	mergePairs func(sections []string, target int) ([]int, error)
	splitOne   func(section string) (string, string, error)
	group      func(previews []string, target int, baseline []int) ([]int, error)

	mu            sync.Mutex
	splitRequests []string
}

func (f *fakeOracle) DiscoverBoundaries(_ context.Context, document string, attempt int) (string, error) {
	if f.discover == nil {
		return "", errOffline
	}
	return f.discover(document, attempt)
}

func (f *fakeOracle) SelectBoundaries(_ context.Context, marked, original string, target int) (string, error) {
	if f.selectB == nil {
		return "", errOffline
	}
	return f.selectB(marked, original, target)
}

func (f *fakeOracle) SelectMergePairs(_ context.Context, sections []string, target int) ([]int, error) {
	if f.mergePairs == nil {
		return nil, errOffline
	}
	return f.mergePairs(sections, target)
}

func (f *fakeOracle) SplitOne(_ context.Context, section string) (string, string, error) {
	f.mu.Lock()
	f.splitRequests = append(f.splitRequests, section)
	f.mu.Unlock()
	if f.splitOne == nil {
		return "", "", errOffline
	}
	return f.splitOne(section)
}

func (f *fakeOracle) GroupMiniSections(_ context.Context, previews []string, target int, baseline []int) ([]int, error) {
	if f.group == nil {
		return nil, errOffline
	}
	return f.group(previews, target, baseline)
}

func (f *fakeOracle) requestsFor(section string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, req := range f.splitRequests {
		if req == section {
			n++
		}
	}
	return n
}

// splitAtFirstSpace is a convenient SplitOne script: any section containing a
// space splits at its first space, anything else is unsplittable.
func splitAtFirstSpace(section string) (string, string, error) {
	a, b, ok := strings.Cut(section, " ")
	if !ok || strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return "", "", ErrUnsplittable
	}
	return strings.TrimSpace(a), strings.TrimSpace(b), nil
}

// fakeClient scripts the transport layer for oracle adapter tests.
type fakeClient struct {
	responses []string
	err       error

	systems []string
	users   []string
}

func (c *fakeClient) next() (string, error) {
	if c.err != nil {
		return "", c.err
	}
	if len(c.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func (c *fakeClient) CompleteWithSystem(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	c.systems = append(c.systems, systemPrompt)
	c.users = append(c.users, userPrompt)
	return c.next()
}

func (c *fakeClient) CompleteWithSchema(_ context.Context, systemPrompt, userPrompt, _ string) (string, error) {
	c.systems = append(c.systems, systemPrompt)
	c.users = append(c.users, userPrompt)
	return c.next()
}

// normEqual reports whether the whitespace-normalized concatenation of
// sections equals the whitespace-normalized document.
func normEqual(sections []string, document string) bool {
	return normalizeWhitespace(strings.Join(sections, "\n\n")) == normalizeWhitespace(document)
}

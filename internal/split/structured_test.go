package split

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsplit/internal/config"
)

func TestBuildMiniSections(t *testing.T) {
	docs := map[string]string{
		"paragraphs": "A paragraph with enough words to not be glued away entirely.\n\n" +
			"Another paragraph carrying a comparable amount of words in it.\n\n" +
			"A third paragraph that also clears the minimum size threshold.",
		"sentences": "One full sentence sits here with plenty of words inside it. " +
			"Another full sentence follows along with more of the same. " +
			"A third sentence keeps the single paragraph going strong. " +
			"A fourth sentence finally brings the paragraph to an end.",
		"lines": "a line of text that is long enough to stand alone here\n" +
			"a second line of text that is also long enough to stand\n" +
			"a third line of text that clears the minimum size as well",
	}

	for name, doc := range docs {
		t.Run(name+" chop is lossless", func(t *testing.T) {
			minis := buildMiniSections(doc, 2)
			require.NotEmpty(t, minis)
			assert.Equal(t, doc, strings.Join(minis, ""))
		})
	}

	t.Run("tiny pieces are glued to their predecessor", func(t *testing.T) {
		doc := "A first paragraph that is comfortably beyond the size floor.\n\nok\n\n" +
			"A last paragraph that is comfortably beyond the size floor too."
		minis := buildMiniSections(doc, 2)
		assert.Equal(t, doc, strings.Join(minis, ""))
		for _, m := range minis {
			assert.NotEmpty(t, strings.TrimSpace(m))
		}
	})
}

func TestEvenBaseline(t *testing.T) {
	t.Run("spacing", func(t *testing.T) {
		assert.Equal(t, []int{1, 4, 6}, evenBaseline(10, 4))
	})

	t.Run("always strictly increasing and in range", func(t *testing.T) {
		for n := 2; n <= 20; n++ {
			for target := 2; target <= n; target++ {
				base := evenBaseline(n, target)
				for i, idx := range base {
					assert.GreaterOrEqual(t, idx, 0)
					assert.LessOrEqual(t, idx, n-2)
					if i > 0 {
						assert.Greater(t, idx, base[i-1], "n=%d target=%d", n, target)
					}
				}
			}
		}
	})
}

func TestStructuredSplit(t *testing.T) {
	doc := "The first paragraph has enough words to stand on its own as a piece.\n\n" +
		"The second paragraph also carries plenty of text for the chopper.\n\n" +
		"The third paragraph continues with more than enough characters here.\n\n" +
		"The fourth paragraph closes things out with a final run of words."

	t.Run("valid grouping reconstructs the document", func(t *testing.T) {
		fake := &fakeOracle{
			group: func(_ []string, _ int, baseline []int) ([]int, error) {
				return baseline, nil
			},
		}
		s := newTestSplitter(fake, config.SplitterConfig{StructuredMode: true})

		secs := s.structuredSplit(context.Background(), doc, 2)
		require.Len(t, secs, 2)
		assert.Equal(t, doc, strings.Join(secs, ""))
	})

	t.Run("nil on grouping failure", func(t *testing.T) {
		s := newTestSplitter(&fakeOracle{}, config.SplitterConfig{StructuredMode: true})
		assert.Nil(t, s.structuredSplit(context.Background(), doc, 2))
	})

	t.Run("nil when the document is too small for the target", func(t *testing.T) {
		fake := &fakeOracle{
			group: func(_ []string, _ int, baseline []int) ([]int, error) {
				return baseline, nil
			},
		}
		s := newTestSplitter(fake, config.SplitterConfig{StructuredMode: true})
		assert.Nil(t, s.structuredSplit(context.Background(), "too small", 5))
	})
}

func TestValidateGroupResponse(t *testing.T) {
	assert.NoError(t, validateGroupResponse(`{"boundaries": [1, 2, 3]}`))
	assert.Error(t, validateGroupResponse(`{"boundaries": "1,2,3"}`))
	assert.Error(t, validateGroupResponse(`{"boundaries": [-1]}`))
	assert.Error(t, validateGroupResponse(`{}`))
	assert.Error(t, validateGroupResponse(`{"boundaries": [1], "extra": true}`))
}

package split

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMechanicalSplit(t *testing.T) {
	t.Run("paragraph count matches target", func(t *testing.T) {
		doc := "First paragraph here.\n\nSecond paragraph here.\n\nThird paragraph here."
		secs := mechanicalSplit(doc, 3)
		require.Len(t, secs, 3)
		assert.Equal(t, "First paragraph here.", secs[0])
		assert.Equal(t, "Second paragraph here.", secs[1])
		assert.Equal(t, "Third paragraph here.", secs[2])
	})

	t.Run("merges down when too many paragraphs", func(t *testing.T) {
		doc := "Alpha alpha alpha alpha.\n\nTiny.\n\nWee.\n\nDelta delta delta delta delta."
		secs := mechanicalSplit(doc, 2)
		require.Len(t, secs, 2)
		assert.True(t, normEqual(secs, doc))
	})

	t.Run("bisects up when too few paragraphs", func(t *testing.T) {
		doc := "One sentence here. Another sentence here. A third sentence here. A fourth one."
		secs := mechanicalSplit(doc, 2)
		require.Len(t, secs, 2)
		assert.True(t, normEqual(secs, doc))
	})

	t.Run("undividable text returns fewer sections", func(t *testing.T) {
		secs := mechanicalSplit("ab", 3)
		assert.Less(t, len(secs), 3)
		assert.Equal(t, "ab", strings.Join(secs, ""))
	})

	t.Run("content preserved across targets", func(t *testing.T) {
		doc := "The quick brown fox jumps over the lazy dog.\n\n" +
			"Pack my box with five dozen liquor jugs.\n\n" +
			"How vexingly quick daft zebras jump!\n\n" +
			"Sphinx of black quartz, judge my vow."
		for target := 1; target <= 8; target++ {
			t.Run(fmt.Sprintf("target=%d", target), func(t *testing.T) {
				secs := mechanicalSplit(doc, target)
				assert.True(t, normEqual(secs, doc), "content lost at target %d", target)
				assert.LessOrEqual(t, len(secs), target)
			})
		}
	})
}

func TestMergeSmallest(t *testing.T) {
	t.Run("no-op at target", func(t *testing.T) {
		in := []string{"a", "b", "c"}
		got := mergeSmallest(in, 3)
		assert.Empty(t, cmp.Diff(in, got))
	})

	t.Run("prefers smallest adjacent pair", func(t *testing.T) {
		in := []string{"a long opening section", "x", "y", "a long closing section"}
		got := mergeSmallest(in, 3)
		want := []string{"a long opening section", "x\n\ny", "a long closing section"}
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("merges all the way to one", func(t *testing.T) {
		got := mergeSmallest([]string{"a", "b", "c", "d"}, 1)
		require.Len(t, got, 1)
		assert.Equal(t, "a b c d", normalizeWhitespace(got[0]))
	})

	t.Run("input slice untouched", func(t *testing.T) {
		in := []string{"one", "two", "three"}
		mergeSmallest(in, 1)
		assert.Equal(t, []string{"one", "two", "three"}, in)
	})
}

func TestBisect(t *testing.T) {
	t.Run("splits at middle sentence end", func(t *testing.T) {
		a, b := bisect("First part done. Second part done. Third part done. Fourth part done.")
		assert.Equal(t, "First part done. Second part done.", a)
		assert.Equal(t, "Third part done. Fourth part done.", b)
	})

	t.Run("falls back to line breaks", func(t *testing.T) {
		a, b := bisect("line one\nline two\nline three\nline four")
		assert.Equal(t, "line one\nline two", a)
		assert.Equal(t, "line three\nline four", b)
	})

	t.Run("falls back to nearest space", func(t *testing.T) {
		a, b := bisect("alpha beta gamma delta")
		assert.NotEmpty(t, a)
		assert.NotEmpty(t, b)
		assert.Equal(t, "alpha beta gamma delta", a+" "+b)
	})

	t.Run("hard midpoint for one long token", func(t *testing.T) {
		a, b := bisect("abcdefgh")
		assert.Equal(t, "abcdefgh", a+b)
		assert.NotEmpty(t, a)
		assert.NotEmpty(t, b)
	})

	t.Run("hard midpoint never tears a rune", func(t *testing.T) {
		a, b := bisect("ééééééé")
		for _, half := range []string{a, b} {
			assert.True(t, strings.ToValidUTF8(half, "?") == half)
		}
		assert.Equal(t, "ééééééé", a+b)
	})
}

func TestParagraphSections(t *testing.T) {
	t.Run("reattaches whitespace-only fragments", func(t *testing.T) {
		secs := paragraphSections("first\n\n   \n\nsecond")
		assert.Equal(t, []string{"first", "second"}, secs)
	})

	t.Run("single paragraph", func(t *testing.T) {
		secs := paragraphSections("just one block of text")
		assert.Equal(t, []string{"just one block of text"}, secs)
	})

	t.Run("blank input", func(t *testing.T) {
		assert.Empty(t, paragraphSections("   \n\n  "))
	})
}

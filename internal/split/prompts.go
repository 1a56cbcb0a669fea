package split

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Prompt builders for the oracle exchanges. Each exchange sends a system
// message pinning down the output contract and a user message carrying the
// text, and each response is validated after the fact; the prompts alone are
// never trusted to produce well-formed output.

const discoverSystemPrompt = "You insert " + Marker + " markers into documents at ALL natural boundaries where discrete ideas end. " +
	"Split at clear endpoints: after paragraphs, after bullet lists, or after sentences (if the sentence completes a discrete idea). " +
	"Return the complete document with markers at EVERY reasonable split point. Never split mid-sentence or mid-bullet-list. " +
	"CRITICAL: Copy the document EXACTLY character-for-character. " +
	"Preserve ALL formatting: newlines, blank lines, spacing, indentation, bullet points. " +
	"Do NOT change, add, or remove any whitespace, line breaks, or formatting. " +
	"The ONLY thing you add is the " + Marker + " marker - nothing else changes."

func discoverPrompt(document string) string {
	return fmt.Sprintf(`Identify ALL natural split points in this document where one complete discrete idea ends and another begins. Insert the marker %[1]s at each split point.

Use the marker: %[1]s

Each section should contain one complete discrete idea. Don't split an idea across multiple sections - each idea must be kept whole and intact.

Only split between complete discrete ideas. Place markers at clear endpoints where ideas naturally separate:
- After paragraphs (ideal for major topic changes)
- After bullet point lists (once the list completes) - if bullets refer to the same idea, keep them together
- After individual sentences (when the sentence completes a discrete idea)

The key is: it must be both a clear endpoint (sentence/paragraph/list end) AND a separate idea. Splits can be at any granularity as long as both conditions are met.

Never place a marker in the middle of a sentence. Never place a marker in the middle of a bullet list - place it after the last bullet only if the following content is a different idea. If multiple bullets discuss the same idea, they must stay together in one section. Never split markdown formatting.

Find ALL reasonable split points - we'll select the best ones later. Think of this as: if someone asked "where could we possibly split this into slides?", mark every single reasonable option.

CRITICAL: Return the complete original document with markers inserted.
- Copy the text EXACTLY character-by-character
- Preserve ALL newlines, blank lines, and spacing EXACTLY as they appear
- Do NOT modify, paraphrase, or reformat any text
- Do NOT change line breaks or remove blank lines
- The ONLY addition is the %[1]s marker

Document:

%[2]s`, Marker, document)
}

// discoverEmphasis is appended to the system prompt on later attempts, after
// an earlier reply failed the content-integrity check.
func discoverEmphasis(attempt int) string {
	return fmt.Sprintf(" Retry %d: Return the exact original text with only %s markers added.", attempt+1, Marker)
}

func selectSystemPrompt(needed int) string {
	return fmt.Sprintf("You select exactly %d boundaries from a list to create the best document sections. Return only comma-separated numbers.", needed)
}

func selectPrompt(previews []string, numBoundaries, target int) string {
	needed := target - 1
	return fmt.Sprintf(`You previously identified %d potential split points in a document.
Now you need to select exactly %d of these boundaries to create %d final sections.

Here are the %d sections that would be created if we kept ALL boundaries:

%s

Your task: Pick exactly %d boundaries to keep. These should be the boundaries that:
1. Create the most semantically coherent sections
2. Separate the most important topic changes
3. Result in roughly balanced section sizes (but prioritize semantic coherence)

A boundary exists between each pair of adjacent sections. For example:
- Boundary 0 is between Section 0 and Section 1
- Boundary 1 is between Section 1 and Section 2
- etc.

Return ONLY a comma-separated list of exactly %d boundary numbers (0 to %d).
For example: 0, 5, 12, 18, 25, 31, 38

Your response (exactly %d numbers):`,
		numBoundaries, needed, target, len(previews), strings.Join(previews, "\n"),
		needed, needed, numBoundaries-1, needed)
}

const mergeSystemPrompt = "You identify which adjacent document sections should be combined based on semantic coherence."

func mergePrompt(previews []string, merges, target int) string {
	return fmt.Sprintf(`You have %d sections and need to combine %d pairs of adjacent sections to get down to %d sections.

Analyze which adjacent sections contain related ideas that should be combined together.

You can only combine sections that are next to each other (adjacent). Section i can only combine with section i+1. Choose pairs that would create the most coherent combined sections. Return exactly %d pairs.

Return your answer as a comma-separated list of pairs in this format:
0-1, 3-4, 7-8

Sections:

%s

Return only the pairs, nothing else:`,
		len(previews), merges, target, merges, strings.Join(previews, "\n\n"))
}

const splitOneSystemPrompt = "You split sections at natural boundaries. Insert one " + Marker + " marker or return unchanged. " +
	"Critical: Copy the text EXACTLY character-for-character - do not add spaces, remove spaces, or change any text. " +
	"The only thing you add is the " + Marker + " marker."

func splitOnePrompt(section string) string {
	return fmt.Sprintf(`Split this section into exactly 2 parts by inserting one %[1]s marker.

Find the natural break point between two ideas and insert %[1]s there.

Never split in the middle of a sentence. Never split in the middle of a bullet list - if bullets refer to the same idea, keep them together. Only split after a bullet list if the following content is a different idea. If you cannot find a good split point, return the section unchanged (no marker). Return the complete section with one %[1]s marker or unchanged.

Section:

%[2]s`, Marker, section)
}

const groupSystemPrompt = "You group consecutive mini-sections of a document into coherent final sections by choosing boundary indices. " +
	"Respond with JSON only, matching the requested schema."

func groupPrompt(previews []string, target int, baseline []int) string {
	baselineStrs := make([]string, len(baseline))
	for i, b := range baseline {
		baselineStrs[i] = fmt.Sprint(b)
	}
	return fmt.Sprintf(`A document has been mechanically chopped into %d consecutive mini-sections, listed below in order. Group them into exactly %d final sections by choosing exactly %d boundary indices. Boundary i sits after mini-section i, so valid indices run from 0 to %d.

Rules:
1. Return exactly %d indices, strictly increasing, no duplicates.
2. Each final section must be a run of consecutive mini-sections.
3. Prefer boundaries where the topic changes; keep related mini-sections together.
4. Keep section sizes roughly balanced. A size-balanced baseline would be: %s

Mini-sections:

%s`,
		len(previews), target, target-1, len(previews)-2,
		target-1, strings.Join(baselineStrs, ", "), strings.Join(previews, "\n"))
}

// sectionPreviews renders one numbered, single-line preview per section,
// truncated to width characters.
func sectionPreviews(sections []string, width int) []string {
	previews := make([]string, len(sections))
	for i, sec := range sections {
		p := strings.TrimSpace(sec)
		truncated := false
		if len(p) > width {
			cut := width
			for cut > 0 && !utf8.RuneStart(p[cut]) {
				cut--
			}
			p = p[:cut]
			truncated = true
		}
		p = strings.ReplaceAll(p, "\n", " ")
		if truncated {
			p += "..."
		}
		previews[i] = fmt.Sprintf("Section %d: %s", i, p)
	}
	return previews
}

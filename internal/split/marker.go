package split

import "strings"

// Marker is the boundary token the oracle inserts between sections.
// It never occurs naturally in prose, so stripping every occurrence
// recovers the original text.
const Marker = "<<SPLIT>>"

// normalizeWhitespace collapses every run of whitespace to a single space.
// Two texts that normalize equal differ at most in contiguous whitespace.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sameContent reports whether marked, with all markers removed, carries
// exactly the original's content modulo whitespace. This is the
// content-integrity check applied to every marked text the oracle returns.
func sameContent(marked, original string) bool {
	stripped := strings.ReplaceAll(marked, Marker, "")
	return normalizeWhitespace(stripped) == normalizeWhitespace(original)
}

// splitOnMarkers cuts text at each marker, dropping completely empty pieces.
// Pieces are not trimmed: spacing inside sections is preserved as-is.
func splitOnMarkers(text string) []string {
	parts := strings.Split(text, Marker)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

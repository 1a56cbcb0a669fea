package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameContent(t *testing.T) {
	assert.True(t, sameContent("a "+Marker+"b  c", "a b\nc"))
	assert.True(t, sameContent("a b c", "a b c"))
	assert.False(t, sameContent("a "+Marker+"b d", "a b c"))
}

func TestSplitOnMarkers(t *testing.T) {
	assert.Equal(t, []string{"a ", " b"}, splitOnMarkers("a "+Marker+" b"))
	assert.Equal(t, []string{"middle"}, splitOnMarkers(Marker+"middle"+Marker))
	assert.Equal(t, []string{"plain"}, splitOnMarkers("plain"))
}

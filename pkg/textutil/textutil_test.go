package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashString(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", HashString(""))
	assert.Equal(t, HashString("solar"), HashString("solar"))
	assert.NotEqual(t, HashString("solar"), HashString("wind"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "solar energy storage", Normalize("<p>Solar   <b>Energy</b>\n storage</p>"))
	assert.Equal(t, "", Normalize("   "))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"solar", "panel", "efficiency"}, Words("solar panel, efficiency!"))
	assert.Empty(t, Words("..."))
}

func TestWordSet(t *testing.T) {
	set := WordSet("solar solar wind")
	assert.Len(t, set, 2)
	_, ok := set["solar"]
	assert.True(t, ok)
}

package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	for _, name := range []Name{Simple, Split, Side} {
		v, ok := Lookup(string(name))
		assert.True(t, ok, name)
		assert.Equal(t, name, v.Name)
		assert.NotEmpty(t, v.Template)
	}

	_, ok := Lookup("fancy")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, Split, Resolve("split").Name)
	assert.Equal(t, Side, Resolve("").Name)
	assert.Equal(t, Side, Resolve("unknown").Name)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"side", "simple", "split"}, Names())
}

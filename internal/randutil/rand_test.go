package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestChildDiverges(t *testing.T) {
	parent := New(1)
	c1 := Child(parent)
	c2 := Child(parent)
	assert.NotEqual(t, c1.Uint64(), c2.Uint64())
}

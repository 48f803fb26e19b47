package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreaterThan_CounterDominates(t *testing.T) {
	a := Tag{Counter: 2, WriterID: "a"}
	b := Tag{Counter: 1, WriterID: "z"}
	assert.True(t, a.GreaterThan(b))
	assert.False(t, b.GreaterThan(a))
}

func TestGreaterThan_WriterIDTiebreak(t *testing.T) {
	a := Tag{Counter: 1, WriterID: "2"}
	b := Tag{Counter: 1, WriterID: "1"}
	assert.True(t, a.GreaterThan(b))
	assert.False(t, b.GreaterThan(a))
}

func TestGreaterThan_EqualNeverGreater(t *testing.T) {
	a := Tag{Counter: 5, WriterID: "x"}
	b := Tag{Counter: 5, WriterID: "x"}
	assert.False(t, a.GreaterThan(b))
	assert.False(t, b.GreaterThan(a))
}

func TestZeroIsMinimum(t *testing.T) {
	assert.Equal(t, Tag{Counter: 0, WriterID: ""}, Zero)
	assert.True(t, (Tag{Counter: 1, WriterID: ""}).GreaterThan(Zero))
}

func TestNext(t *testing.T) {
	max := Tag{Counter: 4, WriterID: "x"}
	n := max.Next("42")
	assert.Equal(t, Tag{Counter: 5, WriterID: "42"}, n)
	assert.True(t, n.GreaterThan(max))
}

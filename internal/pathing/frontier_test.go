package pathing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_OrderAndMembership(t *testing.T) {
	f := newFrontier()

	f.push(v(0, 0, 0), 5)
	f.push(v(1, 0, 0), 2)
	f.push(v(2, 0, 0), 7)
	f.push(v(3, 0, 0), 2)
	f.push(v(4, 0, 0), 0)

	require.Equal(t, 5, f.Len())
	assert.True(t, f.contains(v(2, 0, 0)))
	assert.False(t, f.contains(v(9, 0, 0)))
	assert.Equal(t, v(4, 0, 0), f.peek().pos)

	var order []int
	for f.Len() > 0 {
		n := f.pop()
		assert.False(t, f.contains(n.pos), "Извлечённый узел не должен числиться в очереди")
		order = append(order, n.pos.X)
	}

	// При равном приоритете первым идёт раньше добавленный
	assert.Equal(t, []int{4, 1, 3, 0, 2}, order)
}

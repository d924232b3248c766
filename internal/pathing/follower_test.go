package pathing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxelnav/internal/vec"
	"github.com/annel0/voxelnav/internal/world/block"
)

func TestFollower_WalksRoute(t *testing.T) {
	w := newFlatWorld(t)
	w.SetBlock(3, 1, 0, block.NewHalf(block.StoneSlab))
	w.SetBlock(4, 1, 0, block.New(block.RoughStone))

	res := solve(t, NewSearch(w, v(0, 1, 0), v(4, 2, 0), Options{}))
	require.True(t, res.Solved)

	f := NewFollower(res.Route)
	cur, ok := f.Current()
	require.True(t, ok)
	assert.Equal(t, v(0, 1, 0), cur)
	assert.Equal(t, 4, f.Remaining())

	for !f.Done() {
		next, _ := f.Peek()
		got, err := f.Advance(w)
		require.NoError(t, err)
		assert.Equal(t, next, got)
	}

	cur, _ = f.Current()
	assert.Equal(t, v(4, 2, 0), cur)

	_, err := f.Advance(w)
	assert.ErrorIs(t, err, ErrRouteFinished)
}

func TestFollower_DetectsStaleRoute(t *testing.T) {
	w := newFlatWorld(t)

	res := solve(t, NewSearch(w, v(0, 1, 0), v(5, 1, 0), Options{}))
	require.True(t, res.Solved)

	f := NewFollower(res.Route)
	_, err := f.Advance(w)
	require.NoError(t, err)

	// Мир изменился после поиска: на пути выросла стена
	w.SetBlock(2, 1, 0, block.New(block.RoughStone))

	pos, err := f.Advance(w)
	assert.ErrorIs(t, err, ErrStaleRoute)
	assert.Equal(t, v(1, 1, 0), pos, "Позиция не меняется при устаревшем маршруте")
	assert.Equal(t, 4, f.Remaining())

	// Перепланирование из текущей позиции обходит стену
	replanned := solve(t, NewSearch(w, pos, v(5, 1, 0), Options{}))
	require.True(t, replanned.Solved)
	assert.NotContains(t, replanned.Route, v(2, 1, 0))
}

func TestFollower_EmptyRoute(t *testing.T) {
	f := NewFollower(nil)

	_, ok := f.Current()
	assert.False(t, ok)
	assert.True(t, f.Done())
	assert.Zero(t, f.Remaining())

	_, err := f.Advance(nil)
	assert.ErrorIs(t, err, ErrRouteFinished)

	single := NewFollower([]vec.Vec3{v(1, 1, 1)})
	assert.True(t, single.Done(), "Маршрут из одной клетки уже пройден")
}

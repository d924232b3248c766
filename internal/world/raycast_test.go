package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/annel0/voxelnav/internal/vec"
	"github.com/annel0/voxelnav/internal/world/block"
)

func TestIntersectWorld_StraightDown(t *testing.T) {
	c := newTestContainer(t)
	c.SetBlock(5, 3, 5, block.New(block.RoughStone))

	origin := vec.Vec3Float{X: 5.5, Y: 15.5, Z: 5.5}
	down := vec.Vec3Float{X: 0, Y: -1, Z: 0}

	hit, ok := c.IntersectWorld(origin, down, c.Height()-1, 0)
	assert.True(t, ok, "Луч должен попасть в блок")
	assert.Equal(t, vec.Vec3{X: 5, Y: 3, Z: 5}, hit)

	// Слой отсечения ниже блока
	_, ok = c.IntersectWorld(origin, down, 2, 0)
	assert.False(t, ok, "Блоки выше слоя отсечения не учитываются")
}

func TestIntersectWorld_PrefersTopLayerThenNearest(t *testing.T) {
	c := newTestContainer(t)
	c.FillChunk(0, 0, 0, block.Dirt)
	c.SetBlock(6, 4, 2, block.New(block.Wood))
	c.SetBlock(2, 4, 2, block.New(block.Wood))

	// Наклонный луч вдоль X на высоте слоя 4
	origin := vec.Vec3Float{X: 0.5, Y: 4.5, Z: 2.5}
	dir := vec.Vec3Float{X: 1, Y: -0.01, Z: 0}.Normalized()

	hit, ok := c.IntersectWorld(origin, dir, c.Height()-1, 0)
	assert.True(t, ok)
	assert.Equal(t, vec.Vec3{X: 2, Y: 4, Z: 2}, hit, "Выбирается ближайший блок верхнего слоя")
}

func TestIntersectWorld_Miss(t *testing.T) {
	c := newTestContainer(t)
	c.SetBlock(5, 3, 5, block.New(block.RoughStone))

	// Луч вверх
	_, ok := c.IntersectWorld(vec.Vec3Float{X: 5.5, Y: 5, Z: 5.5}, vec.Vec3Float{Y: 1}, c.Height()-1, 0)
	assert.False(t, ok)

	// Колонка дальше ограничения дальности
	_, ok = c.IntersectWorld(vec.Vec3Float{X: 30, Y: 15, Z: 30}, vec.Vec3Float{X: -1, Y: -0.5, Z: -1}.Normalized(), c.Height()-1, 4)
	assert.False(t, ok)
}

func TestIntersectBox(t *testing.T) {
	min := vec.Vec3Float{X: 1, Y: 1, Z: 1}
	max := vec.Vec3Float{X: 2, Y: 2, Z: 2}

	near, ok := intersectBox(vec.Vec3Float{X: 0, Y: 1.5, Z: 1.5}, vec.Vec3Float{X: 1}, min, max)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, near, 1e-9)

	_, ok = intersectBox(vec.Vec3Float{X: 0, Y: 3, Z: 1.5}, vec.Vec3Float{X: 1}, min, max)
	assert.False(t, ok, "Параллельный луч вне плиты промахивается")

	_, ok = intersectBox(vec.Vec3Float{X: 3, Y: 1.5, Z: 1.5}, vec.Vec3Float{X: 1}, min, max)
	assert.False(t, ok, "Параллелепипед позади луча не пересекается")
}

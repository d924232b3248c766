package pathing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/annel0/voxelnav/internal/vec"
	"github.com/annel0/voxelnav/internal/world"
	"github.com/annel0/voxelnav/internal/world/block"
)

// newFlatWorld создаёт мир 32x16x32 с каменным полом на y=0
func newFlatWorld(t *testing.T) *world.Container {
	t.Helper()

	w, err := world.NewContainer(32, 16, 8)
	require.NoError(t, err)

	for x := 0; x < w.Width(); x += w.ColumnWidth() {
		for z := 0; z < w.Width(); z += w.ColumnWidth() {
			w.FillChunk(x, 0, z, block.RoughStone)
		}
	}
	return w
}

// wallRing окружает клетку (cx, 1, cz) кольцом стен высотой в один блок
func wallRing(w *world.Container, cx, cz int) {
	for x := cx - 1; x <= cx+1; x++ {
		for z := cz - 1; z <= cz+1; z++ {
			if x == cx && z == cz {
				continue
			}
			w.SetBlock(x, 1, z, block.New(block.RoughStone))
		}
	}
}

// solve запускает поиск и ждёт результата
func solve(t *testing.T, s *Search) Result {
	t.Helper()

	s.ComputePath()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := s.Wait(ctx)
	require.NoError(t, err, "Поиск должен завершиться")
	return res
}

func v(x, y, z int) vec.Vec3 {
	return vec.Vec3{X: x, Y: y, Z: z}
}

package main

import (
	"math/rand"

	"github.com/annel0/voxelnav/internal/logging"
	"github.com/annel0/voxelnav/internal/vec"
	"github.com/annel0/voxelnav/internal/world"
	"github.com/annel0/voxelnav/internal/world/block"
)

const floorLevel = 3

// buildDemoWorld строит демонстрационный мир: каменное основание до floorLevel,
// земляной пол, стены с проходами и лестницы из плит на второй ярус.
func buildDemoWorld(w *world.Container, rng *rand.Rand) {
	cw := w.ColumnWidth()

	// Основание заливается целыми слоями без выделения массивов
	for cx := 0; cx < w.ChunkCount(); cx++ {
		for cz := 0; cz < w.ChunkCount(); cz++ {
			for y := 0; y < floorLevel; y++ {
				w.FillChunk(cx*cw, y, cz*cw, block.RoughStone)
			}
			w.FillChunk(cx*cw, floorLevel, cz*cw, block.Dirt)
		}
	}

	walls := 0
	stairs := 0
	for i := 0; i < w.ChunkCount()*2; i++ {
		// Стена вдоль X или Z с проходом посередине
		x0, z0 := rng.Intn(w.Width()), rng.Intn(w.Width())
		length := cw + rng.Intn(cw)
		alongX := rng.Intn(2) == 0
		for k := 0; k < length; k++ {
			if k == length/2 {
				continue
			}
			x, z := x0, z0+k
			if alongX {
				x, z = x0+k, z0
			}
			if w.IsWithinWorld(x, floorLevel+2, z) {
				w.SetBlock(x, floorLevel+1, z, block.New(block.RoughStone))
				w.SetBlock(x, floorLevel+2, z, block.New(block.RoughStone))
			}
		}
		walls++

		// Ступень из плиты и площадка на уровень выше
		sx, sz := rng.Intn(w.Width()-2), rng.Intn(w.Width())
		if w.IsWithinWorld(sx+2, floorLevel+2, sz) {
			w.SetBlock(sx, floorLevel+1, sz, block.NewHalf(block.StoneSlab))
			w.SetBlock(sx+1, floorLevel+1, sz, block.New(block.SmoothStone))
			w.SetBlock(sx+2, floorLevel+1, sz, block.New(block.SmoothStone))
			stairs++
		}
	}

	logging.Info("🌍 Мир %dx%dx%d построен: стен %d, лестниц %d, поверхность в центре на высоте %d",
		w.Width(), w.Height(), w.Width(), walls, stairs, w.GetSurfaceDepth(w.Width()/2, w.Width()/2))
}

// randomStandingCell выбирает клетку над поверхностью случайной колонки
func randomStandingCell(w *world.Container, rng *rand.Rand) vec.Vec3 {
	x, z := rng.Intn(w.Width()), rng.Intn(w.Width())
	y := w.GetSurfaceDepth(x, z) + 1
	if y >= w.Height() {
		y = w.Height() - 1
	}

	// Плита: стоим в её клетке
	if b := w.GetBlock(x, y-1, z); !b.IsWhole() && b.IsSolid() {
		y--
	}
	return vec.Vec3{X: x, Y: y, Z: z}
}

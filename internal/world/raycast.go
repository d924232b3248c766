package world

import (
	"math"

	"github.com/annel0/voxelnav/internal/vec"
)

// IntersectWorld ищет первый непустой блок, который пересекает луч.
//
// Сначала отбираются колонки, чей ограничивающий параллелепипед пересекает луч
// и чей угол лежит не дальше maxDist по горизонтали от начала луча
// (maxDist <= 0 снимает ограничение). Затем слои перебираются сверху вниз от
// cutoffLayer до 0; в первом слое с попаданиями возвращается ближайшая к началу
// луча клетка.
func (c *Container) IntersectWorld(origin, dir vec.Vec3Float, cutoffLayer int, maxDist float64) (vec.Vec3, bool) {
	if cutoffLayer >= c.height {
		cutoffLayer = c.height - 1
	}

	var candidates []vec.Vec2
	for cz := 0; cz < c.chunkCount; cz++ {
		for cx := 0; cx < c.chunkCount; cx++ {
			minX := float64(cx * c.columnWidth)
			minZ := float64(cz * c.columnWidth)

			if maxDist > 0 {
				dx, dz := minX-origin.X, minZ-origin.Z
				if dx*dx+dz*dz > maxDist*maxDist {
					continue
				}
			}

			boxMin := vec.Vec3Float{X: minX, Y: 0, Z: minZ}
			boxMax := vec.Vec3Float{X: minX + float64(c.columnWidth), Y: float64(c.height), Z: minZ + float64(c.columnWidth)}
			if _, ok := intersectBox(origin, dir, boxMin, boxMax); ok {
				candidates = append(candidates, vec.Vec2{X: cx, Y: cz})
			}
		}
	}

	if len(candidates) == 0 {
		return vec.Vec3{}, false
	}

	for y := cutoffLayer; y >= 0; y-- {
		best := math.Inf(1)
		var hit vec.Vec3
		found := false

		for _, chunk := range candidates {
			gx, gz := chunk.X*c.columnWidth, chunk.Y*c.columnWidth
			for dz := 0; dz < c.columnWidth; dz++ {
				for dx := 0; dx < c.columnWidth; dx++ {
					x, z := gx+dx, gz+dz
					if c.GetBlock(x, y, z).IsAir() {
						continue
					}

					boxMin := vec.Vec3Float{X: float64(x), Y: float64(y), Z: float64(z)}
					boxMax := boxMin.Add(vec.Vec3Float{X: 1, Y: 1, Z: 1})
					near, ok := intersectBox(origin, dir, boxMin, boxMax)
					if ok && near < best {
						best = near
						hit = vec.Vec3{X: x, Y: y, Z: z}
						found = true
					}
				}
			}
		}

		if found {
			return hit, true
		}
	}

	return vec.Vec3{}, false
}

// intersectBox ищет пересечение луча с параллелепипедом методом плит.
// Возвращает параметр ближней точки входа (может быть < 0, если начало луча внутри).
func intersectBox(origin, dir, boxMin, boxMax vec.Vec3Float) (float64, bool) {
	near := math.Inf(-1)
	far := math.Inf(1)

	for i := 0; i < 3; i++ {
		o, d := origin.Axis(i), dir.Axis(i)
		lo, hi := boxMin.Axis(i), boxMax.Axis(i)

		// Луч параллелен плите: либо всегда внутри, либо промах
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > near {
			near = t1
		}
		if t2 < far {
			far = t2
		}
		if near > far || far < 0 {
			return 0, false
		}
	}

	return near, true
}

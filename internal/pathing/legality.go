package pathing

import (
	"github.com/annel0/voxelnav/internal/vec"
	"github.com/annel0/voxelnav/internal/world/block"
)

// World описывает минимальный интерфейс мира, нужный поиску пути.
// *world.Container удовлетворяет ему.
type World interface {
	IsWithinWorld(x, y, z int) bool
	GetBlock(x, y, z int) block.Block
}

// Горизонтальные направления в порядке перебора: +x, −x, +z, −z
var directions = [4]vec.Vec3{
	{X: 1}, {X: -1}, {Z: 1}, {Z: -1},
}

func isAir(b block.Block) bool {
	return b.Kind() == block.Air
}

// isHalfSolid: твёрдая плита (полублок)
func isHalfSolid(b block.Block) bool {
	return b.IsSolid() && !b.IsWhole()
}

// isFloor: твёрдый целый блок, на котором можно стоять
func isFloor(b block.Block) bool {
	return b.IsSolid() && b.IsWhole()
}

// legalStep проверяет шаг в соседнюю по горизонтали клетку со сдвигом dy по высоте.
//
// fromWhole означает, что клетка, из которой делается шаг, целая (воздух над полом);
// иначе это клетка с плитой. below, target, above это блоки под целевой клеткой,
// в ней и над ней.
func legalStep(fromWhole bool, dy int, below, target, above block.Block) bool {
	if fromWhole {
		switch dy {
		case -1:
			// Спуск только на плиту
			return isHalfSolid(target) && isAir(above)
		case 0:
			return (isFloor(below) && isAir(target)) || (isHalfSolid(target) && isAir(above))
		}
		return false
	}

	switch dy {
	case 0:
		return isFloor(below) && (isAir(target) || isHalfSolid(target))
	case 1:
		return isFloor(below) && isAir(target)
	}
	return false
}

// stepAt проверяет шаг из клетки с признаком fromWhole в (x, y, z).
// Клетки под и над целью тоже должны лежать внутри мира.
func stepAt(w World, fromWhole bool, dy, x, y, z int) bool {
	if !w.IsWithinWorld(x, y-1, z) || !w.IsWithinWorld(x, y, z) || !w.IsWithinWorld(x, y+1, z) {
		return false
	}
	return legalStep(fromWhole, dy, w.GetBlock(x, y-1, z), w.GetBlock(x, y, z), w.GetBlock(x, y+1, z))
}

// CanStep сообщает, допустим ли сейчас один шаг from → to по текущему состоянию мира.
// Шаг должен быть на одну клетку по X или Z со сдвигом по высоте не больше одной клетки.
func CanStep(w World, from, to vec.Vec3) bool {
	d := to.Sub(from)
	if abs(d.X)+abs(d.Z) != 1 || d.Y < -1 || d.Y > 1 {
		return false
	}
	if !w.IsWithinWorld(from.X, from.Y, from.Z) {
		return false
	}

	fromWhole := w.GetBlock(from.X, from.Y, from.Z).IsWhole()
	return stepAt(w, fromWhole, d.Y, to.X, to.Y, to.Z)
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

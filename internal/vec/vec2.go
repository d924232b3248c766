package vec

// Vec2 представляет 2D координаты колонки (чанка) в плоскости XZ.
// Y здесь хранит мировую координату Z, как и в исходном 2D-коде проекта.
type Vec2 struct {
	X, Y int
}

// ToChunkCoords преобразует глобальные координаты клетки в координаты колонки
func (v Vec2) ToChunkCoords(columnWidth int) Vec2 {
	return Vec2{X: v.X / columnWidth, Y: v.Y / columnWidth}
}

// LocalInChunk возвращает локальные координаты внутри колонки
func (v Vec2) LocalInChunk(columnWidth int) Vec2 {
	return Vec2{X: v.X % columnWidth, Y: v.Y % columnWidth}
}

// Less задаёт порядок сортировки: сначала по Y (z колонки), затем по X
func (v Vec2) Less(other Vec2) bool {
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	return v.X < other.X
}

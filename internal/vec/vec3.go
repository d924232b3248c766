package vec

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Для клеток мира: X и Z задают горизонтальную плоскость, Y задаёт высоту (Y+ вверх).
type Vec3 struct {
	X int
	Y int
	Z int
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub вычитает вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Up возвращает клетку над текущей
func (v Vec3) Up() Vec3 {
	return Vec3{X: v.X, Y: v.Y + 1, Z: v.Z}
}

// Down возвращает клетку под текущей
func (v Vec3) Down() Vec3 {
	return Vec3{X: v.X, Y: v.Y - 1, Z: v.Z}
}

// StreetDistance возвращает манхэттенское расстояние (сумму модулей разностей координат)
func (v Vec3) StreetDistance(other Vec3) int {
	return abs(v.X-other.X) + abs(v.Y-other.Y) + abs(v.Z-other.Z)
}

// ToVec3Float преобразует в вектор с плавающей точкой
func (v Vec3) ToVec3Float() Vec3Float {
	return Vec3Float{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

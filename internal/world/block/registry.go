package block

import "fmt"

var registry = make(map[Kind]Definition)

// Definition описывает свойства типа блока, нужные ядру мира и планировщику путей
type Definition struct {
	Kind            Kind
	Name            string
	Solid           bool // на блок можно опереться, сквозь него нельзя пройти
	SpecialGeometry bool // растения и прочая не-кубическая геометрия
}

// Register добавляет описание блока в регистр.
// Вызывается из init(); регистр не защищён мьютексом и читается конкурентно.
func Register(def Definition) {
	registry[def.Kind] = def
}

// Get возвращает описание для указанного типа
func Get(kind Kind) (Definition, bool) {
	def, exists := registry[kind]
	return def, exists
}

// IsValidKind проверяет, зарегистрирован ли тип блока
func IsValidKind(kind Kind) bool {
	_, exists := registry[kind]
	return exists
}

// IsSolid возвращает true, если тип блока твёрдый.
// Незарегистрированные типы считаются твёрдыми.
func IsSolid(kind Kind) bool {
	def, exists := registry[kind]
	if !exists {
		return true
	}
	return def.Solid
}

// HasSpecialGeometry возвращает true для растений и других блоков с особой геометрией
func HasSpecialGeometry(kind Kind) bool {
	def, exists := registry[kind]
	return exists && def.SpecialGeometry
}

// Kind представляет тип блока (вокселя)
type Kind uint8

// String возвращает имя типа из регистра
func (k Kind) String() string {
	if def, ok := registry[k]; ok {
		return def.Name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Константы типов блоков
const (
	Air Kind = iota // 0
	Gravel
	SmoothStone
	RoughStone
	Dirt
	Sand
	Wood
	WoodTop
	Coal
	StoneSlab
	StoneSlabTop
	Torch
	Lava
	Leaves
	Grass
	Bush
	Mushroom
	Border
	Breaking
	Caravan

	KindCount // всегда последний: количество типов
)

package block

// Block представляет упакованное значение вокселя: старший байт хранит тип,
// младший хранит 7 бит метаданных и флаг высоты.
//
// Старший бит младшего байта зарезервирован под флаг полублока, поэтому
// нулевое значение Block означает целый блок воздуха.
type Block uint16

const (
	halfBit  = 0x80
	metaMask = 0x7F
)

// New создаёт целый блок указанного типа без метаданных
func New(kind Kind) Block {
	return Block(uint16(kind) << 8)
}

// NewWithMeta создаёт целый блок с метаданными (используются младшие 7 бит)
func NewWithMeta(kind Kind, meta uint8) Block {
	return New(kind).WithMeta(meta)
}

// NewHalf создаёт полублок (плиту), занимающий нижнюю половину клетки
func NewHalf(kind Kind) Block {
	return New(kind).WithWhole(false)
}

// Kind возвращает тип блока
func (b Block) Kind() Kind {
	return Kind(b >> 8)
}

// Meta возвращает 7 бит метаданных (ориентация, стадия роста и т.п.)
func (b Block) Meta() uint8 {
	return uint8(b) & metaMask
}

// IsWhole возвращает true для блока полной высоты
func (b Block) IsWhole() bool {
	return uint8(b)&halfBit == 0
}

// IsAir проверяет, является ли блок воздухом
func (b Block) IsAir() bool {
	return b.Kind() == Air
}

// IsSolid проверяет твёрдость типа блока через регистр
func (b Block) IsSolid() bool {
	return IsSolid(b.Kind())
}

// HasSpecialGeometry проверяет особую геометрию типа блока через регистр
func (b Block) HasSpecialGeometry() bool {
	return HasSpecialGeometry(b.Kind())
}

// WithKind возвращает копию блока с другим типом
func (b Block) WithKind(kind Kind) Block {
	return Block(uint16(kind)<<8 | uint16(uint8(b)))
}

// WithMeta возвращает копию блока с новыми метаданными; флаг высоты не меняется
func (b Block) WithMeta(meta uint8) Block {
	low := uint8(b)&halfBit | meta&metaMask
	return Block(uint16(b)&0xFF00 | uint16(low))
}

// WithWhole возвращает копию блока с указанной высотой
func (b Block) WithWhole(whole bool) Block {
	if whole {
		return b &^ halfBit
	}
	return b | halfBit
}

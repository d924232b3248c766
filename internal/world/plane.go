package world

import "github.com/annel0/voxelnav/internal/world/block"

// Plane представляет один горизонтальный слой колонки.
//
// Слой находится ровно в одном из двух состояний:
//   - однородный: cells == nil, все клетки логически равны block.New(fill);
//   - разнородный: cells содержит columnWidth*columnWidth блоков, индекс dz*columnWidth+dx.
//
// Массив cells принадлежит только этому слою и никогда не разделяется.
type Plane struct {
	fill  block.Kind
	cells []block.Block
}

// IsUniform возвращает true, если слой однородный и массив не выделен
func (p *Plane) IsUniform() bool {
	return p.cells == nil
}

// FillKind возвращает тип заливки однородного слоя.
// Для разнородного слоя второе значение false.
func (p *Plane) FillKind() (block.Kind, bool) {
	if p.cells != nil {
		return 0, false
	}
	return p.fill, true
}

func (p *Plane) get(i int) block.Block {
	if p.cells == nil {
		return block.New(p.fill)
	}
	return p.cells[i]
}

// set записывает блок; возвращает true, если слой был материализован этой записью
func (p *Plane) set(i, area int, b block.Block) bool {
	if p.cells != nil {
		p.cells[i] = b
		return false
	}

	// Целый блок того же типа без метаданных: слой остаётся однородным
	if b == block.New(p.fill) {
		return false
	}

	// Материализуем: весь слой сбрасывается в воздух, а не в старый тип заливки
	p.cells = make([]block.Block, area)
	air := block.New(block.Air)
	for j := range p.cells {
		p.cells[j] = air
	}
	p.cells[i] = b
	return true
}

// fillWith делает слой однородным; возвращает true, если был освобождён массив
func (p *Plane) fillWith(kind block.Kind) bool {
	released := p.cells != nil
	p.cells = nil
	p.fill = kind
	return released
}

// coalesce сворачивает разнородный слой, если все клетки равны первой клетке.
// Однородный слой хранит только тип, поэтому сворачиваются лишь слои из целых
// блоков без метаданных: слой плит или блоков с ориентацией остаётся как есть.
func (p *Plane) coalesce() bool {
	if p.cells == nil {
		return false
	}

	first := p.cells[0]
	if first != block.New(first.Kind()) {
		return false
	}
	for _, c := range p.cells[1:] {
		if c != first {
			return false
		}
	}

	p.cells = nil
	p.fill = first.Kind()
	return true
}

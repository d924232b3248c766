package world

import (
	"sync"
	"sync/atomic"

	"github.com/annel0/voxelnav/internal/world/block"
)

// Column представляет вертикальный стек слоёв одного чанка, индексы от 0 (низ) до height-1 (верх)
type Column struct {
	planes []Plane
	dirty  atomic.Bool  // колонку нужно перестроить потребителям (мешер и т.п.)
	mu     sync.RWMutex // защищает planes
}

func newColumn(height int) *Column {
	planes := make([]Plane, height)
	for y := range planes {
		planes[y].fill = block.Air
	}
	return &Column{planes: planes}
}

// Height возвращает количество слоёв колонки
func (c *Column) Height() int {
	return len(c.planes)
}

// IsUniform возвращает true, если слой y однородный
func (c *Column) IsUniform(y int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.planes[y].IsUniform()
}

// FillKind возвращает тип заливки слоя y, если он однородный
func (c *Column) FillKind(y int) (block.Kind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.planes[y].FillKind()
}

// NeedsUpdate возвращает true, если колонка менялась после последнего ClearDirty
func (c *Column) NeedsUpdate() bool {
	return c.dirty.Load()
}

func (c *Column) markDirty() {
	c.dirty.Store(true)
}

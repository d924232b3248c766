package world

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/annel0/voxelnav/internal/logging"
	"github.com/annel0/voxelnav/internal/vec"
	"github.com/annel0/voxelnav/internal/world/block"
)

// ErrInvalidDimensions возвращается при недопустимых размерах мира
var ErrInvalidDimensions = errors.New("недопустимые размеры мира")

// Container хранит весь воксельный мир: квадратную сетку колонок шириной
// columnWidth, каждая из которых состоит из height слоёв.
//
// Операции доступа по координатам (GetBlock, SetBlock, FillChunk, GetSurfaceDepth)
// не проверяют границы: вызывающий код обязан сначала вызвать IsWithinWorld.
// Координаты X и Z лежат в [0, width), Y в [0, height), Y+ направлен вверх.
type Container struct {
	width       int
	height      int
	columnWidth int
	chunkCount  int // колонок по каждой оси
	area        int // клеток в одном слое колонки

	columns []*Column // [cz*chunkCount + cx]

	materialized atomic.Int64 // количество разнородных слоёв
}

// NewContainer создаёт мир, в котором все слои однородно заполнены воздухом
func NewContainer(width, height, columnWidth int) (*Container, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: ширина %d и высота %d должны быть положительными", ErrInvalidDimensions, width, height)
	}
	if columnWidth <= 0 || columnWidth > width || width%columnWidth != 0 {
		return nil, fmt.Errorf("%w: ширина %d не кратна ширине колонки %d", ErrInvalidDimensions, width, columnWidth)
	}

	chunkCount := width / columnWidth
	c := &Container{
		width:       width,
		height:      height,
		columnWidth: columnWidth,
		chunkCount:  chunkCount,
		area:        columnWidth * columnWidth,
		columns:     make([]*Column, chunkCount*chunkCount),
	}
	for i := range c.columns {
		c.columns[i] = newColumn(height)
	}

	logging.Debug("Создан мир %dx%dx%d, колонок %dx%d", width, height, width, chunkCount, chunkCount)
	return c, nil
}

// MustNewContainer как NewContainer, но паникует при неверных размерах
func MustNewContainer(width, height, columnWidth int) *Container {
	c, err := NewContainer(width, height, columnWidth)
	if err != nil {
		panic(err)
	}
	return c
}

// Width возвращает ширину мира по X и Z
func (c *Container) Width() int { return c.width }

// Height возвращает высоту мира
func (c *Container) Height() int { return c.height }

// ColumnWidth возвращает ширину колонки
func (c *Container) ColumnWidth() int { return c.columnWidth }

// ChunkCount возвращает количество колонок по каждой оси
func (c *Container) ChunkCount() int { return c.chunkCount }

// IsWithinWorld возвращает true, если координаты лежат внутри мира
func (c *Container) IsWithinWorld(x, y, z int) bool {
	return x >= 0 && x < c.width && z >= 0 && z < c.width && y >= 0 && y < c.height
}

// Contains проверяет вектор через IsWithinWorld
func (c *Container) Contains(pos vec.Vec3) bool {
	return c.IsWithinWorld(pos.X, pos.Y, pos.Z)
}

// locate возвращает колонку и индекс клетки внутри слоя
func (c *Container) locate(x, z int) (*Column, int, int, int) {
	cx, dx := x/c.columnWidth, x%c.columnWidth
	cz, dz := z/c.columnWidth, z%c.columnWidth
	return c.columns[cz*c.chunkCount+cx], dz*c.columnWidth + dx, cx, cz
}

// GetBlock возвращает блок по координатам. Границы не проверяются.
func (c *Container) GetBlock(x, y, z int) block.Block {
	col, i, _, _ := c.locate(x, z)

	col.mu.RLock()
	b := col.planes[y].get(i)
	col.mu.RUnlock()

	return b
}

// BlockAt вызывает GetBlock для вектора
func (c *Container) BlockAt(pos vec.Vec3) block.Block {
	return c.GetBlock(pos.X, pos.Y, pos.Z)
}

// SetBlock устанавливает блок по координатам. Границы не проверяются.
//
// Запись другого типа в однородный слой материализует его: все клетки слоя
// становятся воздухом, после чего записывается один блок. Чтобы сохранить
// прежнее содержимое слоя, его нужно заполнить явно.
func (c *Container) SetBlock(x, y, z int, b block.Block) {
	col, i, cx, cz := c.locate(x, z)

	col.mu.Lock()
	materialized := col.planes[y].set(i, c.area, b)
	col.mu.Unlock()

	if materialized {
		c.materialized.Add(1)
	}

	col.markDirty()

	// Блок на границе колонки влияет на соседнюю колонку
	dx, dz := x%c.columnWidth, z%c.columnWidth
	if dx == 0 && cx > 0 {
		c.columns[cz*c.chunkCount+cx-1].markDirty()
	}
	if dx == c.columnWidth-1 && cx < c.chunkCount-1 {
		c.columns[cz*c.chunkCount+cx+1].markDirty()
	}
	if dz == 0 && cz > 0 {
		c.columns[(cz-1)*c.chunkCount+cx].markDirty()
	}
	if dz == c.columnWidth-1 && cz < c.chunkCount-1 {
		c.columns[(cz+1)*c.chunkCount+cx].markDirty()
	}
}

// SetBlockAt вызывает SetBlock для вектора
func (c *Container) SetBlockAt(pos vec.Vec3, b block.Block) {
	c.SetBlock(pos.X, pos.Y, pos.Z, b)
}

// FillChunk делает слой колонки, содержащий клетку (x, y, z), однородным.
// Для массового заполнения всегда быстрее, чем SetBlock по всему слою.
func (c *Container) FillChunk(x, y, z int, kind block.Kind) {
	col, _, _, _ := c.locate(x, z)

	col.mu.Lock()
	released := col.planes[y].fillWith(kind)
	col.mu.Unlock()

	if released {
		c.materialized.Add(-1)
	}
	col.markDirty()
}

// Column возвращает колонку по координатам колонки (не мировым)
func (c *Container) Column(cx, cz int) *Column {
	return c.columns[cz*c.chunkCount+cx]
}

// OptimizeColumns сворачивает все разнородные слои, клетки которых совпадают.
// Проходит весь мир, поэтому медленная; возвращает число свёрнутых слоёв.
func (c *Container) OptimizeColumns() int {
	coalesced := 0
	for _, col := range c.columns {
		col.mu.Lock()
		for y := range col.planes {
			if col.planes[y].coalesce() {
				coalesced++
			}
		}
		col.mu.Unlock()
	}

	c.materialized.Add(int64(-coalesced))
	logging.Debug("OptimizeColumns: свёрнуто слоёв %d, разнородных осталось %d", coalesced, c.materialized.Load())
	return coalesced
}

// GetSurfaceDepth возвращает высоту самого верхнего непустого блока колонки (x, z)
func (c *Container) GetSurfaceDepth(x, z int) int {
	return c.GetSurfaceDepthFrom(x, c.height-1, z)
}

// GetSurfaceDepthFrom ищет первый непустой блок сверху вниз начиная со слоя y (включительно).
// Если вся колонка пуста, возвращает сам y.
func (c *Container) GetSurfaceDepthFrom(x, y, z int) int {
	col, i, _, _ := c.locate(x, z)

	col.mu.RLock()
	defer col.mu.RUnlock()

	for h := y; h >= 0; h-- {
		if !col.planes[h].get(i).IsAir() {
			return h
		}
	}
	return y
}

// MaterializedPlanes возвращает количество слоёв с выделенным массивом
func (c *Container) MaterializedPlanes() int {
	return int(c.materialized.Load())
}

// DirtyColumns возвращает координаты колонок, изменённых после последнего ClearDirty
func (c *Container) DirtyColumns() []vec.Vec2 {
	var dirty []vec.Vec2
	for i, col := range c.columns {
		if col.NeedsUpdate() {
			dirty = append(dirty, vec.Vec2{X: i % c.chunkCount, Y: i / c.chunkCount})
		}
	}

	sort.Slice(dirty, func(i, j int) bool {
		return dirty[i].Less(dirty[j])
	})
	return dirty
}

// ClearDirty сбрасывает флаг изменения колонки
func (c *Container) ClearDirty(cx, cz int) {
	c.columns[cz*c.chunkCount+cx].dirty.Store(false)
}

// ContainerStats содержит сводку по расходу памяти мира
type ContainerStats struct {
	Planes     int // всего слоёв
	Uniform    int // однородных слоёв
	Mixed      int // разнородных слоёв
	MixedBytes int // байт под массивы разнородных слоёв
}

// Stats обходит все колонки и считает слои по состояниям
func (c *Container) Stats() ContainerStats {
	var s ContainerStats
	for _, col := range c.columns {
		col.mu.RLock()
		for y := range col.planes {
			if col.planes[y].IsUniform() {
				s.Uniform++
			} else {
				s.Mixed++
			}
		}
		col.mu.RUnlock()
	}

	s.Planes = s.Uniform + s.Mixed
	s.MixedBytes = s.Mixed * c.area * 2 // block.Block занимает 2 байта
	return s
}

package pathing

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/voxelnav/internal/logging"
	"github.com/annel0/voxelnav/internal/observability"
	"github.com/annel0/voxelnav/internal/vec"
)

// Лимиты поиска по умолчанию
const (
	DefaultMaxIterations = 200000
	DefaultMaxDuration   = 5 * time.Second
)

// Reason описывает причину завершения поиска
type Reason int

const (
	ReasonSolved Reason = iota
	ReasonExhausted
	ReasonIterationBudget
	ReasonTimeBudget
	ReasonCancelled
	ReasonOutOfWorld
)

func (r Reason) String() string {
	switch r {
	case ReasonSolved:
		return "solved"
	case ReasonExhausted:
		return "exhausted"
	case ReasonIterationBudget:
		return "iteration_budget"
	case ReasonTimeBudget:
		return "time_budget"
	case ReasonCancelled:
		return "cancelled"
	case ReasonOutOfWorld:
		return "out_of_world"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Result содержит итог поиска. Route идёт от источника к цели и пуст, если путь не найден.
type Result struct {
	Route    []vec.Vec3
	Solved   bool
	Reason   Reason
	Expanded int
	Elapsed  time.Duration
}

// Options настраивает поиск. Нулевое значение допустимо.
type Options struct {
	ID            string // для логов и трассировки
	MaxIterations int    // <= 0: DefaultMaxIterations
	MaxDuration   time.Duration
	Context       context.Context
	Logger        *logging.Logger
	Tracer        trace.Tracer
	Metrics       *observability.Metrics
	OnDone        func(*Search, Result) // вызывается из рабочей горутины до закрытия Done
}

// Search выполняет асинхронный жадный поиск пути (best-first по манхэттенскому расстоянию).
//
// ComputePath запускает поиск в отдельной горутине, GetPath неблокирующе
// опрашивает результат. Рабочая горутина записывает результат до закрытия done,
// поэтому читатель, увидевший закрытый канал, видит и результат.
type Search struct {
	world  World
	source vec.Vec3
	sink   vec.Vec3
	opts   Options

	started atomic.Bool
	done    chan struct{}
	result  Result

	now      func() time.Time
	onExpand func(pos vec.Vec3) // вызывается при каждом добавлении клетки в очередь
}

// NewSearch создаёт поиск пути от source к sink. Поиск не запускается.
func NewSearch(w World, source, sink vec.Vec3, opts Options) *Search {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = DefaultMaxDuration
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetPathingLogger()
	}

	return &Search{
		world:  w,
		source: source,
		sink:   sink,
		opts:   opts,
		done:   make(chan struct{}),
		now:    time.Now,
	}
}

// ID возвращает идентификатор поиска из Options
func (s *Search) ID() string { return s.opts.ID }

// Source возвращает начальную клетку
func (s *Search) Source() vec.Vec3 { return s.source }

// Sink возвращает целевую клетку
func (s *Search) Sink() vec.Vec3 { return s.sink }

// ComputePath запускает поиск и сразу возвращает управление.
// Поиск одноразовый: повторный вызов игнорируется.
func (s *Search) ComputePath() {
	if !s.claim() {
		return
	}
	go s.run()
}

// claim отмечает поиск запущенным; false, если он уже был запущен
func (s *Search) claim() bool {
	if !s.started.CompareAndSwap(false, true) {
		s.opts.Logger.Warn("Path %s: повторный запуск поиска проигнорирован", s.opts.ID)
		return false
	}
	return true
}

// GetPath неблокирующе опрашивает поиск. Пока поиск идёт, возвращает (nil, false).
// После завершения возвращает копию маршрута (пустую при неудаче) и true.
func (s *Search) GetPath() ([]vec.Vec3, bool) {
	select {
	case <-s.done:
		route := make([]vec.Vec3, len(s.result.Route))
		copy(route, s.result.Route)
		return route, true
	default:
		return nil, false
	}
}

// Result возвращает полный итог поиска, если он завершён
func (s *Search) Result() (Result, bool) {
	select {
	case <-s.done:
		return s.result, true
	default:
		return Result{}, false
	}
}

// Done закрывается после завершения поиска
func (s *Search) Done() <-chan struct{} {
	return s.done
}

// Wait блокирует до завершения поиска или отмены ctx
func (s *Search) Wait(ctx context.Context) (Result, error) {
	select {
	case <-s.done:
		return s.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// run выполняет поиск и публикует результат
func (s *Search) run() {
	ctx := s.opts.Context

	var span trace.Span
	if s.opts.Tracer != nil {
		ctx, span = s.opts.Tracer.Start(ctx, "pathing.Search", trace.WithAttributes(
			attribute.String("path.id", s.opts.ID),
			attribute.IntSlice("path.source", []int{s.source.X, s.source.Y, s.source.Z}),
			attribute.IntSlice("path.sink", []int{s.sink.X, s.sink.Y, s.sink.Z}),
		))
	}

	s.opts.Metrics.SearchStarted()
	start := s.now()

	res := s.search(ctx, start)
	res.Elapsed = s.now().Sub(start)

	s.opts.Metrics.SearchFinished(res.Reason.String(), res.Expanded, len(res.Route), res.Elapsed)
	if span != nil {
		span.SetAttributes(
			attribute.String("path.reason", res.Reason.String()),
			attribute.Int("path.expanded", res.Expanded),
			attribute.Int("path.length", len(res.Route)),
		)
		if !res.Solved {
			span.SetStatus(codes.Error, res.Reason.String())
		}
		span.End()
	}
	s.opts.Logger.LogPathResult(s.opts.ID, res.Reason.String(), len(res.Route), res.Expanded, res.Elapsed)

	s.result = res
	if s.opts.OnDone != nil {
		s.opts.OnDone(s, res)
	}
	close(s.done)
}

// search содержит основной цикл жадного поиска
func (s *Search) search(ctx context.Context, start time.Time) Result {
	if !s.world.IsWithinWorld(s.source.X, s.source.Y, s.source.Z) || !s.world.IsWithinWorld(s.sink.X, s.sink.Y, s.sink.Z) {
		s.opts.Logger.Warn("Path %s: точка вне мира %v -> %v", s.opts.ID, s.source, s.sink)
		return Result{Reason: ReasonOutOfWorld}
	}

	s.opts.Logger.LogPathRequest(s.opts.ID, s.source.X, s.source.Y, s.source.Z, s.sink.X, s.sink.Y, s.sink.Z)

	open := newFrontier()
	visited := make(map[vec.Vec3]struct{})
	cameFrom := make(map[vec.Vec3]vec.Vec3)
	deadline := start.Add(s.opts.MaxDuration)

	s.enqueue(open, s.source)

	expanded := 0
	for {
		if open.Len() == 0 {
			return Result{Reason: ReasonExhausted, Expanded: expanded}
		}
		if open.peek().priority <= 0 {
			return Result{Route: s.backtrace(cameFrom), Solved: true, Reason: ReasonSolved, Expanded: expanded}
		}

		if expanded >= s.opts.MaxIterations {
			return Result{Reason: ReasonIterationBudget, Expanded: expanded}
		}
		if ctx.Err() != nil {
			return Result{Reason: ReasonCancelled, Expanded: expanded}
		}
		if !s.now().Before(deadline) {
			return Result{Reason: ReasonTimeBudget, Expanded: expanded}
		}

		n := open.pop()
		visited[n.pos] = struct{}{}
		expanded++

		s.expand(n.pos, open, visited, cameFrom)
	}
}

func (s *Search) enqueue(open *frontier, pos vec.Vec3) {
	open.push(pos, pos.StreetDistance(s.sink))
	if s.onExpand != nil {
		s.onExpand(pos)
	}
}

// expand добавляет в очередь соседей клетки pos. Для каждого направления
// перебираются сдвиги по высоте −1, 0, +1 и берётся первый допустимый.
func (s *Search) expand(pos vec.Vec3, open *frontier, visited map[vec.Vec3]struct{}, cameFrom map[vec.Vec3]vec.Vec3) {
	fromWhole := s.world.GetBlock(pos.X, pos.Y, pos.Z).IsWhole()

	for _, d := range directions {
		x, z := pos.X+d.X, pos.Z+d.Z

		for dy := -1; dy <= 1; dy++ {
			if !stepAt(s.world, fromWhole, dy, x, pos.Y+dy, z) {
				continue
			}

			next := vec.Vec3{X: x, Y: pos.Y + dy, Z: z}
			if _, seen := visited[next]; !seen && !open.contains(next) {
				cameFrom[next] = pos
				s.enqueue(open, next)
			}
			break
		}
	}
}

// backtrace восстанавливает маршрут от источника к цели.
// Отсутствие предшественника означает ошибку в учёте раскрытия и приводит к панике.
func (s *Search) backtrace(cameFrom map[vec.Vec3]vec.Vec3) []vec.Vec3 {
	route := []vec.Vec3{s.sink}
	for cur := s.sink; cur != s.source; {
		prev, ok := cameFrom[cur]
		if !ok || len(route) > len(cameFrom) {
			panic(fmt.Sprintf("pathing: нарушена согласованность восстановления пути %s: нет предшественника для %v", s.opts.ID, cur))
		}
		route = append(route, prev)
		cur = prev
	}

	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}

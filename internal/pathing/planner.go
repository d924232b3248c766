package pathing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/annel0/voxelnav/internal/eventbus"
	"github.com/annel0/voxelnav/internal/logging"
	"github.com/annel0/voxelnav/internal/observability"
	"github.com/annel0/voxelnav/internal/vec"
)

// ErrPlannerClosed возвращается при запросе пути у закрытого планировщика
var ErrPlannerClosed = errors.New("pathing: планировщик закрыт")

// eventSource имя источника событий поиска пути в шине
const eventSource = "pathing"

// PlannerConfig задаёт пул поисков и лимиты каждого поиска
type PlannerConfig struct {
	Workers       int // одновременно выполняемых поисков, <= 0: 1
	MaxIterations int
	MaxDuration   time.Duration
	Logger        *logging.Logger
	Metrics       *observability.Metrics
	Tracer        trace.Tracer      // nil: трассировщик глобального провайдера
	Bus           eventbus.EventBus // nil: глобальная шина
}

// Planner запускает поиски пути с ограничением числа одновременно работающих.
// Каждый запрос получает UUID, метрики, span и событие о завершении в шине.
type Planner struct {
	world World
	cfg   PlannerConfig
	sem   *semaphore.Weighted

	wg     sync.WaitGroup
	mu     sync.RWMutex // упорядочивает Plan и Close
	closed atomic.Bool
}

// NewPlanner создаёт планировщик для мира w
func NewPlanner(w World, cfg PlannerConfig) *Planner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetPathingLogger()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = observability.Tracer()
	}

	return &Planner{
		world: w,
		cfg:   cfg,
		sem:   semaphore.NewWeighted(int64(cfg.Workers)),
	}
}

// Plan создаёт и запускает поиск от src к dst. Не блокирует: поиск ждёт
// свободного слота в своей горутине. Отмена ctx прерывает и ожидание, и поиск.
func (p *Planner) Plan(ctx context.Context, src, dst vec.Vec3) (*Search, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed.Load() {
		return nil, ErrPlannerClosed
	}

	s := NewSearch(p.world, src, dst, Options{
		ID:            uuid.NewString(),
		MaxIterations: p.cfg.MaxIterations,
		MaxDuration:   p.cfg.MaxDuration,
		Context:       ctx,
		Logger:        p.cfg.Logger,
		Tracer:        p.cfg.Tracer,
		Metrics:       p.cfg.Metrics,
		OnDone:        p.publish,
	})
	s.claim()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if err := p.sem.Acquire(ctx, 1); err != nil {
			// ctx уже отменён: поиск завершится на первой проверке
			s.run()
			return
		}
		defer p.sem.Release(1)

		s.run()
	}()

	return s, nil
}

// publish отправляет событие о завершении поиска в шину
func (p *Planner) publish(s *Search, res Result) {
	bus := p.cfg.Bus
	if bus == nil {
		bus = eventbus.Global()
	}
	if bus == nil {
		return
	}

	env, err := eventbus.NewPathEnvelope(eventSource, eventbus.PathEvent{
		RequestID: s.ID(),
		Source:    [3]int{s.source.X, s.source.Y, s.source.Z},
		Sink:      [3]int{s.sink.X, s.sink.Y, s.sink.Z},
		Reason:    res.Reason.String(),
		Solved:    res.Solved,
		Length:    len(res.Route),
		Expanded:  res.Expanded,
	}, res.Elapsed)
	if err != nil {
		p.cfg.Logger.Error("Path %s: %v", s.ID(), err)
		return
	}

	if err := bus.Publish(context.Background(), env); err != nil {
		p.cfg.Logger.Warn("Path %s: событие не опубликовано: %v", s.ID(), err)
	}
}

// Close перестаёт принимать запросы и дожидается завершения запущенных поисков
func (p *Planner) Close() {
	p.mu.Lock()
	p.closed.Store(true)
	p.mu.Unlock()

	p.wg.Wait()
}

package pathing

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/annel0/voxelnav/internal/eventbus"
	"github.com/annel0/voxelnav/internal/observability"
	"github.com/annel0/voxelnav/internal/world/block"
)

func TestPlanner_RunsConcurrentSearches(t *testing.T) {
	w := newFlatWorld(t)
	wallRing(w, 20, 20)

	bus := eventbus.NewMemoryBus(64)
	var mu sync.Mutex
	events := make(map[string]eventbus.PathEvent)
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{Types: []string{eventbus.EventPathCompleted}},
		func(ctx context.Context, ev *eventbus.Envelope) {
			pe, err := eventbus.DecodePathEvent(ev)
			if assert.NoError(t, err) {
				mu.Lock()
				events[pe.RequestID] = pe
				mu.Unlock()
			}
		})
	require.NoError(t, err)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	metrics := observability.NewMetrics()
	p := NewPlanner(w, PlannerConfig{
		Workers: 2,
		Metrics: metrics,
		Tracer:  tp.Tracer("test"),
		Bus:     bus,
	})

	const solvable = 6
	var searches []*Search
	for i := 0; i < solvable; i++ {
		s, err := p.Plan(context.Background(), v(i, 1, 0), v(i, 1, 10))
		require.NoError(t, err)
		searches = append(searches, s)
	}
	blocked, err := p.Plan(context.Background(), v(0, 1, 0), v(20, 1, 20))
	require.NoError(t, err)

	p.Close()
	bus.Close()

	ids := make(map[string]bool)
	for i, s := range searches {
		res, ok := s.Result()
		require.True(t, ok, "После Close все поиски завершены")
		assert.True(t, res.Solved, "Поиск %d должен найти путь", i)
		assert.Len(t, res.Route, 11)
		assert.NotEmpty(t, s.ID())
		ids[s.ID()] = true
	}
	assert.Len(t, ids, solvable, "Идентификаторы запросов уникальны")

	res, ok := blocked.Result()
	require.True(t, ok)
	assert.Equal(t, ReasonExhausted, res.Reason)

	mu.Lock()
	assert.Len(t, events, solvable+1, "О каждом поиске публикуется событие")
	assert.Equal(t, "exhausted", events[blocked.ID()].Reason)
	assert.False(t, events[blocked.ID()].Solved)
	mu.Unlock()

	spans := recorder.Ended()
	assert.Len(t, spans, solvable+1)
	for _, span := range spans {
		assert.Equal(t, "pathing.Search", span.Name())
	}

	expected := `
# HELP voxelnav_pathing_searches_started_total Общее число запущенных поисков пути.
# TYPE voxelnav_pathing_searches_started_total counter
voxelnav_pathing_searches_started_total 7
# HELP voxelnav_pathing_searches_in_flight Поиски, выполняющиеся в данный момент.
# TYPE voxelnav_pathing_searches_in_flight gauge
voxelnav_pathing_searches_in_flight 0
`
	assert.NoError(t, testutil.GatherAndCompare(metrics.Registry, strings.NewReader(expected),
		"voxelnav_pathing_searches_started_total", "voxelnav_pathing_searches_in_flight"))
}

// gatedWorld задерживает чтение блоков, пока не закрыт gate
type gatedWorld struct {
	World
	gate   chan struct{}
	inside atomic.Int32
	peak   atomic.Int32
}

func (g *gatedWorld) GetBlock(x, y, z int) block.Block {
	n := g.inside.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	<-g.gate
	g.inside.Add(-1)
	return g.World.GetBlock(x, y, z)
}

func TestPlanner_LimitsConcurrency(t *testing.T) {
	gw := &gatedWorld{World: newFlatWorld(t), gate: make(chan struct{})}
	p := NewPlanner(gw, PlannerConfig{Workers: 2})

	var searches []*Search
	for i := 0; i < 5; i++ {
		s, err := p.Plan(context.Background(), v(i, 1, 0), v(i, 1, 5))
		require.NoError(t, err)
		searches = append(searches, s)
	}

	assert.Eventually(t, func() bool { return gw.inside.Load() == 2 }, 2*time.Second, time.Millisecond,
		"Два поиска должны дойти до чтения мира")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), gw.peak.Load(), "Одновременно работают не больше Workers поисков")

	close(gw.gate)
	p.Close()

	for _, s := range searches {
		res, ok := s.Result()
		require.True(t, ok)
		assert.True(t, res.Solved)
	}
	assert.Equal(t, int32(2), gw.peak.Load())
}

func TestPlanner_ClosedRejects(t *testing.T) {
	p := NewPlanner(newFlatWorld(t), PlannerConfig{})
	p.Close()

	s, err := p.Plan(context.Background(), v(0, 1, 0), v(1, 1, 0))
	assert.ErrorIs(t, err, ErrPlannerClosed)
	assert.Nil(t, s)
}

func TestPlanner_CancelledContext(t *testing.T) {
	w := newFlatWorld(t)
	wallRing(w, 20, 20)
	p := NewPlanner(w, PlannerConfig{Workers: 1})
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := p.Plan(ctx, v(0, 1, 0), v(20, 1, 20))
	require.NoError(t, err)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	res, err := s.Wait(waitCtx)
	require.NoError(t, err)
	assert.Equal(t, ReasonCancelled, res.Reason)
}

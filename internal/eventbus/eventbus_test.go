package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBus_DeliversMatchingEvents(t *testing.T) {
	bus := NewMemoryBus(16)

	var mu sync.Mutex
	var got []string
	received := make(chan struct{}, 4)

	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{EventPathCompleted}}, func(ctx context.Context, ev *Envelope) {
		mu.Lock()
		got = append(got, ev.ID)
		mu.Unlock()
		received <- struct{}{}
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), &Envelope{ID: "a", EventType: EventPathCompleted}))
	require.NoError(t, bus.Publish(context.Background(), &Envelope{ID: "b", EventType: "Other"}))

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("Событие не доставлено")
	}

	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a"}, got, "Фильтр должен отсекать чужие типы")

	stats := bus.Metrics()
	assert.Equal(t, uint64(2), stats.Published)
	assert.Equal(t, uint64(1), stats.Consumed)
}

func TestMemoryBus_DropsLowPriorityWhenFull(t *testing.T) {
	mb := &memoryBus{
		subscribers: make(map[int]subscriber),
		buffer:      make(chan *Envelope, 1),
		done:        make(chan struct{}),
	}
	// dispatchLoop не запущен: буфер не разбирается

	require.NoError(t, mb.Publish(context.Background(), &Envelope{ID: "1"}))
	require.NoError(t, mb.Publish(context.Background(), &Envelope{ID: "2", Priority: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := mb.Publish(ctx, &Envelope{ID: "3", Priority: 9})
	assert.ErrorIs(t, err, context.DeadlineExceeded, "Высокий приоритет ждёт места в буфере")

	stats := mb.Metrics()
	assert.Equal(t, uint64(1), stats.Published)
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, 1, stats.InFlight)
}

func TestMemoryBus_ClosedRejects(t *testing.T) {
	bus := NewMemoryBus(4)
	bus.Close()
	bus.Close()

	assert.ErrorIs(t, bus.Publish(context.Background(), &Envelope{}), ErrClosed)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	defer bus.Close()

	sub, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {
		t.Error("Отписанный обработчик не должен вызываться")
	})
	require.NoError(t, err)
	sub.Unsubscribe()
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), &Envelope{ID: "x"}))
}

func TestPathEnvelopeRoundTrip(t *testing.T) {
	pe := PathEvent{
		RequestID: "req-42",
		Source:    [3]int{1, 2, 3},
		Sink:      [3]int{4, 5, 6},
		Reason:    "solved",
		Solved:    true,
		Length:    7,
		Expanded:  19,
	}

	env, err := NewPathEnvelope("pathing", pe, 1500*time.Millisecond)
	require.NoError(t, err)
	assert.NotEmpty(t, env.ID)
	assert.Equal(t, "req-42", env.CorrelationID)
	assert.Equal(t, EventPathCompleted, env.EventType)

	decoded, err := DecodePathEvent(env)
	require.NoError(t, err)
	pe.ElapsedMs = 1500
	assert.Equal(t, pe, decoded)

	_, err = DecodePathEvent(&Envelope{EventType: "Other"})
	assert.Error(t, err)
}

func TestGlobalPublishWithoutBus(t *testing.T) {
	Init(nil)
	assert.NoError(t, Publish(context.Background(), &Envelope{}), "Без шины публикация ничего не делает")
}

func TestMetricsExporter(t *testing.T) {
	bus := NewMemoryBus(4)
	reg := prometheus.NewRegistry()
	me := NewMetricsExporter(bus, reg)
	me.interval = 5 * time.Millisecond

	require.NoError(t, bus.Publish(context.Background(), &Envelope{ID: "1"}))
	me.Start()
	me.Stop()
	bus.Close()

	assert.Equal(t, float64(1), testutil.ToFloat64(me.published))
}

package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annel0/voxelnav/internal/logging"
)

// Metrics содержит Prometheus-метрики поиска пути и хранилища мира.
// Все метрики регистрируются в собственном реестре, чтобы тесты и несколько
// экземпляров не конфликтовали в глобальном.
type Metrics struct {
	Registry *prometheus.Registry

	searchesStarted  prometheus.Counter
	searchesFinished *prometheus.CounterVec
	expansions       prometheus.Histogram
	duration         prometheus.Histogram
	routeLength      prometheus.Histogram
	inFlight         prometheus.Gauge
}

// NewMetrics создаёт и регистрирует метрики
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		searchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelnav",
			Subsystem: "pathing",
			Name:      "searches_started_total",
			Help:      "Общее число запущенных поисков пути.",
		}),
		searchesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxelnav",
			Subsystem: "pathing",
			Name:      "searches_finished_total",
			Help:      "Завершённые поиски пути по причине завершения.",
		}, []string{"reason"}),
		expansions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxelnav",
			Subsystem: "pathing",
			Name:      "expanded_nodes",
			Help:      "Количество раскрытых узлов за один поиск.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxelnav",
			Subsystem: "pathing",
			Name:      "search_duration_seconds",
			Help:      "Длительность поиска пути.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		routeLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxelnav",
			Subsystem: "pathing",
			Name:      "route_length",
			Help:      "Длина найденного маршрута в клетках.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxelnav",
			Subsystem: "pathing",
			Name:      "searches_in_flight",
			Help:      "Поиски, выполняющиеся в данный момент.",
		}),
	}

	m.Registry.MustRegister(
		m.searchesStarted,
		m.searchesFinished,
		m.expansions,
		m.duration,
		m.routeLength,
		m.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// SearchStarted учитывает запуск поиска
func (m *Metrics) SearchStarted() {
	if m == nil {
		return
	}
	m.searchesStarted.Inc()
	m.inFlight.Inc()
}

// SearchFinished учитывает завершение поиска
func (m *Metrics) SearchFinished(reason string, expanded, routeLen int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.searchesFinished.WithLabelValues(reason).Inc()
	m.expansions.Observe(float64(expanded))
	m.duration.Observe(elapsed.Seconds())
	if routeLen > 0 {
		m.routeLength.Observe(float64(routeLen))
	}
}

// RegisterMaterializedPlanes добавляет Gauge, читающий счётчик разнородных слоёв мира
func (m *Metrics) RegisterMaterializedPlanes(read func() int) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "voxelnav",
		Subsystem: "world",
		Name:      "materialized_planes",
		Help:      "Слои колонок, хранящие массив блоков.",
	}, func() float64 { return float64(read()) }))
}

// Handler возвращает HTTP-обработчик /metrics для собственного реестра
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// StartHTTP запускает HTTP-эндпоинт Prometheus на указанном адресе (например, ":2112").
// Метод неблокирующий; возвращает функцию остановки сервера.
func (m *Metrics) StartHTTP(addr string) func(context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logging.Info("Prometheus /metrics доступен по адресу %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()

	return srv.Shutdown
}

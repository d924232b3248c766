package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxelnav/internal/config"
	"github.com/annel0/voxelnav/internal/eventbus"
	"github.com/annel0/voxelnav/internal/logging"
	"github.com/annel0/voxelnav/internal/observability"
	"github.com/annel0/voxelnav/internal/pathing"
	"github.com/annel0/voxelnav/internal/vec"
	"github.com/annel0/voxelnav/internal/world"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (или VOXELNAV_CONFIG)")
	searches := flag.Int("searches", 16, "количество случайных поисков пути")
	seed := flag.Int64("seed", 1, "зерно генератора случайных точек")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	// === ЛОГИРОВАНИЕ ===
	if err := initLogging(cfg.Logging); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🧭 Запуск voxelnav")
	proc := observability.NewProcessMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === ТРАССИРОВКА ===
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.GetServiceName())
		if err != nil {
			logging.Error("Ошибка инициализации OpenTelemetry: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Error("Ошибка остановки OpenTelemetry: %v", err)
				}
			}()
		}
	}

	// === ШИНА СОБЫТИЙ И МЕТРИКИ ===
	bus := eventbus.NewMemoryBus(1024)
	eventbus.Init(bus)
	if _, err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Error("Ошибка подписки LoggingListener: %v", err)
	}

	metrics := observability.NewMetrics()
	busMetrics := eventbus.NewMetricsExporter(bus, metrics.Registry)
	busMetrics.Start()

	// === МИР ===
	logRSS(proc, "до построения мира")
	w, err := world.NewContainer(cfg.World.GetWidth(), cfg.World.GetHeight(), cfg.World.GetColumnWidth())
	if err != nil {
		logging.Error("❌ %v", err)
		os.Exit(1)
	}
	metrics.RegisterMaterializedPlanes(w.MaterializedPlanes)

	buildDemoWorld(w, rand.New(rand.NewSource(*seed)))
	logRSS(proc, "после построения мира")

	coalesced := w.OptimizeColumns()
	stats := w.Stats()
	logging.Info("🗜  OptimizeColumns: свёрнуто %d, разнородных слоёв %d из %d (%d KB)",
		coalesced, stats.Mixed, stats.Planes, stats.MixedBytes/1024)
	logRSS(proc, "после оптимизации")

	var stopMetrics func(context.Context) error
	if cfg.Metrics.Enabled {
		stopMetrics = metrics.StartHTTP(cfg.Metrics.GetAddr())
	}

	// === ПОИСК ПУТЕЙ ===
	planner := pathing.NewPlanner(w, pathing.PlannerConfig{
		Workers:       cfg.Pathing.GetWorkers(),
		MaxIterations: cfg.Pathing.GetMaxIterations(),
		MaxDuration:   cfg.Pathing.GetMaxDuration(),
		Logger:        logging.GetPathingLogger(),
		Metrics:       metrics,
		Bus:           bus,
	})

	runSearches(ctx, w, planner, *searches, rand.New(rand.NewSource(*seed+1)))
	planner.Close()
	logRSS(proc, "после поиска путей")

	if cfg.Metrics.Enabled {
		logging.Info("Ожидание сигнала завершения, метрики: %s/metrics", cfg.Metrics.GetAddr())
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := stopMetrics(shutdownCtx); err != nil {
			logging.Error("Ошибка остановки HTTP метрик: %v", err)
		}
		cancel()
	}

	busMetrics.Stop()
	bus.Close()
	logging.Info("👋 voxelnav завершён, время работы %s", proc.GetUptime())
}

// initLogging настраивает глобальный логгер по секции logging
func initLogging(cfg config.LoggingConfig) error {
	if cfg.File {
		if err := logging.InitDefaultLogger(cfg.GetComponent()); err != nil {
			return err
		}
		logging.GetLoggerManager().EnableFiles(true)
	} else {
		logging.InitConsoleLogger(cfg.GetComponent())
	}

	consoleLevel, err := logging.ParseLevel(cfg.ConsoleLevel)
	if err != nil {
		return err
	}
	fileLevel := logging.TRACE
	if cfg.FileLevel != "" {
		if fileLevel, err = logging.ParseLevel(cfg.FileLevel); err != nil {
			return err
		}
	}

	logging.SetDefaultLevels(consoleLevel, fileLevel)
	if err := logging.GetLoggerManager().SetLogLevel("pathing", consoleLevel, fileLevel); err != nil {
		// Логгер компонента ещё не создан: создаём и настраиваем
		logging.GetPathingLogger().SetLevels(consoleLevel, fileLevel)
	}
	return nil
}

func logRSS(proc *observability.ProcessMetrics, stage string) {
	s := proc.Snapshot()
	logging.Info("📊 Память %s: RSS %.1f MB, heap %.1f MB, горутин %d", stage, s.RSSMB, s.HeapMB, s.Goroutines)
}

// runSearches запускает случайные поиски и опрашивает их, уступая процессор между опросами
func runSearches(ctx context.Context, w *world.Container, planner *pathing.Planner, n int, rng *rand.Rand) {
	var pending []*pathing.Search
	for i := 0; i < n; i++ {
		src, dst := randomStandingCell(w, rng), randomStandingCell(w, rng)

		s, err := planner.Plan(ctx, src, dst)
		if err != nil {
			logging.Error("Ошибка запуска поиска: %v", err)
			return
		}
		pending = append(pending, s)
	}

	solved := 0
	for len(pending) > 0 {
		next := pending[:0]
		for _, s := range pending {
			route, done := s.GetPath()
			if !done {
				next = append(next, s)
				continue
			}

			res, _ := s.Result()
			if len(route) > 0 {
				solved++
				logging.Info("✅ %s: %v -> %v, %d шагов, раскрыто %d за %v",
					s.ID(), s.Source(), s.Sink(), len(route)-1, res.Expanded, res.Elapsed)
				walkRoute(w, route)
			} else {
				logging.Info("🚫 %s: %v -> %v недостижима (%s, раскрыто %d)",
					s.ID(), s.Source(), s.Sink(), res.Reason, res.Expanded)
			}
		}
		pending = next

		if len(pending) > 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}

	logging.Info("Поиск путей завершён: найдено %d из %d", solved, n)
}

// walkRoute проходит маршрут, проверяя каждый шаг по текущему состоянию мира
func walkRoute(w *world.Container, route []vec.Vec3) {
	f := pathing.NewFollower(route)
	for !f.Done() {
		if _, err := f.Advance(w); err != nil {
			cur, _ := f.Current()
			logging.Warn("Маршрут прерван в %v: %v", cur, err)
			return
		}
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pomodoroTracker/internal/cache"
	"pomodoroTracker/internal/config"
	"pomodoroTracker/internal/events"
	"pomodoroTracker/internal/handlers"
	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/middleware"
	"pomodoroTracker/internal/repository/inmemory"
	"pomodoroTracker/internal/repository/postgres"
	"pomodoroTracker/internal/repository/sqlite"
	"pomodoroTracker/internal/service"
	"pomodoroTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config    *config.Config
	clock     clockwork.Clock
	server    *http.Server
	router    *chi.Mux
	repos     service.Repositories
	services  handlers.Services
	worker    *worker.TimerWorker
	shutdowns []func() // функции для graceful shutdown, выполняются в обратном порядке
}

type Option func(*App)

// WithClock подменяет системные часы, используется в тестах
func WithClock(c clockwork.Clock) Option {
	return func(a *App) {
		a.clock = c
	}
}

func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		config:    cfg,
		clock:     clockwork.NewRealClock(),
		shutdowns: make([]func(), 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initRepositories(ctx); err != nil {
		a.Shutdown()
		return nil, err
	}
	a.initServices(ctx)
	a.initRouter()

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("App: Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return a, nil
}

func (a *App) initRepositories(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryInMemory:
		a.repos = service.Repositories{
			Tasks:     inmemory.NewTaskStorage(),
			Pomodoros: inmemory.NewPomodoroStorage(),
			Projects:  inmemory.NewProjectStorage(),
		}

	case config.RepositoryPostgres:
		storage, err := openPostgres(ctx, a.config)
		if err != nil {
			return err
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: Закрытие пула PostgreSQL...")
			storage.Close()
		})
		if err := storage.Migrate(ctx); err != nil {
			return fmt.Errorf("миграции postgres: %w", err)
		}
		a.repos = service.Repositories{
			Tasks:     storage.Tasks(),
			Pomodoros: storage.Pomodoros(),
			Projects:  storage.Projects(),
		}

	case config.RepositorySQLite:
		store, err := sqlite.Open(a.config.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("открытие sqlite: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: Закрытие SQLite...")
			if err := store.Close(); err != nil {
				logger.Warn("App: Ошибка закрытия SQLite", zap.Error(err))
			}
		})
		a.repos = service.Repositories{
			Tasks:     store.Tasks(),
			Pomodoros: store.Pomodoros(),
			Projects:  store.Projects(),
		}

	default:
		return fmt.Errorf("неизвестный тип репозитория %q", a.config.Repository.Type)
	}
	return nil
}

func (a *App) initServices(ctx context.Context) {
	statsService := service.NewStatsService(a.repos, a.statsCache(ctx), service.WithClock(a.clock))

	opts := []service.Option{
		service.WithClock(a.clock),
		service.WithPublisher(events.NewLogPublisher()),
		service.WithInvalidator(statsService),
	}
	pomodoros := service.NewPomodoroService(a.repos, service.PomodoroSettings{
		Cycle:          a.config.CycleConfig(),
		AutoCreateNext: a.config.Pomodoro.AutoCreateNext,
	}, opts...)

	a.services = handlers.Services{
		Tasks:     service.NewTaskService(a.repos, opts...),
		Pomodoros: pomodoros,
		Projects:  service.NewProjectService(a.repos, opts...),
		Stats:     statsService,
	}

	interval := a.config.Timer.TickInterval
	a.worker = worker.NewTimerWorker(pomodoros, a.clock, &interval)
}

// statsCache: redis если включён и доступен, иначе кэш в памяти процесса
func (a *App) statsCache(ctx context.Context) cache.StatsCache {
	cfg := a.config.Cache
	if !cfg.Enabled {
		return cache.NewMemory(cfg.TTL, a.clock.Now)
	}

	redisCache, err := cache.Connect(ctx, &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.Prefix, cfg.TTL)
	if err != nil {
		logger.Warn("App: Redis недоступен, используется кэш в памяти", zap.Error(err))
		return cache.NewMemory(cfg.TTL, a.clock.Now)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Закрытие соединения с Redis...")
		if err := redisCache.Close(); err != nil {
			logger.Warn("App: Ошибка закрытия Redis", zap.Error(err))
		}
	})
	return redisCache
}

func (a *App) initRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIdHeader},
		ExposedHeaders: []string{middleware.RequestIdHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))
	r.Use(chimw.Timeout(a.config.Server.RequestTimeout))
	r.Use(middleware.NewRateLimiter(a.config.Server.RateLimit, a.clock).Middleware)

	handlers.NewHandler(a.services, a.clock).Routes(r)
	a.router = r
}

func (a *App) Router() http.Handler {
	return a.router
}

// Run запускает HTTP сервер и таймер сессий и блокируется до SIGINT/SIGTERM
// или отмены ctx
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.Shutdown()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.worker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*postgres.Storage, error) {
	poolCfg := postgres.DefaultPoolConfig()
	if cfg.Database.MaxConnections > 0 {
		poolCfg.MaxConns = int32(cfg.Database.MaxConnections)
	}
	if cfg.Database.MinConnections > 0 {
		poolCfg.MinConns = int32(cfg.Database.MinConnections)
	}
	if cfg.Database.IdleTimeout > 0 {
		poolCfg.MaxConnIdleTime = cfg.Database.IdleTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	storage, err := postgres.New(connectCtx, cfg.Database.URL, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("подключение к postgres: %w", err)
	}
	return storage, nil
}

// Migrate применяет (up) или откатывает (down) схему хранилища из конфигурации
func Migrate(ctx context.Context, cfg *config.Config, direction string) error {
	switch cfg.Repository.Type {
	case config.RepositoryPostgres:
		storage, err := openPostgres(ctx, cfg)
		if err != nil {
			return err
		}
		defer storage.Close()

		switch direction {
		case "up":
			return storage.Migrate(ctx)
		case "down":
			return storage.Down(ctx)
		}
		return fmt.Errorf("неизвестное направление миграции %q", direction)

	case config.RepositorySQLite:
		if direction != "up" {
			return errors.New("sqlite поддерживает только миграцию up")
		}
		store, err := sqlite.Open(cfg.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("открытие sqlite: %w", err)
		}
		version, err := store.SchemaVersion()
		if err != nil {
			store.Close()
			return err
		}
		logger.Info("App: Схема SQLite актуальна", zap.Int("version", version))
		return store.Close()

	default:
		return fmt.Errorf("хранилище %q не требует миграций", cfg.Repository.Type)
	}
}

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/aki-motty/todo-copilot-sub000/internal/config"
	"github.com/aki-motty/todo-copilot-sub000/internal/logging"
	"github.com/aki-motty/todo-copilot-sub000/internal/repo"
	"github.com/aki-motty/todo-copilot-sub000/internal/service"
)

// eventDrainInterval bounds how long domain events sit in the service buffer
// before being logged and released.
const eventDrainInterval = 30 * time.Second

type App struct {
	cfg    config.Config
	log    logging.Logger
	db     *pgxpool.Pool
	redis  *redis.Client
	repo   repo.TodoRepo
	table  *repo.TableRepo // non-nil for the postgres backend; needs Close
	svc    *service.TodoService
	router *gin.Engine

	drainStop chan struct{}
	drainDone chan struct{}
}

// New constructs all clients for the configured store backend and wires the
// service and routes. Clients are built here, once, and disposed in Close.
func New(cfg config.Config, log logging.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		a.repo = repo.NewMemoryRepo()

	case config.BackendRedis:
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.redis = rdb
		a.repo = repo.NewKVRepo(rdb, log)

	case config.BackendPostgres:
		db, err := newPostgres(cfg.PG.DSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		if err := runMigrations(cfg.PG.DSN, "./migrations"); err != nil {
			db.Close()
			return nil, err
		}
		a.table = repo.NewTableRepo(db, log)
		a.repo = a.table

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	a.svc = service.NewTodoService(a.repo, log)
	a.drainStop = make(chan struct{})
	a.drainDone = make(chan struct{})
	go a.drainLoop()

	a.router = newRouter(cfg, log, a.svc)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// drainLoop periodically empties the domain event buffer so it cannot grow
// for the life of the process. A final drain runs on shutdown.
func (a *App) drainLoop() {
	defer close(a.drainDone)
	ticker := time.NewTicker(eventDrainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.drainEvents()
		case <-a.drainStop:
			a.drainEvents()
			return
		}
	}
}

func (a *App) drainEvents() {
	for _, e := range a.svc.DrainEvents() {
		a.log.Debug("domain event", "kind", string(e.Kind), "todoId", string(e.TodoID), "occurredAt", e.OccurredAt)
	}
}

// Close disposes clients in dependency order: the event drainer and the
// write-behind worker first so pending work drains before the pool goes away.
func (a *App) Close(ctx context.Context) error {
	_ = ctx
	close(a.drainStop)
	<-a.drainDone
	if a.table != nil {
		a.table.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(dsn string, migrationsDir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, log logging.Logger, svc *service.TodoService) *gin.Engine {
	engine := gin.Default()

	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(engine, cfg, log, svc)
	return engine
}

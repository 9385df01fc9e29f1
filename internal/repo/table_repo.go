package repo

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"github.com/aki-motty/todo-copilot-sub000/internal/apperr"
	dom "github.com/aki-motty/todo-copilot-sub000/internal/domain"
	"github.com/aki-motty/todo-copilot-sub000/internal/logging"
)

const writeTimeout = 5 * time.Second

// tableClient is the narrow slice of the backing table the repository needs.
// pgTable implements it over pgxpool; tests substitute a fake.
type tableClient interface {
	SelectAll(ctx context.Context) ([]dom.Record, error)
	Upsert(ctx context.Context, rec dom.Record) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type writeKind int

const (
	writeUpsert writeKind = iota
	writeDelete
	writeDeleteAll
)

type writeOp struct {
	kind writeKind
	rec  dom.Record
	id   string
}

// TableRepo persists todos in a SQL table and serves reads from an in-memory
// cache populated lazily on first use. Writes update the cache synchronously
// and reach the table through a single ordered background worker, so a
// rejected write never corrupts the cached view; it is logged instead.
//
// Construct with NewTableRepo and call Close on shutdown to drain pending
// writes. Do not call Save/Remove/Clear after Close.
type TableRepo struct {
	table tableClient
	log   logging.Logger

	mu     sync.RWMutex
	cache  map[dom.TodoID]dom.Todo
	loaded bool
	sf     singleflight.Group

	writes chan writeOp
	done   chan struct{}
}

func NewTableRepo(db *pgxpool.Pool, log logging.Logger) *TableRepo {
	return newTableRepo(&pgTable{db: db}, log)
}

func newTableRepo(tc tableClient, log logging.Logger) *TableRepo {
	r := &TableRepo{
		table:  tc,
		log:    log,
		cache:  make(map[dom.TodoID]dom.Todo),
		writes: make(chan writeOp, 256),
		done:   make(chan struct{}),
	}
	go r.worker()
	return r
}

// Close drains the write queue and stops the worker.
func (r *TableRepo) Close() {
	close(r.writes)
	<-r.done
}

func (r *TableRepo) worker() {
	defer close(r.done)
	for op := range r.writes {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		var err error
		switch op.kind {
		case writeUpsert:
			err = r.table.Upsert(ctx, op.rec)
		case writeDelete:
			err = r.table.Delete(ctx, op.id)
		case writeDeleteAll:
			err = r.table.DeleteAll(ctx)
		}
		cancel()
		if err != nil {
			r.log.Error("background table write failed", "id", op.id, "err", err)
		}
	}
}

// ensureLoaded fills the cache from the table once, collapsing concurrent
// fills into a single query.
func (r *TableRepo) ensureLoaded(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}
	_, err, _ := r.sf.Do("load", func() (interface{}, error) {
		recs, err := r.table.SelectAll(ctx)
		if err != nil {
			return nil, err
		}
		cache := make(map[dom.TodoID]dom.Todo, len(recs))
		for _, rec := range recs {
			t, err := dom.FromRecord(rec)
			if err != nil {
				return nil, apperr.Corruption("select todos", err)
			}
			cache[t.ID()] = t
		}
		r.mu.Lock()
		if !r.loaded {
			r.cache = cache
			r.loaded = true
		}
		r.mu.Unlock()
		return nil, nil
	})
	return err
}

func (r *TableRepo) FindByID(ctx context.Context, id dom.TodoID) (dom.Todo, bool, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return dom.Todo{}, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.cache[id]
	return t, ok, nil
}

func (r *TableRepo) FindAll(ctx context.Context) ([]dom.Todo, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]dom.Todo, 0, len(r.cache))
	for _, t := range r.cache {
		out = append(out, t)
	}
	return out, nil
}

func (r *TableRepo) Save(ctx context.Context, t dom.Todo) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	r.cache[t.ID()] = t
	r.mu.Unlock()
	r.writes <- writeOp{kind: writeUpsert, rec: t.Record(), id: t.ID().String()}
	return nil
}

func (r *TableRepo) Remove(ctx context.Context, id dom.TodoID) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	if _, ok := r.cache[id]; !ok {
		r.mu.Unlock()
		return apperr.NotFoundf("todo %s not found", id)
	}
	delete(r.cache, id)
	r.mu.Unlock()
	r.writes <- writeOp{kind: writeDelete, id: id.String()}
	return nil
}

func (r *TableRepo) Clear(ctx context.Context) error {
	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	r.cache = make(map[dom.TodoID]dom.Todo)
	r.mu.Unlock()
	r.writes <- writeOp{kind: writeDeleteAll}
	return nil
}

func (r *TableRepo) Count(ctx context.Context) (int, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache), nil
}

// pgTable is the pgx-backed tableClient. The aggregate is stored as a JSONB
// document keyed by id; created_at is duplicated as a column for ordering.
type pgTable struct {
	db *pgxpool.Pool
}

func (p *pgTable) SelectAll(ctx context.Context) ([]dom.Record, error) {
	rows, err := p.db.Query(ctx, `SELECT doc FROM todos ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperr.Database("select todos", err)
	}
	defer rows.Close()
	var recs []dom.Record
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, apperr.Database("select todos", err)
		}
		var rec dom.Record
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, apperr.Corruption("select todos", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Database("select todos", err)
	}
	return recs, nil
}

func (p *pgTable) Upsert(ctx context.Context, rec dom.Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return apperr.Internal(err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
	if err != nil {
		return apperr.Internal(err)
	}
	_, err = p.db.Exec(ctx, `
		INSERT INTO todos (id, doc, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`,
		rec.ID, doc, createdAt)
	if err != nil {
		return apperr.Database("upsert todo", err)
	}
	return nil
}

func (p *pgTable) Delete(ctx context.Context, id string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id); err != nil {
		return apperr.Database("delete todo", err)
	}
	return nil
}

func (p *pgTable) DeleteAll(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM todos`); err != nil {
		return apperr.Database("delete todos", err)
	}
	return nil
}

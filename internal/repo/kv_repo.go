package repo

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/aki-motty/todo-copilot-sub000/internal/apperr"
	dom "github.com/aki-motty/todo-copilot-sub000/internal/domain"
	"github.com/aki-motty/todo-copilot-sub000/internal/logging"
)

const kvKey = "todos:v1"

// kvClient is the narrow slice of the key-value store the repo needs.
// redisKV backs it in production; tests substitute an in-memory stub.
type kvClient interface {
	// Get returns the stored blob; ok is false when the key is absent.
	Get(ctx context.Context) ([]byte, bool, error)
	Set(ctx context.Context, b []byte) error
	Del(ctx context.Context) error
}

type redisKV struct {
	rdb *redis.Client
	key string
}

func (r *redisKV) Get(ctx context.Context) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *redisKV) Set(ctx context.Context, b []byte) error {
	return r.rdb.Set(ctx, r.key, b, 0).Err()
}

func (r *redisKV) Del(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}

// KVRepo stores the whole collection as one JSON value under a single redis
// key, re-serialized on every write. The store is the sole source of truth:
// every read loads and decodes the full collection, so writes are immediately
// visible to subsequent reads.
type KVRepo struct {
	kv  kvClient
	log logging.Logger
}

func NewKVRepo(rdb *redis.Client, log logging.Logger) *KVRepo {
	return newKVRepo(&redisKV{rdb: rdb, key: kvKey}, log)
}

func newKVRepo(kv kvClient, log logging.Logger) *KVRepo {
	return &KVRepo{kv: kv, log: log}
}

func (r *KVRepo) load(ctx context.Context) ([]dom.Todo, error) {
	b, ok, err := r.kv.Get(ctx)
	if err != nil {
		return nil, apperr.Database("kv get", err)
	}
	if !ok {
		return nil, nil
	}
	list, err := decodeRecords(b)
	if err != nil {
		r.log.Error("kv store holds unparseable data", "key", kvKey, "err", err)
		return nil, apperr.Corruption("kv get", err)
	}
	return list, nil
}

func (r *KVRepo) store(ctx context.Context, list []dom.Todo) error {
	b, err := encodeRecords(list)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := r.kv.Set(ctx, b); err != nil {
		if isQuotaErr(err) {
			return apperr.Quota(err)
		}
		return apperr.Database("kv set", err)
	}
	return nil
}

func (r *KVRepo) FindByID(ctx context.Context, id dom.TodoID) (dom.Todo, bool, error) {
	list, err := r.load(ctx)
	if err != nil {
		return dom.Todo{}, false, err
	}
	for _, t := range list {
		if t.ID() == id {
			return t, true, nil
		}
	}
	return dom.Todo{}, false, nil
}

func (r *KVRepo) FindAll(ctx context.Context) ([]dom.Todo, error) {
	return r.load(ctx)
}

func (r *KVRepo) Save(ctx context.Context, t dom.Todo) error {
	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range list {
		if list[i].ID() == t.ID() {
			list[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, t)
	}
	return r.store(ctx, list)
}

func (r *KVRepo) Remove(ctx context.Context, id dom.TodoID) error {
	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]dom.Todo, 0, len(list))
	for _, t := range list {
		if t.ID() != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(list) {
		return apperr.NotFoundf("todo %s not found", id)
	}
	return r.store(ctx, kept)
}

func (r *KVRepo) Clear(ctx context.Context) error {
	if err := r.kv.Del(ctx); err != nil {
		return apperr.Database("kv del", err)
	}
	return nil
}

func (r *KVRepo) Count(ctx context.Context) (int, error) {
	list, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func encodeRecords(list []dom.Todo) ([]byte, error) {
	recs := make([]dom.Record, len(list))
	for i, t := range list {
		recs[i] = t.Record()
	}
	return json.Marshal(recs)
}

func decodeRecords(b []byte) ([]dom.Todo, error) {
	var recs []dom.Record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, err
	}
	list := make([]dom.Todo, 0, len(recs))
	for _, rec := range recs {
		t, err := dom.FromRecord(rec)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, nil
}

// isQuotaErr matches redis rejecting a write because maxmemory is reached.
func isQuotaErr(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "OOM")
}

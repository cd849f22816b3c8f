package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const lockPrefix = "lock"

// lockStore operaciones usadas por Lock.
type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Lock exclusión entre instancias con SETNX + TTL. Solo libera si sigue siendo el dueño.
type Lock struct {
	store lockStore
	key   string
	ttl   time.Duration

	mu    sync.Mutex
	owner string
}

// NewLock construye un lock con nombre; la clave queda bajo el namespace de la API.
func (c *Client) NewLock(name string, ttl time.Duration) (*Lock, error) {
	return newLock(c, c.buildKey(lockPrefix, name), ttl)
}

func newLock(store lockStore, key string, ttl time.Duration) (*Lock, error) {
	if store == nil {
		return nil, errors.New("redis lock: client required")
	}
	if key == "" {
		return nil, errors.New("redis lock: key required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Lock{store: store, key: key, ttl: ttl}, nil
}

// Acquire intenta tomar el lock durante el TTL configurado.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("redis lock setnx: %w", err)
	}
	if ok {
		l.mu.Lock()
		l.owner = owner
		l.mu.Unlock()
	}
	return ok, nil
}

// Release borra la clave solo si el valor sigue siendo el de este dueño.
func (l *Lock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner == "" {
		return nil
	}
	value, err := l.store.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, ErrNil) {
			l.owner = ""
			return nil
		}
		return fmt.Errorf("redis lock read owner: %w", err)
	}
	if value == l.owner {
		if err := l.store.Del(ctx, l.key); err != nil {
			return fmt.Errorf("redis lock delete: %w", err)
		}
	}
	l.owner = ""
	return nil
}

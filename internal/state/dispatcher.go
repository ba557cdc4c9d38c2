package state

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"

	"densitydesk/internal/models"
)

// lockShards bounds the number of mutexes however many sessions exist.
const lockShards = 64

// Dispatcher loads a session's state, applies an action and persists the
// result. Transitions for one session are serialized; different sessions
// proceed in parallel unless they hash to the same lock shard.
type Dispatcher struct {
	store Store
	locks [lockShards]sync.Mutex
}

// NewDispatcher creates a dispatcher over store.
func NewDispatcher(store Store) *Dispatcher {
	return &Dispatcher{store: store}
}

// Load returns the current state for sessionID.
func (d *Dispatcher) Load(ctx context.Context, sessionID string) (models.AppState, error) {
	return d.store.Load(ctx, Key(sessionID))
}

// Dispatch applies a to the session's state and saves it. The returned
// state is what was persisted. When the reducer rejects the action nothing
// is written and the current state is returned with the error. Reset
// deletes the stored state instead of saving an empty one.
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID string, a Action) (models.AppState, error) {
	key := Key(sessionID)
	mu := d.lock(key)
	mu.Lock()
	defer mu.Unlock()

	current, err := d.store.Load(ctx, key)
	if err != nil {
		slog.Error("failed to load state", "action", Name(a), "error", err)
		return current, err
	}

	next, err := Reduce(current, a)
	if err != nil {
		return current, err
	}

	if _, ok := a.(Reset); ok {
		err = d.store.Delete(ctx, key)
	} else {
		err = d.store.Save(ctx, key, next)
	}
	if err != nil {
		slog.Error("failed to persist state", "action", Name(a), "error", err)
		return current, err
	}
	return next, nil
}

func (d *Dispatcher) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &d.locks[h.Sum32()%lockShards]
}

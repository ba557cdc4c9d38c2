package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"densitydesk/internal/db"
	"densitydesk/internal/models"
)

// KeyPrefix namespaces persisted states in shared key-value backends.
const KeyPrefix = "app-state:"

// Key returns the storage key for a session's state.
func Key(sessionID string) string {
	return KeyPrefix + sessionID
}

// Store persists application state by key.
type Store interface {
	// Load returns the stored state, or Initial() when nothing is stored.
	Load(ctx context.Context, key string) (models.AppState, error)
	Save(ctx context.Context, key string, s models.AppState) error
	// Delete drops the stored state. A missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Counter is implemented by stores that can report how many states they hold.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// KV is the subset of fiber.Storage the key-value store needs. Both the
// in-process map and the Redis storage satisfy it.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// KVStore stores JSON-encoded states in a key-value backend.
type KVStore struct {
	kv  KV
	ttl time.Duration
}

// NewKVStore wraps kv. A zero ttl keeps states until deleted.
func NewKVStore(kv KV, ttl time.Duration) *KVStore {
	return &KVStore{kv: kv, ttl: ttl}
}

// Load implements Store.
func (s *KVStore) Load(_ context.Context, key string) (models.AppState, error) {
	data, err := s.kv.Get(key)
	if err != nil {
		return Initial(), fmt.Errorf("failed to read state: %w", err)
	}
	if len(data) == 0 {
		return Initial(), nil
	}
	return decode(data)
}

// Save implements Store.
func (s *KVStore) Save(_ context.Context, key string, st models.AppState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.kv.Set(key, data, s.ttl); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *KVStore) Delete(_ context.Context, key string) error {
	if err := s.kv.Delete(key); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

// Count implements Counter when the backend is the in-process map.
func (s *KVStore) Count(_ context.Context) (int, error) {
	if m, ok := s.kv.(*MemoryKV); ok {
		return m.Len(), nil
	}
	return 0, errors.ErrUnsupported
}

// MemoryKV is an in-process KV. Expiry is ignored.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV creates an empty map-backed KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MemoryKV) Set(key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), val...)
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// NewMemoryStore returns a Store that lives for the life of the process.
func NewMemoryStore() *KVStore {
	return NewKVStore(NewMemoryKV(), 0)
}

// PostgresStore keeps states in the app_states table.
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore creates a Store backed by database.
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{db: database}
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context, key string) (models.AppState, error) {
	data, err := s.db.GetAppState(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrStateNotFound) {
			return Initial(), nil
		}
		return Initial(), err
	}
	return decode(data)
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, key string, st models.AppState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return s.db.UpsertAppState(ctx, key, data)
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if err := s.db.DeleteAppState(ctx, key); err != nil && !errors.Is(err, db.ErrStateNotFound) {
		return err
	}
	return nil
}

// Count implements Counter.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	return s.db.CountAppStates(ctx)
}

func decode(data []byte) (models.AppState, error) {
	st := Initial()
	if err := json.Unmarshal(data, &st); err != nil {
		return Initial(), fmt.Errorf("failed to decode state: %w", err)
	}
	if st.MainKeywords == nil {
		st.MainKeywords = []models.KeywordRecord{}
	}
	if st.ExtraKeywords == nil {
		st.ExtraKeywords = []models.KeywordRecord{}
	}
	return st, nil
}

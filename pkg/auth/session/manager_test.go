package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/config"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(sessionID string) string {
	return "sess:" + sessionID
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: time.Hour}
}

func TestManagerCreateResolveRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	sessionID, err := manager.Create(ctx, "user-42")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if store.ttls[store.SessionKey(sessionID)] != time.Hour {
		t.Fatalf("expected session stored with ttl")
	}

	identity, err := manager.Resolve(ctx, sessionID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity != "user-42" {
		t.Fatalf("expected user-42, got %q", identity)
	}

	if err := manager.Revoke(ctx, sessionID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := manager.Resolve(ctx, sessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after revoke, got %v", err)
	}
}

func TestManagerCreateGeneratesDistinctIDs(t *testing.T) {
	manager := newTestManager(newMockStore())
	a, _ := manager.Create(context.Background(), "u")
	b, _ := manager.Create(context.Background(), "u")
	if a == b {
		t.Fatalf("expected distinct session ids")
	}
}

func TestManagerRejectsEmptyInput(t *testing.T) {
	manager := newTestManager(newMockStore())
	ctx := context.Background()
	if _, err := manager.Create(ctx, " "); err == nil {
		t.Fatalf("expected error for empty identity")
	}
	if _, err := manager.Resolve(ctx, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerPropagatesStoreFailures(t *testing.T) {
	store := newMockStore()
	store.err = errors.New("connection refused")
	manager := newTestManager(store)

	if _, err := manager.Create(context.Background(), "u"); !errors.Is(err, store.err) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	_, err := manager.Resolve(context.Background(), "s")
	if err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected raw store error, got %v", err)
	}
}

func TestNewManagerValidatesInputs(t *testing.T) {
	if _, err := NewManager(nil, config.SessionConfig{TTL: time.Hour}); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

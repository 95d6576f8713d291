package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"comanda/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService caches panel snapshots per store. The panel invalidates after
// every mutation and reloads on the next read; entries otherwise expire by TTL.
type CacheService interface {
	GetSnapshot(ctx context.Context, store models.StoreID) (*models.PanelSnapshot, error)
	SetSnapshot(ctx context.Context, store models.StoreID, snapshot *models.PanelSnapshot, ttl time.Duration) error
	InvalidateSnapshot(ctx context.Context, store models.StoreID) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects a Redis-backed cache.
func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func snapshotKey(store models.StoreID) string {
	return fmt.Sprintf("comanda:panel:%s", store)
}

func (r *redisCacheService) GetSnapshot(ctx context.Context, store models.StoreID) (*models.PanelSnapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(store)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var snapshot models.PanelSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *redisCacheService) SetSnapshot(ctx context.Context, store models.StoreID, snapshot *models.PanelSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, snapshotKey(store), data, ttl).Err()
}

func (r *redisCacheService) InvalidateSnapshot(ctx context.Context, store models.StoreID) error {
	return r.client.Del(ctx, snapshotKey(store)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type memoryEntry struct {
	snapshot  *models.PanelSnapshot
	expiresAt time.Time
}

type memoryCacheService struct {
	mu      sync.RWMutex
	entries map[models.StoreID]memoryEntry
}

// NewMemoryCacheService returns a process-local cache for demo mode, where no
// Redis is assumed to be reachable.
func NewMemoryCacheService() CacheService {
	return &memoryCacheService{entries: make(map[models.StoreID]memoryEntry)}
}

func (m *memoryCacheService) GetSnapshot(ctx context.Context, store models.StoreID) (*models.PanelSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[store]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil // cache miss
	}
	return entry.snapshot, nil
}

func (m *memoryCacheService) SetSnapshot(ctx context.Context, store models.StoreID, snapshot *models.PanelSnapshot, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[store] = memoryEntry{snapshot: snapshot, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *memoryCacheService) InvalidateSnapshot(ctx context.Context, store models.StoreID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, store)
	return nil
}

func (m *memoryCacheService) Ping(ctx context.Context) error {
	return nil
}

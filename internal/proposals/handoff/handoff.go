// Package handoff passes a full document from one request to the next
// through a transient, single-use key.
package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/proposalcraft/proposalcraft-backend/internal/cache"
	"github.com/proposalcraft/proposalcraft-backend/internal/logger"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

const keyPrefix = "proposalcraft:handoff:"

// Handoff stores a document once and hands it back once.
type Handoff interface {
	Put(ctx context.Context, doc *domain.Document) (string, error)
	Consume(ctx context.Context, key string) (*domain.Document, error)
}

func encode(doc *domain.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("document required")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal handoff document: %w", err)
	}
	return raw, nil
}

// decode turns a consumed payload into a document. A payload that does not
// parse has already been removed and is reported as missing.
func decode(ctx context.Context, key string, raw []byte) (*domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.FromContext(ctx).Warn("discarding malformed handoff payload",
			zap.String("key", key), zap.Error(err))
		return nil, domain.ErrTemplateNotFound
	}
	doc.Normalize()
	return &doc, nil
}

// RedisHandoff keeps payloads in Redis with an expiry.
type RedisHandoff struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisHandoff(client *redis.Client, ttl time.Duration) *RedisHandoff {
	return &RedisHandoff{client: client, ttl: ttl}
}

func (h *RedisHandoff) Put(ctx context.Context, doc *domain.Document) (string, error) {
	raw, err := encode(doc)
	if err != nil {
		return "", err
	}
	key := domain.NewID()
	if err := h.client.Set(ctx, keyPrefix+key, raw, h.ttl).Err(); err != nil {
		return "", fmt.Errorf("stage handoff: %w", err)
	}
	return key, nil
}

// Consume reads and deletes the payload atomically with GETDEL.
func (h *RedisHandoff) Consume(ctx context.Context, key string) (*domain.Document, error) {
	raw, err := h.client.GetDel(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("consume handoff: %w", err)
	}
	return decode(ctx, key, raw)
}

// MemoryHandoff keeps payloads in process memory.
type MemoryHandoff struct {
	items *cache.TTLCache[string, []byte]
	ttl   time.Duration
}

func NewMemoryHandoff(ttl time.Duration) *MemoryHandoff {
	return &MemoryHandoff{items: cache.NewTTLCache[string, []byte](), ttl: ttl}
}

func (h *MemoryHandoff) Put(ctx context.Context, doc *domain.Document) (string, error) {
	raw, err := encode(doc)
	if err != nil {
		return "", err
	}
	key := domain.NewID()
	h.items.Set(key, raw, h.ttl)
	return key, nil
}

func (h *MemoryHandoff) Consume(ctx context.Context, key string) (*domain.Document, error) {
	raw, ok := h.items.Take(key)
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return decode(ctx, key, raw)
}

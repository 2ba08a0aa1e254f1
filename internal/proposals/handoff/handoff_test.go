package handoff

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

func newRedisHandoff(t *testing.T, ttl time.Duration) (*RedisHandoff, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisHandoff(client, ttl), mr
}

func testDoc() *domain.Document {
	doc := domain.NewDefaultDocument(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	doc.DocumentTitle = "Retainer"
	return doc
}

func TestHandoff_ConsumedExactlyOnce(t *testing.T) {
	backends := map[string]func(t *testing.T) Handoff{
		"redis": func(t *testing.T) Handoff {
			h, _ := newRedisHandoff(t, time.Minute)
			return h
		},
		"memory": func(t *testing.T) Handoff { return NewMemoryHandoff(time.Minute) },
	}

	for name, newHandoff := range backends {
		t.Run(name, func(t *testing.T) {
			h := newHandoff(t)
			ctx := context.Background()
			doc := testDoc()

			key, err := h.Put(ctx, doc)
			require.NoError(t, err)
			require.NotEmpty(t, key)

			got, err := h.Consume(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, doc, got)

			_, err = h.Consume(ctx, key)
			assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

			_, err = h.Consume(ctx, "unknown")
			assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

			_, err = h.Put(ctx, nil)
			assert.Error(t, err)
		})
	}
}

func TestRedisHandoff_Expires(t *testing.T) {
	h, mr := newRedisHandoff(t, time.Minute)
	ctx := context.Background()

	key, err := h.Put(ctx, testDoc())
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+key))

	mr.FastForward(2 * time.Minute)
	_, err = h.Consume(ctx, key)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestRedisHandoff_MalformedPayloadIsDiscarded(t *testing.T) {
	h, mr := newRedisHandoff(t, time.Minute)
	require.NoError(t, mr.Set(keyPrefix+"bad", "not-json"))

	_, err := h.Consume(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	assert.False(t, mr.Exists(keyPrefix+"bad"))
}

func TestMemoryHandoff_Expires(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	h := NewMemoryHandoff(time.Minute)
	h.items.WithClock(func() time.Time { return now })

	key, err := h.Put(context.Background(), testDoc())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = h.Consume(context.Background(), key)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestDecodeNormalizesPartialDocuments(t *testing.T) {
	doc, err := decode(context.Background(), "k", []byte(`{"documentTitle":"Partial"}`))
	require.NoError(t, err)
	assert.Equal(t, "Partial", doc.DocumentTitle)
	assert.NotNil(t, doc.Items)
	assert.Len(t, doc.Sections, len(domain.AllSectionKeys()))
}

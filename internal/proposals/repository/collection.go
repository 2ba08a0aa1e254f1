package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/proposalcraft/proposalcraft-backend/internal/logger"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"go.uber.org/zap"
)

// blob is a backend that stores the whole collection as one serialized value.
type blob interface {
	read(ctx context.Context) (data []byte, found bool, err error)
	write(ctx context.Context, data []byte) error
	remove(ctx context.Context) error
}

// collection implements the repository operations over a blob with a
// read-modify-write cycle. The mutex serialises writers of this process only.
type collection struct {
	mu    sync.Mutex
	store blob
	clock Clock
	newID func() string
	where string
}

func newCollection(store blob, clock Clock, where string) *collection {
	return &collection{store: store, clock: clock, newID: domain.NewID, where: where}
}

func (c *collection) load(ctx context.Context) ([]domain.SavedProposal, error) {
	raw, found, err := c.store.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read proposals from %s: %w", c.where, err)
	}
	if !found || len(raw) == 0 {
		return []domain.SavedProposal{}, nil
	}

	var out []domain.SavedProposal
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.FromContext(ctx).Warn("stored proposals are malformed, treating as empty",
			zap.String("backend", c.where), zap.Error(err))
		return []domain.SavedProposal{}, nil
	}
	if out == nil {
		out = []domain.SavedProposal{}
	}
	return out, nil
}

func (c *collection) persist(ctx context.Context, all []domain.SavedProposal) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("marshal proposals: %w", err)
	}
	if err := c.store.write(ctx, raw); err != nil {
		return fmt.Errorf("write proposals to %s: %w", c.where, err)
	}
	return nil
}

func (c *collection) Save(ctx context.Context, name string, doc *domain.Document) (*domain.SavedProposal, error) {
	if doc == nil {
		return nil, fmt.Errorf("document required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.now()
	p := domain.SavedProposal{
		ID:        c.newID(),
		Name:      name,
		Data:      *doc.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.persist(ctx, append(all, p)); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (c *collection) Update(ctx context.Context, id string, upd domain.SavedProposalUpdate) (*domain.SavedProposal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		applyUpdate(&all[i], upd, c.clock.now())
		if err := c.persist(ctx, all); err != nil {
			return nil, err
		}
		return all[i].Clone(), nil
	}
	return nil, nil
}

func (c *collection) GetOne(ctx context.Context, id string) (*domain.SavedProposal, error) {
	all, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (c *collection) GetAll(ctx context.Context) ([]domain.SavedProposal, error) {
	return c.load(ctx)
}

func (c *collection) DeleteOne(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]domain.SavedProposal, 0, len(all))
	for _, p := range all {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(all) {
		return false, nil
	}
	if err := c.persist(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

func (c *collection) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.remove(ctx); err != nil {
		return fmt.Errorf("clear proposals in %s: %w", c.where, err)
	}
	return nil
}

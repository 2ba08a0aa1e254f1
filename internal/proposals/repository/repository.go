// Package repository persists named proposal snapshots.
//
// Missing records are reported as (nil, nil) or false, never as errors.
// Malformed stored data degrades to "no records" and is logged. Documents
// are deep-copied on the way in and out, so nothing here aliases a live
// editing session.
package repository

import (
	"context"
	"time"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

// ProposalRepository is implemented by every storage backend.
type ProposalRepository interface {
	Save(ctx context.Context, name string, doc *domain.Document) (*domain.SavedProposal, error)
	Update(ctx context.Context, id string, upd domain.SavedProposalUpdate) (*domain.SavedProposal, error)
	GetOne(ctx context.Context, id string) (*domain.SavedProposal, error)
	GetAll(ctx context.Context) ([]domain.SavedProposal, error)
	DeleteOne(ctx context.Context, id string) (bool, error)
	ClearAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Clock returns the current time; tests inject a fixed one.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
	return c().UTC().Truncate(time.Microsecond)
}

// nextUpdatedAt returns a timestamp strictly after prev.
func nextUpdatedAt(now, prev time.Time) time.Time {
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

func applyUpdate(p *domain.SavedProposal, upd domain.SavedProposalUpdate, now time.Time) {
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Data != nil {
		p.Data = *upd.Data.Clone()
	}
	p.UpdatedAt = nextUpdatedAt(now, p.UpdatedAt)
}

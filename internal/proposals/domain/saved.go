package domain

import "time"

// SavedProposal is a durable, named snapshot of a Document.
type SavedProposal struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Data      Document  `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SavedProposalUpdate carries the fields to merge into a saved proposal.
// Nil fields are left untouched.
type SavedProposalUpdate struct {
	Name *string   `json:"name,omitempty"`
	Data *Document `json:"data,omitempty"`
}

// Clone deep-copies the record including its document snapshot.
func (p *SavedProposal) Clone() *SavedProposal {
	if p == nil {
		return nil
	}
	out := *p
	out.Data = *p.Data.Clone()
	return &out
}

// Package store holds the live Document of one editing session.
//
// Store is the only writer of its Document. Every mutation copies the parts
// it touches into a new Document and swaps the pointer, so a snapshot handed
// out by Snapshot is never modified afterwards. Unknown ids and unknown
// section keys are absorbed as no-ops.
package store

import (
	"sync"
	"time"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/calc"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/sections"
)

type Store struct {
	mu      sync.RWMutex
	doc     *domain.Document
	version uint64
	now     func() time.Time
	newID   func() string
}

type Option func(*Store)

// WithClock sets the time source used for default dates of new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the id source of new entries.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New creates a store seeded with a copy of doc. A nil doc starts from the
// default proposal.
func New(doc *domain.Document, opts ...Option) *Store {
	s := &Store{now: time.Now, newID: domain.NewID}
	for _, opt := range opts {
		opt(s)
	}
	if doc == nil {
		doc = domain.NewDefaultDocument(s.now())
	} else {
		doc = doc.Clone()
	}
	doc.Normalize()
	s.doc = doc
	return s
}

// Snapshot returns the current document. Callers must treat it as read-only.
func (s *Store) Snapshot() *domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Version increases by one on every mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Totals recomputes the derived totals from the current snapshot.
func (s *Store) Totals() calc.Totals {
	return calc.ForDocument(s.Snapshot())
}

// Load replaces the whole document with a copy of doc.
func (s *Store) Load(doc *domain.Document) {
	if doc == nil {
		return
	}
	next := doc.Clone()
	next.Normalize()

	s.mu.Lock()
	s.doc = next
	s.version++
	s.mu.Unlock()
}

// mutate applies fn to a shallow copy of the current document and publishes it.
// fn must replace, never modify in place, any slice it changes.
func (s *Store) mutate(fn func(next *domain.Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.doc
	fn(&next)
	s.doc = &next
	s.version++
}

// Transact runs op against a private copy of the store and publishes the
// result as a single mutation, but only if check accepts it. On rejection
// the document and version are unchanged and check's error is returned.
// op must only call Store methods on the store it is given.
func (s *Store) Transact(op func(tx *Store), check func(*domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{doc: s.doc, now: s.now, newID: s.newID}
	op(tx)
	if tx.version == 0 {
		return nil
	}
	if check != nil {
		if err := check(tx.doc); err != nil {
			return err
		}
	}
	s.doc = tx.doc
	s.version++
	return nil
}

func (s *Store) today() string {
	return s.now().UTC().Format(domain.DateLayout)
}

func (s *Store) UpdateSender(p domain.SenderPatch) {
	s.mutate(func(d *domain.Document) { d.Sender = p.Apply(d.Sender) })
}

func (s *Store) UpdateRecipient(p domain.RecipientPatch) {
	s.mutate(func(d *domain.Document) { d.Recipient = p.Apply(d.Recipient) })
}

func (s *Store) UpdateDocumentInfo(p domain.DocumentInfoPatch) {
	s.mutate(func(d *domain.Document) { p.Apply(d) })
}

func (s *Store) UpdateBranding(p domain.BrandingPatch) {
	s.mutate(func(d *domain.Document) { d.Branding = p.Apply(d.Branding) })
}

func (s *Store) UpdateTaxRate(rate float64) {
	s.mutate(func(d *domain.Document) { d.TaxRate = rate })
}

func (s *Store) UpdateDiscountAmount(amount float64) {
	s.mutate(func(d *domain.Document) { d.DiscountAmount = amount })
}

func (s *Store) UpdateExecutiveSummary(p domain.ExecutiveSummaryPatch) {
	s.mutate(func(d *domain.Document) { d.ExecutiveSummary = p.Apply(d.ExecutiveSummary) })
}

func (s *Store) UpdateTimeline(p domain.TimelinePatch) {
	s.mutate(func(d *domain.Document) { d.Timeline = p.Apply(d.Timeline) })
}

func (s *Store) UpdateTermsConditions(p domain.TermsConditionsPatch) {
	s.mutate(func(d *domain.Document) { d.TermsConditions = p.Apply(d.TermsConditions) })
}

func (s *Store) UpdateAcceptance(p domain.AcceptancePatch) {
	s.mutate(func(d *domain.Document) { d.Acceptance = p.Apply(d.Acceptance) })
}

// Section registry

func (s *Store) ToggleSection(key domain.SectionKey, enabled bool) {
	s.mutate(func(d *domain.Document) { d.Sections = sections.SetEnabled(d.Sections, key, enabled) })
}

func (s *Store) UpdateSectionLabel(key domain.SectionKey, label string) {
	s.mutate(func(d *domain.Document) { d.Sections = sections.SetLabel(d.Sections, key, label) })
}

func (s *Store) IsSectionEnabled(key domain.SectionKey) bool {
	return sections.IsEnabled(s.Snapshot(), key)
}

func (s *Store) IsSectionEmpty(key domain.SectionKey) bool {
	return sections.IsEmpty(s.Snapshot(), key)
}

func (s *Store) SectionLabel(key domain.SectionKey) string {
	return sections.Label(s.Snapshot(), key)
}

func (s *Store) SectionVisible(key domain.SectionKey) bool {
	return sections.Visible(s.Snapshot(), key)
}

package store

import "github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"

// Keyed collections are kept as ordered slices: order is meaningful and
// matches the wire form. Each helper returns a fresh slice.

func appended[T any](in []T, v T) []T {
	out := make([]T, len(in), len(in)+1)
	copy(out, in)
	return append(out, v)
}

func updated[T any](in []T, match func(T) bool, fn func(T) T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := range out {
		if match(out[i]) {
			out[i] = fn(out[i])
			break
		}
	}
	return out
}

func removed[T any](in []T, match func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if !match(v) {
			out = append(out, v)
		}
	}
	return out
}

// Line items

func (s *Store) AddItem() domain.LineItem {
	item := domain.LineItem{ID: s.newID(), Description: "New Item", Quantity: 1, Rate: 0}
	s.mutate(func(d *domain.Document) { d.Items = appended(d.Items, item) })
	return item
}

func (s *Store) UpdateItem(id string, p domain.LineItemPatch) {
	s.mutate(func(d *domain.Document) {
		d.Items = updated(d.Items, func(i domain.LineItem) bool { return i.ID == id }, p.Apply)
	})
}

func (s *Store) RemoveItem(id string) {
	s.mutate(func(d *domain.Document) {
		d.Items = removed(d.Items, func(i domain.LineItem) bool { return i.ID == id })
	})
}

// Scope phases

func (s *Store) AddPhase() domain.ScopePhase {
	phase := domain.ScopePhase{ID: s.newID(), Title: "New Phase", Description: "Description of deliverables."}
	s.mutate(func(d *domain.Document) { d.ScopeOfWork.Phases = appended(d.ScopeOfWork.Phases, phase) })
	return phase
}

func (s *Store) UpdatePhase(id string, p domain.ScopePhasePatch) {
	s.mutate(func(d *domain.Document) {
		d.ScopeOfWork.Phases = updated(d.ScopeOfWork.Phases, func(v domain.ScopePhase) bool { return v.ID == id }, p.Apply)
	})
}

func (s *Store) RemovePhase(id string) {
	s.mutate(func(d *domain.Document) {
		d.ScopeOfWork.Phases = removed(d.ScopeOfWork.Phases, func(v domain.ScopePhase) bool { return v.ID == id })
	})
}

// Exclusions

func (s *Store) AddExclusion() domain.ExclusionItem {
	exc := domain.ExclusionItem{ID: s.newID(), Text: "New exclusion item"}
	s.mutate(func(d *domain.Document) { d.ScopeOfWork.Exclusions = appended(d.ScopeOfWork.Exclusions, exc) })
	return exc
}

func (s *Store) UpdateExclusion(id, text string) {
	s.mutate(func(d *domain.Document) {
		d.ScopeOfWork.Exclusions = updated(d.ScopeOfWork.Exclusions,
			func(v domain.ExclusionItem) bool { return v.ID == id },
			func(v domain.ExclusionItem) domain.ExclusionItem { v.Text = text; return v })
	})
}

func (s *Store) RemoveExclusion(id string) {
	s.mutate(func(d *domain.Document) {
		d.ScopeOfWork.Exclusions = removed(d.ScopeOfWork.Exclusions, func(v domain.ExclusionItem) bool { return v.ID == id })
	})
}

// Milestones

func (s *Store) AddMilestone() domain.Milestone {
	ms := domain.Milestone{ID: s.newID(), Title: "New Milestone", Date: s.today()}
	s.mutate(func(d *domain.Document) { d.Timeline.Milestones = appended(d.Timeline.Milestones, ms) })
	return ms
}

func (s *Store) UpdateMilestone(id string, p domain.MilestonePatch) {
	s.mutate(func(d *domain.Document) {
		d.Timeline.Milestones = updated(d.Timeline.Milestones, func(v domain.Milestone) bool { return v.ID == id }, p.Apply)
	})
}

func (s *Store) RemoveMilestone(id string) {
	s.mutate(func(d *domain.Document) {
		d.Timeline.Milestones = removed(d.Timeline.Milestones, func(v domain.Milestone) bool { return v.ID == id })
	})
}

// Terms

func (s *Store) AddTerm() domain.TermItem {
	term := domain.TermItem{ID: s.newID(), Label: "New Term", Value: "Term description"}
	s.mutate(func(d *domain.Document) { d.TermsConditions.Terms = appended(d.TermsConditions.Terms, term) })
	return term
}

func (s *Store) UpdateTerm(id string, p domain.TermItemPatch) {
	s.mutate(func(d *domain.Document) {
		d.TermsConditions.Terms = updated(d.TermsConditions.Terms, func(v domain.TermItem) bool { return v.ID == id }, p.Apply)
	})
}

func (s *Store) RemoveTerm(id string) {
	s.mutate(func(d *domain.Document) {
		d.TermsConditions.Terms = removed(d.TermsConditions.Terms, func(v domain.TermItem) bool { return v.ID == id })
	})
}

// Notes

func (s *Store) AddNote() domain.Note {
	note := domain.Note{ID: s.newID(), Text: "New note"}
	s.mutate(func(d *domain.Document) { d.Notes = appended(d.Notes, note) })
	return note
}

func (s *Store) UpdateNote(id, text string) {
	s.mutate(func(d *domain.Document) {
		d.Notes = updated(d.Notes,
			func(v domain.Note) bool { return v.ID == id },
			func(v domain.Note) domain.Note { v.Text = text; return v })
	})
}

func (s *Store) RemoveNote(id string) {
	s.mutate(func(d *domain.Document) {
		d.Notes = removed(d.Notes, func(v domain.Note) bool { return v.ID == id })
	})
}

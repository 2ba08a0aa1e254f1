package domain

// Entry is implemented by every record that lives in a keyed collection.
type Entry interface {
	EntryID() string
}

func (i LineItem) EntryID() string      { return i.ID }
func (p ScopePhase) EntryID() string    { return p.ID }
func (e ExclusionItem) EntryID() string { return e.ID }
func (m Milestone) EntryID() string     { return m.ID }
func (t TermItem) EntryID() string      { return t.ID }
func (n Note) EntryID() string          { return n.ID }

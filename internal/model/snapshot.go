package model

import "time"

// ValidatedSnapshot is the frozen copy of every department's order
// produced by the validation workflow. Once written it is immutable
// until the next validate call replaces it or a reset clears it.
//
// Fields:
//  ValidatedAt – time of the freeze, nil when no snapshot exists.
//  Commandes   – deep copy of all OrderRecords at freeze time, keyed
//                by department. Never nil in API responses; an empty
//                snapshot has an empty map so clients need no null
//                guards.
type ValidatedSnapshot struct {
	ValidatedAt *time.Time              `json:"validatedAt"`
	Commandes   map[string]*OrderRecord `json:"commandes"`
}

// EmptySnapshot returns the well-formed "no snapshot" value.
func EmptySnapshot() *ValidatedSnapshot {
	return &ValidatedSnapshot{Commandes: map[string]*OrderRecord{}}
}

// Clone returns a deep copy of the snapshot.
func (s *ValidatedSnapshot) Clone() *ValidatedSnapshot {
	if s == nil {
		return EmptySnapshot()
	}
	cp := &ValidatedSnapshot{Commandes: make(map[string]*OrderRecord, len(s.Commandes))}
	if s.ValidatedAt != nil {
		t := *s.ValidatedAt
		cp.ValidatedAt = &t
	}
	for dept, rec := range s.Commandes {
		cp.Commandes[dept] = rec.Clone()
	}
	return cp
}

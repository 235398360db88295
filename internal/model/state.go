package model

// StoreState is the full on-disk document. The store is the exclusive
// owner of every entity in it; repositories mutate state only through
// the store, and every read that crosses the store boundary returns a
// copy.
//
// Fields:
//  Version     – monotonic counter incremented on every save so that
//                overwrites of concurrent stale writes are detectable.
//  Orders      – one OrderRecord per department.
//  Validated   – the frozen procurement snapshot, never nil.
//  Credentials – PIN slots in creation order. Login matches in this
//                order, first match wins.
//  Sessions    – active sessions keyed by token.
type StoreState struct {
	Version     uint64                  `json:"version"`
	Orders      map[string]*OrderRecord `json:"commandes"`
	Validated   *ValidatedSnapshot      `json:"validated"`
	Credentials []*PinCredential        `json:"credentials"`
	Sessions    map[string]*Session     `json:"sessions"`
}

// DefaultState returns the fail-open default: every department present
// with empty fields, an empty well-formed snapshot, no credentials and
// no sessions. Load substitutes this whenever the document is missing
// or unreadable.
func DefaultState() *StoreState {
	st := &StoreState{
		Orders:    make(map[string]*OrderRecord, len(Departments)),
		Validated: EmptySnapshot(),
		Sessions:  map[string]*Session{},
	}
	for _, d := range Departments {
		st.Orders[d] = NewOrderRecord(d)
	}
	return st
}

// Normalize fills in anything a hand-edited or older document might
// be missing so the rest of the system never sees nil maps.
func (st *StoreState) Normalize() {
	if st.Orders == nil {
		st.Orders = map[string]*OrderRecord{}
	}
	for _, d := range Departments {
		rec := st.Orders[d]
		if rec == nil {
			st.Orders[d] = NewOrderRecord(d)
			continue
		}
		rec.Department = d
		if rec.Fields == nil {
			rec.Fields = map[string]string{}
		}
	}
	if st.Validated == nil {
		st.Validated = EmptySnapshot()
	} else if st.Validated.Commandes == nil {
		st.Validated.Commandes = map[string]*OrderRecord{}
	}
	if st.Sessions == nil {
		st.Sessions = map[string]*Session{}
	}
	// A hand-edited document can hold literal nulls; drop them so the
	// auth path never dereferences a nil credential or session.
	creds := st.Credentials[:0]
	for _, c := range st.Credentials {
		if c != nil {
			creds = append(creds, c)
		}
	}
	st.Credentials = creds
	for token, sess := range st.Sessions {
		if sess == nil {
			delete(st.Sessions, token)
		}
	}
}

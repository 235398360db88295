package repository

import (
	"github.com/iliyamo/maison-order-desk/internal/model"
	"github.com/iliyamo/maison-order-desk/internal/store"
)

// SnapshotRepo handles the validate/freeze workflow: copying the
// current draft orders into an immutable procurement snapshot.
type SnapshotRepo struct {
	Store *store.Store
}

// NewSnapshotRepo builds a snapshot repository.
func NewSnapshotRepo(s *store.Store) *SnapshotRepo {
	return &SnapshotRepo{Store: s}
}

// Validate deep-copies every department's current record into a fresh
// snapshot, fully replacing any prior one. The copy and the save
// happen inside a single store update, so downstream readers see the
// old snapshot or the new one, never a partial mix.
func (r *SnapshotRepo) Validate() (*model.ValidatedSnapshot, error) {
	var snap *model.ValidatedSnapshot
	err := r.Store.Update(func(st *model.StoreState) error {
		now := r.Store.Now()
		fresh := &model.ValidatedSnapshot{
			ValidatedAt: &now,
			Commandes:   make(map[string]*model.OrderRecord, len(model.Departments)),
		}
		for _, d := range model.Departments {
			fresh.Commandes[d] = st.Orders[d].Clone()
		}
		st.Validated = fresh
		snap = fresh.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Get returns the current snapshot. When none exists the result is
// the well-formed empty snapshot, never nil, so clients need no null
// guards.
func (r *SnapshotRepo) Get() (*model.ValidatedSnapshot, error) {
	var snap *model.ValidatedSnapshot
	err := r.Store.View(func(st *model.StoreState) error {
		snap = st.Validated.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Reset clears the snapshot back to the well-formed empty value.
func (r *SnapshotRepo) Reset() error {
	return r.Store.Update(func(st *model.StoreState) error {
		st.Validated = model.EmptySnapshot()
		return nil
	})
}

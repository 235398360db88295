package repository

import (
	"strconv"
	"strings"

	"github.com/iliyamo/maison-order-desk/internal/model"
	"github.com/iliyamo/maison-order-desk/internal/store"
)

// MergePolicy selects what an upsert does with keys the payload does
// not mention. The front-end edits one item at a time, so merge is
// the default; replace discards every prior key on each write.
type MergePolicy string

const (
	MergePolicyMerge   MergePolicy = "merge"
	MergePolicyReplace MergePolicy = "replace"
)

// OrderRepo exposes load/merge/save operations over each department's
// draft order.
type OrderRepo struct {
	Store  *store.Store
	Policy MergePolicy
}

// NewOrderRepo builds an order repository. An unrecognized policy
// falls back to merge.
func NewOrderRepo(s *store.Store, policy MergePolicy) *OrderRepo {
	if policy != MergePolicyReplace {
		policy = MergePolicyMerge
	}
	return &OrderRepo{Store: s, Policy: policy}
}

// GetAll returns a copy of the current record for every department.
func (r *OrderRepo) GetAll() (map[string]*model.OrderRecord, error) {
	out := make(map[string]*model.OrderRecord, len(model.Departments))
	err := r.Store.View(func(st *model.StoreState) error {
		for _, d := range model.Departments {
			out[d] = st.Orders[d].Clone()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a copy of one department's record, or an empty
// placeholder if it was never written.
func (r *OrderRepo) Get(department string) (*model.OrderRecord, error) {
	if !model.ValidDepartment(department) {
		return nil, ErrUnknownDepartment
	}
	var rec *model.OrderRecord
	err := r.Store.View(func(st *model.StoreState) error {
		rec = st.Orders[department].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Upsert normalizes the raw payload into a flat fields mapping and
// applies it to the department's record under the configured merge
// policy. It returns the resulting record.
func (r *OrderRepo) Upsert(department string, payload map[string]any) (*model.OrderRecord, error) {
	if !model.ValidDepartment(department) {
		return nil, ErrUnknownDepartment
	}
	fields := NormalizeFields(payload)
	var rec *model.OrderRecord
	err := r.Store.Update(func(st *model.StoreState) error {
		cur := st.Orders[department]
		if r.Policy == MergePolicyReplace {
			cur.Fields = fields
		} else {
			for k, v := range fields {
				cur.Fields[k] = v
			}
		}
		now := r.Store.Now()
		cur.UpdatedAt = &now
		rec = cur.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ResetOne clears one department back to empty fields with no
// updatedAt timestamp.
func (r *OrderRepo) ResetOne(department string) error {
	if !model.ValidDepartment(department) {
		return ErrUnknownDepartment
	}
	return r.Store.Update(func(st *model.StoreState) error {
		st.Orders[department] = model.NewOrderRecord(department)
		return nil
	})
}

// ResetAll clears every department and also drops the active
// validated snapshot.
func (r *OrderRepo) ResetAll() error {
	return r.Store.Update(func(st *model.StoreState) error {
		for _, d := range model.Departments {
			st.Orders[d] = model.NewOrderRecord(d)
		}
		st.Validated = model.EmptySnapshot()
		return nil
	})
}

// NormalizeFields flattens the accepted payload shapes into a plain
// item→quantity mapping. Clients send {fields:{...}}, the recurring
// accidental {fields:{fields:{...}}}, or a bare mapping; all three
// normalize identically. Values are coerced to trimmed strings,
// null becomes the empty string, nested objects and arrays are
// dropped.
func NormalizeFields(payload map[string]any) map[string]string {
	raw := payload
	if inner, ok := payload["fields"].(map[string]any); ok {
		raw = inner
		if deeper, ok := inner["fields"].(map[string]any); ok {
			raw = deeper
		}
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := coerceValue(v)
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = s
	}
	delete(out, "")
	return out
}

func coerceValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(t), true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		// JSON numbers decode as float64; render integers without a
		// trailing ".0".
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		// objects, arrays and anything exotic are dropped
		return "", false
	}
}

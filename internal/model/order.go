package model

import "time"

// Department names form a fixed, closed set. Every order operation
// validates against this list before touching the store; an unknown
// department is a domain validation error, never a store miss.
const (
	DepartmentBreakfast    = "breakfast"
	DepartmentBar          = "bar"
	DepartmentHousekeeping = "housekeeping"
)

// Departments lists every valid department in canonical order. The
// order is stable so that responses and snapshots enumerate the same
// way on every call.
var Departments = []string{
	DepartmentBreakfast,
	DepartmentBar,
	DepartmentHousekeeping,
}

// ValidDepartment reports whether name is one of the fixed departments.
func ValidDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}

// OrderRecord is the draft order for a single department.
//
// Fields:
//  Department – one of the fixed department names.
//  Fields     – item name to quantity, both free-text strings. Keys are
//               arbitrary; values are always trimmed strings.
//  UpdatedAt  – time of the last write, nil if never written or reset.
type OrderRecord struct {
	Department string            `json:"department"`
	Fields     map[string]string `json:"fields"`
	UpdatedAt  *time.Time        `json:"updatedAt"`
}

// NewOrderRecord returns an empty record for a department.
func NewOrderRecord(department string) *OrderRecord {
	return &OrderRecord{Department: department, Fields: map[string]string{}}
}

// Clone returns a deep copy. Records handed out of the store boundary
// are always copies so callers can never alias persisted state.
func (r *OrderRecord) Clone() *OrderRecord {
	if r == nil {
		return nil
	}
	cp := &OrderRecord{Department: r.Department, Fields: make(map[string]string, len(r.Fields))}
	for k, v := range r.Fields {
		cp.Fields[k] = v
	}
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		cp.UpdatedAt = &t
	}
	return cp
}

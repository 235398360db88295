package model

import "time"

// Scope names. ScopeOwner is the distinguished elevated scope: it
// passes every scope check regardless of the allowed list.
const (
	ScopeOwner = "owner"
	ScopeChef  = "chef"
)

// Scopes lists every scope a credential may hold, in the fixed slot
// order used for login matching and for default slot assignment.
var Scopes = []string{ScopeOwner, ScopeChef}

// ValidScope reports whether name is a known scope.
func ValidScope(name string) bool {
	for _, s := range Scopes {
		if s == name {
			return true
		}
	}
	return false
}

// PinCredential stores one PIN slot. The ID is opaque and random;
// the scope carries the role. Only the bcrypt hash of the PIN is
// ever persisted.
//
// Fields:
//  ID        – opaque random identifier, distinct from the scope.
//  Scope     – owner or chef.
//  Hash      – bcrypt hash of the 4-digit PIN.
//  CreatedAt – when the slot was first set up.
//  ResetAt   – when the PIN was last overwritten, nil if never.
type PinCredential struct {
	ID        string     `json:"id"`
	Scope     string     `json:"scope"`
	Hash      string     `json:"hash"`
	CreatedAt time.Time  `json:"createdAt"`
	ResetAt   *time.Time `json:"resetAt"`
}

// Clone returns a copy of the credential.
func (c *PinCredential) Clone() *PinCredential {
	if c == nil {
		return nil
	}
	cp := *c
	if c.ResetAt != nil {
		t := *c.ResetAt
		cp.ResetAt = &t
	}
	return &cp
}

package model

import "time"

// Session binds an opaque token to a credential. Sessions use a
// sliding expiry: every authenticated request pushes ExpiresAt
// forward by the full TTL, so active use keeps a terminal logged in.
//
// Fields:
//  Token        – unguessable random identifier, sent via cookie or
//                 bearer header. Doubles as the map key in the store.
//  CredentialID – ID of the credential that logged in.
//  Scope        – scope copied from the credential at login time.
//  CreatedAt    – when the session was issued.
//  ExpiresAt    – absolute expiry; expired sessions are treated as
//                 anonymous and purged on the next save.
type Session struct {
	Token        string    `json:"token"`
	CredentialID string    `json:"credentialId"`
	Scope        string    `json:"scope"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Clone returns a copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

package repository

import (
	"regexp"
	"time"

	"github.com/iliyamo/maison-order-desk/internal/model"
	"github.com/iliyamo/maison-order-desk/internal/store"
	"github.com/iliyamo/maison-order-desk/internal/utils"
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// AuthRepo implements PIN credential setup, login, session issuance
// and credential reset. Credentials live in the document store;
// sessions go through the injected SessionStore.
type AuthRepo struct {
	Store       *store.Store
	Sessions    SessionStore
	SetupSecret string
	MaxSlots    int
	BcryptCost  int
	SessionTTL  time.Duration
}

// Status reports how many credential slots are occupied, the
// configured maximum, and whether setup is possible at all.
type Status struct {
	CredentialCount int  `json:"credentialCount"`
	MaxCredentials  int  `json:"maxCredentials"`
	SetupEnabled    bool `json:"setupEnabled"`
}

// Status is public and never reveals which scopes are occupied.
func (a *AuthRepo) Status() (Status, error) {
	out := Status{MaxCredentials: a.MaxSlots, SetupEnabled: a.SetupSecret != ""}
	err := a.Store.View(func(st *model.StoreState) error {
		out.CredentialCount = len(st.Credentials)
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	return out, nil
}

// Setup creates a credential in the named slot. The slot is a scope
// name; when empty, the first free scope in fixed order is used.
// Creation is one-way: an occupied slot can only be reset afterwards,
// never set up again.
func (a *AuthRepo) Setup(secret, slot, pin string) error {
	if a.SetupSecret == "" || secret != a.SetupSecret {
		return ErrSetupDenied
	}
	if !pinPattern.MatchString(pin) {
		return ErrValidation
	}
	if slot != "" && !model.ValidScope(slot) {
		return ErrValidation
	}
	hash, err := utils.HashPin(pin, a.BcryptCost)
	if err != nil {
		return err
	}
	id, err := utils.NewCredentialID()
	if err != nil {
		return err
	}
	return a.Store.Update(func(st *model.StoreState) error {
		if len(st.Credentials) >= a.MaxSlots {
			return ErrCapacityReached
		}
		occupied := map[string]bool{}
		for _, c := range st.Credentials {
			occupied[c.Scope] = true
		}
		scope := slot
		if scope == "" {
			for _, s := range model.Scopes {
				if !occupied[s] {
					scope = s
					break
				}
			}
			if scope == "" {
				return ErrCapacityReached
			}
		} else if occupied[scope] {
			return ErrSlotTaken
		}
		st.Credentials = append(st.Credentials, &model.PinCredential{
			ID:        id,
			Scope:     scope,
			Hash:      hash,
			CreatedAt: a.Store.Now(),
		})
		return nil
	})
}

// Login checks the PIN against every credential in creation order and
// issues a session bound to the first match. The caller learns the
// token and nothing else: which slot matched stays confidential.
func (a *AuthRepo) Login(pin string) (string, error) {
	if !pinPattern.MatchString(pin) {
		return "", ErrValidation
	}
	var matched *model.PinCredential
	err := a.Store.View(func(st *model.StoreState) error {
		for _, c := range st.Credentials {
			if utils.VerifyPin(c.Hash, pin) {
				matched = c.Clone()
				return nil
			}
		}
		return ErrAuthFailed
	})
	if err != nil {
		return "", err
	}
	token, err := utils.NewSessionToken()
	if err != nil {
		return "", err
	}
	now := a.Store.Now()
	sess := &model.Session{
		Token:        token,
		CredentialID: matched.ID,
		Scope:        matched.Scope,
		CreatedAt:    now,
		ExpiresAt:    now.Add(a.SessionTTL),
	}
	if err := a.Sessions.Put(sess); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve looks up a session token and, on success, slides its expiry
// forward by the full TTL. Active use keeps a terminal logged in;
// only idle sessions expire.
func (a *AuthRepo) Resolve(token string) (*model.Session, error) {
	sess, err := a.Sessions.Get(token)
	if err != nil {
		return nil, err
	}
	sess.ExpiresAt = a.Store.Now().Add(a.SessionTTL)
	if err := a.Sessions.Put(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout drops the session. Unknown tokens are fine; logout is
// idempotent.
func (a *AuthRepo) Logout(token string) error {
	if token == "" {
		return nil
	}
	return a.Sessions.Delete(token)
}

// ResetCredential overwrites the PIN hash of the credential in the
// target slot, stamping resetAt and keeping the original identifier
// and creation time. The caller's authority (owner only) is enforced
// at the route level.
func (a *AuthRepo) ResetCredential(slot, newPin string) error {
	if !model.ValidScope(slot) {
		return ErrValidation
	}
	if !pinPattern.MatchString(newPin) {
		return ErrValidation
	}
	hash, err := utils.HashPin(newPin, a.BcryptCost)
	if err != nil {
		return err
	}
	return a.Store.Update(func(st *model.StoreState) error {
		for _, c := range st.Credentials {
			if c.Scope == slot {
				c.Hash = hash
				now := a.Store.Now()
				c.ResetAt = &now
				return nil
			}
		}
		return ErrAuthFailed
	})
}

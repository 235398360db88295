package repository_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/maison-order-desk/internal/model"
	"github.com/iliyamo/maison-order-desk/internal/repository"
	"github.com/iliyamo/maison-order-desk/internal/store"
)

const testSecret = "S3CRET"

// newAuthRepo builds an auth repository over a temp-dir store with a
// controllable clock. bcrypt runs at MinCost to keep the suite fast.
func newAuthRepo(t *testing.T) (*repository.AuthRepo, *time.Time) {
	t.Helper()
	cur := time.Now()
	s := store.NewWithClock(filepath.Join(t.TempDir(), "commandes.json"), func() time.Time { return cur })
	return &repository.AuthRepo{
		Store:       s,
		Sessions:    repository.NewPersistedSessionStore(s),
		SetupSecret: testSecret,
		MaxSlots:    2,
		BcryptCost:  bcrypt.MinCost,
		SessionTTL:  time.Hour,
	}, &cur
}

func TestSetup_WrongSecret_Denied(t *testing.T) {
	a, _ := newAuthRepo(t)
	if err := a.Setup("nope", model.ScopeOwner, "1234"); !errors.Is(err, repository.ErrSetupDenied) {
		t.Errorf("expected ErrSetupDenied, got %v", err)
	}
}

func TestSetup_NoSecretConfigured_Denied(t *testing.T) {
	a, _ := newAuthRepo(t)
	a.SetupSecret = ""
	if err := a.Setup("", model.ScopeOwner, "1234"); !errors.Is(err, repository.ErrSetupDenied) {
		t.Errorf("expected ErrSetupDenied when setup is disabled, got %v", err)
	}
}

func TestSetup_MalformedPin_ValidationError(t *testing.T) {
	a, _ := newAuthRepo(t)
	for _, pin := range []string{"", "123", "12345", "12a4", "12.4"} {
		if err := a.Setup(testSecret, model.ScopeOwner, pin); !errors.Is(err, repository.ErrValidation) {
			t.Errorf("pin %q: expected ErrValidation, got %v", pin, err)
		}
	}
}

func TestSetup_SlotTaken(t *testing.T) {
	a, _ := newAuthRepo(t)
	if err := a.Setup(testSecret, model.ScopeOwner, "1234"); err != nil {
		t.Fatalf("first Setup: %v", err)
	}
	if err := a.Setup(testSecret, model.ScopeOwner, "5678"); !errors.Is(err, repository.ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken, got %v", err)
	}
}

func TestSetup_CapacityReached_EvenWithCorrectSecret(t *testing.T) {
	a, _ := newAuthRepo(t)
	if err := a.Setup(testSecret, model.ScopeOwner, "1111"); err != nil {
		t.Fatal(err)
	}
	if err := a.Setup(testSecret, model.ScopeChef, "2222"); err != nil {
		t.Fatal(err)
	}
	if err := a.Setup(testSecret, "", "3333"); !errors.Is(err, repository.ErrCapacityReached) {
		t.Errorf("expected ErrCapacityReached, got %v", err)
	}
}

func TestSetup_EmptySlot_AssignsFirstFreeScope(t *testing.T) {
	a, _ := newAuthRepo(t)
	if err := a.Setup(testSecret, "", "1111"); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	// owner is first in the fixed slot order, so the owner slot is
	// now taken.
	if err := a.Setup(testSecret, model.ScopeOwner, "2222"); !errors.Is(err, repository.ErrSlotTaken) {
		t.Errorf("expected owner slot to be assigned first, got %v", err)
	}
}

func TestLogin_NoCredentials_AuthFailed(t *testing.T) {
	a, _ := newAuthRepo(t)
	if _, err := a.Login("1234"); !errors.Is(err, repository.ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed on empty credential store, got %v", err)
	}
}

func TestLogin_MalformedPin_NotAttempted(t *testing.T) {
	a, _ := newAuthRepo(t)
	if _, err := a.Login("12ab"); !errors.Is(err, repository.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestLogin_IssuesResolvableSession(t *testing.T) {
	a, _ := newAuthRepo(t)
	if err := a.Setup(testSecret, model.ScopeChef, "1234"); err != nil {
		t.Fatal(err)
	}

	token, err := a.Login("1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	sess, err := a.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sess.Scope != model.ScopeChef {
		t.Errorf("expected chef scope, got %q", sess.Scope)
	}
}

func TestLogin_WrongPin_AuthFailed(t *testing.T) {
	a, _ := newAuthRepo(t)
	if err := a.Setup(testSecret, model.ScopeOwner, "1234"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Login("4321"); !errors.Is(err, repository.ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
}

func TestResolve_SlidesExpiry(t *testing.T) {
	a, cur := newAuthRepo(t)
	if err := a.Setup(testSecret, model.ScopeOwner, "1234"); err != nil {
		t.Fatal(err)
	}
	token, err := a.Login("1234")
	if err != nil {
		t.Fatal(err)
	}

	// 40 minutes in: still inside the 1h TTL; resolving must push the
	// expiry a full TTL forward.
	*cur = cur.Add(40 * time.Minute)
	if _, err := a.Resolve(token); err != nil {
		t.Fatalf("Resolve at 40m: %v", err)
	}

	// 40 more minutes: past the original expiry, inside the slid one.
	*cur = cur.Add(40 * time.Minute)
	if _, err := a.Resolve(token); err != nil {
		t.Errorf("expected slid session to still resolve, got %v", err)
	}
}

func TestResolve_ExpiredSession_FailsAndIsPurgedOnSave(t *testing.T) {
	a, cur := newAuthRepo(t)
	if err := a.Setup(testSecret, model.ScopeOwner, "1234"); err != nil {
		t.Fatal(err)
	}
	token, err := a.Login("1234")
	if err != nil {
		t.Fatal(err)
	}

	*cur = cur.Add(2 * time.Hour)
	if _, err := a.Resolve(token); !errors.Is(err, repository.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed on expired session, got %v", err)
	}

	// Any save sweeps; trigger one and inspect the document.
	if err := a.Store.Update(func(st *model.StoreState) error { return nil }); err != nil {
		t.Fatal(err)
	}
	_ = a.Store.View(func(st *model.StoreState) error {
		if _, ok := st.Sessions[token]; ok {
			t.Error("expected expired session to be purged on save")
		}
		return nil
	})
}

func TestLogout_Idempotent(t *testing.T) {
	a, _ := newAuthRepo(t)
	if err := a.Setup(testSecret, model.ScopeOwner, "1234"); err != nil {
		t.Fatal(err)
	}
	token, err := a.Login("1234")
	if err != nil {
		t.Fatal(err)
	}

	if err := a.Logout(token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := a.Logout(token); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if _, err := a.Resolve(token); !errors.Is(err, repository.ErrAuthFailed) {
		t.Errorf("expected logged-out token to fail resolution, got %v", err)
	}
}

func TestResetCredential_ChangesPinPreservesIdentity(t *testing.T) {
	a, _ := newAuthRepo(t)
	if err := a.Setup(testSecret, model.ScopeChef, "1234"); err != nil {
		t.Fatal(err)
	}

	var idBefore string
	_ = a.Store.View(func(st *model.StoreState) error {
		idBefore = st.Credentials[0].ID
		return nil
	})

	if err := a.ResetCredential(model.ScopeChef, "5678"); err != nil {
		t.Fatalf("ResetCredential: %v", err)
	}

	if _, err := a.Login("1234"); !errors.Is(err, repository.ErrAuthFailed) {
		t.Error("old PIN should no longer log in")
	}
	if _, err := a.Login("5678"); err != nil {
		t.Errorf("new PIN should log in, got %v", err)
	}

	_ = a.Store.View(func(st *model.StoreState) error {
		c := st.Credentials[0]
		if c.ID != idBefore {
			t.Error("reset must preserve the credential identifier")
		}
		if c.ResetAt == nil {
			t.Error("expected resetAt to be stamped")
		}
		return nil
	})
}

func TestResetCredential_UnknownSlot(t *testing.T) {
	a, _ := newAuthRepo(t)
	if err := a.ResetCredential(model.ScopeChef, "5678"); !errors.Is(err, repository.ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed for an empty slot, got %v", err)
	}
	if err := a.ResetCredential("butler", "5678"); !errors.Is(err, repository.ErrValidation) {
		t.Errorf("expected ErrValidation for an unknown scope, got %v", err)
	}
}

func TestStatus_ReportsCountsAndSetupFlag(t *testing.T) {
	a, _ := newAuthRepo(t)

	st, err := a.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st.CredentialCount != 0 || st.MaxCredentials != 2 || !st.SetupEnabled {
		t.Errorf("unexpected initial status: %+v", st)
	}

	if err := a.Setup(testSecret, model.ScopeOwner, "1234"); err != nil {
		t.Fatal(err)
	}
	st, _ = a.Status()
	if st.CredentialCount != 1 {
		t.Errorf("expected 1 credential, got %d", st.CredentialCount)
	}

	a.SetupSecret = ""
	st, _ = a.Status()
	if st.SetupEnabled {
		t.Error("expected setupEnabled=false when no secret is configured")
	}
}

func TestAuth_ToleratesNullEntriesInHandEditedDocument(t *testing.T) {
	// A parseable document may still hold literal nulls where
	// credentials or sessions belong; login and session lookup must
	// fail cleanly instead of crashing.
	path := filepath.Join(t.TempDir(), "commandes.json")
	doc := `{"credentials":[null],"sessions":{"tok":null}}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	s := store.New(path)
	a := &repository.AuthRepo{
		Store:       s,
		Sessions:    repository.NewPersistedSessionStore(s),
		SetupSecret: testSecret,
		MaxSlots:    2,
		BcryptCost:  bcrypt.MinCost,
		SessionTTL:  time.Hour,
	}

	if _, err := a.Login("1234"); !errors.Is(err, repository.ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed over null credential entry, got %v", err)
	}
	if _, err := a.Sessions.Get("tok"); !errors.Is(err, repository.ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed for null session entry, got %v", err)
	}
	if _, err := a.Resolve("tok"); !errors.Is(err, repository.ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed resolving null session entry, got %v", err)
	}
}

func TestMemorySessionStore_ExpiryAndDelete(t *testing.T) {
	cur := time.Now()
	m := repository.NewMemorySessionStore(func() time.Time { return cur })

	sess := &model.Session{Token: "t1", Scope: model.ScopeOwner, ExpiresAt: cur.Add(time.Hour)}
	if err := m.Put(sess); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get("t1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	cur = cur.Add(2 * time.Hour)
	if _, err := m.Get("t1"); !errors.Is(err, repository.ErrAuthFailed) {
		t.Errorf("expected expired session to fail, got %v", err)
	}
	if err := m.Delete("t1"); err != nil {
		t.Errorf("Delete after expiry should be a no-op, got %v", err)
	}
}

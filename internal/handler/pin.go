package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/maison-order-desk/internal/middleware"
	"github.com/iliyamo/maison-order-desk/internal/repository"
)

// PinHandler bundles dependencies for the PIN and session endpoints.
type PinHandler struct {
	Auth          *repository.AuthRepo
	SecureCookies bool
}

func NewPinHandler(auth *repository.AuthRepo, secureCookies bool) *PinHandler {
	return &PinHandler{Auth: auth, SecureCookies: secureCookies}
}

// ----- DTOs -----

type setupReq struct {
	SetupSecret string `json:"setupSecret"`
	Slot        string `json:"slot"`
	Pin         string `json:"pin"`
}
type loginReq struct {
	Pin string `json:"pin"`
}
type resetCredentialReq struct {
	Slot string `json:"slot"`
	Pin  string `json:"pin"`
}

// Status reports slot occupancy and whether setup is enabled. Public;
// it never says which scopes are taken.
func (h *PinHandler) Status(c echo.Context) error {
	st, err := h.Auth.Status()
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// Setup creates a PIN credential. Gated by the out-of-band setup
// secret, not by a session, so the first credential can be created on
// a fresh install.
func (h *PinHandler) Setup(c echo.Context) error {
	var req setupReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation_error", "invalid body")
	}
	if err := h.Auth.Setup(req.SetupSecret, req.Slot, req.Pin); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Login verifies the PIN and issues a session. The token travels both
// in the body (for bearer clients) and in an HTTP-only cookie. The
// response deliberately never reveals which slot matched.
func (h *PinHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation_error", "invalid body")
	}
	token, err := h.Auth.Login(req.Pin)
	if err != nil {
		return repoError(c, err)
	}
	c.SetCookie(h.sessionCookie(token, 0))
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "token": token})
}

// Logout deletes the current session and clears the cookie. Always
// succeeds: logging out twice is fine.
func (h *PinHandler) Logout(c echo.Context) error {
	if err := h.Auth.Logout(middleware.CurrentToken(c)); err != nil {
		return repoError(c, err)
	}
	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Me reports whether the request carries a live session. It returns
// 200 either way so front-ends can poll it without error handling.
func (h *PinHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"authenticated": middleware.CurrentScope(c) != "",
	})
}

// ResetCredential overwrites another slot's PIN. Owner-only at the
// route level.
func (h *PinHandler) ResetCredential(c echo.Context) error {
	var req resetCredentialReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation_error", "invalid body")
	}
	if err := h.Auth.ResetCredential(req.Slot, req.Pin); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// sessionCookie builds the session cookie. Behind TLS or a trusting
// proxy the cookie is Secure with SameSite=None so cross-origin
// front-ends can use it; otherwise SameSite=Lax.
//
// The cookie carries no expiry of its own (maxAge 0 on login, -1 to
// clear on logout): the session TTL slides server-side on every
// authenticated request, and a fixed browser-side MaxAge would drop
// the cookie mid-session under continuous use.
func (h *PinHandler) sessionCookie(token string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   maxAge,
	}
	if h.SecureCookies {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}
	return cookie
}

package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anime-dimension/api/internal/model"
	"github.com/anime-dimension/api/internal/repository"
	"github.com/anime-dimension/api/internal/utils"
)

const (
	sessionCookieName = "session_token"
	sessionTTL        = 24 * time.Hour
	maxUserSessions   = 10
)

// SessionHandler serves login, session validation and logout.
type SessionHandler struct {
	Users    UserStore
	Sessions SessionStore
}

func NewSessionHandler(u UserStore, s SessionStore) *SessionHandler {
	return &SessionHandler{Users: u, Sessions: s}
}

// ----- DTOs -----

type loginReq struct {
	Username   string `json:"_username"`
	Password   string `json:"_password"`
	RememberMe bool   `json:"_remember_me"`
}

type validateReq struct {
	Token string `json:"token"`
}

type csrfReq struct {
	CsrfToken string `json:"_csrf_token"`
}

type loginOKData struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

type loginOKMobileData struct {
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	SessionToken string `json:"session_token"`
}

type validateStateData struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login authenticates a user and opens a session. The response shape
// depends on the X-Platform header: web gets the token only via cookie,
// android/ios also get it in the body for native storage.
func (h *SessionHandler) Login(c echo.Context) error {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		return errJSON(c, http.StatusUnsupportedMediaType, "Request must be of type application/json")
	}

	var req loginReq
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		log.Printf("login: username or password missing")
		return errJSON(c, http.StatusBadRequest, "Username and password must be provided")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, req.Username)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !utils.VerifyPassword(req.Password, user.PasswordHash)) {
		// Wrong credentials intentionally answer 200: the site's login
		// form treats non-2xx as a transport failure and would retry.
		log.Printf("login: invalid attempt for username %q", req.Username)
		return errJSON(c, http.StatusOK, "Your username or password was incorrect")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while logging in")
	}

	// Static TFA trigger for the designated test account.
	if strings.EqualFold(user.Username, "testy") {
		return c.JSON(http.StatusBadRequest, okResponse{Status: "ok", Data: map[string]any{"tfa": true}})
	}

	now := time.Now().UTC()
	existing, err := h.Sessions.ListByUser(ctx, user.UserID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while logging in")
	}
	live := existing[:0]
	for _, s := range existing {
		if s.ExpiresAt.After(now) {
			live = append(live, s)
		}
	}
	if len(live) >= maxUserSessions {
		// ListByUser returns oldest first.
		if err := h.Sessions.DeleteByID(ctx, live[0].ID); err != nil {
			return errJSON(c, http.StatusInternalServerError, "An error occurred while logging in")
		}
	}

	session := model.UserSession{
		UserID:       user.UserID,
		SessionToken: utils.NewSessionToken(),
		CreatedAt:    now,
		ExpiresAt:    now.Add(sessionTTL),
	}
	if err := h.Sessions.Create(ctx, session); err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while logging in")
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    session.SessionToken,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   true,
		// SameSite=None so the separate frontend origin can send it.
		SameSite: http.SameSiteNoneMode,
		Path:     "/",
	})

	switch platform := c.Request().Header.Get("X-Platform"); platform {
	case "web":
		log.Printf("login: success (web) for user %s (%s)", user.UserID, user.Username)
		return okJSON(c, http.StatusOK, loginOKData{UserID: user.UserID, UserName: user.Username})
	case "android", "ios":
		log.Printf("login: success (%s) for user %s (%s)", platform, user.UserID, user.Username)
		return okJSON(c, http.StatusOK, loginOKMobileData{
			UserID: user.UserID, UserName: user.Username, SessionToken: session.SessionToken,
		})
	default:
		log.Printf("login: unsupported platform %q", platform)
		return errJSON(c, http.StatusBadRequest, "Unsupported platform")
	}
}

// ValidateState checks whether the caller holds a live session. The
// token is taken from the cookie first, then a JSON body, then a Bearer
// header.
func (h *SessionHandler) ValidateState(c echo.Context) error {
	token, fromCookie := h.sessionToken(c)
	if token == "" {
		return errJSON(c, http.StatusUnauthorized, "Missing session token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	session, err := h.Sessions.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && session.ExpiresAt.Before(time.Now().UTC())) {
		if fromCookie {
			clearSessionCookie(c)
		}
		return errJSON(c, http.StatusUnauthorized, "Invalid or expired session token")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while validating the session")
	}

	user, err := h.Users.GetByUserID(ctx, session.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("validateState: session valid but user %s not found", session.UserID)
		return errJSON(c, http.StatusNotFound, "Session is valid, but user not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while validating the session")
	}

	return okJSON(c, http.StatusOK, validateStateData{
		UserID: session.UserID, UserName: user.Username, ExpiresAt: session.ExpiresAt,
	})
}

// Logout closes the caller's session. Always answers ok: logging out
// without a session is not an error.
func (h *SessionHandler) Logout(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(sessionCookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req csrfReq
		if err := c.Bind(&req); err == nil {
			token = req.CsrfToken
		}
	}
	if token == "" {
		return okJSON(c, http.StatusOK, "No active session found.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.DeleteByToken(ctx, token); err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while logging out")
	}
	clearSessionCookie(c)
	return okJSON(c, http.StatusOK, nil)
}

// sessionToken extracts the session token for ValidateState and reports
// whether it came from the cookie.
func (h *SessionHandler) sessionToken(c echo.Context) (token string, fromCookie bool) {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	var req validateReq
	if err := c.Bind(&req); err == nil && req.Token != "" {
		return req.Token, false
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer "), false
	}
	return "", false
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		Path:     "/",
	})
}

// resolveUserFromSession maps the session cookie to its user, if the
// session is live. Shared by the user endpoints.
func resolveUserFromSession(ctx context.Context, c echo.Context, sessions SessionStore, users UserStore) (model.User, bool) {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return model.User{}, false
	}
	session, err := sessions.GetByToken(ctx, cookie.Value)
	if err != nil || session.ExpiresAt.Before(time.Now().UTC()) {
		return model.User{}, false
	}
	user, err := users.GetByUserID(ctx, session.UserID)
	if err != nil {
		return model.User{}, false
	}
	return user, true
}

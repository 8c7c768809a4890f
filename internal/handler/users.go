package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anime-dimension/api/internal/repository"
)

// UsersHandler serves the current-user endpoint, public profiles and
// avatar/banner uploads.
type UsersHandler struct {
	Users    UserStore
	Sessions SessionStore
	Profiles ProfileStore
}

func NewUsersHandler(u UserStore, s SessionStore, p ProfileStore) *UsersHandler {
	return &UsersHandler{Users: u, Sessions: s, Profiles: p}
}

// ----- DTOs -----

type userMeData struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	AvatarURL string `json:"avatar_url"`
	BannerURL string `json:"banner_url"`
}

type userProfileData struct {
	UserID       string           `json:"user_id"`
	UserName     string           `json:"user_name"`
	AvatarURL    string           `json:"avatar_url"`
	BannerURL    string           `json:"banner_url"`
	JoinedAt     string           `json:"joined_at"`
	WatchMinutes int64            `json:"watch_minutes"`
	Stats        any              `json:"stats"`
	Ratings      map[string]int64 `json:"ratings"`
	RatingsTotal int64            `json:"ratings_total"`
}

func avatarURL(userID string) string {
	return "/images/users/avatars/" + url.PathEscape(userID) + ".webp"
}

func bannerURL(userID string) string {
	return "/assets/images/users/backgrounds/" + url.PathEscape(userID) + ".webp"
}

// Me returns the account behind the session cookie.
func (h *UsersHandler) Me(c echo.Context) error {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return errJSON(c, http.StatusUnauthorized, "Not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	session, err := h.Sessions.GetByToken(ctx, cookie.Value)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && session.ExpiresAt.Before(time.Now().UTC())) {
		return errJSON(c, http.StatusUnauthorized, "Invalid or expired session")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while loading the account")
	}

	user, err := h.Users.GetByUserID(ctx, session.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while loading the account")
	}

	return okJSON(c, http.StatusOK, userMeData{
		UserID:    user.UserID,
		UserName:  user.Username,
		AvatarURL: avatarURL(user.UserID),
		BannerURL: bannerURL(user.UserID),
	})
}

// Profile returns the public profile for ?username=. The aggregate
// tables are created lazily on first read.
func (h *UsersHandler) Profile(c echo.Context) error {
	uname := strings.TrimSpace(c.QueryParam("username"))
	if uname == "" || !usernameRe.MatchString(uname) {
		return errJSON(c, http.StatusBadRequest, "Invalid or missing username")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, uname)
	if errors.Is(err, repository.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while loading the profile")
	}

	if err := h.Profiles.Ensure(ctx, user.UserID); err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while loading the profile")
	}
	profile, err := h.Profiles.Load(ctx, user.UserID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while loading the profile")
	}

	var ratingsTotal int64
	for _, n := range profile.Ratings {
		ratingsTotal += n
	}

	return okJSON(c, http.StatusOK, userProfileData{
		UserID:       user.UserID,
		UserName:     user.Username,
		AvatarURL:    avatarURL(user.UserID),
		BannerURL:    bannerURL(user.UserID),
		JoinedAt:     profile.JoinedAt,
		WatchMinutes: profile.MinutesWatched,
		Stats:        profile.Stats,
		Ratings:      profile.Ratings,
		RatingsTotal: ratingsTotal,
	})
}

// UploadAvatar stores the multipart "avatar" file for the session user.
func (h *UsersHandler) UploadAvatar(c echo.Context) error {
	return h.upload(c, "avatar", filepath.Join("images", "users", "avatars"), func(uid string) any {
		return map[string]string{"avatar_url": avatarURL(uid)}
	})
}

// UploadBanner stores the multipart "banner" file for the session user.
func (h *UsersHandler) UploadBanner(c echo.Context) error {
	return h.upload(c, "banner", filepath.Join("assets", "images", "users", "backgrounds"), func(uid string) any {
		return map[string]string{"banner_url": bannerURL(uid)}
	})
}

func (h *UsersHandler) upload(c echo.Context, field, outDir string, respond func(uid string) any) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	user, ok := resolveUserFromSession(ctx, c, h.Sessions, h.Users)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "Not authenticated")
	}

	fileHeader, err := c.FormFile(field)
	if err != nil || fileHeader.Size == 0 {
		return errJSON(c, http.StatusBadRequest, "Missing "+field+" file")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while saving the "+field)
	}
	defer src.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while saving the "+field)
	}
	dst, err := os.Create(filepath.Join(outDir, user.UserID+".webp"))
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while saving the "+field)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while saving the "+field)
	}

	return okJSON(c, http.StatusOK, respond(user.UserID))
}

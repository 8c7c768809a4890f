// Package router wires the API surface onto an Echo instance.
package router

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/anime-dimension/api/internal/handler"
)

// RegisterRoutes registers routes with no handler dependencies.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers signup, username validation and the session
// endpoints. rateLimit guards the credential-bearing routes; pass nil
// middleware to skip.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, s *handler.SessionHandler, rateLimit echo.MiddlewareFunc) {
	var guards []echo.MiddlewareFunc
	if rateLimit != nil {
		guards = append(guards, rateLimit)
	}

	e.PUT("/api/login", s.Login, guards...)
	e.PUT("/api/login/validateState", s.ValidateState)
	e.POST("/api/logout", s.Logout)

	g := e.Group("/api/auth", guards...)
	g.POST("/signup-token", a.SignupToken)
	g.POST("/signup", a.Signup)

	e.POST("/api/validation/username", a.ValidateUsername)
}

// RegisterCatalog registers the anime and suggestion endpoints. cache
// applies only to the GET detail route; the suggestion endpoints take
// form bodies invisible to the cache key.
func RegisterCatalog(e *echo.Echo, an *handler.AnimeHandler, sg *handler.SuggestionsHandler, cache echo.MiddlewareFunc) {
	var cached []echo.MiddlewareFunc
	if cache != nil {
		cached = append(cached, cache)
	}

	e.GET("/api/anime/by-slug/:slug", an.BySlug, cached...)
	e.POST("/api/anime/by-slug/:slug", an.BySlug)
	e.POST("/api/anime/all", an.All)

	g := e.Group("/api/suggestions")
	g.POST("/get", sg.Get)
	g.POST("/popular_this_week", sg.PopularThisWeek)
	g.POST("/this_season", sg.ThisSeason)
	g.POST("/get_related", sg.GetRelated)
}

// RegisterUsers registers the current-user, profile and upload routes.
func RegisterUsers(e *echo.Echo, u *handler.UsersHandler) {
	e.GET("/api/users/me", u.Me)
	e.GET("/api/users/profile", u.Profile)
	e.POST("/api/users/me/avatar", u.UploadAvatar)
	e.POST("/api/users/me/banner", u.UploadBanner)
}

// RegisterNotifications registers the announcement feed.
func RegisterNotifications(e *echo.Echo, n *handler.NotificationsHandler, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/api/notifications", n.List, cache)
		return
	}
	e.GET("/api/notifications", n.List)
}

// RegisterWeb registers the static site routes.
func RegisterWeb(e *echo.Echo, w *handler.WebHandler) {
	e.GET("/", w.RootRedirect)
	e.GET("/www", w.Www)
	e.GET("/www/*", w.WwwPath)
	e.GET("/css/*", w.Asset("css"))
	e.GET("/js/*", w.Asset("js"))
	e.GET("/assets/*", w.Asset("assets"))
	e.GET("/robots.txt", w.Robots)
}

// OriginLogger logs the Origin header of cross-site requests, mirroring
// the CORS diagnostics the frontend team relies on.
func OriginLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if origin := c.Request().Header.Get(echo.HeaderOrigin); origin != "" {
				log.Printf("request origin: %s path: %s", origin, c.Request().URL.Path)
			}
			return next(c)
		}
	}
}

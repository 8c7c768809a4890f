package router

import (
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// localhostPorts are the dev-server ports allowed to call the API from
// localhost: Astro 4321, Vite 5173/3000, custom 8080/3001, plus plain
// 80/443.
var localhostPorts = map[string]bool{
	"80": true, "443": true, "3000": true, "3001": true,
	"4321": true, "5173": true, "8080": true,
}

// CORS builds the cross-origin policy: the production domains and their
// subdomains, the Capacitor mobile shells, and local dev servers.
// Credentials are allowed because the web client authenticates with the
// session cookie.
func CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc:  originAllowed,
		AllowMethods:     []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowCredentials: true,
	})
}

func originAllowed(origin string) (bool, error) {
	if origin == "https://anime-dimension.com" ||
		strings.HasSuffix(strings.ToLower(origin), ".anime-dimension.com") {
		return true, nil
	}
	// Capacitor mobile shells (iOS and Android respectively).
	if origin == "capacitor://anime-dimension.com" || origin == "https://localhost.com" {
		return true, nil
	}

	if u, err := url.Parse(origin); err == nil {
		host := strings.ToLower(u.Hostname())
		if host == "localhost" || host == "127.0.0.1" {
			port := u.Port()
			if port == "" {
				if u.Scheme == "https" {
					port = "443"
				} else {
					port = "80"
				}
			}
			if localhostPorts[port] {
				return true, nil
			}
		}
	}

	return origin == "https://localhost", nil
}

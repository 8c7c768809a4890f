package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// WebHandler serves the prerendered site files from a directory tree.
// Files are resolved with the same candidate rules the static build
// links against: extensionless paths fall back to "{p}.html" and then
// "{p}/index.html".
type WebHandler struct {
	Root string
}

// NewWebHandler anchors the handler at root, resolved to an absolute
// path so the traversal check below has a stable prefix.
func NewWebHandler(root string) *WebHandler {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &WebHandler{Root: abs}
}

var contentTypes = map[string]string{
	".html":        "text/html; charset=utf-8",
	".htm":         "text/html; charset=utf-8",
	".css":         "text/css; charset=utf-8",
	".js":          "application/javascript; charset=utf-8",
	".mjs":         "application/javascript; charset=utf-8",
	".json":        "application/json; charset=utf-8",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".jpeg":        "image/jpeg",
	".gif":         "image/gif",
	".webp":        "image/webp",
	".svg":         "image/svg+xml",
	".txt":         "text/plain; charset=utf-8",
	".webmanifest": "application/manifest+json; charset=utf-8",
	".ico":         "image/x-icon",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
}

func contentTypeFor(p string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(p))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// resolve maps a relative request path to a file under Root. The
// candidate list is returned either way for the 404 debug payload.
func (h *WebHandler) resolve(relative string) (string, []string, bool) {
	relative = strings.TrimPrefix(strings.ReplaceAll(relative, "\\", "/"), "/")
	if strings.Contains(relative, "..") {
		return "", []string{}, false
	}

	var candidates []string
	switch {
	case strings.TrimSpace(relative) == "" || strings.HasSuffix(relative, "/"):
		candidates = append(candidates, filepath.Join(h.Root, relative, "index.html"))
	case path.Ext(relative) != "":
		candidates = append(candidates, filepath.Join(h.Root, relative))
	default:
		candidates = append(candidates,
			filepath.Join(h.Root, relative+".html"),
			filepath.Join(h.Root, relative, "index.html"))
	}

	for _, cand := range candidates {
		full, err := filepath.Abs(cand)
		if err != nil || !strings.HasPrefix(full, h.Root) {
			continue
		}
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			return full, candidates, true
		}
	}
	return "", candidates, false
}

func (h *WebHandler) notFound(c echo.Context, requested string, candidates []string) error {
	cwd, _ := os.Getwd()
	return c.JSON(http.StatusNotFound, map[string]any{
		"message":    "File not found",
		"requested":  requested,
		"root":       h.Root,
		"candidates": candidates,
		"cwd":        cwd,
	})
}

func (h *WebHandler) serve(c echo.Context, relative string) error {
	full, candidates, ok := h.resolve(relative)
	if !ok {
		return h.notFound(c, relative, candidates)
	}
	f, err := os.Open(full)
	if err != nil {
		return h.notFound(c, relative, candidates)
	}
	defer f.Close()
	return c.Stream(http.StatusOK, contentTypeFor(full), f)
}

// RootRedirect sends / to the site home.
func (h *WebHandler) RootRedirect(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/www")
}

// Www serves the site index.
func (h *WebHandler) Www(c echo.Context) error {
	return h.serve(c, "index.html")
}

// WwwPath serves pages under /www/.
func (h *WebHandler) WwwPath(c echo.Context) error {
	return h.serve(c, c.Param("*"))
}

// Asset serves one of the fixed asset folders (css, js, assets).
func (h *WebHandler) Asset(folder string) echo.HandlerFunc {
	return func(c echo.Context) error {
		rel := c.Param("*")
		if strings.TrimSpace(rel) == "" {
			return h.notFound(c, folder+"/", []string{})
		}
		return h.serve(c, path.Join(folder, rel))
	}
}

// Robots answers a fixed deny-all robots.txt; the file is not on disk.
func (h *WebHandler) Robots(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8",
		[]byte("User-agent: *\nDisallow: /\nCrawl-delay: 10\n"))
}

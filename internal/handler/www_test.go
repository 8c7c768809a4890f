package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWebRoot(t *testing.T) *WebHandler {
	t.Helper()
	root := t.TempDir()
	write := func(rel, body string) {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
	}
	write("index.html", "<html>home</html>")
	write("about.html", "<html>about</html>")
	write("anime/index.html", "<html>anime</html>")
	write("css/site.css", "body{}")
	write("assets/logo.webp", "RIFF")
	return NewWebHandler(root)
}

func TestWebResolveCandidates(t *testing.T) {
	t.Parallel()
	h := testWebRoot(t)

	t.Run("empty falls back to index", func(t *testing.T) {
		full, _, ok := h.resolve("")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(h.Root, "index.html"), full)
	})

	t.Run("extension served verbatim", func(t *testing.T) {
		full, candidates, ok := h.resolve("css/site.css")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(h.Root, "css", "site.css"), full)
		assert.Len(t, candidates, 1)
	})

	t.Run("extensionless tries html first", func(t *testing.T) {
		full, candidates, ok := h.resolve("about")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(h.Root, "about.html"), full)
		assert.Equal(t, []string{
			filepath.Join(h.Root, "about.html"),
			filepath.Join(h.Root, "about", "index.html"),
		}, candidates)
	})

	t.Run("extensionless falls back to dir index", func(t *testing.T) {
		full, _, ok := h.resolve("anime")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(h.Root, "anime", "index.html"), full)
	})

	t.Run("trailing slash means dir index", func(t *testing.T) {
		full, _, ok := h.resolve("anime/")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(h.Root, "anime", "index.html"), full)
	})

	t.Run("traversal rejected with no candidates", func(t *testing.T) {
		_, candidates, ok := h.resolve("foo/../bar")
		assert.False(t, ok)
		assert.Empty(t, candidates)
	})

	t.Run("missing file keeps candidates for debugging", func(t *testing.T) {
		_, candidates, ok := h.resolve("nope")
		assert.False(t, ok)
		assert.Len(t, candidates, 2)
	})
}

func TestWebContentTypes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "text/html; charset=utf-8", contentTypeFor("a/b.html"))
	assert.Equal(t, "text/css; charset=utf-8", contentTypeFor("site.CSS"))
	assert.Equal(t, "image/webp", contentTypeFor("logo.webp"))
	assert.Equal(t, "font/woff2", contentTypeFor("font.woff2"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("blob.bin"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("noext"))
}

func TestWebServe(t *testing.T) {
	t.Parallel()
	h := testWebRoot(t)
	e := echo.New()

	t.Run("www index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/www", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Www(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<html>home</html>", rec.Body.String())
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	})

	t.Run("www page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/www/about", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("*")
		c.SetParamValues("about")
		require.NoError(t, h.WwwPath(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<html>about</html>", rec.Body.String())
	})

	t.Run("404 debug payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/www/missing", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("*")
		c.SetParamValues("missing")
		require.NoError(t, h.WwwPath(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "File not found", body["message"])
		assert.Equal(t, "missing", body["requested"])
		assert.Equal(t, h.Root, body["root"])
		assert.Len(t, body["candidates"], 2)
		assert.NotEmpty(t, body["cwd"])
	})

	t.Run("asset folder", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/css/site.css", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("*")
		c.SetParamValues("site.css")
		require.NoError(t, h.Asset("css")(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body{}", rec.Body.String())
	})

	t.Run("asset folder bare path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/css/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("*")
		c.SetParamValues("")
		require.NoError(t, h.Asset("css")(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, []any{}, decodeBody(t, rec)["candidates"])
	})
}

func TestWebRootRedirect(t *testing.T) {
	t.Parallel()
	h := testWebRoot(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.RootRedirect(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/www", rec.Header().Get(echo.HeaderLocation))
}

func TestWebRobots(t *testing.T) {
	t.Parallel()
	h := testWebRoot(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Robots(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User-agent: *\nDisallow: /\nCrawl-delay: 10\n", rec.Body.String())
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anime-dimension/api/internal/repository"
)

// AnimeHandler serves catalog detail lookups. Mainly consumed by the
// static site generator; the published site ships prerendered pages.
type AnimeHandler struct {
	Catalog CatalogStore
}

func NewAnimeHandler(catalog CatalogStore) *AnimeHandler {
	return &AnimeHandler{Catalog: catalog}
}

// BySlug returns one catalog entry. Registered for both GET and POST.
func (h *AnimeHandler) BySlug(c echo.Context) error {
	slug := c.Param("slug")
	if strings.TrimSpace(slug) == "" {
		return catalogErrJSON(c, http.StatusBadRequest, "Invalid slug.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Catalog.AnimeBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return catalogErrJSON(c, http.StatusNotFound, "Anime not found.")
	}
	if err != nil {
		return problemJSON(c, "Failed to query anime: "+err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

// All returns the full catalog ordered by title.
func (h *AnimeHandler) All(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	list, err := h.Catalog.AllAnime(ctx)
	if err != nil {
		return problemJSON(c, "Failed to query anime: "+err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

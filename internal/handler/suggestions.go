package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anime-dimension/api/internal/model"
)

// SuggestionsHandler serves the form-encoded suggestion list endpoints
// the site's carousels post to.
type SuggestionsHandler struct {
	Catalog CatalogStore
}

func NewSuggestionsHandler(catalog CatalogStore) *SuggestionsHandler {
	return &SuggestionsHandler{Catalog: catalog}
}

type suggestionsResponse struct {
	Status  string             `json:"status"`
	List    []model.Suggestion `json:"list"`
	Success *bool              `json:"success,omitempty"`
	Season  *string            `json:"season,omitempty"`
}

// parseTotalRequested clamps the form's totalRequested to [1,60] with a
// default of 12 for missing, non-numeric or out-of-range-low values.
func parseTotalRequested(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 12
	}
	if n > 60 {
		return 60
	}
	return n
}

// Get lists suggestions alphabetically.
func (h *SuggestionsHandler) Get(c echo.Context) error {
	return h.list(c, model.SuggestionsByTitle, "Failed to query suggestions", includeSuccess())
}

// PopularThisWeek lists a random sample.
func (h *SuggestionsHandler) PopularThisWeek(c echo.Context) error {
	return h.list(c, model.SuggestionsRandom, "Failed to query popular")
}

// ThisSeason lists newest-year entries first and echoes the requested
// season back.
func (h *SuggestionsHandler) ThisSeason(c echo.Context) error {
	season := strings.ToLower(c.FormValue("season"))
	return h.list(c, model.SuggestionsNewestSeason, "Failed to query this season",
		includeSuccess(), withSeason(season))
}

// GetRelated depends on per-user watch history, which is not tracked
// yet. Answers an empty list so the carousel renders blank.
func (h *SuggestionsHandler) GetRelated(c echo.Context) error {
	resp := suggestionsResponse{Status: "ok", List: []model.Suggestion{}}
	includeSuccess()(&resp)
	return c.JSON(http.StatusOK, resp)
}

type suggestionsOpt func(*suggestionsResponse)

func includeSuccess() suggestionsOpt {
	return func(r *suggestionsResponse) {
		v := true
		r.Success = &v
	}
}

func withSeason(season string) suggestionsOpt {
	return func(r *suggestionsResponse) { r.Season = &season }
}

func (h *SuggestionsHandler) list(c echo.Context, order model.SuggestionOrder, errPrefix string, opts ...suggestionsOpt) error {
	limit := parseTotalRequested(c.FormValue("totalRequested"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	list, err := h.Catalog.Suggestions(ctx, model.SuggestionQuery{Limit: limit, Order: order})
	if err != nil {
		return problemJSON(c, errPrefix+": "+err.Error())
	}
	if list == nil {
		list = []model.Suggestion{}
	}

	resp := suggestionsResponse{Status: "ok", List: list}
	for _, opt := range opts {
		opt(&resp)
	}
	return c.JSON(http.StatusOK, resp)
}

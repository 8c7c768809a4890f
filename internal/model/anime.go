package model

// Anime is the catalog detail record returned by the anime endpoints.
// The JSON field names are a contract with the static site's client
// code and must not change. Optional columns of older catalog schemas
// surface as nil pointers, which serialize as JSON null.
type Anime struct {
	ID                int64   `json:"-"`
	Title             string  `json:"title"`
	Slug              string  `json:"slug"`
	ThumbnailURL      string  `json:"thumbnailUrl"`
	Summary           string  `json:"summary"`
	Year              string  `json:"year"`
	Type              string  `json:"type"`
	AltTitle          *string `json:"alt_title"`
	DataID            *string `json:"data_id"`
	DataEpisodeType   *string `json:"data_episode_type"`
	DataTotalEpisodes *string `json:"data_total_episodes"`
	Class             []string `json:"class"`
	Synopsis          *string `json:"synopsis"`
	Tags              []string `json:"tags"`
	AltText           *string `json:"alt_text"`
	Tooltip           *string `json:"tooltip"`
}

// Suggestion is the lightweight anime summary used by the suggestion
// list endpoints. Same contract rules as Anime: names are fixed, nil
// pointers serialize as null.
type Suggestion struct {
	ID                int64    `json:"id"`
	Slug              string   `json:"slug"`
	Title             string   `json:"title"`
	URL               *string  `json:"url"`
	ThumbnailURL      *string  `json:"thumbnailUrl"`
	Year              *string  `json:"year"`
	Type              *string  `json:"type"`
	AltTitle          *string  `json:"altTitle"`
	AltText           *string  `json:"altText"`
	Summary           *string  `json:"summary"`
	Synopsis          *string  `json:"synopsis"`
	Studio            *string  `json:"studio"`
	Rating            *float64 `json:"rating"`
	DataID            *int64   `json:"dataId"`
	DataEpisodeType   *string  `json:"dataEpisodeType"`
	DataTotalEpisodes *int64   `json:"dataTotalEpisodes"`
	Tags              []string `json:"tags"`
	Notes             []string `json:"notes"`
}

// SuggestionOrder selects the ordering applied by a suggestion query.
type SuggestionOrder int

const (
	// SuggestionsByTitle orders alphabetically by title.
	SuggestionsByTitle SuggestionOrder = iota
	// SuggestionsRandom shuffles with SQL RANDOM().
	SuggestionsRandom
	// SuggestionsNewestSeason puts rows with a 4-digit year first,
	// newest year first, then title.
	SuggestionsNewestSeason
)

// SuggestionQuery carries the parameters of a suggestion listing.
type SuggestionQuery struct {
	Limit int
	Order SuggestionOrder
}

package repository

import (
	"context"
	"database/sql"
	"math"
	"strings"

	"github.com/anime-dimension/api/internal/model"
)

// optionalSelect maps one optional result column to its SQL fragment.
// When the schema lacks the column, the absent fragment keeps the
// result position stable with a NULL literal so every schema version
// scans the same way.
type optionalSelect struct {
	present func(catalogSchema) bool
	expr    string
	absent  string
}

// Fixed result positions: 0 id, 1 slug, 2 title, 3 thumbnail,
// 4 alt_title, 5 alt_text, 6 synopsis, 7 year, 8 type, 9 data_id,
// 10 data_episode_type, 11 data_total_episodes, 12 studio,
// 13 rating_base, 14 tags_concat, 15 rating_avg, 16 notes_raw.
var suggestionColumns = []optionalSelect{
	{nil, `a.id`, ``},
	{nil, `a.slug`, ``},
	{nil, `a.title`, ``},
	{nil, `a.thumbnail_url`, ``},
	{nil, `a.alt_title`, ``},
	{func(s catalogSchema) bool { return s.hasAltText }, `a.alt_text`, `NULL AS alt_text`},
	{nil, `a.synopsis`, ``},
	{nil, `a."year"`, ``},
	{nil, `a."type"`, ``},
	{func(s catalogSchema) bool { return s.hasExternalID }, `MIN(e.external_numeric_id) AS data_id`, `NULL AS data_id`},
	{func(s catalogSchema) bool { return s.hasEpisodeType }, `a.data_episode_type`, `NULL AS data_episode_type`},
	{func(s catalogSchema) bool { return s.hasTotalEpisodes }, `a.data_total_episodes`, `NULL AS data_total_episodes`},
	{func(s catalogSchema) bool { return s.hasStudio }, `a.studio`, `NULL AS studio`},
	{func(s catalogSchema) bool { return s.hasRating }, `a.rating AS rating_base`, `NULL AS rating_base`},
	{func(s catalogSchema) bool { return s.hasTags }, `GROUP_CONCAT(t.name) AS tags_concat`, `NULL AS tags_concat`},
	{func(s catalogSchema) bool { return s.hasReviews }, `AVG(rv.rating) AS rating_avg`, `NULL AS rating_avg`},
	{func(s catalogSchema) bool { return s.hasNotes }, `a.notes AS notes_raw`, `NULL AS notes_raw`},
}

func (r *CatalogRepo) suggestionSQL(order model.SuggestionOrder) string {
	cols := make([]string, 0, len(suggestionColumns))
	for _, c := range suggestionColumns {
		if c.present == nil || c.present(r.schema) {
			cols = append(cols, c.expr)
		} else {
			cols = append(cols, c.absent)
		}
	}

	var from strings.Builder
	from.WriteString(` FROM anime a`)
	if r.schema.hasTags {
		from.WriteString(` LEFT JOIN anime_tag at ON at.anime_id = a.id LEFT JOIN tag t ON t.id = at.tag_id`)
	}
	if r.schema.hasReviews {
		from.WriteString(` LEFT JOIN review rv ON rv.anime_id = a.id`)
	}
	if r.schema.hasExternalID {
		from.WriteString(` LEFT JOIN external_id e ON e.anime_id = a.id`)
	}

	var orderBy string
	switch order {
	case model.SuggestionsRandom:
		orderBy = ` ORDER BY RANDOM()`
	case model.SuggestionsNewestSeason:
		orderBy = ` ORDER BY CASE WHEN a."year" GLOB '[0-9][0-9][0-9][0-9]*' THEN 0 ELSE 1 END, a."year" DESC, a.title ASC`
	default:
		orderBy = ` ORDER BY a.title`
	}

	return `SELECT ` + strings.Join(cols, ", ") + from.String() +
		` WHERE a.slug IS NOT NULL GROUP BY a.id` + orderBy + ` LIMIT ?`
}

// Suggestions lists catalog entries for the suggestion endpoints.
func (r *CatalogRepo) Suggestions(ctx context.Context, q model.SuggestionQuery) ([]model.Suggestion, error) {
	rows, err := r.DB.QueryContext(ctx, r.suggestionSQL(q.Order), q.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Suggestion
	for rows.Next() {
		var (
			id         int64
			slug       sql.NullString
			title      sql.NullString
			thumb      sql.NullString
			altTitle   sql.NullString
			altText    sql.NullString
			synopsis   sql.NullString
			year       sql.NullString
			typ        sql.NullString
			dataID     sql.NullInt64
			epType     sql.NullString
			totalEps   sql.NullInt64
			studio     sql.NullString
			ratingBase sql.NullFloat64
			tagsConcat sql.NullString
			ratingAvg  sql.NullFloat64
			notesRaw   sql.NullString
		)
		err := rows.Scan(&id, &slug, &title, &thumb, &altTitle, &altText, &synopsis,
			&year, &typ, &dataID, &epType, &totalEps, &studio, &ratingBase,
			&tagsConcat, &ratingAvg, &notesRaw)
		if err != nil {
			return nil, err
		}

		s := model.Suggestion{ID: id, Slug: slug.String}
		s.Title = s.Slug
		if title.Valid && title.String != "" {
			s.Title = title.String
		}
		url := "/anime/" + s.Slug + ".html"
		s.URL = &url
		s.ThumbnailURL = nullableString(thumb)
		s.Year = nullableString(year)
		s.Type = nullableString(typ)
		s.AltTitle = nullableString(altTitle)
		s.AltText = nullableString(altText)
		s.Summary = nullableString(synopsis)
		s.Synopsis = nullableString(synopsis)
		s.Studio = nullableString(studio)
		if dataID.Valid {
			v := dataID.Int64
			s.DataID = &v
		}
		s.DataEpisodeType = nullableString(epType)
		if totalEps.Valid {
			v := totalEps.Int64
			s.DataTotalEpisodes = &v
		}
		if ratingBase.Valid {
			v := ratingBase.Float64
			s.Rating = &v
		} else if ratingAvg.Valid {
			v := math.Round(ratingAvg.Float64*10) / 10
			s.Rating = &v
		}
		s.Tags = splitTags(tagsConcat.String)
		s.Notes = splitNotes(notesRaw.String)
		out = append(out, s)
	}
	return out, rows.Err()
}

// splitTags splits a GROUP_CONCAT value, trimming entries and dropping
// case-insensitive duplicates while keeping first-seen order. Returns
// nil for an empty input so the field serializes as null.
func splitTags(concat string) []string {
	if concat == "" {
		return nil
	}
	seen := make(map[string]bool)
	var tags []string
	for _, part := range strings.Split(concat, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := strings.ToLower(part)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, part)
	}
	return tags
}

// splitNotes splits a raw notes value on '|' or ','.
func splitNotes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var notes []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.TrimSpace(part)
		if part != "" {
			notes = append(notes, part)
		}
	}
	return notes
}

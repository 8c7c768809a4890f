package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/anime-dimension/api/internal/model"
	"github.com/anime-dimension/api/internal/utils"
)

// CatalogRepo serves the anime catalog database. The optional-column
// schema is introspected once at construction and cached for the life
// of the pool.
type CatalogRepo struct {
	DB     *sql.DB
	schema catalogSchema
}

// NewCatalogRepo introspects the catalog schema and returns a repo
// bound to it.
func NewCatalogRepo(ctx context.Context, db *sql.DB) (*CatalogRepo, error) {
	schema, err := loadCatalogSchema(ctx, db)
	if err != nil {
		return nil, err
	}
	return &CatalogRepo{DB: db, schema: schema}, nil
}

// AnimeBySlug loads the detail record for one slug. Returns ErrNotFound
// when no row matches.
func (r *CatalogRepo) AnimeBySlug(ctx context.Context, slug string) (model.Anime, error) {
	var sel strings.Builder
	sel.WriteString(`SELECT id, slug, title, alt_title, thumbnail_url, synopsis, "year", "type"`)
	if r.schema.hasAltText {
		sel.WriteString(`, alt_text`)
	}
	if r.schema.hasTooltip {
		sel.WriteString(`, tooltip`)
	}
	if r.schema.hasEpisodeType {
		sel.WriteString(`, data_episode_type`)
	}
	if r.schema.hasTotalEpisodes {
		sel.WriteString(`, data_total_episodes`)
	}
	sel.WriteString(` FROM anime WHERE slug = ? LIMIT 1`)

	var (
		a        model.Anime
		rowSlug  sql.NullString
		title    sql.NullString
		altTitle sql.NullString
		thumb    sql.NullString
		synopsis sql.NullString
		year     sql.NullString
		typ      sql.NullString
		altText  sql.NullString
		tooltip  sql.NullString
		epType   sql.NullString
		totalEps sql.NullInt64
	)
	dest := []any{&a.ID, &rowSlug, &title, &altTitle, &thumb, &synopsis, &year, &typ}
	if r.schema.hasAltText {
		dest = append(dest, &altText)
	}
	if r.schema.hasTooltip {
		dest = append(dest, &tooltip)
	}
	if r.schema.hasEpisodeType {
		dest = append(dest, &epType)
	}
	if r.schema.hasTotalEpisodes {
		dest = append(dest, &totalEps)
	}

	err := r.DB.QueryRowContext(ctx, sel.String(), slug).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Anime{}, ErrNotFound
	}
	if err != nil {
		return model.Anime{}, err
	}

	a.Slug = slug
	if rowSlug.Valid && rowSlug.String != "" {
		a.Slug = rowSlug.String
	}
	a.Title = a.Slug
	if title.Valid && title.String != "" {
		a.Title = title.String
	}
	a.ThumbnailURL = thumb.String
	a.Year = year.String
	a.Type = typ.String
	a.AltTitle = nullableString(altTitle)
	a.AltText = nullableString(altText)
	a.Synopsis = nullableString(synopsis)
	a.Summary = synopsis.String
	a.DataEpisodeType = nullableString(epType)
	if totalEps.Valid {
		v := strconv.FormatInt(totalEps.Int64, 10)
		a.DataTotalEpisodes = &v
	}

	// data_id lives in external_id keyed by anime_id in current
	// snapshots; older files have neither, which reads as null.
	if r.schema.hasExternalID {
		var ext sql.NullInt64
		err := r.DB.QueryRowContext(ctx,
			`SELECT external_numeric_id FROM external_id WHERE anime_id = ? ORDER BY id ASC LIMIT 1`,
			a.ID).Scan(&ext)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return model.Anime{}, err
		}
		if ext.Valid {
			v := strconv.FormatInt(ext.Int64, 10)
			a.DataID = &v
		}
	}

	if r.schema.hasTags {
		tags, err := r.tagsFor(ctx, a.ID)
		if err != nil {
			return model.Anime{}, err
		}
		a.Tags = tags
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}

	tip := tooltip.String
	if strings.TrimSpace(tip) == "" {
		tip = utils.SynthesizeTooltip(a.Title, a.Type, a.Year, synopsis.String, a.Tags)
	}
	a.Tooltip = &tip

	return a, nil
}

// AllAnime returns every catalog entry ordered by title.
func (r *CatalogRepo) AllAnime(ctx context.Context) ([]model.Anime, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT slug FROM anime WHERE slug IS NOT NULL ORDER BY title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Anime, 0, len(slugs))
	for _, slug := range slugs {
		a, err := r.AnimeBySlug(ctx, slug)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *CatalogRepo) tagsFor(ctx context.Context, animeID int64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT t.name FROM tag t
		 JOIN anime_tag at ON at.tag_id = t.id
		 WHERE at.anime_id = ? ORDER BY t.name`, animeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

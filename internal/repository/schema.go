package repository

import (
	"context"
	"database/sql"
)

// catalogSchema records which optional columns and tables the catalog
// database actually has. The catalog file is produced by an external
// pipeline whose schema has grown over time, so older snapshots miss
// columns like tooltip or studio and tables like review. Queries adapt
// their column lists and joins to what is present instead of failing.
type catalogSchema struct {
	// optional anime columns
	hasAltText       bool
	hasTooltip       bool
	hasEpisodeType   bool
	hasTotalEpisodes bool
	hasStudio        bool
	hasRating        bool
	hasNotes         bool

	// optional tables
	hasTags       bool // tag + anime_tag
	hasReviews    bool
	hasExternalID bool
}

// loadCatalogSchema introspects the catalog database once. The result
// is cached on the repository for the life of the connection.
func loadCatalogSchema(ctx context.Context, db *sql.DB) (catalogSchema, error) {
	var s catalogSchema

	cols, err := animeColumns(ctx, db)
	if err != nil {
		return s, err
	}
	s.hasAltText = cols["alt_text"]
	s.hasTooltip = cols["tooltip"]
	s.hasEpisodeType = cols["data_episode_type"]
	s.hasTotalEpisodes = cols["data_total_episodes"]
	s.hasStudio = cols["studio"]
	s.hasRating = cols["rating"]
	s.hasNotes = cols["notes"]

	tables, err := catalogTables(ctx, db)
	if err != nil {
		return s, err
	}
	s.hasTags = tables["tag"] && tables["anime_tag"]
	s.hasReviews = tables["review"]
	s.hasExternalID = tables["external_id"]
	return s, nil
}

func animeColumns(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `PRAGMA table_info(anime)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

func catalogTables(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name IN ('tag', 'anime_tag', 'review', 'external_id')`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables[name] = true
	}
	return tables, rows.Err()
}

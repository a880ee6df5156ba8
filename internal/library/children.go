package library

import (
	"context"
	"fmt"
	"strings"
)

// childBatchSize bounds the number of ids in one IN (...) clause.
const childBatchSize = 500

func insertChildren(ctx context.Context, q querier, episodeID int64, e *Episode) error {
	for i, x := range e.ExternalIDs {
		_, err := q.ExecContext(ctx, `
			INSERT INTO episode_external_ids (episode_id, provider_id, position, data_id, link)
			VALUES (?, ?, ?, ?, ?)`,
			episodeID, x.ProviderID, i, x.DataID, x.Link,
		)
		if err != nil {
			return fmt.Errorf("insert external id %s/%s: %w", x.Provider.Slug, x.DataID, mapSQLiteError(err))
		}
	}
	for i, tr := range e.Tracks {
		lang := tr.Language
		if lang == "" {
			lang = UndefinedLanguage
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO tracks (episode_id, position, type, title, language, codec, is_default, is_forced, path)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			episodeID, i, tr.Type, tr.Title, lang, tr.Codec, tr.IsDefault, tr.IsForced, tr.Path,
		)
		if err != nil {
			return fmt.Errorf("insert track %d: %w", i, mapSQLiteError(err))
		}
	}
	return nil
}

func deleteChildren(ctx context.Context, q querier, episodeID int64) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM episode_external_ids WHERE episode_id = ?", episodeID); err != nil {
		return fmt.Errorf("delete external ids of episode %d: %w", episodeID, mapSQLiteError(err))
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM tracks WHERE episode_id = ?", episodeID); err != nil {
		return fmt.Errorf("delete tracks of episode %d: %w", episodeID, mapSQLiteError(err))
	}
	return nil
}

// loadChildren fills ExternalIDs and Tracks of the given episodes,
// querying in batches of childBatchSize ids.
func loadChildren(ctx context.Context, q querier, episodes []*Episode) error {
	byID := make(map[int64]*Episode, len(episodes))
	for _, e := range episodes {
		byID[e.ID] = e
	}

	for start := 0; start < len(episodes); start += childBatchSize {
		end := min(start+childBatchSize, len(episodes))
		placeholders := make([]string, 0, end-start)
		args := make([]any, 0, end-start)
		for _, e := range episodes[start:end] {
			placeholders = append(placeholders, "?")
			args = append(args, e.ID)
		}
		in := strings.Join(placeholders, ",")

		if err := loadExternalIDs(ctx, q, in, args, byID); err != nil {
			return err
		}
		if err := loadTracks(ctx, q, in, args, byID); err != nil {
			return err
		}
	}
	return nil
}

func loadExternalIDs(ctx context.Context, q querier, in string, args []any, byID map[int64]*Episode) error {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`
		SELECT x.episode_id, x.provider_id, p.slug, p.name, p.logo, x.data_id, x.link
		FROM episode_external_ids x JOIN providers p ON p.id = x.provider_id
		WHERE x.episode_id IN (%s)
		ORDER BY x.episode_id, x.position`, in), args...)
	if err != nil {
		return fmt.Errorf("load external ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var episodeID int64
		var x ExternalID
		if err := rows.Scan(&episodeID, &x.ProviderID, &x.Provider.Slug, &x.Provider.Name, &x.Provider.Logo, &x.DataID, &x.Link); err != nil {
			return fmt.Errorf("scan external id: %w", err)
		}
		x.Provider.ID = x.ProviderID
		if e, ok := byID[episodeID]; ok {
			e.ExternalIDs = append(e.ExternalIDs, x)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate external ids: %w", err)
	}
	return nil
}

func loadTracks(ctx context.Context, q querier, in string, args []any, byID map[int64]*Episode) error {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`
		SELECT episode_id, type, title, language, codec, is_default, is_forced, path
		FROM tracks
		WHERE episode_id IN (%s)
		ORDER BY episode_id, position`, in), args...)
	if err != nil {
		return fmt.Errorf("load tracks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var episodeID int64
		var tr Track
		if err := rows.Scan(&episodeID, &tr.Type, &tr.Title, &tr.Language, &tr.Codec, &tr.IsDefault, &tr.IsForced, &tr.Path); err != nil {
			return fmt.Errorf("scan track: %w", err)
		}
		if e, ok := byID[episodeID]; ok {
			e.Tracks = append(e.Tracks, tr)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate tracks: %w", err)
	}
	return nil
}

package library

import (
	"context"
	"fmt"
	"strings"
)

const episodeSelect = `
	SELECT e.id, e.slug, e.show_id, s.slug, e.season_id, e.season_number, e.episode_number,
		e.absolute_number, e.title, e.overview, e.path, e.thumb, e.runtime, e.release_date
	FROM episodes e JOIN shows s ON s.id = e.show_id`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEpisode(sc scanner) (*Episode, error) {
	e := &Episode{}
	err := sc.Scan(&e.ID, &e.Slug, &e.ShowID, &e.ShowSlug, &e.SeasonID, &e.SeasonNumber, &e.EpisodeNumber,
		&e.AbsoluteNumber, &e.Title, &e.Overview, &e.Path, &e.Thumb, &e.Runtime, &e.ReleaseDate)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func addEpisode(ctx context.Context, q querier, e *Episode) error {
	if e.Slug == "" {
		e.Slug = EpisodeSlug(e.ShowSlug, e.SeasonNumber, e.EpisodeNumber)
	}
	result, err := q.ExecContext(ctx, `
		INSERT INTO episodes (slug, show_id, season_id, season_number, episode_number, absolute_number,
			title, overview, path, thumb, runtime, release_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Slug, e.ShowID, e.SeasonID, e.SeasonNumber, e.EpisodeNumber, e.AbsoluteNumber,
		e.Title, e.Overview, e.Path, e.Thumb, e.Runtime, e.ReleaseDate,
	)
	if err != nil {
		return fmt.Errorf("insert episode %s: %w", e.Slug, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	if err := insertChildren(ctx, q, id, e); err != nil {
		return err
	}
	e.ID = id
	return nil
}

// AddEpisode inserts an episode with its external ids and tracks in one transaction.
// Sets ID on the struct. Returns ErrDuplicate when the slug or
// (show, season, episode) already exists.
func (s *Store) AddEpisode(ctx context.Context, e *Episode) error {
	return s.WithTx(ctx, func(tx *Tx) error { return tx.AddEpisode(ctx, e) })
}

// AddEpisode inserts an episode and its children within a transaction.
func (t *Tx) AddEpisode(ctx context.Context, e *Episode) error { return addEpisode(ctx, t.tx, e) }

func getEpisode(ctx context.Context, q querier, where string, args ...any) (*Episode, error) {
	e, err := scanEpisode(q.QueryRowContext(ctx, episodeSelect+" WHERE "+where, args...))
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	if err := loadChildren(ctx, q, []*Episode{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// GetEpisode retrieves an episode with its children by ID.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) GetEpisode(ctx context.Context, id int64) (*Episode, error) {
	e, err := getEpisode(ctx, s.db, "e.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get episode %d: %w", id, err)
	}
	return e, nil
}

// GetEpisode retrieves an episode by ID within a transaction.
func (t *Tx) GetEpisode(ctx context.Context, id int64) (*Episode, error) {
	e, err := getEpisode(ctx, t.tx, "e.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get episode %d: %w", id, err)
	}
	return e, nil
}

// FindEpisode retrieves an episode by its show slug and numbers.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) FindEpisode(ctx context.Context, showSlug string, season, episode int) (*Episode, error) {
	e, err := getEpisode(ctx, s.db, "s.slug = ? AND e.season_number = ? AND e.episode_number = ?",
		showSlug, season, episode)
	if err != nil {
		return nil, fmt.Errorf("find episode %s: %w", EpisodeSlug(showSlug, season, episode), err)
	}
	return e, nil
}

func listEpisodes(ctx context.Context, q querier, f EpisodeFilter) ([]*Episode, int, error) {
	var conditions []string
	var args []any

	if f.ShowID != nil {
		conditions = append(conditions, "e.show_id = ?")
		args = append(args, *f.ShowID)
	}
	if f.ShowSlug != nil {
		conditions = append(conditions, "s.slug = ?")
		args = append(args, *f.ShowSlug)
	}
	if f.SeasonID != nil {
		conditions = append(conditions, "e.season_id = ?")
		args = append(args, *f.SeasonID)
	}
	if f.SeasonNumber != nil {
		conditions = append(conditions, "e.season_number = ?")
		args = append(args, *f.SeasonNumber)
	}
	if f.Title != nil {
		conditions = append(conditions, foldFunc+"(e.title) LIKE ? ESCAPE '\\'")
		args = append(args, "%"+EscapeLike(Fold(*f.Title))+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM episodes e JOIN shows s ON s.id = e.show_id" + whereClause
	if err := q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count episodes: %w", err)
	}

	query := episodeSelect + whereClause + " ORDER BY e.show_id, e.season_number, e.episode_number"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	results, err := queryEpisodes(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	if err := loadChildren(ctx, q, results); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// queryEpisodes reads every row before returning so the connection is free
// for the child queries that follow.
func queryEpisodes(ctx context.Context, q querier, query string, args ...any) ([]*Episode, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return results, nil
}

// ListEpisodes returns episodes matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListEpisodes(ctx context.Context, f EpisodeFilter) ([]*Episode, int, error) {
	return listEpisodes(ctx, s.db, f)
}

// ListEpisodes returns episodes matching the filter within a transaction.
func (t *Tx) ListEpisodes(ctx context.Context, f EpisodeFilter) ([]*Episode, int, error) {
	return listEpisodes(ctx, t.tx, f)
}

func updateEpisode(ctx context.Context, q querier, e *Episode) error {
	if e.Slug == "" {
		e.Slug = EpisodeSlug(e.ShowSlug, e.SeasonNumber, e.EpisodeNumber)
	}
	result, err := q.ExecContext(ctx, `
		UPDATE episodes SET slug = ?, show_id = ?, season_id = ?, season_number = ?, episode_number = ?,
			absolute_number = ?, title = ?, overview = ?, path = ?, thumb = ?, runtime = ?, release_date = ?
		WHERE id = ?`,
		e.Slug, e.ShowID, e.SeasonID, e.SeasonNumber, e.EpisodeNumber,
		e.AbsoluteNumber, e.Title, e.Overview, e.Path, e.Thumb, e.Runtime, e.ReleaseDate, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update episode %d: %w", e.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update episode %d: %w", e.ID, ErrNotFound)
	}
	if err := deleteChildren(ctx, q, e.ID); err != nil {
		return err
	}
	return insertChildren(ctx, q, e.ID, e)
}

// UpdateEpisode rewrites an episode and replaces its external ids and tracks
// in one transaction.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) UpdateEpisode(ctx context.Context, e *Episode) error {
	return s.WithTx(ctx, func(tx *Tx) error { return tx.UpdateEpisode(ctx, e) })
}

// UpdateEpisode updates an episode and its children within a transaction.
func (t *Tx) UpdateEpisode(ctx context.Context, e *Episode) error { return updateEpisode(ctx, t.tx, e) }

func deleteEpisode(ctx context.Context, q querier, id int64) error {
	if err := deleteChildren(ctx, q, id); err != nil {
		return err
	}
	result, err := q.ExecContext(ctx, "DELETE FROM episodes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete episode %d: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete episode %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteEpisode removes an episode and its children in one transaction.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) DeleteEpisode(ctx context.Context, id int64) error {
	return s.WithTx(ctx, func(tx *Tx) error { return tx.DeleteEpisode(ctx, id) })
}

// DeleteEpisode removes an episode and its children within a transaction.
func (t *Tx) DeleteEpisode(ctx context.Context, id int64) error { return deleteEpisode(ctx, t.tx, id) }

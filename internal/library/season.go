package library

import (
	"context"
	"fmt"
)

func addSeason(ctx context.Context, q querier, se *Season) error {
	result, err := q.ExecContext(ctx, `
		INSERT INTO seasons (show_id, season_number, title)
		VALUES (?, ?, ?)`,
		se.ShowID, se.SeasonNumber, se.Title,
	)
	if err != nil {
		return fmt.Errorf("insert season %d of show %d: %w", se.SeasonNumber, se.ShowID, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	se.ID = id
	return nil
}

// AddSeason inserts a new season. Sets ID on the struct.
func (s *Store) AddSeason(ctx context.Context, se *Season) error { return addSeason(ctx, s.db, se) }

// GetSeason retrieves a season by ID.
// Returns ErrNotFound if the season does not exist.
func (s *Store) GetSeason(ctx context.Context, id int64) (*Season, error) {
	se := &Season{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, show_id, season_number, title FROM seasons WHERE id = ?`, id,
	).Scan(&se.ID, &se.ShowID, &se.SeasonNumber, &se.Title)
	if err != nil {
		return nil, fmt.Errorf("get season %d: %w", id, mapSQLiteError(err))
	}
	return se, nil
}

// FindSeason retrieves the season of a show by number.
// Returns ErrNotFound if the show has no such season.
func (s *Store) FindSeason(ctx context.Context, showID int64, seasonNumber int) (*Season, error) {
	se := &Season{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, show_id, season_number, title FROM seasons
		WHERE show_id = ? AND season_number = ?`, showID, seasonNumber,
	).Scan(&se.ID, &se.ShowID, &se.SeasonNumber, &se.Title)
	if err != nil {
		return nil, fmt.Errorf("find season %d of show %d: %w", seasonNumber, showID, mapSQLiteError(err))
	}
	return se, nil
}

// ListSeasons returns the seasons of a show ordered by number.
func (s *Store) ListSeasons(ctx context.Context, showID int64) ([]*Season, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, show_id, season_number, title FROM seasons
		WHERE show_id = ? ORDER BY season_number`, showID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Season
	for rows.Next() {
		se := &Season{}
		if err := rows.Scan(&se.ID, &se.ShowID, &se.SeasonNumber, &se.Title); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		results = append(results, se)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasons: %w", err)
	}
	return results, nil
}

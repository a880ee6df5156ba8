package library

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const showColumns = "id, slug, title, overview, start_year, added_at"

func addShow(ctx context.Context, q querier, sh *Show) error {
	if sh.Slug == "" {
		sh.Slug = Slugify(sh.Title)
	}
	if sh.Slug == "" {
		return fmt.Errorf("insert show %q: empty slug: %w", sh.Title, ErrConstraint)
	}
	now := time.Now()
	result, err := q.ExecContext(ctx, `
		INSERT INTO shows (slug, title, overview, start_year, added_at)
		VALUES (?, ?, ?, ?, ?)`,
		sh.Slug, sh.Title, sh.Overview, sh.StartYear, now,
	)
	if err != nil {
		return fmt.Errorf("insert show %s: %w", sh.Slug, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	sh.ID = id
	sh.AddedAt = now
	return nil
}

// AddShow inserts a new show. The slug is derived from the title when empty.
// Sets ID, Slug and AddedAt on the struct.
func (s *Store) AddShow(ctx context.Context, sh *Show) error { return addShow(ctx, s.db, sh) }

// AddShow inserts a new show within a transaction.
func (t *Tx) AddShow(ctx context.Context, sh *Show) error { return addShow(ctx, t.tx, sh) }

func getShow(ctx context.Context, q querier, where string, arg any) (*Show, error) {
	sh := &Show{}
	err := q.QueryRowContext(ctx, "SELECT "+showColumns+" FROM shows WHERE "+where, arg).
		Scan(&sh.ID, &sh.Slug, &sh.Title, &sh.Overview, &sh.StartYear, &sh.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("get show %v: %w", arg, mapSQLiteError(err))
	}
	return sh, nil
}

// GetShow retrieves a show by ID.
// Returns ErrNotFound if the show does not exist.
func (s *Store) GetShow(ctx context.Context, id int64) (*Show, error) {
	return getShow(ctx, s.db, "id = ?", id)
}

// GetShow retrieves a show by ID within a transaction.
func (t *Tx) GetShow(ctx context.Context, id int64) (*Show, error) {
	return getShow(ctx, t.tx, "id = ?", id)
}

// GetShowBySlug retrieves a show by slug.
// Returns ErrNotFound if the show does not exist.
func (s *Store) GetShowBySlug(ctx context.Context, slug string) (*Show, error) {
	return getShow(ctx, s.db, "slug = ?", slug)
}

func listShows(ctx context.Context, q querier, f ShowFilter) ([]*Show, int, error) {
	var conditions []string
	var args []any

	if f.Title != nil {
		conditions = append(conditions, foldFunc+"(title) LIKE ? ESCAPE '\\'")
		args = append(args, "%"+EscapeLike(Fold(*f.Title))+"%")
	}
	if f.StartYear != nil {
		conditions = append(conditions, "start_year = ?")
		args = append(args, *f.StartYear)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM shows "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count shows: %w", err)
	}

	query := "SELECT " + showColumns + " FROM shows " + whereClause + " ORDER BY title, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list shows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Show
	for rows.Next() {
		sh := &Show{}
		if err := rows.Scan(&sh.ID, &sh.Slug, &sh.Title, &sh.Overview, &sh.StartYear, &sh.AddedAt); err != nil {
			return nil, 0, fmt.Errorf("scan show: %w", err)
		}
		results = append(results, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate shows: %w", err)
	}

	return results, total, nil
}

// ListShows returns shows matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListShows(ctx context.Context, f ShowFilter) ([]*Show, int, error) {
	return listShows(ctx, s.db, f)
}

func deleteShow(ctx context.Context, q querier, id int64) error {
	_, err := q.ExecContext(ctx, "DELETE FROM shows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete show %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteShow removes a show by ID. Seasons and episodes cascade.
// This operation is idempotent - no error is returned if the show does not exist.
func (s *Store) DeleteShow(ctx context.Context, id int64) error { return deleteShow(ctx, s.db, id) }

// EscapeLike escapes the LIKE wildcards in s for use with ESCAPE '\'.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

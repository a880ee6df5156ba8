package library

import (
	"context"
	"database/sql"
	"fmt"
)

// ProviderStore persists metadata providers.
type ProviderStore struct {
	db *sql.DB
}

// NewProviderStore creates a new provider store.
func NewProviderStore(db *sql.DB) *ProviderStore {
	return &ProviderStore{db: db}
}

// CreateIfNotExists returns the ID of the provider with p's slug, inserting
// it first if needed. The slug is derived from the name when empty.
// Safe under concurrent callers: the slug unique index decides the winner
// and every caller reads back the same row.
func (s *ProviderStore) CreateIfNotExists(ctx context.Context, p Provider) (int64, error) {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if p.Slug == "" {
		return 0, fmt.Errorf("provider without name or slug: %w", ErrConstraint)
	}
	if p.Name == "" {
		p.Name = p.Slug
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO providers (slug, name, logo) VALUES (?, ?, ?)
		ON CONFLICT(slug) DO NOTHING`,
		p.Slug, p.Name, p.Logo,
	)
	if err != nil {
		return 0, fmt.Errorf("insert provider %s: %w", p.Slug, mapSQLiteError(err))
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, "SELECT id FROM providers WHERE slug = ?", p.Slug).Scan(&id); err != nil {
		return 0, fmt.Errorf("get provider %s: %w", p.Slug, mapSQLiteError(err))
	}
	return id, nil
}

// GetBySlug retrieves a provider by slug.
// Returns ErrNotFound if the provider does not exist.
func (s *ProviderStore) GetBySlug(ctx context.Context, slug string) (*Provider, error) {
	p := &Provider{}
	err := s.db.QueryRowContext(ctx, "SELECT id, slug, name, logo FROM providers WHERE slug = ?", slug).
		Scan(&p.ID, &p.Slug, &p.Name, &p.Logo)
	if err != nil {
		return nil, fmt.Errorf("get provider %s: %w", slug, mapSQLiteError(err))
	}
	return p, nil
}

// List returns every provider ordered by slug.
func (s *ProviderStore) List(ctx context.Context) ([]*Provider, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, slug, name, logo FROM providers ORDER BY slug")
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Provider
	for rows.Next() {
		p := &Provider{}
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Logo); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

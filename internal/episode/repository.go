// Package episode implements the slug-addressed episode repository:
// lookups, idempotent creation, sparse edits and cascading deletes.
package episode

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/hbollon/go-edlib"
	"golang.org/x/sync/errgroup"

	"github.com/jess-sol/kyoo/internal/events"
	"github.com/jess-sol/kyoo/internal/library"
)

// SearchLimit caps the number of episodes Search returns.
const SearchLimit = 20

// Repository manages episodes on top of a Gateway.
type Repository struct {
	store     Gateway
	providers ProviderResolver
	events    Publisher
	log       *slog.Logger
}

// NewRepository creates a repository. publisher may be nil.
func NewRepository(store Gateway, providers ProviderResolver, publisher Publisher, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		store:     store,
		providers: providers,
		events:    publisher,
		log:       logger.With("component", "episode"),
	}
}

// Get returns the episode with the given ID, or nil if there is none.
func (r *Repository) Get(ctx context.Context, id int64) (*library.Episode, error) {
	e, err := r.store.GetEpisode(ctx, id)
	if errors.Is(err, library.ErrNotFound) {
		return nil, nil
	}
	return e, err
}

// GetBySlug parses slug and returns the matching episode, or nil if there
// is none. Malformed slugs fail with ErrInvalidFormat.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*library.Episode, error) {
	show, season, episode, err := ParseSlug(slug)
	if err != nil {
		return nil, err
	}
	return r.GetByNumber(ctx, show, season, episode)
}

// GetByNumber returns the episode of a show by season and episode number,
// or nil if there is none.
func (r *Repository) GetByNumber(ctx context.Context, showSlug string, season, episode int) (*library.Episode, error) {
	e, err := r.store.FindEpisode(ctx, showSlug, season, episode)
	if errors.Is(err, library.ErrNotFound) {
		return nil, nil
	}
	return e, err
}

// Search returns up to SearchLimit episodes whose title contains query,
// ignoring case. The first SearchLimit matches in show order are kept and
// ranked closest title first.
func (r *Repository) Search(ctx context.Context, query string) ([]*library.Episode, error) {
	found, _, err := r.store.ListEpisodes(ctx, library.EpisodeFilter{Title: &query, Limit: SearchLimit})
	if err != nil {
		return nil, err
	}

	q := library.Fold(query)
	scores := make(map[int64]float32, len(found))
	for _, e := range found {
		scores[e.ID] = edlib.JaroWinklerSimilarity(q, library.Fold(e.Title))
	}
	slices.SortStableFunc(found, func(a, b *library.Episode) int {
		if c := cmp.Compare(scores[b.ID], scores[a.ID]); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return nonNil(found), nil
}

// GetAll returns every episode.
func (r *Repository) GetAll(ctx context.Context) ([]*library.Episode, error) {
	return r.list(ctx, library.EpisodeFilter{})
}

// GetEpisodes returns the episodes of one season of a show.
func (r *Repository) GetEpisodes(ctx context.Context, showID int64, season int) ([]*library.Episode, error) {
	return r.list(ctx, library.EpisodeFilter{ShowID: &showID, SeasonNumber: &season})
}

// GetEpisodesByShowSlug returns the episodes of one season of a show
// addressed by its slug.
func (r *Repository) GetEpisodesByShowSlug(ctx context.Context, showSlug string, season int) ([]*library.Episode, error) {
	return r.list(ctx, library.EpisodeFilter{ShowSlug: &showSlug, SeasonNumber: &season})
}

// GetSeasonEpisodes returns the episodes attached to a season row.
func (r *Repository) GetSeasonEpisodes(ctx context.Context, seasonID int64) ([]*library.Episode, error) {
	return r.list(ctx, library.EpisodeFilter{SeasonID: &seasonID})
}

func (r *Repository) list(ctx context.Context, f library.EpisodeFilter) ([]*library.Episode, error) {
	found, _, err := r.store.ListEpisodes(ctx, f)
	if err != nil {
		return nil, err
	}
	return nonNil(found), nil
}

// Create validates e and stores it with its external ids and tracks.
// Sets ID, Slug, ShowSlug and SeasonID on e and returns the new ID.
// Fails with ErrDuplicateItem when the slug is taken.
func (r *Repository) Create(ctx context.Context, e *library.Episode) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("create episode: nil episode: %w", ErrInvalidArgument)
	}
	if err := r.Validate(ctx, e); err != nil {
		return 0, err
	}

	if err := r.store.AddEpisode(ctx, e); err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			return 0, fmt.Errorf("episode %s: %w", e.Slug, ErrDuplicateItem)
		}
		return 0, err
	}

	r.log.Info("episode created", "id", e.ID, "slug", e.Slug)
	r.publish(ctx, &events.EpisodeCreated{
		BaseEvent:     events.NewBaseEvent(events.EventEpisodeCreated, events.EntityEpisode, e.ID, e.Slug),
		ShowID:        e.ShowID,
		SeasonNumber:  e.SeasonNumber,
		EpisodeNumber: e.EpisodeNumber,
		Title:         e.Title,
	})
	return e.ID, nil
}

// CreateIfNotExists returns the ID of the episode e names, creating it
// when absent. A slug set on e is looked up first, so an existing episode is
// found even when e carries nothing else. A concurrent creator winning the
// insert is not an error.
func (r *Repository) CreateIfNotExists(ctx context.Context, e *library.Episode) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("create episode: nil episode: %w", ErrInvalidArgument)
	}
	given := e.Slug
	if given != "" {
		existing, err := r.GetBySlug(ctx, given)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			return existing.ID, nil
		}
	}

	if err := r.checkShow(ctx, e); err != nil {
		return 0, err
	}
	if e.Slug != given {
		existing, err := r.GetByNumber(ctx, e.ShowSlug, e.SeasonNumber, e.EpisodeNumber)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			return existing.ID, nil
		}
	}

	id, err := r.Create(ctx, e)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrDuplicateItem) {
		return 0, err
	}

	existing, err := r.GetByNumber(ctx, e.ShowSlug, e.SeasonNumber, e.EpisodeNumber)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		r.log.Error("duplicate episode vanished", "slug", e.Slug)
		return 0, fmt.Errorf("episode %s reported duplicate but not found: %w", e.Slug, ErrInvariantViolation)
	}
	r.log.Debug("lost create race", "slug", e.Slug, "id", existing.ID)
	return existing.ID, nil
}

// Edit applies ed to the episode its slug names and stores the result.
// With resetToDefaults every editable field is cleared before the set
// fields of ed are applied.
func (r *Repository) Edit(ctx context.Context, ed *EpisodeEdit, resetToDefaults bool) (*library.Episode, error) {
	if ed == nil {
		return nil, fmt.Errorf("edit episode: nil edit: %w", ErrInvalidArgument)
	}
	current, err := r.GetBySlug(ctx, ed.Slug)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("episode %s: %w", ed.Slug, ErrNotFound)
	}

	if resetToDefaults {
		resetEpisode(current)
	}
	fields := ed.apply(current)
	if err := r.Validate(ctx, current); err != nil {
		return nil, err
	}

	if err := r.store.UpdateEpisode(ctx, current); err != nil {
		switch {
		case errors.Is(err, library.ErrNotFound):
			return nil, fmt.Errorf("episode %s: %w", ed.Slug, ErrNotFound)
		case errors.Is(err, library.ErrDuplicate):
			return nil, fmt.Errorf("episode %s: %w", current.Slug, ErrDuplicateItem)
		}
		return nil, err
	}

	r.log.Info("episode edited", "id", current.ID, "slug", current.Slug, "reset", resetToDefaults, "fields", fields)
	r.publish(ctx, &events.EpisodeEdited{
		BaseEvent: events.NewBaseEvent(events.EventEpisodeEdited, events.EntityEpisode, current.ID, current.Slug),
		Reset:     resetToDefaults,
		Fields:    fields,
	})
	return current, nil
}

// Validate checks e before it is written. The show must exist; its slug
// fills ShowSlug and Slug. SeasonID is set when the show has a matching
// season row. Every external id's provider is resolved concurrently and
// the first failure aborts validation.
func (r *Repository) Validate(ctx context.Context, e *library.Episode) error {
	if e == nil {
		return fmt.Errorf("validate episode: nil episode: %w", ErrInvalidArgument)
	}
	if err := r.checkShow(ctx, e); err != nil {
		return err
	}

	season, err := r.store.FindSeason(ctx, e.ShowID, e.SeasonNumber)
	switch {
	case err == nil:
		e.SeasonID = &season.ID
	case errors.Is(err, library.ErrNotFound):
		e.SeasonID = nil
	default:
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range e.ExternalIDs {
		x := &e.ExternalIDs[i]
		g.Go(func() error {
			id, err := r.providers.CreateIfNotExists(gctx, x.Provider)
			if err != nil {
				return fmt.Errorf("resolve provider %q for %s: %w", providerName(x.Provider), x.DataID, err)
			}
			x.ProviderID = id
			x.Provider.ID = id
			return nil
		})
	}
	return g.Wait()
}

// checkShow verifies the show reference and derives the slugs of e.
func (r *Repository) checkShow(ctx context.Context, e *library.Episode) error {
	if e.ShowID <= 0 {
		return fmt.Errorf("episode without show: %w", ErrInvalidState)
	}
	if e.SeasonNumber < 0 || e.EpisodeNumber < 0 {
		return fmt.Errorf("negative season or episode number: %w", ErrInvalidState)
	}
	show, err := r.store.GetShow(ctx, e.ShowID)
	if errors.Is(err, library.ErrNotFound) {
		return fmt.Errorf("show %d does not exist: %w", e.ShowID, ErrInvalidState)
	}
	if err != nil {
		return err
	}
	e.ShowSlug = show.Slug
	e.Slug = library.EpisodeSlug(show.Slug, e.SeasonNumber, e.EpisodeNumber)
	return nil
}

// Delete removes e with its external ids and tracks. Deleting an episode
// that does not exist fails with ErrNotFound.
func (r *Repository) Delete(ctx context.Context, e *library.Episode) error {
	if e == nil {
		return fmt.Errorf("delete episode: nil episode: %w", ErrInvalidArgument)
	}
	if err := r.store.DeleteEpisode(ctx, e.ID); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return fmt.Errorf("episode %d: %w", e.ID, ErrNotFound)
		}
		return err
	}

	r.log.Info("episode deleted", "id", e.ID, "slug", e.Slug)
	r.publish(ctx, &events.EpisodeDeleted{
		BaseEvent: events.NewBaseEvent(events.EventEpisodeDeleted, events.EntityEpisode, e.ID, e.Slug),
	})
	return nil
}

// publish hands e to the publisher. The write already happened, so a
// failure is only logged.
func (r *Repository) publish(ctx context.Context, e events.Event) {
	if r.events == nil {
		return
	}
	if err := r.events.Publish(ctx, e); err != nil {
		r.log.Warn("failed to publish event", "type", e.EventType(), "id", e.EntityID(), "slug", e.EntitySlug(), "error", err)
	}
}

func providerName(p library.Provider) string {
	if p.Slug != "" {
		return p.Slug
	}
	return p.Name
}

func nonNil(episodes []*library.Episode) []*library.Episode {
	if episodes == nil {
		return []*library.Episode{}
	}
	return episodes
}

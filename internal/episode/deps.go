package episode

//go:generate go run go.uber.org/mock/mockgen -source=deps.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/jess-sol/kyoo/internal/events"
	"github.com/jess-sol/kyoo/internal/library"
)

// Gateway is the persistence the repository needs. *library.Store implements it.
type Gateway interface {
	GetEpisode(ctx context.Context, id int64) (*library.Episode, error)
	FindEpisode(ctx context.Context, showSlug string, season, episode int) (*library.Episode, error)
	ListEpisodes(ctx context.Context, f library.EpisodeFilter) ([]*library.Episode, int, error)
	AddEpisode(ctx context.Context, e *library.Episode) error
	UpdateEpisode(ctx context.Context, e *library.Episode) error
	DeleteEpisode(ctx context.Context, id int64) error
	GetShow(ctx context.Context, id int64) (*library.Show, error)
	FindSeason(ctx context.Context, showID int64, seasonNumber int) (*library.Season, error)
}

// ProviderResolver turns a provider descriptor into a persisted provider ID.
// Implementations must be idempotent under concurrent callers.
type ProviderResolver interface {
	CreateIfNotExists(ctx context.Context, p library.Provider) (int64, error)
}

// Publisher receives episode lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

var (
	_ Gateway          = (*library.Store)(nil)
	_ ProviderResolver = (*library.ProviderStore)(nil)
	_ Publisher        = (*events.Bus)(nil)
)

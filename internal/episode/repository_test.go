package episode_test

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/jess-sol/kyoo/internal/episode"
	"github.com/jess-sol/kyoo/internal/events"
	"github.com/jess-sol/kyoo/internal/library"
	"github.com/jess-sol/kyoo/internal/migrations"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T {
	return &v
}

type fixture struct {
	db    *sql.DB
	store *library.Store
	log   *events.EventLog
	repo  *episode.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)

	store := library.NewStore(db)
	log := events.NewEventLog(db)
	bus := events.NewBus(log, testLogger())
	t.Cleanup(func() { _ = bus.Close() })

	return &fixture{
		db:    db,
		store: store,
		log:   log,
		repo:  episode.NewRepository(store, library.NewProviderStore(db), bus, testLogger()),
	}
}

func (f *fixture) addShow(t *testing.T, title string) *library.Show {
	t.Helper()
	sh := &library.Show{Title: title}
	require.NoError(t, f.store.AddShow(t.Context(), sh))
	return sh
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRowContext(t.Context(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestRepository_Scenario(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "The Show")

	ep := &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 2, Title: "The Showdown"}
	id, err := f.repo.Create(t.Context(), ep)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, "the-show-s1-e2", ep.Slug)

	got, err := f.repo.GetByNumber(t.Context(), "the-show", 1, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "the-show", got.ShowSlug)

	bySlug, err := f.repo.GetBySlug(t.Context(), "the-show-s1-e2")
	require.NoError(t, err)
	assert.Equal(t, got, bySlug)

	found, err := f.repo.Search(t.Context(), "show")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].ID)

	again, err := f.repo.CreateIfNotExists(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 2})
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, f.count(t, "episodes"))
}

func TestRepository_Get(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Dark")

	id, err := f.repo.Create(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 1, Title: "Secrets"})
	require.NoError(t, err)

	got, err := f.repo.Get(t.Context(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Secrets", got.Title)
	assert.Equal(t, "dark-s1-e1", got.Slug)

	missing, err := f.repo.Get(t.Context(), id+100)
	require.NoError(t, err, "absent episode is not an error")
	assert.Nil(t, missing)
}

func TestRepository_GetBySlug(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "The End of the F***ing World")
	require.Equal(t, "the-end-of-the-f-ing-world", show.Slug)

	for s := 1; s <= 2; s++ {
		for e := 1; e <= 3; e++ {
			_, err := f.repo.Create(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: s, EpisodeNumber: e})
			require.NoError(t, err)
		}
	}

	for s := 1; s <= 2; s++ {
		for e := 1; e <= 3; e++ {
			slug := fmt.Sprintf("%s-s%d-e%d", show.Slug, s, e)
			bySlug, err := f.repo.GetBySlug(t.Context(), slug)
			require.NoError(t, err)
			byNumber, err := f.repo.GetByNumber(t.Context(), show.Slug, s, e)
			require.NoError(t, err)
			require.NotNil(t, bySlug, slug)
			assert.Equal(t, byNumber, bySlug, slug)
		}
	}

	missing, err := f.repo.GetBySlug(t.Context(), show.Slug+"-s9-e9")
	require.NoError(t, err)
	assert.Nil(t, missing)

	for _, bad := range []string{"the-end", "the-end-s1", "show-e2-s1", "show-sx-e1"} {
		_, err := f.repo.GetBySlug(t.Context(), bad)
		assert.ErrorIs(t, err, episode.ErrInvalidFormat, bad)
	}
}

func TestRepository_Create_Nil(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.Create(t.Context(), nil)
	assert.ErrorIs(t, err, episode.ErrInvalidArgument)
	_, err = f.repo.CreateIfNotExists(t.Context(), nil)
	assert.ErrorIs(t, err, episode.ErrInvalidArgument)
}

func TestRepository_Create_RejectsOrphans(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Dark")

	tests := []struct {
		name string
		ep   *library.Episode
	}{
		{"zero show", &library.Episode{SeasonNumber: 1, EpisodeNumber: 1}},
		{"negative show", &library.Episode{ShowID: -3, SeasonNumber: 1, EpisodeNumber: 1}},
		{"missing show", &library.Episode{ShowID: show.ID + 50, SeasonNumber: 1, EpisodeNumber: 1}},
		{"negative episode", &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.repo.Create(t.Context(), tt.ep)
			require.ErrorIs(t, err, episode.ErrInvalidState)
		})
	}
	assert.Zero(t, f.count(t, "episodes"))
	assert.Zero(t, f.count(t, "events"))
}

func TestRepository_Create_Duplicate(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Dark")

	_, err := f.repo.Create(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 1})
	require.NoError(t, err)

	_, err = f.repo.Create(t.Context(), &library.Episode{
		ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 1,
		Tracks: []library.Track{{Type: library.TrackVideo}},
	})
	require.ErrorIs(t, err, episode.ErrDuplicateItem)
	assert.Contains(t, err.Error(), "dark-s1-e1")
	assert.Equal(t, 1, f.count(t, "episodes"))
	assert.Zero(t, f.count(t, "tracks"), "failed create leaves no children")
}

func TestRepository_Create_ResolvesChildren(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Breaking Bad")
	season := &library.Season{ShowID: show.ID, SeasonNumber: 1, Title: "Season 1"}
	require.NoError(t, f.store.AddSeason(t.Context(), season))

	ep := &library.Episode{
		ShowID:        show.ID,
		SeasonNumber:  1,
		EpisodeNumber: 1,
		Title:         "Pilot",
		ExternalIDs: []library.ExternalID{
			{Provider: library.Provider{Name: "TheTVDB"}, DataID: "349232", Link: "https://thetvdb.com/episodes/349232"},
			{Provider: library.Provider{Slug: "tmdb", Name: "TMDB"}, DataID: "62085"},
			{Provider: library.Provider{Name: "TheTVDB"}, DataID: "dup-provider"},
		},
		Tracks: []library.Track{
			{Type: library.TrackVideo, Codec: "h264", IsDefault: true},
			{Type: library.TrackAudio, Language: "eng", Codec: "aac"},
			{Type: library.TrackSubtitle, IsForced: true},
		},
	}
	id, err := f.repo.Create(t.Context(), ep)
	require.NoError(t, err)

	require.NotNil(t, ep.SeasonID)
	assert.Equal(t, season.ID, *ep.SeasonID)
	for _, x := range ep.ExternalIDs {
		assert.Positive(t, x.ProviderID)
	}
	assert.Equal(t, ep.ExternalIDs[0].ProviderID, ep.ExternalIDs[2].ProviderID)
	assert.Equal(t, 2, f.count(t, "providers"))

	got, err := f.repo.Get(t.Context(), id)
	require.NoError(t, err)
	require.Len(t, got.ExternalIDs, 3)
	assert.Equal(t, "thetvdb", got.ExternalIDs[0].Provider.Slug)
	assert.Equal(t, "62085", got.ExternalIDs[1].DataID)
	assert.Equal(t, "dup-provider", got.ExternalIDs[2].DataID)
	require.Len(t, got.Tracks, 3)
	assert.Equal(t, library.TrackVideo, got.Tracks[0].Type)
	assert.Equal(t, library.UndefinedLanguage, got.Tracks[0].Language)
	assert.Equal(t, "eng", got.Tracks[1].Language)
	assert.True(t, got.Tracks[2].IsForced)

	noSeason, err := f.repo.Create(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: 2, EpisodeNumber: 1})
	require.NoError(t, err)
	other, err := f.repo.Get(t.Context(), noSeason)
	require.NoError(t, err)
	assert.Nil(t, other.SeasonID)
}

func TestRepository_CreateIfNotExists_Idempotent(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Dark")

	first, err := f.repo.CreateIfNotExists(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 1, Title: "Secrets"})
	require.NoError(t, err)
	second, err := f.repo.CreateIfNotExists(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 1, Title: "Other"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.count(t, "episodes"))

	got, err := f.repo.Get(t.Context(), first)
	require.NoError(t, err)
	assert.Equal(t, "Secrets", got.Title, "existing episode is not overwritten")
}

func TestRepository_CreateIfNotExists_BySlug(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "The Show")

	created, err := f.repo.Create(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 2})
	require.NoError(t, err)

	id, err := f.repo.CreateIfNotExists(t.Context(), &library.Episode{Slug: "the-show-s1-e2"})
	require.NoError(t, err)
	assert.Equal(t, created, id)
	assert.Equal(t, 1, f.count(t, "episodes"))
}

func TestRepository_CreateIfNotExists_Concurrent(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Dark")

	const callers = 8
	ids := make([]int64, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i], errs[i] = f.repo.CreateIfNotExists(t.Context(), &library.Episode{
				ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 1,
				ExternalIDs: []library.ExternalID{{Provider: library.Provider{Name: "TheTVDB"}, DataID: "1"}},
			})
		}()
	}
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, f.count(t, "episodes"))
	assert.Equal(t, 1, f.count(t, "providers"))
}

func TestRepository_Edit_SparseMerge(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Dark")

	id, err := f.repo.Create(t.Context(), &library.Episode{
		ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 1,
		Title: "Secrets", Overview: "A boy goes missing.", Runtime: 51,
		Tracks: []library.Track{{Type: library.TrackVideo}},
	})
	require.NoError(t, err)

	edited, err := f.repo.Edit(t.Context(), &episode.EpisodeEdit{Slug: "dark-s1-e1", Title: ptr("Geheimnisse")}, false)
	require.NoError(t, err)
	assert.Equal(t, id, edited.ID)

	got, err := f.repo.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "Geheimnisse", got.Title)
	assert.Equal(t, "A boy goes missing.", got.Overview)
	assert.Equal(t, 51, got.Runtime)
	assert.Len(t, got.Tracks, 1)
}

func TestRepository_Edit_Reset(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Dark")

	id, err := f.repo.Create(t.Context(), &library.Episode{
		ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 1,
		Title: "Secrets", Overview: "A boy goes missing.", Runtime: 51,
		ExternalIDs: []library.ExternalID{{Provider: library.Provider{Name: "TheTVDB"}, DataID: "1"}},
		Tracks:      []library.Track{{Type: library.TrackVideo}},
	})
	require.NoError(t, err)

	_, err = f.repo.Edit(t.Context(), &episode.EpisodeEdit{
		Slug:   "dark-s1-e1",
		Title:  ptr("Geheimnisse"),
		Tracks: &[]library.Track{{Type: library.TrackAudio, Language: "ger"}},
	}, true)
	require.NoError(t, err)

	got, err := f.repo.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "Geheimnisse", got.Title)
	assert.Empty(t, got.Overview)
	assert.Zero(t, got.Runtime)
	assert.Empty(t, got.ExternalIDs)
	require.Len(t, got.Tracks, 1)
	assert.Equal(t, "ger", got.Tracks[0].Language)
	assert.Equal(t, "dark-s1-e1", got.Slug)
	assert.Equal(t, show.ID, got.ShowID)
}

func TestRepository_Edit_Errors(t *testing.T) {
	f := newFixture(t)
	f.addShow(t, "Dark")

	_, err := f.repo.Edit(t.Context(), nil, false)
	require.ErrorIs(t, err, episode.ErrInvalidArgument)

	_, err = f.repo.Edit(t.Context(), &episode.EpisodeEdit{Slug: "dark-s1-e1", Title: ptr("x")}, false)
	require.ErrorIs(t, err, episode.ErrNotFound)

	_, err = f.repo.Edit(t.Context(), &episode.EpisodeEdit{Slug: "dark", Title: ptr("x")}, false)
	require.ErrorIs(t, err, episode.ErrInvalidFormat)
}

func TestRepository_Delete(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Dark")

	ep := &library.Episode{
		ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 1,
		ExternalIDs: []library.ExternalID{{Provider: library.Provider{Name: "TheTVDB"}, DataID: "1"}},
		Tracks:      []library.Track{{Type: library.TrackVideo}, {Type: library.TrackAudio}},
	}
	id, err := f.repo.Create(t.Context(), ep)
	require.NoError(t, err)

	require.NoError(t, f.repo.Delete(t.Context(), ep))

	got, err := f.repo.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, f.count(t, "tracks"))
	assert.Zero(t, f.count(t, "episode_external_ids"))
	assert.Equal(t, 1, f.count(t, "providers"), "providers are shared and outlive episodes")

	err = f.repo.Delete(t.Context(), ep)
	require.ErrorIs(t, err, episode.ErrNotFound)

	require.ErrorIs(t, f.repo.Delete(t.Context(), nil), episode.ErrInvalidArgument)
}

func TestRepository_Search(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Anthology")

	titles := []string{"Pilot", "Showtime", "The Big SHOW", "show", "Finale"}
	for i, title := range titles {
		_, err := f.repo.Create(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: i + 1, Title: title})
		require.NoError(t, err)
	}

	found, err := f.repo.Search(t.Context(), "show")
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "show", found[0].Title, "exact title ranks first")

	none, err := f.repo.Search(t.Context(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	literal, err := f.repo.Search(t.Context(), "%")
	require.NoError(t, err)
	assert.Empty(t, literal, "wildcards are matched literally")
}

func TestRepository_Search_NonASCIICase(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Les Revenants")

	for i, title := range []string{"ÉCOLE", "Écoles du soir", "Camille"} {
		_, err := f.repo.Create(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: i + 1, Title: title})
		require.NoError(t, err)
	}

	found, err := f.repo.Search(t.Context(), "école")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "ÉCOLE", found[0].Title)
	assert.Equal(t, "Écoles du soir", found[1].Title)
}

func TestRepository_Search_Limit(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Long Runner")

	for i := 1; i <= 25; i++ {
		_, err := f.repo.Create(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: i, Title: fmt.Sprintf("Chapter %d", i)})
		require.NoError(t, err)
	}

	found, err := f.repo.Search(t.Context(), "chapter")
	require.NoError(t, err)
	require.Len(t, found, episode.SearchLimit)
	for _, e := range found {
		assert.LessOrEqual(t, e.EpisodeNumber, episode.SearchLimit, "ranking applies to the first matches in show order")
	}
}

func TestRepository_Listings(t *testing.T) {
	f := newFixture(t)
	dark := f.addShow(t, "Dark")
	other := f.addShow(t, "Other")
	season := &library.Season{ShowID: dark.ID, SeasonNumber: 2}
	require.NoError(t, f.store.AddSeason(t.Context(), season))

	for _, ep := range []*library.Episode{
		{ShowID: dark.ID, SeasonNumber: 1, EpisodeNumber: 1},
		{ShowID: dark.ID, SeasonNumber: 1, EpisodeNumber: 2},
		{ShowID: dark.ID, SeasonNumber: 2, EpisodeNumber: 1},
		{ShowID: other.ID, SeasonNumber: 1, EpisodeNumber: 1},
	} {
		_, err := f.repo.Create(t.Context(), ep)
		require.NoError(t, err)
	}

	all, err := f.repo.GetAll(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 4)

	s1, err := f.repo.GetEpisodes(t.Context(), dark.ID, 1)
	require.NoError(t, err)
	assert.Len(t, s1, 2)

	bySlug, err := f.repo.GetEpisodesByShowSlug(t.Context(), "dark", 1)
	require.NoError(t, err)
	assert.Equal(t, s1, bySlug)

	s2, err := f.repo.GetSeasonEpisodes(t.Context(), season.ID)
	require.NoError(t, err)
	require.Len(t, s2, 1)
	assert.Equal(t, "dark-s2-e1", s2[0].Slug)

	empty, err := f.repo.GetEpisodes(t.Context(), dark.ID, 9)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRepository_PublishesEvents(t *testing.T) {
	f := newFixture(t)
	show := f.addShow(t, "Dark")

	ep := &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 1, Title: "Secrets"}
	id, err := f.repo.Create(t.Context(), ep)
	require.NoError(t, err)
	_, err = f.repo.Edit(t.Context(), &episode.EpisodeEdit{Slug: ep.Slug, Overview: ptr("Winden, 2019.")}, false)
	require.NoError(t, err)
	require.NoError(t, f.repo.Delete(t.Context(), ep))

	raws, err := f.log.ForEntity(t.Context(), events.EntityEpisode, id)
	require.NoError(t, err)
	require.Len(t, raws, 3)

	registry := events.DefaultRegistry()
	decoded := make([]events.Event, 0, len(raws))
	for _, raw := range raws {
		e, err := registry.Decode(raw)
		require.NoError(t, err)
		decoded = append(decoded, e)
	}

	created, ok := decoded[0].(*events.EpisodeCreated)
	require.True(t, ok)
	assert.Equal(t, "dark-s1-e1", created.Slug)
	assert.Equal(t, "Secrets", created.Title)

	edited, ok := decoded[1].(*events.EpisodeEdited)
	require.True(t, ok)
	assert.Equal(t, []string{episode.FieldOverview}, edited.Fields)
	assert.False(t, edited.Reset)

	deleted, ok := decoded[2].(*events.EpisodeDeleted)
	require.True(t, ok)
	assert.Equal(t, "dark-s1-e1", deleted.Slug)

	again, err := f.repo.Create(t.Context(), &library.Episode{ShowID: show.ID, SeasonNumber: 1, EpisodeNumber: 1})
	require.NoError(t, err)
	bySlug, err := f.log.ForSlug(t.Context(), events.EntityEpisode, "dark-s1-e1")
	require.NoError(t, err)
	require.Len(t, bySlug, 4, "slug history spans the recreated row")
	assert.Equal(t, again, bySlug[3].EntityID)
}

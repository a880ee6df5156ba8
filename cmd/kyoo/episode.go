package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jess-sol/kyoo/internal/episode"
	"github.com/jess-sol/kyoo/internal/library"
)

type externalIDView struct {
	Provider string `json:"provider"`
	DataID   string `json:"data_id"`
	Link     string `json:"link,omitempty"`
}

type trackView struct {
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Language  string `json:"language"`
	Codec     string `json:"codec,omitempty"`
	IsDefault bool   `json:"is_default,omitempty"`
	IsForced  bool   `json:"is_forced,omitempty"`
}

type episodeView struct {
	ID             int64            `json:"id"`
	Slug           string           `json:"slug"`
	ShowID         int64            `json:"show_id"`
	ShowSlug       string           `json:"show_slug"`
	SeasonID       *int64           `json:"season_id,omitempty"`
	SeasonNumber   int              `json:"season_number"`
	EpisodeNumber  int              `json:"episode_number"`
	AbsoluteNumber int              `json:"absolute_number,omitempty"`
	Title          string           `json:"title,omitempty"`
	Overview       string           `json:"overview,omitempty"`
	Path           string           `json:"path,omitempty"`
	Thumb          string           `json:"thumb,omitempty"`
	Runtime        int              `json:"runtime,omitempty"`
	ReleaseDate    *time.Time       `json:"release_date,omitempty"`
	ExternalIDs    []externalIDView `json:"external_ids"`
	Tracks         []trackView      `json:"tracks"`
}

func newEpisodeView(e *library.Episode) episodeView {
	v := episodeView{
		ID:             e.ID,
		Slug:           e.Slug,
		ShowID:         e.ShowID,
		ShowSlug:       e.ShowSlug,
		SeasonID:       e.SeasonID,
		SeasonNumber:   e.SeasonNumber,
		EpisodeNumber:  e.EpisodeNumber,
		AbsoluteNumber: e.AbsoluteNumber,
		Title:          e.Title,
		Overview:       e.Overview,
		Path:           e.Path,
		Thumb:          e.Thumb,
		Runtime:        e.Runtime,
		ReleaseDate:    e.ReleaseDate,
		ExternalIDs:    make([]externalIDView, 0, len(e.ExternalIDs)),
		Tracks:         make([]trackView, 0, len(e.Tracks)),
	}
	for _, x := range e.ExternalIDs {
		v.ExternalIDs = append(v.ExternalIDs, externalIDView{Provider: x.Provider.Slug, DataID: x.DataID, Link: x.Link})
	}
	for _, tr := range e.Tracks {
		v.Tracks = append(v.Tracks, trackView{
			Type:      string(tr.Type),
			Title:     tr.Title,
			Language:  tr.Language,
			Codec:     tr.Codec,
			IsDefault: tr.IsDefault,
			IsForced:  tr.IsForced,
		})
	}
	return v
}

func init() {
	episodeCmd := &cobra.Command{
		Use:     "episode",
		Aliases: []string{"ep"},
		Short:   "Manage episodes",
	}

	getCmd := &cobra.Command{
		Use:   "get <slug|id>",
		Short: "Show one episode",
		Args:  cobra.ExactArgs(1),
		RunE:  runEpisodeGet,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List episodes",
		Long:  "Lists every episode, the episodes of one season of a show (--show with --season), or those attached to a season row (--season-id).",
		Args:  cobra.NoArgs,
		RunE:  runEpisodeList,
	}
	listCmd.Flags().String("show", "", "Show slug")
	listCmd.Flags().IntP("season", "s", 0, "Season number (with --show)")
	listCmd.Flags().Int64("season-id", 0, "Season ID")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search episodes by title",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEpisodeSearch,
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an episode",
		Example: `  kyoo episode add --show dark --season 1 --episode 1 --title Secrets \
    --external tvdb:6303520 --track video::h264 --track audio:ger:aac`,
		Args: cobra.NoArgs,
		RunE: runEpisodeAdd,
	}
	addCmd.Flags().String("show", "", "Show slug (required)")
	addCmd.Flags().IntP("season", "s", 0, "Season number (required)")
	addCmd.Flags().IntP("episode", "e", 0, "Episode number (required)")
	addCmd.Flags().Bool("if-not-exists", false, "Return the existing episode instead of failing on duplicates")
	addEpisodeFieldFlags(addCmd)
	_ = addCmd.MarkFlagRequired("show")
	_ = addCmd.MarkFlagRequired("season")
	_ = addCmd.MarkFlagRequired("episode")

	editCmd := &cobra.Command{
		Use:   "edit <slug>",
		Short: "Edit an episode",
		Long: `Edits the fields given as flags and keeps the others.
With --reset every field not given is cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: runEpisodeEdit,
	}
	addEpisodeFieldFlags(editCmd)
	editCmd.Flags().Bool("reset", false, "Clear every field not given")
	editCmd.Flags().Bool("clear-external", false, "Remove all external ids")
	editCmd.Flags().Bool("clear-tracks", false, "Remove all tracks")

	deleteCmd := &cobra.Command{
		Use:   "delete <slug|id>",
		Short: "Delete an episode with its external ids and tracks",
		Args:  cobra.ExactArgs(1),
		RunE:  runEpisodeDelete,
	}

	episodeCmd.AddCommand(getCmd, listCmd, searchCmd, addCmd, editCmd, deleteCmd)
	rootCmd.AddCommand(episodeCmd)
}

func addEpisodeFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Title")
	cmd.Flags().String("overview", "", "Overview")
	cmd.Flags().String("path", "", "Media file path")
	cmd.Flags().String("thumb", "", "Thumbnail")
	cmd.Flags().Int("runtime", 0, "Runtime in minutes")
	cmd.Flags().Int("absolute", 0, "Absolute episode number")
	cmd.Flags().String("release-date", "", "Release date (YYYY-MM-DD)")
	cmd.Flags().StringArray("external", nil, "External id as provider:id[:link] (repeatable)")
	cmd.Flags().StringArray("track", nil, "Track as type[:language[:codec]] (repeatable)")
}

// parseExternalID parses provider:id[:link]. The link may itself contain colons.
func parseExternalID(s string) (library.ExternalID, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return library.ExternalID{}, fmt.Errorf("external id %q: want provider:id[:link]", s)
	}
	name := strings.TrimSpace(parts[0])
	x := library.ExternalID{
		Provider: library.Provider{Slug: library.Slugify(name), Name: name},
		DataID:   strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		x.Link = parts[2]
	}
	return x, nil
}

// parseTrack parses type[:language[:codec]].
func parseTrack(s string) (library.Track, error) {
	parts := strings.SplitN(s, ":", 3)
	tr := library.Track{Type: library.TrackType(strings.ToLower(parts[0]))}
	switch tr.Type {
	case library.TrackVideo, library.TrackAudio, library.TrackSubtitle:
	default:
		return library.Track{}, fmt.Errorf("track %q: type must be video, audio or subtitle", s)
	}
	if len(parts) > 1 {
		tr.Language = parts[1]
	}
	if len(parts) > 2 {
		tr.Codec = parts[2]
	}
	return tr, nil
}

func parseReleaseDate(s string) (*time.Time, error) {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("release date %q: want YYYY-MM-DD", s)
	}
	return &d, nil
}

func parseExternalIDs(values []string) ([]library.ExternalID, error) {
	out := make([]library.ExternalID, 0, len(values))
	for _, v := range values {
		x, err := parseExternalID(v)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func parseTracks(values []string) ([]library.Track, error) {
	out := make([]library.Track, 0, len(values))
	for _, v := range values {
		tr, err := parseTrack(v)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, nil
}

// buildEdit turns the flags set on cmd into an edit of slug.
// Flags left untouched stay nil in the edit.
func buildEdit(cmd *cobra.Command, slug string) (*episode.EpisodeEdit, error) {
	flags := cmd.Flags()
	ed := &episode.EpisodeEdit{Slug: slug}

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		ed.Title = &v
	}
	if flags.Changed("overview") {
		v, _ := flags.GetString("overview")
		ed.Overview = &v
	}
	if flags.Changed("path") {
		v, _ := flags.GetString("path")
		ed.Path = &v
	}
	if flags.Changed("thumb") {
		v, _ := flags.GetString("thumb")
		ed.Thumb = &v
	}
	if flags.Changed("runtime") {
		v, _ := flags.GetInt("runtime")
		ed.Runtime = &v
	}
	if flags.Changed("absolute") {
		v, _ := flags.GetInt("absolute")
		ed.AbsoluteNumber = &v
	}
	if flags.Changed("release-date") {
		v, _ := flags.GetString("release-date")
		d, err := parseReleaseDate(v)
		if err != nil {
			return nil, err
		}
		ed.ReleaseDate = d
	}

	clearExternal, _ := flags.GetBool("clear-external")
	if flags.Changed("external") || clearExternal {
		values, _ := flags.GetStringArray("external")
		ids, err := parseExternalIDs(values)
		if err != nil {
			return nil, err
		}
		ed.ExternalIDs = &ids
	}
	clearTracks, _ := flags.GetBool("clear-tracks")
	if flags.Changed("track") || clearTracks {
		values, _ := flags.GetStringArray("track")
		tracks, err := parseTracks(values)
		if err != nil {
			return nil, err
		}
		ed.Tracks = &tracks
	}
	return ed, nil
}

// findEpisode resolves a numeric ID or a slug.
func findEpisode(ctx context.Context, repo *episode.Repository, ref string) (*library.Episode, error) {
	var (
		e   *library.Episode
		err error
	)
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		e, err = repo.Get(ctx, id)
	} else {
		e, err = repo.GetBySlug(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("episode %s: %w", ref, episode.ErrNotFound)
	}
	return e, nil
}

func runEpisodeGet(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		e, err := findEpisode(cmd.Context(), a.episodes, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), newEpisodeView(e))
		}
		printEpisode(cmd.OutOrStdout(), e)
		return nil
	})
}

func printEpisode(w io.Writer, e *library.Episode) {
	fmt.Fprintf(w, "%s (id %d)\n", e.Slug, e.ID)
	fmt.Fprintf(w, "  Title:     %s\n", e.Title)
	fmt.Fprintf(w, "  Show:      %s (id %d)\n", e.ShowSlug, e.ShowID)
	fmt.Fprintf(w, "  Season:    %d\n", e.SeasonNumber)
	fmt.Fprintf(w, "  Episode:   %d\n", e.EpisodeNumber)
	if e.AbsoluteNumber > 0 {
		fmt.Fprintf(w, "  Absolute:  %d\n", e.AbsoluteNumber)
	}
	fmt.Fprintf(w, "  Released:  %s\n", formatDate(e.ReleaseDate))
	if e.Runtime > 0 {
		fmt.Fprintf(w, "  Runtime:   %dm\n", e.Runtime)
	}
	if e.Path != "" {
		fmt.Fprintf(w, "  Path:      %s\n", e.Path)
	}
	if e.Overview != "" {
		fmt.Fprintf(w, "  Overview:  %s\n", e.Overview)
	}

	if len(e.ExternalIDs) > 0 {
		rows := make([][]string, 0, len(e.ExternalIDs))
		for _, x := range e.ExternalIDs {
			rows = append(rows, []string{x.Provider.Slug, x.DataID, x.Link})
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderTable([]string{"Provider", "ID", "Link"}, rows, nil))
	}
	if len(e.Tracks) > 0 {
		rows := make([][]string, 0, len(e.Tracks))
		for _, tr := range e.Tracks {
			var flags []string
			if tr.IsDefault {
				flags = append(flags, "default")
			}
			if tr.IsForced {
				flags = append(flags, "forced")
			}
			rows = append(rows, []string{string(tr.Type), tr.Language, tr.Codec, tr.Title, strings.Join(flags, ",")})
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderTable([]string{"Track", "Language", "Codec", "Title", "Flags"}, rows, nil))
	}
}

func printEpisodes(cmd *cobra.Command, episodes []*library.Episode) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		views := make([]episodeView, 0, len(episodes))
		for _, e := range episodes {
			views = append(views, newEpisodeView(e))
		}
		return printJSON(out, views)
	}
	if len(episodes) == 0 {
		fmt.Fprintln(out, "No episodes.")
		return nil
	}

	rows := make([][]string, 0, len(episodes))
	for _, e := range episodes {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Slug,
			strconv.Itoa(e.SeasonNumber),
			strconv.Itoa(e.EpisodeNumber),
			truncate(e.Title, 40),
			formatDate(e.ReleaseDate),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Slug", "S", "E", "Title", "Released"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	))
	return nil
}

func runEpisodeList(cmd *cobra.Command, args []string) error {
	show, _ := cmd.Flags().GetString("show")
	season, _ := cmd.Flags().GetInt("season")
	seasonID, _ := cmd.Flags().GetInt64("season-id")

	return withApp(cmd.Context(), func(a *app) error {
		var (
			episodes []*library.Episode
			err      error
		)
		switch {
		case cmd.Flags().Changed("season-id"):
			episodes, err = a.episodes.GetSeasonEpisodes(cmd.Context(), seasonID)
		case show != "":
			if !cmd.Flags().Changed("season") {
				return errors.New("--show requires --season")
			}
			episodes, err = a.episodes.GetEpisodesByShowSlug(cmd.Context(), show, season)
		default:
			episodes, err = a.episodes.GetAll(cmd.Context())
		}
		if err != nil {
			return err
		}
		return printEpisodes(cmd, episodes)
	})
}

func runEpisodeSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	return withApp(cmd.Context(), func(a *app) error {
		episodes, err := a.episodes.Search(cmd.Context(), query)
		if err != nil {
			return err
		}
		return printEpisodes(cmd, episodes)
	})
}

func runEpisodeAdd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	showSlug, _ := flags.GetString("show")
	season, _ := flags.GetInt("season")
	number, _ := flags.GetInt("episode")
	ifNotExists, _ := flags.GetBool("if-not-exists")

	e := &library.Episode{SeasonNumber: season, EpisodeNumber: number}
	e.Title, _ = flags.GetString("title")
	e.Overview, _ = flags.GetString("overview")
	e.Path, _ = flags.GetString("path")
	e.Thumb, _ = flags.GetString("thumb")
	e.Runtime, _ = flags.GetInt("runtime")
	e.AbsoluteNumber, _ = flags.GetInt("absolute")
	if v, _ := flags.GetString("release-date"); v != "" {
		d, err := parseReleaseDate(v)
		if err != nil {
			return err
		}
		e.ReleaseDate = d
	}
	externals, _ := flags.GetStringArray("external")
	ids, err := parseExternalIDs(externals)
	if err != nil {
		return err
	}
	e.ExternalIDs = ids
	trackValues, _ := flags.GetStringArray("track")
	tracks, err := parseTracks(trackValues)
	if err != nil {
		return err
	}
	e.Tracks = tracks

	return withApp(cmd.Context(), func(a *app) error {
		sh, err := a.store.GetShowBySlug(cmd.Context(), showSlug)
		if err != nil {
			return fmt.Errorf("show %s: %w", showSlug, err)
		}
		e.ShowID = sh.ID

		var id int64
		if ifNotExists {
			id, err = a.episodes.CreateIfNotExists(cmd.Context(), e)
		} else {
			id, err = a.episodes.Create(cmd.Context(), e)
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			created, err := a.episodes.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newEpisodeView(created))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Episode %s (id %d)\n", library.EpisodeSlug(sh.Slug, season, number), id)
		return nil
	})
}

func runEpisodeEdit(cmd *cobra.Command, args []string) error {
	reset, _ := cmd.Flags().GetBool("reset")
	ed, err := buildEdit(cmd, args[0])
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app) error {
		e, err := a.episodes.Edit(cmd.Context(), ed, reset)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), newEpisodeView(e))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Edited %s\n", e.Slug)
		return nil
	})
}

func runEpisodeDelete(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		e, err := findEpisode(cmd.Context(), a.episodes, args[0])
		if err != nil {
			return err
		}
		if err := a.episodes.Delete(cmd.Context(), e); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"deleted": e.ID, "slug": e.Slug})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", e.Slug)
		return nil
	})
}

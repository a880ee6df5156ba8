// Package library stores shows, seasons, episodes and metadata providers.
package library

import (
	"time"
)

// TrackType distinguishes the kind of media stream a track describes.
type TrackType string

const (
	TrackVideo    TrackType = "video"
	TrackAudio    TrackType = "audio"
	TrackSubtitle TrackType = "subtitle"
)

// UndefinedLanguage is stored for tracks without a language tag.
const UndefinedLanguage = "und"

// Show is the parent of seasons and episodes.
type Show struct {
	ID        int64
	Slug      string
	Title     string
	Overview  string
	StartYear int
	AddedAt   time.Time
}

// Season groups episodes of a show sharing a season number.
type Season struct {
	ID           int64
	ShowID       int64
	SeasonNumber int
	Title        string
}

// Provider is a metadata source referenced by external ids (tvdb, tmdb, ...).
type Provider struct {
	ID   int64
	Slug string
	Name string
	Logo string
}

// ExternalID links an episode to its identifier on a metadata provider.
// ProviderID is zero until the provider has been resolved.
type ExternalID struct {
	ProviderID int64
	Provider   Provider
	DataID     string
	Link       string
}

// Track describes one media stream of an episode's file.
type Track struct {
	Type      TrackType
	Title     string
	Language  string
	Codec     string
	IsDefault bool
	IsForced  bool
	Path      string
}

// Episode is a single episode of a show.
type Episode struct {
	ID             int64
	Slug           string
	ShowID         int64
	ShowSlug       string
	SeasonID       *int64 // nil when no season row exists
	SeasonNumber   int
	EpisodeNumber  int
	AbsoluteNumber int
	Title          string
	Overview       string
	Path           string
	Thumb          string
	Runtime        int // minutes
	ReleaseDate    *time.Time
	ExternalIDs    []ExternalID
	Tracks         []Track
}

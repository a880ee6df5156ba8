// Package library manages shows, seasons, episodes and providers.
package library

// ShowFilter specifies criteria for listing shows.
type ShowFilter struct {
	Title     *string // substring, case-insensitive
	StartYear *int
	Limit     int // 0 = no limit
	Offset    int
}

// EpisodeFilter specifies criteria for listing episodes.
// Nil fields are not filtered on.
type EpisodeFilter struct {
	ShowID       *int64
	ShowSlug     *string
	SeasonID     *int64
	SeasonNumber *int
	Title        *string // substring, case-insensitive
	Limit        int
	Offset       int
}

// internal/events/library.go
package events

// Library event types.
const (
	EventEpisodeCreated = "episode.created"
	EventEpisodeEdited  = "episode.edited"
	EventEpisodeDeleted = "episode.deleted"
)

// EpisodeCreated is emitted when a new episode is stored.
type EpisodeCreated struct {
	BaseEvent
	ShowID        int64  `json:"show_id"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	Title         string `json:"title"`
}

// EpisodeEdited is emitted after an edit has been persisted.
// Fields lists the names of the fields the edit changed.
type EpisodeEdited struct {
	BaseEvent
	Reset  bool     `json:"reset"`
	Fields []string `json:"fields,omitempty"`
}

// EpisodeDeleted is emitted when an episode and its children are removed.
type EpisodeDeleted struct {
	BaseEvent
}

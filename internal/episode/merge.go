package episode

import (
	"time"

	"github.com/jess-sol/kyoo/internal/library"
)

// EpisodeEdit carries the fields an edit sets. A nil field is unset and
// leaves the stored value alone. Slug selects the episode; identity fields
// (ID, show, season and episode numbers) cannot be edited.
type EpisodeEdit struct {
	Slug string

	AbsoluteNumber *int
	Title          *string
	Overview       *string
	Path           *string
	Thumb          *string
	Runtime        *int
	ReleaseDate    *time.Time
	ExternalIDs    *[]library.ExternalID
	Tracks         *[]library.Track
}

// Names of editable fields, reported in episode.edited events.
const (
	FieldAbsoluteNumber = "absolute_number"
	FieldTitle          = "title"
	FieldOverview       = "overview"
	FieldPath           = "path"
	FieldThumb          = "thumb"
	FieldRuntime        = "runtime"
	FieldReleaseDate    = "release_date"
	FieldExternalIDs    = "external_ids"
	FieldTracks         = "tracks"
)

// resetEpisode clears every editable field of e.
func resetEpisode(e *library.Episode) {
	e.AbsoluteNumber = 0
	e.Title = ""
	e.Overview = ""
	e.Path = ""
	e.Thumb = ""
	e.Runtime = 0
	e.ReleaseDate = nil
	e.ExternalIDs = nil
	e.Tracks = nil
}

// apply copies the set fields of ed onto e and returns their names.
func (ed *EpisodeEdit) apply(e *library.Episode) []string {
	var fields []string
	if ed.AbsoluteNumber != nil {
		e.AbsoluteNumber = *ed.AbsoluteNumber
		fields = append(fields, FieldAbsoluteNumber)
	}
	if ed.Title != nil {
		e.Title = *ed.Title
		fields = append(fields, FieldTitle)
	}
	if ed.Overview != nil {
		e.Overview = *ed.Overview
		fields = append(fields, FieldOverview)
	}
	if ed.Path != nil {
		e.Path = *ed.Path
		fields = append(fields, FieldPath)
	}
	if ed.Thumb != nil {
		e.Thumb = *ed.Thumb
		fields = append(fields, FieldThumb)
	}
	if ed.Runtime != nil {
		e.Runtime = *ed.Runtime
		fields = append(fields, FieldRuntime)
	}
	if ed.ReleaseDate != nil {
		d := *ed.ReleaseDate
		e.ReleaseDate = &d
		fields = append(fields, FieldReleaseDate)
	}
	if ed.ExternalIDs != nil {
		e.ExternalIDs = append([]library.ExternalID(nil), (*ed.ExternalIDs)...)
		fields = append(fields, FieldExternalIDs)
	}
	if ed.Tracks != nil {
		e.Tracks = append([]library.Track(nil), (*ed.Tracks)...)
		fields = append(fields, FieldTracks)
	}
	return fields
}

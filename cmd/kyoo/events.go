package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jess-sol/kyoo/internal/events"
)

type eventView struct {
	ID         int64     `json:"id"`
	EventType  string    `json:"event_type"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	EntitySlug string    `json:"entity_slug,omitempty"`
	Payload    string    `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent library events",
	Args:  cobra.NoArgs,
	RunE:  runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().Int64("episode", 0, "Only events of this episode ID")
	eventsCmd.Flags().String("slug", "", "Only events of this episode slug, across recreations")
	eventsCmd.MarkFlagsMutuallyExclusive("episode", "slug")
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	episodeID, _ := cmd.Flags().GetInt64("episode")
	slug, _ := cmd.Flags().GetString("slug")

	return withApp(cmd.Context(), func(a *app) error {
		var (
			raws []events.RawEvent
			err  error
		)
		switch {
		case cmd.Flags().Changed("episode"):
			raws, err = a.eventLog.ForEntity(cmd.Context(), events.EntityEpisode, episodeID)
		case slug != "":
			raws, err = a.eventLog.ForSlug(cmd.Context(), events.EntityEpisode, slug)
		default:
			raws, err = a.eventLog.Recent(cmd.Context(), limit)
		}
		if err != nil {
			return fmt.Errorf("failed to fetch events: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			views := make([]eventView, 0, len(raws))
			for _, r := range raws {
				views = append(views, eventView{
					ID:         r.ID,
					EventType:  r.EventType,
					EntityType: r.EntityType,
					EntityID:   r.EntityID,
					EntitySlug: r.EntitySlug,
					Payload:    r.Payload,
					OccurredAt: r.OccurredAt,
				})
			}
			return printJSON(out, views)
		}

		if len(raws) == 0 {
			fmt.Fprintln(out, "No events")
			return nil
		}

		registry := events.DefaultRegistry()
		now := time.Now()
		rows := make([][]string, 0, len(raws))
		for _, r := range raws {
			rows = append(rows, []string{
				formatTimeAgo(r.OccurredAt, now),
				r.EventType,
				entityRef(r),
				describeEvent(registry, r),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"Time", "Type", "Entity", "Details"}, rows, nil))
		return nil
	})
}

func entityRef(r events.RawEvent) string {
	ref := r.EntityType + "/" + strconv.FormatInt(r.EntityID, 10)
	if r.EntitySlug != "" {
		ref += " " + r.EntitySlug
	}
	return ref
}

// describeEvent summarizes the payload of a logged event for the table
// view. The slug is already in the Entity column.
func describeEvent(registry *events.Registry, r events.RawEvent) string {
	e, err := registry.Decode(r)
	if err != nil {
		return ""
	}
	switch ev := e.(type) {
	case *events.EpisodeCreated:
		return ev.Title
	case *events.EpisodeEdited:
		var parts []string
		if ev.Reset {
			parts = append(parts, "reset")
		}
		if len(ev.Fields) > 0 {
			parts = append(parts, strings.Join(ev.Fields, ", "))
		}
		return strings.Join(parts, ": ")
	}
	return ""
}

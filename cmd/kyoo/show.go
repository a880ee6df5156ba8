package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jess-sol/kyoo/internal/library"
)

type showView struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Overview  string    `json:"overview,omitempty"`
	StartYear int       `json:"start_year,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

func newShowView(sh *library.Show) showView {
	return showView{
		ID:        sh.ID,
		Slug:      sh.Slug,
		Title:     sh.Title,
		Overview:  sh.Overview,
		StartYear: sh.StartYear,
		AddedAt:   sh.AddedAt,
	}
}

func init() {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Manage shows",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a show",
		Args:  cobra.NoArgs,
		RunE:  runShowAdd,
	}
	addCmd.Flags().String("title", "", "Show title (required)")
	addCmd.Flags().String("slug", "", "Slug (default: derived from title)")
	addCmd.Flags().String("overview", "", "Overview")
	addCmd.Flags().Int("year", 0, "Year the show started")
	_ = addCmd.MarkFlagRequired("title")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List shows",
		Args:  cobra.NoArgs,
		RunE:  runShowList,
	}
	listCmd.Flags().String("title", "", "Filter by title substring")
	listCmd.Flags().IntP("limit", "l", 50, "Maximum number of shows to list (0 for all)")

	showCmd.AddCommand(addCmd, listCmd)
	rootCmd.AddCommand(showCmd)
}

func runShowAdd(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	slug, _ := cmd.Flags().GetString("slug")
	overview, _ := cmd.Flags().GetString("overview")
	year, _ := cmd.Flags().GetInt("year")

	return withApp(cmd.Context(), func(a *app) error {
		sh := &library.Show{Slug: slug, Title: title, Overview: overview, StartYear: year}
		if err := a.store.AddShow(cmd.Context(), sh); err != nil {
			return fmt.Errorf("add show: %w", err)
		}
		a.logger.Info("show added", "id", sh.ID, "slug", sh.Slug)

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), newShowView(sh))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added show %s (id %d)\n", sh.Slug, sh.ID)
		return nil
	})
}

func runShowList(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	limit, _ := cmd.Flags().GetInt("limit")

	return withApp(cmd.Context(), func(a *app) error {
		f := library.ShowFilter{Limit: limit}
		if title != "" {
			f.Title = &title
		}
		shows, total, err := a.store.ListShows(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("list shows: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			views := make([]showView, 0, len(shows))
			for _, sh := range shows {
				views = append(views, newShowView(sh))
			}
			return printJSON(out, views)
		}
		if len(shows) == 0 {
			fmt.Fprintln(out, "No shows.")
			return nil
		}

		rows := make([][]string, 0, len(shows))
		for _, sh := range shows {
			year := ""
			if sh.StartYear > 0 {
				year = strconv.Itoa(sh.StartYear)
			}
			rows = append(rows, []string{strconv.FormatInt(sh.ID, 10), sh.Slug, truncate(sh.Title, 40), year})
		}
		fmt.Fprintln(out, renderTable([]string{"ID", "Slug", "Title", "Year"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignRight}))
		if total > len(shows) {
			fmt.Fprintf(out, "Showing %d of %d shows. Use --limit to see more.\n", len(shows), total)
		}
		return nil
	})
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jess-sol/kyoo/internal/library"
)

type seasonView struct {
	ID           int64  `json:"id"`
	ShowID       int64  `json:"show_id"`
	SeasonNumber int    `json:"season_number"`
	Title        string `json:"title,omitempty"`
}

func newSeasonView(se *library.Season) seasonView {
	return seasonView{ID: se.ID, ShowID: se.ShowID, SeasonNumber: se.SeasonNumber, Title: se.Title}
}

func init() {
	seasonCmd := &cobra.Command{
		Use:   "season",
		Short: "Manage seasons",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a season to a show",
		Args:  cobra.NoArgs,
		RunE:  runSeasonAdd,
	}
	addCmd.Flags().String("show", "", "Show slug (required)")
	addCmd.Flags().IntP("number", "n", 0, "Season number (required)")
	addCmd.Flags().String("title", "", "Season title")
	_ = addCmd.MarkFlagRequired("show")
	_ = addCmd.MarkFlagRequired("number")

	listCmd := &cobra.Command{
		Use:   "list <show>",
		Short: "List the seasons of a show",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeasonList,
	}

	seasonCmd.AddCommand(addCmd, listCmd)
	rootCmd.AddCommand(seasonCmd)
}

func runSeasonAdd(cmd *cobra.Command, args []string) error {
	showSlug, _ := cmd.Flags().GetString("show")
	number, _ := cmd.Flags().GetInt("number")
	title, _ := cmd.Flags().GetString("title")

	return withApp(cmd.Context(), func(a *app) error {
		sh, err := a.store.GetShowBySlug(cmd.Context(), showSlug)
		if err != nil {
			return fmt.Errorf("show %s: %w", showSlug, err)
		}
		se := &library.Season{ShowID: sh.ID, SeasonNumber: number, Title: title}
		if err := a.store.AddSeason(cmd.Context(), se); err != nil {
			return fmt.Errorf("add season: %w", err)
		}
		a.logger.Info("season added", "id", se.ID, "show", sh.Slug, "season", number)

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), newSeasonView(se))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added season %d of %s (id %d)\n", number, sh.Slug, se.ID)
		return nil
	})
}

func runSeasonList(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		sh, err := a.store.GetShowBySlug(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("show %s: %w", args[0], err)
		}
		seasons, err := a.store.ListSeasons(cmd.Context(), sh.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			views := make([]seasonView, 0, len(seasons))
			for _, se := range seasons {
				views = append(views, newSeasonView(se))
			}
			return printJSON(out, views)
		}
		if len(seasons) == 0 {
			fmt.Fprintln(out, "No seasons.")
			return nil
		}
		rows := make([][]string, 0, len(seasons))
		for _, se := range seasons {
			rows = append(rows, []string{fmt.Sprint(se.ID), fmt.Sprint(se.SeasonNumber), se.Title})
		}
		fmt.Fprintln(out, renderTable([]string{"ID", "Season", "Title"}, rows, []columnAlignment{alignRight, alignRight, alignLeft}))
		return nil
	})
}

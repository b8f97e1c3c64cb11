package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/icco/podcast/lib/store"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newInspectCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print database counts and the contents of every table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), cc, func(gormDB *gorm.DB) error {
				return inspect(cmd.Context(), cmd.OutOrStdout(), store.New(gormDB, cc.logger))
			})
		},
	}
}

func inspect(ctx context.Context, w io.Writer, s *store.Store) error {
	stats, err := s.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, renderTable("Overview",
		[]string{"Table", "Rows"},
		[][]string{
			{"episodes", strconv.FormatInt(stats.TotalEpisodes, 10)},
			{"guests", strconv.FormatInt(stats.TotalGuests, 10)},
			{"appearances", strconv.FormatInt(stats.TotalAppearances, 10)},
			{"average rating", strconv.FormatFloat(stats.AverageRating, 'f', 2, 64)},
		},
		[]columnAlignment{alignLeft, alignRight}))

	episodes, err := s.ListEpisodes(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(episodes))
	for _, e := range episodes {
		rows = append(rows, []string{formatID(e.ID), strconv.Itoa(e.Number), e.Date})
	}
	fmt.Fprintln(w, renderTable("Episodes", []string{"ID", "Number", "Date"}, rows,
		[]columnAlignment{alignRight, alignRight, alignLeft}))

	guests, err := s.ListGuests(ctx)
	if err != nil {
		return err
	}
	rows = make([][]string, 0, len(guests))
	for _, g := range guests {
		rows = append(rows, []string{formatID(g.ID), g.Name, g.Occupation})
	}
	fmt.Fprintln(w, renderTable("Guests", []string{"ID", "Name", "Occupation"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft}))

	appearances, err := s.ListAppearances(ctx)
	if err != nil {
		return err
	}
	rows = make([][]string, 0, len(appearances))
	for _, a := range appearances {
		var episode, guest string
		if a.Episode != nil {
			episode = strconv.Itoa(a.Episode.Number)
		}
		if a.Guest != nil {
			guest = a.Guest.Name
		}
		rows = append(rows, []string{formatID(a.ID), episode, guest, strconv.Itoa(a.Rating)})
	}
	fmt.Fprintln(w, renderTable("Appearances", []string{"ID", "Episode", "Guest", "Rating"}, rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignRight}))

	return nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

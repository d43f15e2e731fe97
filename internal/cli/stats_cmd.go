package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/rebound/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
	}
	addUserFlag(cmd.PersistentFlags(), &userID)

	var date time.Time
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Summary of one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}
			day := date
			if day.IsZero() {
				day = app.now()
			}
			out, err := app.Stats.Daily(cmd.Context(), userID, day)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDaily(out))
			return nil
		},
	}
	addDateFlag(daily.Flags(), &date, "date", "Day to summarize (default today)")

	weekly := &cobra.Command{
		Use:   "weekly",
		Short: "Seven-day trend, streak and tag minutes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}
			out, err := app.Stats.Weekly(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWeekly(out))
			return nil
		},
	}

	var year, month int
	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Heatmap and weekly subtotals for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}
			now := app.now()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("--month must be 1-12")
			}
			out, err := app.Stats.Monthly(cmd.Context(), userID, year, time.Month(month))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMonthly(out))
			return nil
		},
	}
	monthly.Flags().IntVar(&year, "year", 0, "Year (default current)")
	monthly.Flags().IntVar(&month, "month", 0, "Month 1-12 (default current)")

	tags := &cobra.Command{
		Use:   "tags",
		Short: "Per-tag completion and estimate drift",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}
			out, err := app.Stats.Tags(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTags(out))
			return nil
		},
	}

	cmd.AddCommand(daily, weekly, monthly, tags)
	return cmd
}

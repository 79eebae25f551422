package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/ui/render"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Rebuild the four-week schedule",
	Long: "Discard every scheduled block and generate a new four-week plan starting\n" +
		"at --from (default today). Completed topics are still scheduled; progress\n" +
		"on the old blocks is lost.",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("from")
		from, err := parseDate(raw)
		if err != nil {
			return err
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		blocks, err := env.svc.Regenerate(cmd.Context(), env.tenant, from)
		if err != nil {
			return err
		}
		if len(blocks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to schedule. Add subjects with topics and at least one study day.")
			return nil
		}
		days := make(map[string]bool)
		minutes := 0
		for _, b := range blocks {
			days[schedule.DateKey(b.ScheduledFor)] = true
			minutes += b.Duration
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %d blocks over %d days (%.1fh), %s to %s.\n",
			len(blocks), len(days), float64(minutes)/60,
			schedule.DateKey(blocks[0].ScheduledFor), schedule.DateKey(blocks[len(blocks)-1].ScheduledFor))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every scheduled block",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.svc.ClearSchedule(cmd.Context(), env.tenant); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schedule cleared. Topic progress is kept.")
		return nil
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the blocks for today (or --date)",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("date")
		return showDay(cmd, raw)
	},
}

func showDay(cmd *cobra.Command, rawDate string) error {
	date, err := parseDate(rawDate)
	if err != nil {
		return err
	}
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	day, err := env.svc.Today(cmd.Context(), env.tenant, date)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, day)
	}
	printView(cmd, render.Day(day, outputWidth(cmd)))
	return nil
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the Sunday-to-Saturday week containing today (or --date)",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("date")
		date, err := parseDate(raw)
		if err != nil {
			return err
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		w, err := env.svc.Week(cmd.Context(), env.tenant, date)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd, w)
		}
		printView(cmd, render.Week(w, outputWidth(cmd)))
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <blockID>",
	Short: "Mark a block completed (and its topic studied)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		b, err := env.svc.Complete(cmd.Context(), env.tenant, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Completed %s (%d min).\n", b.ID, b.Duration)
		return nil
	},
}

var skipCmd = &cobra.Command{
	Use:   "skip <blockID>",
	Short: "Mark a block skipped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		b, err := env.svc.Skip(cmd.Context(), env.tenant, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped %s. It will not be rescheduled.\n", b.ID)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("from", "", "First day of the plan, YYYY-MM-DD (default today)")

	todayCmd.Flags().String("date", "", "Day to show, YYYY-MM-DD")
	todayCmd.Flags().Bool("json", false, "Print JSON")
	rootCmd.Flags().Bool("json", false, "Print JSON")

	weekCmd.Flags().String("date", "", "Any day in the week to show, YYYY-MM-DD")
	weekCmd.Flags().Bool("json", false, "Print JSON")
}

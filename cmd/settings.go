package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var weekdayNames = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

// parseWeekdays accepts indexes (0 = Sunday) or three-letter day names,
// separated by spaces or commas.
func parseWeekdays(args []string) ([]int, error) {
	var out []int
	for _, arg := range args {
		for _, f := range strings.Split(arg, ",") {
			f = strings.ToLower(strings.TrimSpace(f))
			if f == "" {
				continue
			}
			if n, err := strconv.Atoi(f); err == nil {
				out = append(out, n)
				continue
			}
			if len(f) >= 3 {
				if n, ok := weekdayNames[f[:3]]; ok {
					out = append(out, n)
					continue
				}
			}
			return nil, fmt.Errorf("unknown weekday %q", f)
		}
	}
	return out, nil
}

func formatWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return "(none)"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return strings.Join(names, " ")
}

var daysCmd = &cobra.Command{
	Use:   "days [weekday...]",
	Short: "Show or set the weekdays you study on",
	Long: "Without arguments, prints the study days. With arguments, replaces them.\n" +
		"Days are 0-6 (Sunday = 0) or names: studyplan days mon wed fri",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if len(args) == 0 {
			set, err := env.svc.Settings(cmd.Context(), env.tenant)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatWeekdays(set.StudyDays))
			return nil
		}

		raw, err := parseWeekdays(args)
		if err != nil {
			return err
		}
		days, err := env.svc.SetStudyDays(cmd.Context(), env.tenant, raw)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Study days: %s\n", formatWeekdays(days))
		fmt.Fprintln(cmd.OutOrStdout(), "Run `studyplan generate` to rebuild the schedule.")
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change scheduling capacity",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		set, err := env.svc.Settings(cmd.Context(), env.tenant)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(set)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one or more settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		set, err := env.svc.Settings(cmd.Context(), env.tenant)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("blocks-per-day") {
			set.BlocksPerDay, _ = flags.GetInt("blocks-per-day")
		}
		if flags.Changed("block-duration") {
			set.BlockDuration, _ = flags.GetInt("block-duration")
		}
		if flags.Changed("subjects-per-day") {
			set.SubjectsPerDay, _ = flags.GetInt("subjects-per-day")
		}
		if flags.Changed("notifications") {
			set.NotificationsEnabled, _ = flags.GetBool("notifications")
		}

		saved, err := env.svc.UpdateSettings(cmd.Context(), env.tenant, set)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(saved)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().Int("blocks-per-day", 0, "Study blocks per study day")
	settingsSetCmd.Flags().Int("block-duration", 0, "Base block length in minutes (medium topics)")
	settingsSetCmd.Flags().Int("subjects-per-day", 0, "Subjects rotated into each study day")
	settingsSetCmd.Flags().Bool("notifications", true, "Enable notifications")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

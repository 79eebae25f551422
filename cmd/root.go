package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studyplan",
	Short: "Weighted study schedule planner",
	Long: "studyplan turns a syllabus of weighted subjects and ordered topics into a\n" +
		"four-week schedule of study blocks, and tracks progress as blocks are done.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showDay(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite file or postgres:// DSN (overrides STUDYPLAN_DB)")
	rootCmd.PersistentFlags().String("tenant", "", "Tenant to act for (overrides STUDYPLAN_TENANT)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().String("log-mode", "", "Logger mode: dev or prod (overrides STUDYPLAN_LOG_MODE)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log store and planner activity to stderr")
	rootCmd.PersistentFlags().Int("width", 0, "Output width in columns (default 72)")

	rootCmd.AddCommand(subjectCmd)
	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(daysCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(skipCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

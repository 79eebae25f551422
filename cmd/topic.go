package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/syllabus"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Manage the topics of a subject",
}

var topicAddCmd = &cobra.Command{
	Use:   "add <subjectID> <name>",
	Short: "Append a topic to a subject",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("difficulty")
		d, err := syllabus.ParseDifficulty(raw)
		if err != nil {
			return err
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		t, err := env.svc.AddTopic(cmd.Context(), env.tenant, args[0], strings.Join(args[1:], " "), d)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) %s\n", t.Name, t.Difficulty, t.ID)
		return nil
	},
}

var topicRmCmd = &cobra.Command{
	Use:   "rm <subjectID> <topicID>",
	Short: "Remove a topic",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.svc.RemoveTopic(cmd.Context(), env.tenant, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
		return nil
	},
}

var topicDoneCmd = &cobra.Command{
	Use:   "done <subjectID> <topicID>",
	Short: "Mark a topic completed without completing a block",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.svc.MarkTopicComplete(cmd.Context(), env.tenant, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Marked completed.")
		return nil
	},
}

func init() {
	topicAddCmd.Flags().StringP("difficulty", "d", "medium", "easy, medium or hard")

	topicCmd.AddCommand(topicAddCmd)
	topicCmd.AddCommand(topicRmCmd)
	topicCmd.AddCommand(topicDoneCmd)
}

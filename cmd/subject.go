package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/syllabus"
	"github.com/abhisek/studyplan/internal/ui/render"
)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Manage subjects",
}

var subjectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a subject",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, _ := cmd.Flags().GetString("color")
		weight, _ := cmd.Flags().GetString("weight")

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		subj, err := env.svc.AddSubject(cmd.Context(), env.tenant,
			strings.Join(args, " "), color, syllabus.ParseWeight(weight))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (weight %d) %s\n", subj.Name, subj.Weight, subj.ID)
		return nil
	},
}

var subjectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List subjects and their topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		subjects, err := env.svc.Subjects(cmd.Context(), env.tenant)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, subjects)
		}
		printView(cmd, render.Subjects(subjects))
		return nil
	},
}

var subjectUpdateCmd = &cobra.Command{
	Use:   "update <subjectID>",
	Short: "Rename, recolor or reweight a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch store.SubjectPatch
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			patch.Name = &v
		}
		if cmd.Flags().Changed("color") {
			v, _ := cmd.Flags().GetString("color")
			patch.Color = &v
		}
		if cmd.Flags().Changed("weight") {
			v, _ := cmd.Flags().GetString("weight")
			w := syllabus.ParseWeight(v)
			patch.Weight = &w
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		subj, err := env.svc.UpdateSubject(cmd.Context(), env.tenant, args[0], patch)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (weight %d)\n", subj.Name, subj.Weight)
		return nil
	},
}

var subjectRmCmd = &cobra.Command{
	Use:   "rm <subjectID>",
	Short: "Remove a subject and its topics",
	Long: "Remove a subject and its topics. Blocks already scheduled for it stay\n" +
		"in the plan until the next `studyplan generate`.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.svc.RemoveSubject(cmd.Context(), env.tenant, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
		return nil
	},
}

func init() {
	subjectAddCmd.Flags().String("color", "", "Hex color (default: next palette color)")
	subjectAddCmd.Flags().String("weight", "", "Relative priority; higher is scheduled first (default 10)")

	subjectListCmd.Flags().Bool("json", false, "Print JSON")

	subjectUpdateCmd.Flags().String("name", "", "New name")
	subjectUpdateCmd.Flags().String("color", "", "New hex color")
	subjectUpdateCmd.Flags().String("weight", "", "New weight")

	subjectCmd.AddCommand(subjectAddCmd)
	subjectCmd.AddCommand(subjectListCmd)
	subjectCmd.AddCommand(subjectUpdateCmd)
	subjectCmd.AddCommand(subjectRmCmd)
}

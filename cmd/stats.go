package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/ui/render"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		o, err := env.svc.Progress(cmd.Context(), env.tenant)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, o)
		}
		printView(cmd, render.Stats(o, outputWidth(cmd)))
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print JSON")
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/syllabus"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import subjects and topics from a JSON or YAML syllabus",
	Long: "Import subjects and topics from a syllabus document. The format follows the\n" +
		"file extension; use --format when reading from stdin (\"-\").\n\n" +
		"  subjects:\n" +
		"    - name: Mathematics\n" +
		"      weight: 10\n" +
		"      topics:\n" +
		"        - name: Limits\n" +
		"          difficulty: easy",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		formatFlag, _ := cmd.Flags().GetString("format")

		var (
			r      io.Reader
			format syllabus.Format
		)
		if path == "-" {
			r = cmd.InOrStdin()
			format = syllabus.FormatJSON
			if formatFlag == "yaml" || formatFlag == "yml" {
				format = syllabus.FormatYAML
			}
		} else {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open syllabus: %w", err)
			}
			defer f.Close()
			r = f
			if format, err = syllabus.FormatFromPath(path); err != nil {
				return err
			}
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		subjects, err := env.svc.ImportSyllabus(cmd.Context(), env.tenant, r, format)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d subjects with %d topics.\n",
			len(subjects), syllabus.TotalTopics(subjects))
		return nil
	},
}

func init() {
	importCmd.Flags().String("format", "json", "Format of stdin input: json or yaml")
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/alerts"
	"github.com/abhisek/studyplan/internal/ui/render"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List, add and dismiss alerts",
}

var alertsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List alerts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		unread, _ := cmd.Flags().GetBool("unread")
		asJSON, _ := cmd.Flags().GetBool("json")

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		list, err := env.svc.Alerts(cmd.Context(), env.tenant)
		if err != nil {
			return err
		}
		if unread {
			filtered := list[:0]
			for _, a := range list {
				if !a.Read {
					filtered = append(filtered, a)
				}
			}
			list = filtered
		}
		if asJSON {
			return printJSON(cmd, list)
		}
		printView(cmd, render.Alerts(list, nil))
		return nil
	},
}

var alertsReadCmd = &cobra.Command{
	Use:   "read <alertID>",
	Short: "Mark an alert as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		return env.svc.MarkAlertRead(cmd.Context(), env.tenant, args[0])
	},
}

var alertsAddCmd = &cobra.Command{
	Use:   "add <type> <message>",
	Short: "Add an alert (revision, delay, overload or achievement)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		a, err := env.svc.AddAlert(cmd.Context(), env.tenant,
			alerts.Type(strings.ToLower(args[0])), strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s alert %s\n", a.Type, a.ID)
		return nil
	},
}

func init() {
	alertsListCmd.Flags().Bool("unread", false, "Only unread alerts")
	alertsListCmd.Flags().Bool("json", false, "Print JSON")

	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsReadCmd)
	alertsCmd.AddCommand(alertsAddCmd)
}

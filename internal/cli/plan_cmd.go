package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/rebound/internal/cli/formatter"
	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	var userID, bedtime string
	var date time.Time
	var manual, apply bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a recovery plan for the rest of the day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}
			req := contract.BuildPlanRequest{Bedtime: bedtime}
			if !date.IsZero() {
				req.TargetDate = date.Format("2006-01-02")
			}

			build := app.Recovery.BuildPlan
			if manual {
				build = app.Recovery.BuildManualPlan
			}
			plan, err := build(cmd.Context(), userID, req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatPlan(plan))

			if !apply {
				fmt.Fprintln(out, formatter.Dim("Apply with: rebound plan apply --user "+userID+" "+plan.PlanID))
				return nil
			}
			resp, err := app.Recovery.ApplyPlan(cmd.Context(), userID, contract.ApplyPlanRequest{PlanID: plan.PlanID})
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatApplied(resp))
			return nil
		},
	}

	addUserFlag(cmd.Flags(), &userID)
	addDateFlag(cmd.Flags(), &date, "date", "Day to recover (default today)")
	cmd.Flags().StringVar(&bedtime, "bedtime", "", "Bedtime as HH:mm (default from config)")
	cmd.Flags().BoolVar(&manual, "manual", false, "Skip the eligibility check")
	cmd.Flags().BoolVar(&apply, "apply", false, "Apply the plan immediately")

	cmd.AddCommand(newPlanApplyCmd(app))
	return cmd
}

func newPlanApplyCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "apply <plan-id>",
		Short: "Apply a stored recovery plan as built",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(userID); err != nil {
				return err
			}
			resp, err := app.Recovery.ApplyPlan(cmd.Context(), userID, contract.ApplyPlanRequest{PlanID: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatApplied(resp))
			return nil
		},
	}
	addUserFlag(cmd.Flags(), &userID)
	return cmd
}

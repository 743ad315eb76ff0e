package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukydev/fleet-maintenance/internal/config"
)

func newSettingsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change reminder thresholds",
	}
	cmd.AddCommand(newSettingsShowCmd(opts), newSettingsSetCmd(opts))
	return cmd
}

func newSettingsShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.LoadSettings(opts.settingsPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  Settings file: %s\n\n", opts.settingsPath)
			fmt.Fprintln(out, "  [Thresholds]")
			fmt.Fprintf(out, "    Mileage: %d (options %v)\n", s.Thresholds.Mileage, config.MileageOptions)
			fmt.Fprintf(out, "    Days:    %d (options %v)\n", s.Thresholds.Days, config.DaysOptions)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "  [Display]")
			fmt.Fprintf(out, "    Distance unit: %s\n", s.Display.DistanceUnit)
			return nil
		},
	}
}

func newSettingsSetCmd(opts *options) *cobra.Command {
	var mileage, days int
	var unit string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change thresholds; unset flags keep their current value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.LoadSettings(opts.settingsPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("mileage") {
				s.Thresholds.Mileage = mileage
			}
			if cmd.Flags().Changed("days") {
				s.Thresholds.Days = days
			}
			if cmd.Flags().Changed("unit") {
				s.Display.DistanceUnit = unit
			}
			if err := config.SaveSettings(opts.settingsPath, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (mileage %d, days %d)\n", opts.settingsPath, s.Thresholds.Mileage, s.Thresholds.Days)
			return nil
		},
	}
	cmd.Flags().IntVar(&mileage, "mileage", 0, "Due-soon distance threshold")
	cmd.Flags().IntVar(&days, "days", 0, "Due-soon days threshold")
	cmd.Flags().StringVar(&unit, "unit", "", "Distance unit (mi or km)")
	return cmd
}

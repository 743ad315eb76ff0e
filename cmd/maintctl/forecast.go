package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
	"github.com/ukydev/fleet-maintenance/internal/forecast"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

func newForecastCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "forecast <vehicle-id>",
		Short: "Show a vehicle's ranked maintenance items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var report forecast.Report
			path := "/vehicles/" + url.PathEscape(args[0]) + "/forecast"
			if err := newAPIClient(opts).do(http.MethodGet, path, nil, &report); err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), &report)
			return nil
		},
	}
}

func newLoginCmd(opts *options) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange the owner passphrase for an API token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			passphrase, err := readPassphrase(cmd.InOrStdin())
			if err != nil {
				return err
			}
			var resp models.LoginResponse
			req := models.LoginRequest{Username: username, Passphrase: passphrase}
			if err := newAPIClient(opts).do(http.MethodPost, "/auth/login", req, &resp); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "owner", "Owner username")
	return cmd
}

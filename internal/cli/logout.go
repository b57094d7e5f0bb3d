package cli

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session and empresa selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Session.Logout(cmd.Context()); err != nil {
			return err
		}
		pterm.Success.Println("Logged out")
		return nil
	},
}

package cli

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the Paquexpress platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		email := loginEmail
		if email == "" {
			email, err = pterm.DefaultInteractiveTextInput.Show("Email")
			if err != nil {
				return err
			}
		}
		password := loginPassword
		if password == "" {
			password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
		}

		user, err := app.Session.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Logged in as %s (%s)\n", user.DisplayName, user.Email)

		res, err := app.Tenants.Resolve(cmd.Context(), app.Config.Host)
		if err != nil {
			return err
		}
		switch {
		case res.Tenant != nil:
			pterm.Info.Printf("Active empresa: %s (%s)\n", res.Tenant.Name, res.Tenant.Slug)
		case res.Redirect != nil:
			pterm.Warning.Printf("No empresa matches %s; administrative area is at %s\n",
				app.Config.Host, res.Redirect.URL)
		default:
			pterm.Info.Println("No empresa selected. Run 'pqx empresas use <slug>' to pick one.")
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")
}

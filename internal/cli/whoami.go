package cli

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/paquexpress/client-go/internal/core/domain"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated account",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if _, err := app.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		user := app.Session.User()
		if user == nil {
			return domain.ErrNotAuthenticated
		}
		pterm.Info.Printf("%s <%s>\n", user.DisplayName, user.Email)
		if user.Phone != "" {
			pterm.Info.Printf("Phone: %s\n", user.Phone)
		}
		if tenant, profile := app.Tenants.Active(); tenant != nil && profile != nil {
			pterm.Info.Printf("Empresa: %s, role %s\n", tenant.Slug, profile.Role)
			if profile.Role == domain.RoleOwner {
				pterm.Info.Println("Administrator of this empresa")
			}
		}
		return nil
	},
}

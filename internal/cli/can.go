package cli

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/paquexpress/client-go/internal/core/domain"
)

var canCmd = &cobra.Command{
	Use:   "can <action>",
	Short: "Check whether the active role permits an action",
	Long: `Checks the action against the active empresa's role, e.g.
"pqx can crear_envio". Advisory only: the server re-authorizes every
request regardless of the local answer.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if _, err := app.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		if app.Session.User() == nil {
			return domain.ErrNotAuthenticated
		}
		if tenant, _ := app.Tenants.Active(); tenant == nil {
			return domain.ErrNoActiveTenant
		}

		if app.Permissions.Can(args[0]) {
			pterm.Success.Printf("allowed: %s\n", args[0])
			return nil
		}
		pterm.Error.Printf("denied: %s\n", args[0])
		return nil
	},
}

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/internal/core/service"
)

// allActions is the display order for the permission table.
var allActions = []string{
	domain.ActionCreateShipment,
	domain.ActionQuoteShipment,
	domain.ActionViewShipments,
	domain.ActionTrackShipment,
	domain.ActionChangeStatus,
	domain.ActionScanLabel,
	domain.ActionConfirmDelivery,
	domain.ActionViewReports,
	domain.ActionManageUsers,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display session, empresa and permission status",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		res, err := app.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		pterm.DefaultSection.Println("Session")
		state := app.Session.State()
		pterm.Info.Printf("State: %s\n", state)

		if state == domain.SessionAuthenticated {
			if user := app.Session.User(); user != nil {
				pterm.Info.Printf("Account: %s (%s)\n", user.DisplayName, user.Email)
			}
			if cred, err := app.Store.Credential(); err == nil && !cred.Empty() {
				if exp, err := cred.ExpiresAt(); err == nil {
					pterm.Info.Printf("Token expires: %s\n", exp.Local().Format(time.RFC1123))
				}
			}
			if last, ok := app.Store.LastAuthSuccess(); ok {
				pterm.Info.Printf("Last successful auth: %s\n", last.Local().Format(time.RFC1123))
			}
		}

		pterm.DefaultSection.Println("Empresa")
		switch {
		case res != nil && res.Redirect != nil:
			pterm.Warning.Printf("No empresa for host %s; administrative area: %s\n",
				app.Config.Host, res.Redirect.URL)
		default:
			tenant, profile := app.Tenants.Active()
			if tenant == nil {
				pterm.Info.Println("No empresa selected")
				return nil
			}
			pterm.Info.Printf("Active: %s (%s)\n", tenant.Name, tenant.Slug)
			if profile != nil {
				pterm.Info.Printf("Role: %s\n", profile.Role)
			}
			printPermissions(app.Permissions)
		}
		return nil
	},
}

func printPermissions(perms *service.Permissions) {
	pterm.DefaultSection.Println("Permissions")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACTION\tALLOWED")
	for _, action := range allActions {
		allowed := "no"
		if perms.Can(action) {
			allowed = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\n", action, allowed)
	}
	w.Flush()
}

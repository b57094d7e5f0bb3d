package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var empresasCmd = &cobra.Command{
	Use:   "empresas",
	Short: "List and switch the active empresa",
}

var empresasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the empresas the account belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if _, err := app.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		list, err := app.Backend.ListTenants(cmd.Context())
		if err != nil {
			return err
		}

		active, _ := app.Tenants.Active()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME\tACTIVE")
		for _, t := range list {
			marker := ""
			if active != nil && active.Slug == t.Slug {
				marker = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.Slug, t.Name, marker)
		}
		return w.Flush()
	},
}

var empresasUseCmd = &cobra.Command{
	Use:   "use <slug>",
	Short: "Switch the active empresa",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if _, err := app.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		if err := app.Tenants.Switch(cmd.Context(), args[0], nil); err != nil {
			return err
		}
		tenant, profile := app.Tenants.Active()
		pterm.Success.Printf("Switched to %s (%s) as %s\n", tenant.Name, tenant.Slug, profile.Role)
		return nil
	},
}

func init() {
	empresasCmd.AddCommand(empresasListCmd)
	empresasCmd.AddCommand(empresasUseCmd)
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var hostFlag string

var rootCmd = &cobra.Command{
	Use:   "pqx",
	Short: "Paquexpress client",
	Long: `pqx is the command-line client for the Paquexpress shipping platform.
It manages the local session (login, renewal, logout) and the active
empresa the session operates under.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "workspace host to resolve the empresa from (overrides PQX_HOST)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(canCmd)
	rootCmd.AddCommand(empresasCmd)
}

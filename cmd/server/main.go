package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "server",
		Short: "Health and safety records service",
		Long: `Serves the incident, CAPA and lookup API.
Without a subcommand the HTTP server is started, as with "server serve".`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// a missing .env is fine, the environment may already be set
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(userCmd())
	return root
}

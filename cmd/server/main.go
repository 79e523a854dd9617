// Package main implements the entry point for the storefront API server:
// it serves the catalog, cart and user endpoints and manages the database
// schema migrations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the binary without a
// subcommand serves HTTP.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront-api",
		Short: "REST API for the storefront catalog, carts and users",
		Long: `storefront-api serves categories, products with image upload,
per-user carts and users over HTTP, backed by PostgreSQL.

Configuration is read from config.yaml in the working directory and from
STOREFRONT_* environment variables.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

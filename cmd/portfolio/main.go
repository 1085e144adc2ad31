// Package main is the entry point for the portfolio server. Without a
// subcommand it runs `serve`.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site with an authenticated admin console",
	Long: `portfolio serves the public portfolio pages and the admin console used
to manage projects. Configuration is read from the environment (and a .env
file when present).`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package cmd implements the portalctl CLI commands.
package cmd

import (
	"encoding/json"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "0.1.0"

	// Global flags
	serverURL    string
	sessionToken string
	outputJSON   bool
)

var (
	okFmt   = color.New(color.FgGreen).SprintFunc()
	errFmt  = color.New(color.FgRed).SprintFunc()
	infoFmt = color.New(color.FgYellow).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "Dealer portal operations CLI",
	Long: `portalctl talks to a running dealer portal API.

It checks capability status for a session token and exercises the
account-switch sign-in flow against the dev identity provider.`,
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Portal API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionToken, "token", os.Getenv("PORTAL_SESSION_TOKEN"), "Session token (default: $PORTAL_SESSION_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Print raw JSON instead of text")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func printJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

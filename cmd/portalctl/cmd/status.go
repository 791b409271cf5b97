package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dealerportal/pkg/authclient"
)

func init() {
	statusCmd.AddCommand(statusAdminCmd)
	statusCmd.AddCommand(statusDealerCmd)
	statusCmd.AddCommand(statusWatchCmd)
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check capability status for the current session token",
}

var statusAdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Check the admin capability",
	Long: `Check whether the session token holds the admin capability.

Examples:
  portalctl status admin
  portalctl status admin --token eyJ...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client := authclient.NewClient(serverURL, sessionToken)
		result, err := client.AdminStatus(cmd.Context())
		if err != nil {
			return statusError(err)
		}
		return printStatus("admin", result)
	},
}

var statusDealerCmd = &cobra.Command{
	Use:   "dealer <email> <subject-id>",
	Short: "Check the approved-dealer capability",
	Long: `Check whether the session token holds the approved-dealer capability.
The email and subject id assert the caller's own identity and must match
the session.

Examples:
  portalctl status dealer dana@summit-imports.test user_2x9a`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := authclient.NewClient(serverURL, sessionToken)
		result, err := client.DealerStatus(cmd.Context(), args[0], args[1])
		if err != nil {
			return statusError(err)
		}
		return printStatus("approved dealer", result)
	},
}

var statusWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Resolve the admin capability with the portal's retry flow",
	Long: `Run the same retrying status check the portal client uses: up to three
attempts with a growing delay on authentication failures, then a terminal
granted/denied/error state.

Examples:
  portalctl status watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client := authclient.NewClient(serverURL, sessionToken)
		hook := authclient.NewHook(func(ctx context.Context) (authclient.StatusResult, error) {
			return client.AdminStatus(ctx)
		}, authclient.HookOptions{})

		hook.Start(cmd.Context())
		hook.Wait()
		snapshot := hook.Snapshot()

		if outputJSON {
			return printJSON(snapshot)
		}
		switch snapshot.State {
		case authclient.StateGranted:
			fmt.Printf("%s after %d attempt(s)\n", okFmt("GRANTED"), snapshot.Attempt)
		case authclient.StateDenied:
			fmt.Printf("%s after %d attempt(s)\n", infoFmt("DENIED"), snapshot.Attempt)
		default:
			fmt.Printf("%s %s (attempt %d)\n", errFmt(string(snapshot.State)), snapshot.Message, snapshot.Attempt)
		}
		return nil
	},
}

func printStatus(capability string, result authclient.StatusResult) error {
	if outputJSON {
		return printJSON(result)
	}
	if result.Granted {
		fmt.Printf("%s %s capability granted\n", okFmt("GRANTED"), capability)
	} else {
		fmt.Printf("%s %s capability not granted\n", infoFmt("DENIED"), capability)
	}
	if result.Profile != nil {
		fmt.Printf("  user: %s <%s> role=%s dealer_status=%s\n",
			result.Profile.Name, result.Profile.Email, result.Profile.Role, result.Profile.DealerStatus)
	}
	return nil
}

func statusError(err error) error {
	var apiErr *authclient.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s %s (HTTP %d)", errFmt(apiErr.Code), apiErr.Message, apiErr.StatusCode)
	}
	return err
}

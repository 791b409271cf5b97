package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dealerportal/pkg/authclient"
	"dealerportal/pkg/identity"
)

var (
	loginPassword string
	loginSettle   time.Duration
)

func init() {
	loginSwitchCmd.Flags().StringVar(&loginPassword, "password", "", "Password for the new account (required)")
	loginSwitchCmd.Flags().DurationVar(&loginSettle, "settle", time.Second, "Delay between sign-out and sign-in")
	_ = loginSwitchCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginSwitchCmd)
}

var loginSwitchCmd = &cobra.Command{
	Use:   "login-switch <email>",
	Short: "Run the account-switch sign-in flow against the dev provider",
	Long: `Sign out the current dev session and sign in as a different account,
printing the same staged status messages the portal shows. Requires the
dev identity provider: the signing secret comes from $SESSION_SECRET and
the current token from --token.

Examples:
  portalctl login-switch dana@summit-imports.test --password hunter2
  portalctl login-switch ops@example.com --password secret --settle 2s`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv("SESSION_SECRET")
		if secret == "" {
			secret = "dev-session-secret"
		}
		provider := identity.NewDevProvider(secret)

		signOut := func(ctx context.Context) error {
			if sessionToken == "" {
				return nil
			}
			return provider.SignOut(ctx, sessionToken)
		}

		ok := authclient.ResolveSessionConflict(
			cmd.Context(),
			signOut,
			provider,
			authclient.Credentials{Email: args[0], Password: loginPassword},
			authclient.ResolverCallbacks{
				OnStatusUpdate: func(level authclient.StatusLevel, message string) {
					switch level {
					case authclient.LevelSuccess:
						fmt.Println(okFmt(message))
					case authclient.LevelError:
						fmt.Println(errFmt(message))
					default:
						fmt.Println(infoFmt(message))
					}
				},
				OnError: func(message string) {
					fmt.Println(errFmt(message))
				},
			},
			authclient.ResolverOptions{SettleDelay: loginSettle},
		)
		if !ok {
			return fmt.Errorf("account switch failed")
		}
		return nil
	},
}

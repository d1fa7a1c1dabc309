package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealwire/internal/domain"
)

// startSessionCmd fetches a peer's pre-key bundle and runs the
// handshake, persisting a new session for future messaging.
func startSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start-session <peer>",
		Short: "Establish a secure session with a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if err := requireRelay(); err != nil {
				return err
			}
			peer := domain.NewAddress(args[0], deviceID)

			if err := appCtx.Sessions.InitiateSession(cmd.Context(), peer); err != nil {
				return fmt.Errorf("starting session with %q: %w", peer, err)
			}
			fmt.Printf("Session created with %s\n", peer)
			return nil
		},
	}
}

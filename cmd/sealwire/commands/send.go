package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealwire/internal/domain"
)

// send <peer> <message>: encrypt and send a sealed message to <peer>.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <peer> <message>",
		Short: "Encrypt and send a sealed message to a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if err := requireRelay(); err != nil {
				return err
			}
			peer := domain.NewAddress(args[0], deviceID)

			if err := appCtx.Messages.Send(cmd.Context(), peer, []byte(args[1])); err != nil {
				return err
			}
			fmt.Println("sent")
			return nil
		},
	}
}

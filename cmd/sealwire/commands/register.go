package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const registerPreKeyCount = 32

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Publish pre-keys to the relay and obtain a sender certificate",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if err := requireRelay(); err != nil {
				return err
			}

			cert, err := appCtx.Register(cmd.Context(), registerPreKeyCount)
			if err != nil {
				return err
			}
			fmt.Printf("Registered %q with relay.\nCertificate valid until %s\n",
				accountName, time.Unix(int64(cert.Expiration), 0).UTC().Format(time.RFC3339))
			return nil
		},
	}
}

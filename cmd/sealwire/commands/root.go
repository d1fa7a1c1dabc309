package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sealwire/internal/app"
)

var (
	home        string
	passphrase  string
	relayURL    string
	accountName string
	deviceID    uint32

	appCtx *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "sealwire",
		Short: "End-to-end encrypted messaging CLI with sealed sender",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".sealwire")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var err error
			appCtx, err = app.NewWire(app.Config{
				Home:       home,
				Passphrase: passphrase,
				RelayURL:   relayURL,
				Name:       accountName,
				DeviceID:   deviceID,
			})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.sealwire)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVar(&accountName, "name", "", "your account name on the relay")
	root.PersistentFlags().Uint32Var(&deviceID, "device", 1, "device id")

	root.AddCommand(
		initCmd(), fingerprintCmd(), registerCmd(),
		startSessionCmd(), sendCmd(), recvCmd(), groupCmd(),
	)
	return root.Execute()
}

func requirePassphrase() error {
	if passphrase == "" {
		return fmt.Errorf("passphrase required (-p)")
	}
	return nil
}

func requireRelay() error {
	if appCtx.Relay == nil {
		return fmt.Errorf("no relay configured. use --relay")
	}
	if accountName == "" {
		return fmt.Errorf("--name required")
	}
	return nil
}

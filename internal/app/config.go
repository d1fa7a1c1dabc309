package app

import (
	"net/http"

	"go.uber.org/zap"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home       string // config directory, e.g. $HOME/.sealwire
	Passphrase string // protects the identity keystore
	RelayURL   string // relay base URL, e.g. http://127.0.0.1:8080
	Name       string // our account name on the relay
	DeviceID   uint32 // our device id; single-device setups use 1

	HTTP   *http.Client // optional; defaults to http.DefaultClient
	Logger *zap.Logger  // optional; defaults to zap.NewNop()
}

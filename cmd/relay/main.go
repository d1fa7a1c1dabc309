package main

import (
	"flag"
	"net/http"
	"os"

	"go.uber.org/zap"

	"sealwire/internal/relay"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	srv, err := relay.NewServer(log)
	if err != nil {
		log.Fatal("init relay", zap.Error(err))
	}

	log.Info("relay listening", zap.String("addr", *addr))
	if err := http.ListenAndServe(*addr, srv.Router()); err != nil {
		log.Fatal("serve", zap.Error(err))
	}
}

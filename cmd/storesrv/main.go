package main

import (
	"context"
	"log"

	"github.com/dvelarde/vigia/internal/storesrv"
	"github.com/dvelarde/vigia/internal/storesrv/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app, err := storesrv.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}

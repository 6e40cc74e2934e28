package main

import (
	"context"
	"log"

	"github.com/dvelarde/vigia/internal/panel/cli"
	"github.com/dvelarde/vigia/internal/panel/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}

package main

import (
	"context"
	"log"
	"os"

	"github.com/schedvault/schedvault/internal/buildinfo"
	"github.com/schedvault/schedvault/internal/client/cli"
	"github.com/schedvault/schedvault/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}

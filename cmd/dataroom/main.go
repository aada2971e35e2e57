package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/dataroom/internal/app"
	"github.com/dmitrijs2005/dataroom/internal/config"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Fatalf("fatal: %v", r)
		}
	}()

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.NewApp(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	a.Run(ctx)
}
